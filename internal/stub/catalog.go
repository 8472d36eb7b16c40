package stub

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront_client/internal/domain"
)

func (h *handlers) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	categoryID, _ := strconv.Atoi(c.Query("category_id"))

	products, meta := h.store.ListProducts(page, perPage, categoryID)
	c.JSON(http.StatusOK, gin.H{"products": products, "meta": meta})
}

func (h *handlers) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, found := h.store.GetProduct(id)
	if !found {
		Error(c, http.StatusNotFound, fmt.Sprintf("product with ID %d not found", id))
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *handlers) CreateProduct(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	product, err := productFromForm(c)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if product.Name == "" {
		Error(c, http.StatusBadRequest, "product name cannot be empty")
		return
	}
	if product.Price.Sign() <= 0 {
		Error(c, http.StatusBadRequest, "product price must be positive")
		return
	}

	created, err := h.store.CreateProduct(product)
	if err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	h.log.Infof("Stub: product created: ID %d, Name %s", created.ID, created.Name)
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) UpdateProduct(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, err := productFromForm(c)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.store.UpdateProduct(id, product)
	if err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) DeleteProduct(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteProduct(id); err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.store.ListCategories()})
}

func (h *handlers) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	category, found := h.store.GetCategory(id)
	if !found {
		Error(c, http.StatusNotFound, fmt.Sprintf("category with ID %d not found", id))
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *handlers) CreateCategory(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	name := c.PostForm("name")
	if name == "" {
		Error(c, http.StatusBadRequest, "category name cannot be empty")
		return
	}

	category := domain.Category{Name: name, ImageURL: imageURLFromForm(c)}
	c.JSON(http.StatusCreated, h.store.CreateCategory(category))
}

func (h *handlers) UpdateCategory(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	updated, err := h.store.UpdateCategory(id, c.PostForm("name"), imageURLFromForm(c))
	if err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) DeleteCategory(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteCategory(id); err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// productFromForm decodes the multipart/form-data fields product writes
// carry. An uploaded image becomes a synthetic URL; the stub stores no
// bytes.
func productFromForm(c *gin.Context) (domain.Product, error) {
	var product domain.Product
	product.Name = c.PostForm("name")
	product.Description = c.PostForm("description")

	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return product, fmt.Errorf("invalid price format")
		}
		product.Price = price
	}
	if stockStr := c.PostForm("stock"); stockStr != "" {
		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			return product, fmt.Errorf("invalid stock value")
		}
		product.Stock = stock
	}
	if catStr := c.PostForm("category_id"); catStr != "" {
		categoryID, err := strconv.Atoi(catStr)
		if err != nil {
			return product, fmt.Errorf("invalid category ID format")
		}
		product.CategoryID = categoryID
	}
	product.ImageURL = imageURLFromForm(c)
	return product, nil
}

func imageURLFromForm(c *gin.Context) string {
	file, err := c.FormFile("image")
	if err != nil {
		return ""
	}
	return "/uploads/" + file.Filename
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		Error(c, http.StatusBadRequest, "Invalid ID format")
		return 0, false
	}
	return id, true
}
