package stub

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *handlers) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Cart(currentUser(c).ID))
}

func (h *handlers) AddCartItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required"`
		VariantID string `json:"variant_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.store.AddCartItem(currentUser(c).ID, req.ProductID, req.Quantity, req.VariantID)
	if err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) UpdateCartItem(c *gin.Context) {
	var req struct {
		ItemID   int `json:"item_id" binding:"required"`
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.store.UpdateCartItem(currentUser(c).ID, req.ItemID, req.Quantity)
	if err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) RemoveCartItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Query("item_id"))
	if err != nil || itemID <= 0 {
		Error(c, http.StatusBadRequest, "Invalid item_id parameter")
		return
	}

	cart, err := h.store.RemoveCartItem(currentUser(c).ID, itemID)
	if err != nil {
		Error(c, mapErrorToStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, cart)
}
