package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront_client/internal/api"
	"storefront_client/internal/domain"
)

// ProductInput carries the writable product fields. Image-bearing writes go
// over multipart/form-data, so the input is flattened into form fields.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	CategoryID  int
}

// ImageFile is an optional image attachment for product/category writes.
type ImageFile struct {
	Filename string
	Reader   io.Reader
}

type ProductService interface {
	List(ctx context.Context, page, perPage, categoryID int) (*domain.ProductPage, error)
	Get(ctx context.Context, id int) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput, image *ImageFile) (*domain.Product, error)
	Update(ctx context.Context, id int, input ProductInput, image *ImageFile) (*domain.Product, error)
	Delete(ctx context.Context, id int) error
}

type productService struct {
	client *api.Client
	log    *logrus.Logger
}

func NewProductService(client *api.Client, logger *logrus.Logger) ProductService {
	return &productService{client: client, log: logger}
}

func (s *productService) List(ctx context.Context, page, perPage, categoryID int) (*domain.ProductPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		query.Set("per_page", strconv.Itoa(perPage))
	}
	if categoryID > 0 {
		query.Set("category_id", strconv.Itoa(categoryID))
	}

	path := "/products"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result domain.ProductPage
	if err := s.client.Get(ctx, path, &result); err != nil {
		s.log.Warnf("ProductService: list failed: %v", err)
		return nil, err
	}
	return &result, nil
}

func (s *productService) Get(ctx context.Context, id int) (*domain.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid product ID")
	}
	var product domain.Product
	if err := s.client.Get(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *productService) Create(ctx context.Context, input ProductInput, image *ImageFile) (*domain.Product, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if input.Price.Sign() <= 0 {
		return nil, fmt.Errorf("product price must be positive")
	}

	s.log.Infof("ProductService: creating product '%s'", input.Name)
	var product domain.Product
	if err := s.client.PostForm(ctx, "/products", productForm(input, image), &product); err != nil {
		s.log.Errorf("ProductService: create failed for '%s': %v", input.Name, err)
		return nil, err
	}
	return &product, nil
}

func (s *productService) Update(ctx context.Context, id int, input ProductInput, image *ImageFile) (*domain.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid product ID")
	}

	s.log.Infof("ProductService: updating product %d", id)
	var product domain.Product
	path := fmt.Sprintf("/products/%d", id)
	if err := s.client.PatchForm(ctx, path, productForm(input, image), &product); err != nil {
		s.log.Errorf("ProductService: update failed for %d: %v", id, err)
		return nil, err
	}
	return &product, nil
}

func (s *productService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid product ID")
	}
	return s.client.Delete(ctx, fmt.Sprintf("/products/%d", id), nil)
}

func productForm(input ProductInput, image *ImageFile) *api.Form {
	form := api.NewForm().
		AddField("name", input.Name).
		AddField("description", input.Description).
		AddField("price", input.Price.String()).
		AddField("stock", strconv.Itoa(input.Stock)).
		AddField("category_id", strconv.Itoa(input.CategoryID))
	if image != nil {
		form.AddFile("image", image.Filename, image.Reader)
	}
	return form
}
