package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"storefront_client/internal/api"
	"storefront_client/internal/domain"
)

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id int) (*domain.Category, error)
	Create(ctx context.Context, name string, image *ImageFile) (*domain.Category, error)
	Update(ctx context.Context, id int, name string, image *ImageFile) (*domain.Category, error)
	Delete(ctx context.Context, id int) error
}

type categoryService struct {
	client *api.Client
	log    *logrus.Logger
}

func NewCategoryService(client *api.Client, logger *logrus.Logger) CategoryService {
	return &categoryService{client: client, log: logger}
}

func (s *categoryService) List(ctx context.Context) ([]domain.Category, error) {
	var result struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := s.client.Get(ctx, "/categories", &result); err != nil {
		s.log.Warnf("CategoryService: list failed: %v", err)
		return nil, err
	}
	return result.Categories, nil
}

func (s *categoryService) Get(ctx context.Context, id int) (*domain.Category, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid category ID")
	}
	var category domain.Category
	if err := s.client.Get(ctx, fmt.Sprintf("/categories/%d", id), &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *categoryService) Create(ctx context.Context, name string, image *ImageFile) (*domain.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("category name cannot be empty")
	}

	s.log.Infof("CategoryService: creating category '%s'", name)
	var category domain.Category
	if err := s.client.PostForm(ctx, "/categories", categoryForm(name, image), &category); err != nil {
		s.log.Errorf("CategoryService: create failed for '%s': %v", name, err)
		return nil, err
	}
	return &category, nil
}

func (s *categoryService) Update(ctx context.Context, id int, name string, image *ImageFile) (*domain.Category, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid category ID")
	}

	var category domain.Category
	path := fmt.Sprintf("/categories/%d", id)
	if err := s.client.PatchForm(ctx, path, categoryForm(name, image), &category); err != nil {
		s.log.Errorf("CategoryService: update failed for %d: %v", id, err)
		return nil, err
	}
	return &category, nil
}

func (s *categoryService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid category ID")
	}
	return s.client.Delete(ctx, fmt.Sprintf("/categories/%d", id), nil)
}

func categoryForm(name string, image *ImageFile) *api.Form {
	form := api.NewForm().AddField("name", name)
	if image != nil {
		form.AddFile("image", image.Filename, image.Reader)
	}
	return form
}
