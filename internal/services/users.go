package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"storefront_client/internal/api"
	"storefront_client/internal/domain"
)

// UserInput carries the writable fields of the admin user CRUD surface.
type UserInput struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email_address" validate:"required,email"`
	Password string      `json:"password,omitempty" validate:"omitempty,min=8"`
	Role     domain.Role `json:"role"`
}

// UserService wraps the admin-only /users endpoints.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int) (*domain.User, error)
	Create(ctx context.Context, input UserInput) (*domain.User, error)
	Update(ctx context.Context, id int, updates map[string]interface{}) (*domain.User, error)
	Delete(ctx context.Context, id int) error
}

type userService struct {
	client   *api.Client
	validate *validator.Validate
	log      *logrus.Logger
}

func NewUserService(client *api.Client, logger *logrus.Logger) UserService {
	return &userService{
		client:   client,
		validate: validator.New(),
		log:      logger,
	}
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	var result struct {
		Users []domain.User `json:"users"`
	}
	if err := s.client.Get(ctx, "/users", &result); err != nil {
		s.log.Warnf("UserService: list failed: %v", err)
		return nil, err
	}
	return result.Users, nil
}

func (s *userService) Get(ctx context.Context, id int) (*domain.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid user ID")
	}
	var user domain.User
	if err := s.client.Get(ctx, fmt.Sprintf("/users/%d", id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	if input.Role == "" {
		input.Role = domain.RoleCustomer
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid user input: %w", err)
	}

	s.log.Infof("UserService: creating user %s", input.Email)
	var user domain.User
	if err := s.client.Post(ctx, "/users", input, &user); err != nil {
		s.log.Errorf("UserService: create failed for %s: %v", input.Email, err)
		return nil, err
	}
	return &user, nil
}

func (s *userService) Update(ctx context.Context, id int, updates map[string]interface{}) (*domain.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid user ID")
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields provided for update")
	}

	var user domain.User
	if err := s.client.Patch(ctx, fmt.Sprintf("/users/%d", id), updates, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid user ID")
	}
	return s.client.Delete(ctx, fmt.Sprintf("/users/%d", id), nil)
}
