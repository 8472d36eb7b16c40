package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"storefront_client/internal/api"
	"storefront_client/internal/domain"
)

type OrderService interface {
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id int) (*domain.Order, error)
	// Place creates an order from the server-side cart. The caller is
	// expected to refresh the cart store afterwards.
	Place(ctx context.Context) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	client *api.Client
	log    *logrus.Logger
}

func NewOrderService(client *api.Client, logger *logrus.Logger) OrderService {
	return &orderService{client: client, log: logger}
}

func (s *orderService) List(ctx context.Context) ([]domain.Order, error) {
	var result struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := s.client.Get(ctx, "/orders", &result); err != nil {
		s.log.Warnf("OrderService: list failed: %v", err)
		return nil, err
	}
	return result.Orders, nil
}

func (s *orderService) Get(ctx context.Context, id int) (*domain.Order, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid order ID")
	}
	var order domain.Order
	if err := s.client.Get(ctx, fmt.Sprintf("/orders/%d", id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *orderService) Place(ctx context.Context) (*domain.Order, error) {
	s.log.Info("OrderService: placing order")
	var order domain.Order
	if err := s.client.Post(ctx, "/orders", nil, &order); err != nil {
		s.log.Errorf("OrderService: place failed: %v", err)
		return nil, err
	}
	s.log.Infof("OrderService: order %d placed (total %s)", order.ID, order.Total)
	return &order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid order ID")
	}
	if !domain.IsValidStatus(status) {
		return nil, fmt.Errorf("invalid target order status: %s", status)
	}

	var order domain.Order
	body := map[string]domain.OrderStatus{"status": status}
	if err := s.client.Patch(ctx, fmt.Sprintf("/orders/%d", id), body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
