package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"storefront_client/internal/api"
	"storefront_client/internal/domain"
)

// DashboardService wraps the admin aggregate-stats endpoint.
type DashboardService interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

type dashboardService struct {
	client *api.Client
	log    *logrus.Logger
}

func NewDashboardService(client *api.Client, logger *logrus.Logger) DashboardService {
	return &dashboardService{client: client, log: logger}
}

func (s *dashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := s.client.Get(ctx, "/dashboard", &stats); err != nil {
		s.log.Warnf("DashboardService: stats fetch failed: %v", err)
		return nil, err
	}
	return &stats, nil
}
