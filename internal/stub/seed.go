package stub

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront_client/internal/domain"
)

// Seed populates the store with a demo catalog and two accounts:
// admin@example.com / admin-password and customer@example.com /
// customer-password. Used by cmd/stubserver so a fresh run has data.
func Seed(store *Store, productCount int, logger *logrus.Logger) error {
	if _, err := store.CreateAccount("Admin", "admin@example.com", "admin-password", domain.RoleAdmin, 1); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	if _, err := store.CreateAccount("Customer", "customer@example.com", "customer-password", domain.RoleCustomer, 1); err != nil {
		return fmt.Errorf("failed to seed customer account: %w", err)
	}

	categories := []string{"Apparel", "Electronics", "Home", "Toys"}
	catIDs := make([]int, 0, len(categories))
	for _, name := range categories {
		created := store.CreateCategory(domain.Category{Name: name})
		catIDs = append(catIDs, created.ID)
	}

	for i := 0; i < productCount; i++ {
		product := domain.Product{
			Name:        gofakeit.ProductName(),
			Description: gofakeit.ProductDescription(),
			Price:       decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
			Stock:       gofakeit.Number(1, 100),
			CategoryID:  catIDs[i%len(catIDs)],
		}
		if _, err := store.CreateProduct(product); err != nil {
			return fmt.Errorf("failed to seed product: %w", err)
		}
	}

	logger.Infof("Stub: seeded %d products across %d categories", productCount, len(categories))
	return nil
}
