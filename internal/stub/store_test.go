package stub

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_client/internal/domain"
)

func seedStore(t *testing.T) (*Store, domain.User, domain.Product) {
	t.Helper()
	s := NewStore()
	user, err := s.CreateAccount("Customer", "c@example.com", "pw-longenough", domain.RoleCustomer, 1)
	require.NoError(t, err)
	product, err := s.CreateProduct(domain.Product{Name: "Mug", Price: decimal.NewFromInt(10), Stock: 5})
	require.NoError(t, err)
	return s, user, product
}

func TestAddCartItemMergesSameLine(t *testing.T) {
	s, user, _ := seedStore(t)

	_, err := s.AddCartItem(user.ID, "1", 2, "")
	require.NoError(t, err)
	cart, err := s.AddCartItem(user.ID, "1", 1, "")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1, "same product and variant merge into one line")
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, cart.Items[0].Total.Equal(decimal.NewFromInt(30)))
}

func TestAddCartItemDistinctVariants(t *testing.T) {
	s, user, _ := seedStore(t)

	_, err := s.AddCartItem(user.ID, "1", 1, "red")
	require.NoError(t, err)
	cart, err := s.AddCartItem(user.ID, "1", 1, "blue")
	require.NoError(t, err)

	assert.Len(t, cart.Items, 2, "different variants stay separate lines")
}

func TestAddCartItemInsufficientStock(t *testing.T) {
	s, user, _ := seedStore(t)

	_, err := s.AddCartItem(user.ID, "1", 6, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")
}

func TestPlaceOrderEmptiesCartAndDecrementsStock(t *testing.T) {
	s, user, product := seedStore(t)

	_, err := s.AddCartItem(user.ID, "1", 2, "")
	require.NoError(t, err)

	order, err := s.PlaceOrder(user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(20)))

	assert.Empty(t, s.Cart(user.ID).Items)
	remaining, ok := s.GetProduct(product.ID)
	require.True(t, ok)
	assert.Equal(t, 3, remaining.Stock)
}

func TestOrderStatusRules(t *testing.T) {
	s, user, _ := seedStore(t)
	_, err := s.AddCartItem(user.ID, "1", 1, "")
	require.NoError(t, err)
	order, err := s.PlaceOrder(user.ID)
	require.NoError(t, err)

	_, err = s.UpdateOrderStatus(order.ID, domain.StatusCompleted)
	require.NoError(t, err)
	_, err = s.UpdateOrderStatus(order.ID, domain.StatusCancelled)
	assert.Error(t, err, "completed orders cannot be cancelled")
}
