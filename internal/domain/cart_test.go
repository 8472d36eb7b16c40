package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartDerivedValues(t *testing.T) {
	cart := Cart{
		ID: 1,
		Items: []CartItem{
			{ID: 1, ProductID: "p1", Quantity: 2, Price: decimal.NewFromInt(10), Total: decimal.NewFromInt(20)},
			{ID: 2, ProductID: "p2", Quantity: 3, Price: decimal.RequireFromString("7.50"), Total: decimal.RequireFromString("22.50")},
		},
	}

	assert.Equal(t, 5, cart.ItemCount())
	assert.True(t, cart.Subtotal().Equal(decimal.RequireFromString("42.50")))
}

func TestEmptyCartDerivedValues(t *testing.T) {
	var cart Cart
	assert.Zero(t, cart.ItemCount())
	assert.True(t, cart.Subtotal().IsZero())
}

func TestConsistentTotal(t *testing.T) {
	item := CartItem{Quantity: 3, Price: decimal.RequireFromString("9.99"), Total: decimal.RequireFromString("29.97")}
	assert.True(t, item.ConsistentTotal())

	item.Total = decimal.RequireFromString("29.98")
	assert.False(t, item.ConsistentTotal())
}

func TestCartItemWireShape(t *testing.T) {
	raw := `{"id":4,"product_id":"p9","name":"Mug","variant":"blue","quantity":2,"price":"12.5","total":"25","image_url":"/img/mug.png"}`
	var item CartItem
	require.NoError(t, json.Unmarshal([]byte(raw), &item))

	assert.Equal(t, "p9", item.ProductID)
	assert.Equal(t, "blue", item.Variant)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, item.ConsistentTotal())
}
