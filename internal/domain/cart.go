package domain

import "github.com/shopspring/decimal"

type Cart struct {
	ID    int        `json:"id"`
	Items []CartItem `json:"items"`
}

type CartItem struct {
	ID        int             `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Variant   string          `json:"variant,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// ConsistentTotal reports whether the server-computed line total matches
// price × quantity. The client never recomputes Total itself; this exists
// for display-side sanity checks only.
func (i CartItem) ConsistentTotal() bool {
	return i.Total.Equal(i.Price.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// ItemCount sums quantities across line items.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal sums server-computed line totals.
func (c Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.Total)
	}
	return subtotal
}
