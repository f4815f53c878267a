// Package pricing computes cart totals. All money moves through
// shopspring/decimal so repeated unit prices never drift the way binary
// floats do.
package pricing

import (
	"github.com/davidcastellanos/shopstream-backend/internal/cart"
	"github.com/shopspring/decimal"
)

// DefaultFlatShipping is charged on every non-empty order.
var DefaultFlatShipping = decimal.RequireFromString("5.00")

// Calculator derives order totals from cart contents.
type Calculator struct {
	flatShipping decimal.Decimal
}

// NewCalculator builds a calculator with the given flat shipping fee.
// A zero fee is valid; promotions zero it out.
func NewCalculator(flatShipping decimal.Decimal) *Calculator {
	return &Calculator{flatShipping: flatShipping}
}

// Subtotal sums unit price times quantity across every line item.
func (c *Calculator) Subtotal(items []cart.LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		line := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	return subtotal
}

// Shipping returns the flat fee for a non-empty cart and zero otherwise.
func (c *Calculator) Shipping(items []cart.LineItem) decimal.Decimal {
	if len(items) == 0 {
		return decimal.Zero
	}
	return c.flatShipping
}

// Total is the subtotal plus shipping.
func (c *Calculator) Total(items []cart.LineItem) decimal.Decimal {
	return c.Subtotal(items).Add(c.Shipping(items))
}

// Quote bundles the three figures for a single pass over the cart.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// QuoteFor prices the cart in one call.
func (c *Calculator) QuoteFor(items []cart.LineItem) Quote {
	subtotal := c.Subtotal(items)
	shipping := c.Shipping(items)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}
