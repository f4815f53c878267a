package cart

import "github.com/shopspring/decimal"

// Variant is the (color, size) pair a line item was added with.
type Variant struct {
	Color string `json:"color"`
	Size  string `json:"size"`
}

// ProductSnapshot is the slice of the catalog product frozen onto a line item
// when it enters the cart. Prices shown for the cart come from this snapshot,
// not from a re-fetch.
type ProductSnapshot struct {
	ID     string          `json:"_id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Images []string        `json:"images,omitempty"`
}

// LineItem is one (product, variant, quantity) entry in a cart.
type LineItem struct {
	Product  ProductSnapshot `json:"product"`
	Variant  Variant         `json:"variant"`
	Quantity int             `json:"quantity"`
}

// SameLine reports whether two line items share the cart's merge key:
// (product id, color, size). Every lookup, merge, and removal goes through
// this comparison so the matching rule cannot drift between operations.
func SameLine(a, b LineItem) bool {
	return a.Product.ID == b.Product.ID &&
		a.Variant.Color == b.Variant.Color &&
		a.Variant.Size == b.Variant.Size
}

func (li LineItem) matchesKey(productID string, variant Variant) bool {
	return li.Product.ID == productID &&
		li.Variant.Color == variant.Color &&
		li.Variant.Size == variant.Size
}
