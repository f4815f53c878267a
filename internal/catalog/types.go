package catalog

import "github.com/shopspring/decimal"

// Variant is a purchasable (color, size) combination with its own stock count.
// Inventory here is a snapshot; the upstream catalog stays authoritative.
type Variant struct {
	Color     string `json:"color"`
	Size      string `json:"size"`
	Inventory int    `json:"inventory"`
}

// Product mirrors the upstream catalog's product document.
type Product struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Images   []string        `json:"images"`
	Variants []Variant       `json:"variants"`
}

// VariantInventory returns the stock count for the given color/size, or zero
// when the product no longer carries that variant.
func (p Product) VariantInventory(color, size string) int {
	for _, variant := range p.Variants {
		if variant.Color == color && variant.Size == size {
			return variant.Inventory
		}
	}
	return 0
}

// Filter narrows a product listing request.
type Filter struct {
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     int
	Limit    int
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products   []Product `json:"products"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}
