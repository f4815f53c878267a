package orders

import (
	"time"

	"github.com/davidcastellanos/shopstream-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// OrderItem is one flattened line of an order payload.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Variant   ItemVariant     `json:"variant"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
}

// ItemVariant is the (color, size) pair snapshotted onto an order line.
type ItemVariant struct {
	Color string `json:"color"`
	Size  string `json:"size"`
}

// Customer carries the contact, address, and payment fields collected at
// checkout.
type Customer struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// SubmitPayload is the request body handed to the upstream order API.
type SubmitPayload struct {
	Items    []OrderItem `json:"items"`
	Customer Customer    `json:"customer"`
}

// Receipt is the upstream acknowledgement of a submitted order.
type Receipt struct {
	OrderNumber string
	Status      enums.OrderStatus
}

// Order is the upstream order document, read-only to the storefront.
type Order struct {
	OrderNumber string            `json:"orderNumber"`
	Status      enums.OrderStatus `json:"status"`
	Items       []OrderItem       `json:"items"`
	Customer    Customer          `json:"customer"`
	CreatedAt   time.Time         `json:"createdAt"`
}
