package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/davidcastellanos/shopstream-backend/api/middleware"
	"github.com/davidcastellanos/shopstream-backend/api/responses"
	"github.com/davidcastellanos/shopstream-backend/api/validators"
	"github.com/davidcastellanos/shopstream-backend/internal/cart"
	"github.com/davidcastellanos/shopstream-backend/internal/catalog"
	"github.com/davidcastellanos/shopstream-backend/internal/pricing"
	pkgerrors "github.com/davidcastellanos/shopstream-backend/pkg/errors"
	"github.com/davidcastellanos/shopstream-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// StoreProvider hands out the per-shopper cart store.
type StoreProvider interface {
	ForShopper(ctx context.Context, shopperID string) (*cart.Store, error)
}

// ProductReader is the slice of the catalog gateway the cart endpoints need.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

type cartLineResponse struct {
	Product   cart.ProductSnapshot `json:"product"`
	Variant   cart.Variant         `json:"variant"`
	Quantity  int                  `json:"quantity"`
	LineTotal decimal.Decimal      `json:"lineTotal"`
}

type cartResponse struct {
	Items    []cartLineResponse `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Shipping decimal.Decimal    `json:"shipping"`
	Total    decimal.Decimal    `json:"total"`
	// Warning is advisory: the client decides whether to block navigation
	// to checkout on it. The server enforces its own cap at submission.
	Warning string `json:"warning,omitempty"`
}

func newCartResponse(items []cart.LineItem, quote pricing.Quote, cartMaxItems int) cartResponse {
	lines := make([]cartLineResponse, 0, len(items))
	for _, item := range items {
		lines = append(lines, cartLineResponse{
			Product:   item.Product,
			Variant:   item.Variant,
			Quantity:  item.Quantity,
			LineTotal: item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	resp := cartResponse{
		Items:    lines,
		Subtotal: quote.Subtotal,
		Shipping: quote.Shipping,
		Total:    quote.Total,
	}
	if len(items) > cartMaxItems {
		resp.Warning = fmt.Sprintf("Too many items in the cart (maximum %d). Please remove some items.", cartMaxItems)
	}
	return resp
}

func shopperStore(r *http.Request, stores StoreProvider) (*cart.Store, error) {
	shopperID := middleware.ShopperIDFromContext(r.Context())
	if shopperID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "shopper identity missing")
	}
	return stores.ForShopper(r.Context(), shopperID)
}

// CartGet returns the shopper's cart with pricing.
func CartGet(stores StoreProvider, calc *pricing.Calculator, cartMaxItems int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := shopperStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := store.Items()
		responses.WriteSuccess(w, newCartResponse(items, calc.QuoteFor(items), cartMaxItems))
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Color     string `json:"color" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CartAdd puts a product variant in the cart. The product document is
// re-read from the catalog so price, name, and stock are authoritative at
// the moment of the add.
func CartAdd(stores StoreProvider, products ProductReader, calc *pricing.Calculator, cartMaxItems int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := shopperStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant := cart.Variant{Color: payload.Color, Size: payload.Size}
		snapshot := cart.ProductSnapshot{
			ID:     product.ID,
			Name:   product.Name,
			Price:  product.Price,
			Images: product.Images,
		}
		inventory := product.VariantInventory(payload.Color, payload.Size)

		if err := store.Add(r.Context(), snapshot, variant, payload.Quantity, inventory); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := store.Items()
		responses.WriteSuccess(w, newCartResponse(items, calc.QuoteFor(items), cartMaxItems))
	}
}

type updateItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Color     string `json:"color" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// CartUpdate sets a line's quantity. Zero removes the line.
func CartUpdate(stores StoreProvider, products ProductReader, calc *pricing.Calculator, cartMaxItems int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := shopperStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant := cart.Variant{Color: payload.Color, Size: payload.Size}

		if payload.Quantity <= 0 {
			err = store.Remove(r.Context(), payload.ProductID, variant)
		} else {
			product, perr := products.GetProduct(r.Context(), payload.ProductID)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w, perr)
				return
			}
			inventory := product.VariantInventory(payload.Color, payload.Size)
			err = store.UpdateQuantity(r.Context(), payload.ProductID, variant, payload.Quantity, inventory)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := store.Items()
		responses.WriteSuccess(w, newCartResponse(items, calc.QuoteFor(items), cartMaxItems))
	}
}

type removeItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Color     string `json:"color" validate:"required"`
	Size      string `json:"size" validate:"required"`
}

// CartRemove drops a line from the cart.
func CartRemove(stores StoreProvider, calc *pricing.Calculator, cartMaxItems int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload removeItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := shopperStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Remove(r.Context(), payload.ProductID, cart.Variant{Color: payload.Color, Size: payload.Size}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := store.Items()
		responses.WriteSuccess(w, newCartResponse(items, calc.QuoteFor(items), cartMaxItems))
	}
}

// CartClear empties the cart.
func CartClear(stores StoreProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := shopperStore(r, stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
