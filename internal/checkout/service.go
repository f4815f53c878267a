// Package checkout turns a validated cart into a submitted order. The flow
// re-verifies live inventory right before submission so a cart assembled
// against stale stock counts never reaches the order API.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/davidcastellanos/shopstream-backend/internal/cart"
	"github.com/davidcastellanos/shopstream-backend/internal/catalog"
	"github.com/davidcastellanos/shopstream-backend/internal/orders"
	"github.com/davidcastellanos/shopstream-backend/pkg/enums"
	pkgerrors "github.com/davidcastellanos/shopstream-backend/pkg/errors"
	"github.com/davidcastellanos/shopstream-backend/pkg/logger"
	"github.com/davidcastellanos/shopstream-backend/pkg/metrics"
	"go.uber.org/multierr"
)

// ProductFetcher is the slice of the catalog client the service needs.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// OrderSubmitter is the slice of the orders client the service needs.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, payload orders.SubmitPayload) (*orders.Receipt, error)
}

// Service drives the submission flow end to end.
type Service struct {
	catalog       ProductFetcher
	orders        OrderSubmitter
	metrics       *metrics.CartMetrics
	logg          *logger.Logger
	orderMaxItems int
	now           func() time.Time
}

// NewService wires the checkout flow. orderMaxItems caps how many lines one
// order may carry.
func NewService(catalogClient ProductFetcher, ordersClient OrderSubmitter, orderMaxItems int, cartMetrics *metrics.CartMetrics, logg *logger.Logger) (*Service, error) {
	if catalogClient == nil {
		return nil, fmt.Errorf("catalog client required")
	}
	if ordersClient == nil {
		return nil, fmt.Errorf("orders client required")
	}
	if orderMaxItems < 1 {
		return nil, fmt.Errorf("order item cap must be positive")
	}
	return &Service{
		catalog:       catalogClient,
		orders:        ordersClient,
		metrics:       cartMetrics,
		logg:          logg,
		orderMaxItems: orderMaxItems,
		now:           time.Now,
	}, nil
}

// Submit validates the form and cart, re-checks live inventory, and hands
// the order upstream. On an approved receipt the cart is cleared; any
// failure leaves the cart untouched so the shopper can retry.
func (s *Service) Submit(ctx context.Context, store *cart.Store, form Form) (*orders.Receipt, error) {
	items := store.Items()
	if len(items) == 0 {
		s.countCheckout("rejected_empty")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if fieldErrors := Validate(form, items, s.now(), s.orderMaxItems); len(fieldErrors) > 0 {
		s.countCheckout("rejected_validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Please fix the errors in the form").
			WithDetails(fieldErrors)
	}

	if err := s.verifyInventory(ctx, items); err != nil {
		s.countCheckout("rejected_stale_inventory")
		return nil, err
	}

	receipt, err := s.orders.SubmitOrder(ctx, buildPayload(items, form))
	if err != nil {
		s.countCheckout("failed_upstream")
		return nil, err
	}

	if receipt.Status != enums.OrderStatusApproved {
		s.countCheckout("declined")
		return receipt, pkgerrors.New(pkgerrors.CodeOrderDeclined,
			fmt.Sprintf("Transaction %s. Please try again.", receipt.Status))
	}

	if err := store.Clear(ctx); err != nil {
		// The order went through; a cart that failed to clear is an
		// annoyance, not a checkout failure.
		if s.logg != nil {
			s.logg.Warn(ctx, "order approved but cart clear failed: "+err.Error())
		}
	}

	s.countCheckout("approved")
	return receipt, nil
}

// verifyInventory re-reads every product and confirms the requested quantity
// is still in stock. All stale lines are gathered so the shopper learns
// about every problem in one pass.
func (s *Service) verifyInventory(ctx context.Context, items []cart.LineItem) error {
	var stale error
	details := make([]string, 0)

	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.Product.ID)
		if err != nil {
			// Any fetch failure, a vanished product included, means the
			// stock counts cannot be trusted.
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to verify inventory. Please try again.")
		}

		inventory := product.VariantInventory(item.Variant.Color, item.Variant.Size)
		if item.Quantity > inventory {
			message := fmt.Sprintf("Only %d items available for %s.", inventory, item.Product.Name)
			details = append(details, message)
			stale = multierr.Append(stale, fmt.Errorf("%s", message))
		}
	}

	if stale != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStaleInventory, stale, "inventory changed since the cart was assembled").
			WithDetails(details)
	}
	return nil
}

func buildPayload(items []cart.LineItem, form Form) orders.SubmitPayload {
	orderItems := make([]orders.OrderItem, 0, len(items))
	for _, item := range items {
		var image string
		if len(item.Product.Images) > 0 {
			image = item.Product.Images[0]
		}
		orderItems = append(orderItems, orders.OrderItem{
			ProductID: item.Product.ID,
			Variant:   orders.ItemVariant{Color: item.Variant.Color, Size: item.Variant.Size},
			Quantity:  item.Quantity,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Image:     image,
		})
	}
	return orders.SubmitPayload{
		Items: orderItems,
		Customer: orders.Customer{
			Name:       form.Name,
			Email:      form.Email,
			Phone:      form.Phone,
			Address:    form.Address,
			City:       form.City,
			State:      form.State,
			Zip:        form.Zip,
			CardNumber: form.CardNumber,
			Expiry:     form.Expiry,
			CVV:        form.CVV,
		},
	}
}

func (s *Service) countCheckout(outcome string) {
	if s.metrics != nil {
		s.metrics.IncCheckout(outcome)
	}
}
