package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/davidcastellanos/shopstream-backend/pkg/logger"
	"github.com/davidcastellanos/shopstream-backend/pkg/metrics"
	pkgerrors "github.com/davidcastellanos/shopstream-backend/pkg/errors"
)

// Persister saves and restores one shopper's serialized cart blob.
type Persister interface {
	Save(ctx context.Context, items []LineItem) error
	Load(ctx context.Context) ([]LineItem, error)
}

// Notifier broadcasts that the cart changed. Observers react by re-reading
// cart state; the store always persists before it notifies, so a reader
// triggered by the broadcast sees the new blob.
type Notifier interface {
	CartChanged(ctx context.Context) error
}

// ErrCorruptBlob marks a persisted cart that could not be deserialized.
var ErrCorruptBlob = errors.New("corrupt cart blob")

// Store owns one shopper's ordered line items. Mutations run under a mutex
// and complete atomically; inventory numbers are advisory and supplied by the
// caller, which is expected to have refreshed them from the catalog. The
// store itself never talks to the catalog.
type Store struct {
	mu        sync.Mutex
	items     []LineItem
	persister Persister
	notifier  Notifier
	metrics   *metrics.CartMetrics
	logg      *logger.Logger
}

// NewStore builds a cart store over the provided persistence and
// notification ports.
func NewStore(persister Persister, notifier Notifier, cartMetrics *metrics.CartMetrics, logg *logger.Logger) (*Store, error) {
	if persister == nil {
		return nil, fmt.Errorf("cart persister required")
	}
	return &Store{
		persister: persister,
		notifier:  notifier,
		metrics:   cartMetrics,
		logg:      logg,
	}, nil
}

// Load restores the cart from persisted storage. A corrupt blob is treated as
// an empty cart: logged, never surfaced to the shopper.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.persister.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrCorruptBlob) {
			if s.logg != nil {
				s.logg.Warn(ctx, "discarding corrupt cart blob")
			}
			s.items = nil
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	s.items = items
	return nil
}

// Add puts quantity units of the given product variant into the cart,
// merging into an existing line when the (product, color, size) key matches.
// availableInventory is the caller's last-known stock count for the variant.
func (s *Store) Add(ctx context.Context, product ProductSnapshot, variant Variant, quantity, availableInventory int) error {
	if quantity < 1 {
		s.countMutation("add", "rejected_invalid")
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if availableInventory == 0 {
		s.countMutation("add", "rejected_out_of_stock")
		return pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("%s is out of stock", product.Name))
	}
	if quantity > availableInventory {
		s.countMutation("add", "rejected_stock_limit")
		return stockLimitError(product.Name, availableInventory)
	}

	candidate := LineItem{Product: product, Variant: variant, Quantity: quantity}
	for i := range s.items {
		if !SameLine(s.items[i], candidate) {
			continue
		}
		merged := s.items[i].Quantity + quantity
		if merged > availableInventory {
			s.countMutation("add", "rejected_stock_limit")
			return stockLimitError(product.Name, availableInventory)
		}
		prev := s.snapshotLocked()
		s.items[i].Quantity = merged
		if err := s.persistAndNotifyLocked(ctx, prev); err != nil {
			return err
		}
		s.countMutation("add", "accepted")
		return nil
	}

	prev := s.snapshotLocked()
	s.items = append(s.items, candidate)
	if err := s.persistAndNotifyLocked(ctx, prev); err != nil {
		return err
	}
	s.countMutation("add", "accepted")
	return nil
}

// Remove deletes the line item matching the key. Removing a key that is not
// in the cart is a no-op that still persists and notifies.
func (s *Store) Remove(ctx context.Context, productID string, variant Variant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, productID, variant)
}

func (s *Store) removeLocked(ctx context.Context, productID string, variant Variant) error {
	prev := s.snapshotLocked()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.matchesKey(productID, variant) {
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	if err := s.persistAndNotifyLocked(ctx, prev); err != nil {
		return err
	}
	s.countMutation("remove", "accepted")
	return nil
}

// UpdateQuantity overwrites the matching line's quantity. A target of zero or
// below removes the line; a target above the caller's last-known stock count
// rejects the update and leaves the cart untouched.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, variant Variant, newQuantity, availableInventory int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if newQuantity <= 0 {
		return s.removeLocked(ctx, productID, variant)
	}
	if newQuantity > availableInventory {
		s.countMutation("update", "rejected_stock_limit")
		return pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("only %d items available in stock", availableInventory))
	}

	prev := s.snapshotLocked()
	for i := range s.items {
		if s.items[i].matchesKey(productID, variant) {
			s.items[i].Quantity = newQuantity
			break
		}
	}
	if err := s.persistAndNotifyLocked(ctx, prev); err != nil {
		return err
	}
	s.countMutation("update", "accepted")
	return nil
}

// Clear empties the cart. Called after a successful order and on logout.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.snapshotLocked()
	s.items = nil
	if err := s.persistAndNotifyLocked(ctx, prev); err != nil {
		return err
	}
	s.countMutation("clear", "accepted")
	return nil
}

// Items returns a copy of the cart in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// persistAndNotifyLocked saves the full cart and then broadcasts the change.
// A failed save rolls the in-memory cart back to prev so the caller observes
// no partial mutation; a failed broadcast is logged but not fatal, since the
// durable state already advanced.
func (s *Store) persistAndNotifyLocked(ctx context.Context, prev []LineItem) error {
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		s.items = prev
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	if s.notifier != nil {
		if err := s.notifier.CartChanged(ctx); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "cart change broadcast failed: "+err.Error())
		}
	}
	return nil
}

func (s *Store) snapshotLocked() []LineItem {
	if len(s.items) == 0 {
		return nil
	}
	snapshot := make([]LineItem, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

func (s *Store) countMutation(op, outcome string) {
	if s.metrics != nil {
		s.metrics.IncMutation(op, outcome)
	}
}

func stockLimitError(productName string, available int) error {
	return pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("only %d items available in stock for %s", available, productName))
}
