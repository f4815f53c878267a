package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/davidcastellanos/shopstream-backend/pkg/logger"
	"github.com/davidcastellanos/shopstream-backend/pkg/metrics"
	"github.com/davidcastellanos/shopstream-backend/pkg/redis"
)

const (
	defaultIdleTTL       = 30 * time.Minute
	defaultSweepInterval = 5 * time.Minute
)

type storeEntry struct {
	store    *Store
	lastUsed time.Time
}

// Manager hands out one Store per shopper, restoring persisted state the
// first time a shopper's cart is touched in this process. Stores idle past
// the TTL are swept out; the cart itself lives in redis, so an evicted
// shopper's next request reloads it.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*storeEntry
	build     func(shopperID string) (*Store, error)
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// ManagerOption customises a Manager.
type ManagerOption func(*Manager)

// WithIdleTTL overrides how long an untouched store stays cached.
func WithIdleTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.idleTTL = ttl
		}
	}
}

// NewManager builds a manager over the shared redis client.
func NewManager(client *redis.Client, cartMetrics *metrics.CartMetrics, logg *logger.Logger, opts ...ManagerOption) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	m := &Manager{
		stores: make(map[string]*storeEntry),
		build: func(shopperID string) (*Store, error) {
			return NewStore(
				NewRedisPersister(client, shopperID),
				NewRedisNotifier(client, shopperID),
				cartMetrics,
				logg,
			)
		},
		idleTTL: defaultIdleTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastSweep = m.now()
	return m, nil
}

// ForShopper returns the shopper's cart store, creating and loading it on
// first use.
func (m *Manager) ForShopper(ctx context.Context, shopperID string) (*Store, error) {
	if shopperID == "" {
		return nil, fmt.Errorf("shopper id required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	if entry, ok := m.stores[shopperID]; ok {
		entry.lastUsed = now
		return entry.store, nil
	}

	store, err := m.build(shopperID)
	if err != nil {
		return nil, err
	}
	if err := store.Load(ctx); err != nil {
		return nil, err
	}

	m.stores[shopperID] = &storeEntry{store: store, lastUsed: now}
	return store, nil
}

// sweepLocked drops stores nobody has touched within the TTL. Amortised on
// the request path so header-less traffic minting fresh shopper IDs cannot
// grow the map without bound.
func (m *Manager) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < defaultSweepInterval {
		return
	}
	for id, entry := range m.stores {
		if now.Sub(entry.lastUsed) >= m.idleTTL {
			delete(m.stores, id)
		}
	}
	m.lastSweep = now
}
