package cart

import (
	"context"
	"testing"
	"time"
)

func newTestManager(t *testing.T, persisters map[string]*fakePersister, now func() time.Time) *Manager {
	t.Helper()
	return &Manager{
		stores: make(map[string]*storeEntry),
		build: func(shopperID string) (*Store, error) {
			persister, ok := persisters[shopperID]
			if !ok {
				t.Fatalf("unexpected shopper %q", shopperID)
			}
			return NewStore(persister, nil, nil, nil)
		},
		idleTTL: defaultIdleTTL,
		now:     now,
	}
}

func TestNewManagerRequiresClient(t *testing.T) {
	t.Parallel()

	if _, err := NewManager(nil, nil, nil); err == nil {
		t.Fatal("expected error for nil redis client")
	}
}

func TestForShopperRequiresID(t *testing.T) {
	t.Parallel()

	manager := &Manager{stores: make(map[string]*storeEntry)}
	if _, err := manager.ForShopper(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty shopper id")
	}
}

func TestForShopperReturnsCachedStore(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	manager := newTestManager(t, nil, func() time.Time { return now })
	manager.lastSweep = now

	seeded := newTestStore(t, &fakePersister{}, nil)
	manager.stores["shopper-1"] = &storeEntry{store: seeded, lastUsed: now}

	store, err := manager.ForShopper(context.Background(), "shopper-1")
	if err != nil {
		t.Fatalf("for shopper: %v", err)
	}
	if store != seeded {
		t.Fatal("expected the cached store for a known shopper")
	}
}

func TestForShopperLoadsPersistedCartOnFirstUse(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	persister := &fakePersister{loadRet: []LineItem{{
		Product:  testProduct("p1", "Linen Shirt"),
		Variant:  Variant{Color: "red", Size: "M"},
		Quantity: 2,
	}}}
	manager := newTestManager(t, map[string]*fakePersister{"shopper-1": persister}, func() time.Time { return now })
	manager.lastSweep = now

	store, err := manager.ForShopper(context.Background(), "shopper-1")
	if err != nil {
		t.Fatalf("for shopper: %v", err)
	}
	items := store.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected persisted cart to be restored, got %+v", items)
	}
}

func TestIdleStoreIsSweptAndReloadedFromPersistence(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	persister := &fakePersister{}
	manager := newTestManager(t, map[string]*fakePersister{"shopper-1": persister}, func() time.Time { return now })
	manager.lastSweep = now

	ctx := context.Background()
	first, err := manager.ForShopper(ctx, "shopper-1")
	if err != nil {
		t.Fatalf("for shopper: %v", err)
	}
	if first.Len() != 0 {
		t.Fatalf("expected empty cart, got %d items", first.Len())
	}

	// State written by another process while this store sat idle.
	persister.loadRet = []LineItem{{
		Product:  testProduct("p1", "Linen Shirt"),
		Variant:  Variant{Color: "red", Size: "M"},
		Quantity: 3,
	}}

	now = now.Add(defaultIdleTTL + time.Minute)
	second, err := manager.ForShopper(ctx, "shopper-1")
	if err != nil {
		t.Fatalf("for shopper after idle: %v", err)
	}
	if second == first {
		t.Fatal("idle store must be evicted and rebuilt")
	}
	items := second.Items()
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected cart reloaded from persistence, got %+v", items)
	}
	if len(manager.stores) != 1 {
		t.Fatalf("expected exactly one cached store, got %d", len(manager.stores))
	}
}

func TestSweepKeepsRecentlyUsedStores(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	active := newTestStore(t, &fakePersister{}, nil)
	manager := newTestManager(t, map[string]*fakePersister{"drive-by": {}}, func() time.Time { return now })
	manager.lastSweep = now.Add(-defaultSweepInterval)
	manager.stores["shopper-1"] = &storeEntry{store: active, lastUsed: now.Add(-time.Minute)}
	manager.stores["shopper-2"] = &storeEntry{store: newTestStore(t, &fakePersister{}, nil), lastUsed: now.Add(-defaultIdleTTL)}

	if _, err := manager.ForShopper(context.Background(), "drive-by"); err != nil {
		t.Fatalf("for shopper: %v", err)
	}

	if _, ok := manager.stores["shopper-1"]; !ok {
		t.Fatal("recently used store must survive the sweep")
	}
	if _, ok := manager.stores["shopper-2"]; ok {
		t.Fatal("idle store must be swept")
	}
}

func TestWithIdleTTLIgnoresNonPositive(t *testing.T) {
	t.Parallel()

	manager := &Manager{idleTTL: defaultIdleTTL}
	WithIdleTTL(0)(manager)
	if manager.idleTTL != defaultIdleTTL {
		t.Fatal("non-positive ttl must keep the default")
	}
	WithIdleTTL(time.Hour)(manager)
	if manager.idleTTL != time.Hour {
		t.Fatalf("expected one hour ttl, got %v", manager.idleTTL)
	}
}
