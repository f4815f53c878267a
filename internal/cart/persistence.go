package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/davidcastellanos/shopstream-backend/pkg/redis"
)

type blobStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

// RedisPersister stores one shopper's cart as a single serialized blob under
// a fixed key. Two writers racing on the same key resolve last-write-wins;
// the storefront intentionally adds no cross-writer locking.
type RedisPersister struct {
	store blobStore
	key   string
}

// NewRedisPersister binds a persister to the shopper's cart key.
func NewRedisPersister(client *redis.Client, shopperID string) *RedisPersister {
	return &RedisPersister{
		store: client,
		key:   client.CartKey(shopperID),
	}
}

// Save serializes the full cart and overwrites the blob.
func (p *RedisPersister) Save(ctx context.Context, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := p.store.Set(ctx, p.key, string(blob), 0); err != nil {
		return fmt.Errorf("write cart blob: %w", err)
	}
	return nil
}

// Load deserializes the blob. A missing key is an empty cart; a blob that no
// longer parses is reported as ErrCorruptBlob so the store can fail soft.
func (p *RedisPersister) Load(ctx context.Context) ([]LineItem, error) {
	blob, err := p.store.Get(ctx, p.key)
	if err != nil {
		if redis.IsMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart blob: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptBlob, err)
	}
	return items, nil
}
