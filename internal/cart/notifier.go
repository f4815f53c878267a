package cart

import (
	"context"
	"sync"

	"github.com/davidcastellanos/shopstream-backend/pkg/redis"
)

type publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// RedisNotifier broadcasts cart changes on the shopper's channel. Any
// interested observer (a cart-badge feed, another tab's session) subscribes
// and re-reads the persisted cart when the signal arrives.
type RedisNotifier struct {
	pub     publisher
	channel string
}

// NewRedisNotifier binds a notifier to the shopper's cart channel.
func NewRedisNotifier(client *redis.Client, shopperID string) *RedisNotifier {
	return &RedisNotifier{
		pub:     client,
		channel: client.CartChannel(shopperID),
	}
}

func (n *RedisNotifier) CartChanged(ctx context.Context) error {
	return n.pub.Publish(ctx, n.channel, "updated")
}

// Bus is an in-process Notifier for observers living in the same process.
type Bus struct {
	mu        sync.Mutex
	nextID    int
	observers map[int]func()
}

// NewBus builds an empty observer registry.
func NewBus() *Bus {
	return &Bus{observers: make(map[int]func())}
}

// Subscribe registers an observer and returns its unsubscribe function.
func (b *Bus) Subscribe(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.observers[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.observers, id)
	}
}

func (b *Bus) CartChanged(ctx context.Context) error {
	b.mu.Lock()
	observers := make([]func(), 0, len(b.observers))
	for _, fn := range b.observers {
		observers = append(observers, fn)
	}
	b.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
	return nil
}
