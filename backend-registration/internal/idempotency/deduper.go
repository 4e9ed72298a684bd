package idempotency

import (
	"context"
	"errors"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a processed event id is remembered
const DefaultTTL = 72 * time.Hour

// EventDeduper remembers processed webhook event ids
type EventDeduper interface {
	// Seen reports whether id was already processed
	Seen(ctx context.Context, id string) (bool, error)
	// Mark records id as processed
	Mark(ctx context.Context, id string) error
}

// RedisDeduper stores event ids as keys with a TTL
type RedisDeduper struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisDeduper creates a deduper; ttl <= 0 uses DefaultTTL
func NewRedisDeduper(client goredis.Cmdable, prefix string, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = "webhook:event:"
	}
	return &RedisDeduper{client: client, prefix: prefix, ttl: ttl}
}

// Seen checks whether the key exists
func (d *RedisDeduper) Seen(ctx context.Context, id string) (bool, error) {
	_, err := d.client.Get(ctx, d.prefix+id).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Mark sets the key only if absent
func (d *RedisDeduper) Mark(ctx context.Context, id string) error {
	return d.client.SetNX(ctx, d.prefix+id, time.Now().UTC().Format(time.RFC3339), d.ttl).Err()
}

// MemoryDeduper keeps event ids in process memory
type MemoryDeduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

// NewMemoryDeduper creates a deduper; ttl <= 0 uses DefaultTTL
func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryDeduper{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

// Seen reports whether id was marked within the TTL
func (d *MemoryDeduper) Seen(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	at, ok := d.seen[id]
	if !ok {
		return false, nil
	}
	if d.now().Sub(at) > d.ttl {
		delete(d.seen, id)
		return false, nil
	}
	return true, nil
}

// Mark records id
func (d *MemoryDeduper) Mark(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; !ok {
		d.seen[id] = d.now()
	}
	return nil
}
