package idempotency

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prohmpiriya/tournament-registration/pkg/redis"
)

func TestMemoryDeduper(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDeduper(time.Hour)

	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	seen, err := d.Seen(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, d.Mark(ctx, "evt_1"))
	seen, _ = d.Seen(ctx, "evt_1")
	assert.True(t, seen)

	seen, _ = d.Seen(ctx, "evt_2")
	assert.False(t, seen)

	now = now.Add(2 * time.Hour)
	seen, _ = d.Seen(ctx, "evt_1")
	assert.False(t, seen, "expired ids are forgotten")
}

func TestRedisDeduper_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	ctx := context.Background()
	cfg := redis.DefaultConfig()
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Host = host
	}
	client, err := redis.NewClient(ctx, cfg)
	require.NoError(t, err)
	defer client.Close()

	d := NewRedisDeduper(client, "test:webhook:", time.Minute)
	id := uuid.New().String()
	defer client.Del(ctx, "test:webhook:"+id)

	seen, err := d.Seen(ctx, id)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, d.Mark(ctx, id))
	require.NoError(t, d.Mark(ctx, id))

	seen, err = d.Seen(ctx, id)
	require.NoError(t, err)
	assert.True(t, seen)
}
