package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestRedisConfig() *Config {
	cfg := DefaultConfig()

	if host := os.Getenv("TEST_REDIS_HOST"); host != "" {
		cfg.Host = host
	}
	if password := os.Getenv("TEST_REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}

	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr())
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestNewClient_Unreachable(t *testing.T) {
	cfg := &Config{
		Host:          "127.0.0.1",
		Port:          1,
		DialTimeout:   100 * time.Millisecond,
		MaxRetries:    0,
		RetryInterval: 10 * time.Millisecond,
	}

	_, err := NewClient(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewClient_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, getTestRedisConfig())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.HealthCheck(ctx))

	key := "test:client:integration"
	defer client.Del(ctx, key)

	require.NoError(t, client.Set(ctx, key, "v", time.Minute).Err())
	got, err := client.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
