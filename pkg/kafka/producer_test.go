package kafka

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(context.Background(), &ProducerConfig{})
	assert.Error(t, err)
}

func TestNewProducer_Unreachable(t *testing.T) {
	cfg := &ProducerConfig{
		Brokers:     []string{"127.0.0.1:1"},
		ClientID:    "test",
		PingTimeout: 200 * time.Millisecond,
	}
	_, err := NewProducer(context.Background(), cfg)
	assert.Error(t, err)
}

func TestProducer_Topic(t *testing.T) {
	p := &Producer{config: &ProducerConfig{TopicPrefix: "dev."}}
	assert.Equal(t, "dev.registration.contestant-paid", p.Topic("registration.contestant-paid"))
}

func TestProducer_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := DefaultProducerConfig()
	if brokers := os.Getenv("TEST_KAFKA_BROKERS"); brokers != "" {
		cfg.Brokers = strings.Split(brokers, ",")
	}

	ctx := context.Background()
	p, err := NewProducer(ctx, cfg)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.ProduceJSON(ctx, "test.producer", "k1", map[string]string{"hello": "world"}))
}
