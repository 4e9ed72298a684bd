package event

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/dto"
	"github.com/prohmpiriya/tournament-registration/pkg/kafka"
)

func TestMemoryPublisher(t *testing.T) {
	p := NewMemoryPublisher()
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, &dto.ContestantRegisteredEvent{ContestantID: "a"}))
	require.NoError(t, p.Publish(ctx, &dto.ContestantPaidEvent{ContestantID: "a"}))
	require.NoError(t, p.Publish(ctx, &dto.ContestantRegisteredEvent{ContestantID: "b"}))

	assert.Len(t, p.Events(""), 3)
	registered := p.Events(dto.TopicContestantRegistered)
	require.Len(t, registered, 2)
	assert.Equal(t, "b", registered[1].Key())
	assert.Len(t, p.Events(dto.TopicContestantPaid), 1)
}

func TestNoOpPublisher(t *testing.T) {
	var p Publisher = NoOpPublisher{}
	assert.NoError(t, p.Publish(context.Background(), &dto.ContestantPaidEvent{}))
	p.Close()
}

func TestKafkaPublisher_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}

	cfg := kafka.DefaultProducerConfig()
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Brokers = []string{brokers}
	}
	cfg.TopicPrefix = "test."

	producer, err := kafka.NewProducer(context.Background(), cfg)
	require.NoError(t, err)

	p := NewKafkaPublisher(producer)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	assert.NoError(t, p.Publish(ctx, &dto.ContestantPaidEvent{
		EventType:    dto.EventTypeContestantPaid,
		ContestantID: "integration",
		Timestamp:    time.Now(),
	}))
}
