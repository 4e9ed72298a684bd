package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// ProducerConfig holds producer settings
type ProducerConfig struct {
	Brokers      []string
	ClientID     string
	TopicPrefix  string
	ProduceRetry int
	PingTimeout  time.Duration
}

// DefaultProducerConfig returns defaults for a local broker
func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:      []string{"localhost:9092"},
		ClientID:     "tournament-registration",
		ProduceRetry: 3,
		PingTimeout:  5 * time.Second,
	}
}

// Producer publishes records synchronously
type Producer struct {
	client *kgo.Client
	config *ProducerConfig
}

// NewProducer creates a client and verifies at least one broker answers
func NewProducer(ctx context.Context, cfg *ProducerConfig) (*Producer, error) {
	if cfg == nil {
		cfg = DefaultProducerConfig()
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	if cfg.ProduceRetry > 0 {
		opts = append(opts, kgo.RecordRetries(cfg.ProduceRetry))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach kafka brokers: %w", err)
	}

	return &Producer{client: client, config: cfg}, nil
}

// Topic applies the configured prefix
func (p *Producer) Topic(name string) string {
	return p.config.TopicPrefix + name
}

// Produce sends one record and waits for the broker acknowledgement
func (p *Producer) Produce(ctx context.Context, topic, key string, value []byte) error {
	record := &kgo.Record{
		Topic: p.Topic(topic),
		Key:   []byte(key),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce to %s: %w", record.Topic, err)
	}
	return nil
}

// ProduceJSON marshals v and produces it
func (p *Producer) ProduceJSON(ctx context.Context, topic, key string, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return p.Produce(ctx, topic, key, value)
}

// Close flushes buffered records and closes the client
func (p *Producer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}
