package event

import (
	"context"
	"sync"

	"github.com/prohmpiriya/tournament-registration/pkg/kafka"
)

// Event is a message with a partition key and a topic
type Event interface {
	Key() string
	Topic() string
}

// Publisher publishes lifecycle events
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close()
}

// KafkaPublisher publishes events as JSON records
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher creates a publisher on top of producer
func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// Publish sends ev and waits for the broker acknowledgement
func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	return p.producer.ProduceJSON(ctx, ev.Topic(), ev.Key(), ev)
}

// Close flushes and closes the producer
func (p *KafkaPublisher) Close() {
	p.producer.Close()
}

// NoOpPublisher drops every event; used when Kafka is disabled
type NoOpPublisher struct{}

// Publish does nothing
func (NoOpPublisher) Publish(context.Context, Event) error { return nil }

// Close does nothing
func (NoOpPublisher) Close() {}

// MemoryPublisher records events in order
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryPublisher creates an empty MemoryPublisher
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Publish appends ev
func (p *MemoryPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

// Close does nothing
func (p *MemoryPublisher) Close() {}

// Events returns the published events for topic, or all events if topic is empty
func (p *MemoryPublisher) Events(topic string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Event, 0, len(p.events))
	for _, ev := range p.events {
		if topic == "" || ev.Topic() == topic {
			out = append(out, ev)
		}
	}
	return out
}
