package mq

import "context"

// Message is one business event as delivered by the bus.
type Message struct {
	ID      string // broker message id (Kafka offset key / Redis Stream ID)
	Topic   string
	Key     string // partition key; the finance topics carry the coin name/unit here
	Payload []byte // JSON body
}

// Producer publishes events.
type Producer interface {
	// Publish sends one message. key selects the partition; empty key means
	// the broker picks one.
	Publish(ctx context.Context, topic string, key string, payload []byte) error

	Close() error
}

// Consumer subscribes to a topic and feeds messages to a handler.
// Delivery is at-least-once; handlers must be idempotent.
type Consumer interface {
	// Subscribe starts consuming topic. A non-nil handler error leaves the
	// message uncommitted so the broker redelivers it.
	Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error

	Close() error
}
