package mq

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"settle-core/pkg/logger"
)

// KafkaConsumer implements Consumer on top of consumer groups.
// One reader is created per subscribed topic.
type KafkaConsumer struct {
	brokers []string
	groupID string

	mu      sync.Mutex
	readers []*kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string) *KafkaConsumer {
	return &KafkaConsumer{
		brokers: brokers,
		groupID: groupID,
	}
}

// Subscribe starts a consume loop for topic in its own goroutine.
func (c *KafkaConsumer) Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error {
	// GroupID keeps partitions balanced across settle-core instances.
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.brokers,
		GroupID:     c.groupID,
		Topic:       topic,
		MinBytes:    10e3, // 10KB
		MaxBytes:    10e6, // 10MB
		StartOffset: kafka.LastOffset,
	})

	c.mu.Lock()
	c.readers = append(c.readers, reader)
	c.mu.Unlock()

	logger.Info("kafka consumer subscribed", zap.String("topic", topic), zap.String("group", c.groupID))

	go c.consumeLoop(ctx, reader, topic, handler)

	return nil
}

func (c *KafkaConsumer) consumeLoop(ctx context.Context, reader *kafka.Reader, topic string, handler func(msg *Message) error) {
	for {
		// Blocks until a message arrives or ctx is cancelled
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("kafka fetch failed", zap.String("topic", topic), zap.Error(err))
			time.Sleep(1 * time.Second)
			continue
		}

		msg := &Message{
			ID:      string(m.Key),
			Topic:   topic,
			Key:     string(m.Key),
			Payload: m.Value,
		}

		if err := handler(msg); err != nil {
			// Leave the offset uncommitted; the broker will redeliver.
			// Handlers already route poison messages away themselves.
			logger.Error("kafka handler failed", zap.String("topic", topic), zap.Error(err))
			continue
		}

		// Manual commit only after the handler succeeded
		if err := reader.CommitMessages(ctx, m); err != nil {
			logger.Error("kafka commit failed", zap.String("topic", topic), zap.Error(err))
		}
	}
}

// Close closes every reader opened by Subscribe.
func (c *KafkaConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for _, r := range c.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.readers = nil
	return firstErr
}
