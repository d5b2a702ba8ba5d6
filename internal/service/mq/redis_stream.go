package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"settle-core/pkg/logger"
)

// RedisProducer implements Producer on Redis Streams. Used in deployments
// without a Kafka cluster; selected by config redis.mq_type.
type RedisProducer struct {
	client *redis.Client
}

func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{client: client}
}

func (p *RedisProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		Values: map[string]interface{}{
			"key":     key,
			"payload": payload,
		},
	}).Err()

	if err != nil {
		return fmt.Errorf("redis xadd error: %w", err)
	}
	return nil
}

func (p *RedisProducer) Close() error {
	return nil
}

// RedisConsumer implements Consumer with a Redis Streams consumer group.
type RedisConsumer struct {
	client *redis.Client
	group  string
	name   string
}

func NewRedisConsumer(client *redis.Client, group, name string) *RedisConsumer {
	return &RedisConsumer{
		client: client,
		group:  group,
		name:   name,
	}
}

func (c *RedisConsumer) Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error {
	// XGROUP CREATE <stream> <group> $ MKSTREAM
	err := c.client.XGroupCreateMkStream(ctx, topic, c.group, "$").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("create consumer group: %w", err)
	}

	logger.Info("redis stream consumer subscribed", zap.String("topic", topic), zap.String("group", c.group))

	go c.consumeLoop(ctx, topic, handler)

	return nil
}

func (c *RedisConsumer) consumeLoop(ctx context.Context, topic string, handler func(msg *Message) error) {
	// Entries left unacked by a previous run of this consumer name sit in the
	// pending entries list and the ">" cursor never returns them. Walk the
	// backlog from 0 first, then switch to tailing new entries.
	cursor := "0"

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  []string{topic, cursor},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err == redis.Nil {
			continue // no messages within the block window
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("redis stream read failed", zap.String("topic", topic), zap.Error(err))
			time.Sleep(1 * time.Second)
			continue
		}

		delivered := 0
		for _, stream := range streams {
			for _, xMessage := range stream.Messages {
				delivered++
				payload, ok := xMessage.Values["payload"].(string)
				if !ok {
					logger.Warn("redis stream message missing payload", zap.String("id", xMessage.ID))
					c.ack(ctx, topic, xMessage.ID)
					continue
				}
				key, _ := xMessage.Values["key"].(string)

				msg := &Message{
					ID:      xMessage.ID,
					Topic:   topic,
					Key:     key,
					Payload: []byte(payload),
				}

				if err := handler(msg); err != nil {
					// Stays in the pending entries list; picked up again on
					// the next backlog walk after a restart
					logger.Error("redis stream handler failed", zap.String("topic", topic), zap.Error(err))
				} else {
					c.ack(ctx, topic, xMessage.ID)
				}

				if cursor != ">" {
					// advance past the entry whether or not it acked, so a
					// poison message cannot wedge the backlog walk
					cursor = xMessage.ID
				}
			}
		}

		if cursor != ">" && delivered == 0 {
			// backlog drained, tail new entries from here on
			cursor = ">"
		}
	}
}

func (c *RedisConsumer) ack(ctx context.Context, topic, id string) {
	c.client.XAck(ctx, topic, c.group, id)
}

func (c *RedisConsumer) Close() error {
	return nil
}
