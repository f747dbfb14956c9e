package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/plumehq/plume/pkg/logging"
)

// RedisBroker is a Broker backed by Redis pub/sub. Each subscription holds
// its own server-side channel; closing the handle releases it.
type RedisBroker struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisBroker creates a new Redis-backed broker
func NewRedisBroker(client *redis.Client) (*RedisBroker, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisBroker{
		client: client,
		logger: logging.GetLogger().With(zap.String("component", "feed-broker")),
	}, nil
}

// Publish delivers the event to all subscribers of the topic
func (b *RedisBroker) Publish(ctx context.Context, topic string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe opens a pub/sub channel for the topic and dispatches events to
// the handler from a background goroutine until the handle is closed
func (b *RedisBroker) Subscribe(ctx context.Context, topic string, fn Handler) (*Subscription, error) {
	pubsub := b.client.Subscribe(ctx, topic)

	// Confirm the server accepted the subscription before reporting the
	// handle as live
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	sub := newSubscription(topic, func() {
		if err := pubsub.Close(); err != nil {
			b.logger.Warn("Failed to close subscription",
				zap.String("topic", topic),
				zap.Error(err))
		}
	})
	sub.markSubscribed()

	go b.deliver(pubsub, topic, fn)

	return sub, nil
}

// deliver pumps messages from the pub/sub channel to the handler. The
// channel is closed by Subscription.Close, which ends the loop.
func (b *RedisBroker) deliver(pubsub *redis.PubSub, topic string, fn Handler) {
	for msg := range pubsub.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			b.logger.Warn("Dropping malformed feed event",
				zap.String("topic", topic),
				zap.Error(err))
			continue
		}
		fn(ev)
	}
}
