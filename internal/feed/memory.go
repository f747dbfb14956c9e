package feed

import (
	"context"
	"sync"
)

// MemoryBroker is an in-process Broker. Events are delivered synchronously
// to subscribers of the published topic. Used in tests and single-process
// deployments without Redis.
type MemoryBroker struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]Handler
}

// NewMemoryBroker creates a new in-process broker
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subs: make(map[string]map[*Subscription]Handler),
	}
}

// Publish delivers the event to all current subscribers of the topic
func (b *MemoryBroker) Publish(ctx context.Context, topic string, ev Event) error {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, fn := range b.subs[topic] {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
	return nil
}

// Subscribe registers a handler for the topic
func (b *MemoryBroker) Subscribe(ctx context.Context, topic string, fn Handler) (*Subscription, error) {
	var sub *Subscription
	sub = newSubscription(topic, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if handlers, ok := b.subs[topic]; ok {
			delete(handlers, sub)
			if len(handlers) == 0 {
				delete(b.subs, topic)
			}
		}
	})

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*Subscription]Handler)
	}
	b.subs[topic][sub] = fn
	b.mu.Unlock()

	sub.markSubscribed()
	return sub, nil
}
