// Package feed delivers row-level change notifications. A notification is
// a re-sync hint: it tells the consumer that something changed for a
// scoped entity, never an authoritative incremental state. Delivery order
// is not guaranteed to match commit order.
package feed

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// EventType identifies the kind of row-level change
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
)

// Event is a change notification for a single row
type Event struct {
	Table      string    `json:"table"`
	Type       EventType `json:"type"`
	EntityID   string    `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Handler consumes change notifications. Handlers are invoked from the
// subscription's delivery goroutine and must not block for long.
type Handler func(Event)

// Broker publishes and subscribes to change notification topics
type Broker interface {
	// Publish delivers an event to all subscribers of the topic
	Publish(ctx context.Context, topic string, ev Event) error

	// Subscribe registers a handler for a topic and returns a handle the
	// caller owns. Every caller must Close its own handle; an unclosed
	// subscription leaks a live server-side channel.
	Subscribe(ctx context.Context, topic string, fn Handler) (*Subscription, error)
}

// CommentsTopic scopes comment insert events to a single post
func CommentsTopic(postID string) string {
	return "comments:" + postID
}

// PostTopic scopes post update events to a single post
func PostTopic(postID string) string {
	return "posts:" + postID
}

// State is the lifecycle state of a subscription
type State int32

const (
	StateIdle State = iota
	StateSubscribed
	StateClosed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubscribed:
		return "subscribed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Subscription is a live change-feed handle. It moves from idle to
// subscribed when the broker starts listening, and to closed on Close.
type Subscription struct {
	topic   string
	state   atomic.Int32
	closeFn func()
	once    sync.Once
}

func newSubscription(topic string, closeFn func()) *Subscription {
	return &Subscription{topic: topic, closeFn: closeFn}
}

// Topic returns the topic this subscription is scoped to
func (s *Subscription) Topic() string {
	return s.topic
}

// State returns the current lifecycle state
func (s *Subscription) State() State {
	return State(s.state.Load())
}

func (s *Subscription) markSubscribed() {
	s.state.CompareAndSwap(int32(StateIdle), int32(StateSubscribed))
}

// Close tears down the subscription. Idempotent: closing twice, or before
// the subscription ever became active, is a no-op.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.state.Store(int32(StateClosed))
		if s.closeFn != nil {
			s.closeFn()
		}
	})
}
