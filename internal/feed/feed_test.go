package feed

import (
	"context"
	"testing"
	"time"
)

func TestMemoryBroker_ScopedDelivery(t *testing.T) {
	broker := NewMemoryBroker()
	ctx := context.Background()

	var gotA, gotB []Event
	subA, err := broker.Subscribe(ctx, CommentsTopic("post-a"), func(ev Event) {
		gotA = append(gotA, ev)
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer subA.Close()

	subB, err := broker.Subscribe(ctx, CommentsTopic("post-b"), func(ev Event) {
		gotB = append(gotB, ev)
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer subB.Close()

	ev := Event{Table: "comments", Type: EventInsert, EntityID: "c1", OccurredAt: time.Now()}
	if err := broker.Publish(ctx, CommentsTopic("post-a"), ev); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	// The callback fires for the scoped post only
	if len(gotA) != 1 {
		t.Fatalf("post-a subscriber got %d events, want 1", len(gotA))
	}
	if gotA[0].EntityID != "c1" || gotA[0].Type != EventInsert {
		t.Errorf("unexpected event: %+v", gotA[0])
	}
	if len(gotB) != 0 {
		t.Errorf("post-b subscriber got %d events, want 0", len(gotB))
	}
}

func TestMemoryBroker_NoDeliveryAfterClose(t *testing.T) {
	broker := NewMemoryBroker()
	ctx := context.Background()

	var got int
	sub, err := broker.Subscribe(ctx, PostTopic("p1"), func(ev Event) {
		got++
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	sub.Close()

	if err := broker.Publish(ctx, PostTopic("p1"), Event{Table: "posts", Type: EventUpdate, EntityID: "p1"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if got != 0 {
		t.Errorf("closed subscription received %d events, want 0", got)
	}
}

func TestSubscription_Lifecycle(t *testing.T) {
	broker := NewMemoryBroker()

	sub, err := broker.Subscribe(context.Background(), PostTopic("p1"), func(Event) {})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if sub.State() != StateSubscribed {
		t.Errorf("State() = %v, want subscribed", sub.State())
	}
	if sub.Topic() != "posts:p1" {
		t.Errorf("Topic() = %q, want posts:p1", sub.Topic())
	}

	sub.Close()
	if sub.State() != StateClosed {
		t.Errorf("State() after Close = %v, want closed", sub.State())
	}

	// Close is idempotent
	sub.Close()
	if sub.State() != StateClosed {
		t.Errorf("State() after second Close = %v, want closed", sub.State())
	}
}

func TestSubscription_CloseBeforeActive(t *testing.T) {
	closed := 0
	sub := newSubscription("posts:p1", func() { closed++ })

	if sub.State() != StateIdle {
		t.Errorf("State() = %v, want idle", sub.State())
	}

	sub.Close()
	sub.Close()
	if closed != 1 {
		t.Errorf("close function ran %d times, want 1", closed)
	}

	// A closed subscription never becomes subscribed
	sub.markSubscribed()
	if sub.State() != StateClosed {
		t.Errorf("State() = %v, want closed", sub.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateIdle, "idle"},
		{StateSubscribed, "subscribed"},
		{StateClosed, "closed"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}
