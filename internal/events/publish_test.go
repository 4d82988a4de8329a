package events

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// flakyPublisher fails the first failures sends
type flakyPublisher struct {
	mu       sync.Mutex
	failures int
	attempts int
	sent     []Event
}

func (f *flakyPublisher) Connect(context.Context) error { return nil }
func (f *flakyPublisher) Listen(context.Context) (<-chan Event, error) {
	ch := make(chan Event)
	close(ch)
	return ch, nil
}
func (f *flakyPublisher) Subscribe(int) error { return nil }
func (f *flakyPublisher) Close() error        { return nil }

func (f *flakyPublisher) SendEvent(e Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failures {
		return ErrQueueFull
	}
	f.sent = append(f.sent, e)
	return nil
}

func TestPublishWithRetry_NilClient(t *testing.T) {
	if err := PublishWithRetry(nil, Event{}, 3); err != nil {
		t.Errorf("Expected nil error for nil client, got %v", err)
	}
}

func TestPublishWithRetry_SucceedsAfterRetry(t *testing.T) {
	pub := &flakyPublisher{failures: 2}
	if err := PublishWithRetry(pub, Event{Type: EventBoardChanged, BoardID: 1}, 3); err != nil {
		t.Fatalf("Expected success on third attempt, got %v", err)
	}
	if pub.attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", pub.attempts)
	}
	if pub.sent[0].Timestamp.IsZero() {
		t.Error("Expected timestamp to be filled in")
	}
}

func TestPublishWithRetry_GivesUp(t *testing.T) {
	pub := &flakyPublisher{failures: 10}
	err := PublishWithRetry(pub, Event{BoardID: 1}, 2)
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}
	if pub.attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", pub.attempts)
	}
}

func TestPublishChange(t *testing.T) {
	pub := &flakyPublisher{}
	PublishChange(pub, 5, EntityColumn, "12")

	if len(pub.sent) != 1 {
		t.Fatalf("Expected one event, got %d", len(pub.sent))
	}
	got := pub.sent[0]
	if got.Type != EventBoardChanged || got.BoardID != 5 || got.Entity != EntityColumn || got.EntityID != "12" {
		t.Errorf("Unexpected event: %+v", got)
	}
}
