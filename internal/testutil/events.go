package testutil

import (
	"context"
	"sync"

	"github.com/thenoetrevino/retro/internal/events"
)

// RecordingPublisher is an events.EventPublisher that records sent events
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	subs   []int
	Err    error // returned by SendEvent when set
}

// NewRecordingPublisher creates an empty recorder
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (r *RecordingPublisher) Connect(context.Context) error { return nil }

func (r *RecordingPublisher) SendEvent(e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *RecordingPublisher) Listen(context.Context) (<-chan events.Event, error) {
	ch := make(chan events.Event)
	close(ch)
	return ch, nil
}

func (r *RecordingPublisher) Subscribe(boardID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, boardID)
	return nil
}

func (r *RecordingPublisher) Close() error { return nil }

// Events returns a copy of the recorded events
func (r *RecordingPublisher) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the most recent event and whether one exists
func (r *RecordingPublisher) Last() (events.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return events.Event{}, false
	}
	return r.events[len(r.events)-1], true
}

// Reset forgets recorded events
func (r *RecordingPublisher) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

var _ events.EventPublisher = (*RecordingPublisher)(nil)
