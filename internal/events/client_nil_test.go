package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A nil *Client stands in for "no daemon" in several call sites, so every
// method must fail cleanly instead of panicking.
func TestNilClient(t *testing.T) {
	var client *Client

	t.Run("listen returns a closed channel", func(t *testing.T) {
		var (
			ch  <-chan Event
			err error
		)
		require.NotPanics(t, func() { ch, err = client.Listen(context.Background()) })
		require.ErrorIs(t, err, ErrNilClient)

		select {
		case _, ok := <-ch:
			assert.False(t, ok, "channel should be closed")
		case <-time.After(100 * time.Millisecond):
			t.Fatal("channel not closed")
		}
	})

	calls := map[string]func() error{
		"subscribe": func() error { return client.Subscribe(1) },
		"send":      func() error { return client.SendEvent(Event{Type: EventBoardChanged, BoardID: 1}) },
		"connect":   func() error { return client.Connect(context.Background()) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { err = call() })
			assert.ErrorIs(t, err, ErrNilClient)
		})
	}

	t.Run("close", func(t *testing.T) {
		assert.NotPanics(t, func() { assert.NoError(t, client.Close()) })
	})
}
