package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// DefaultDebounce is the batching window used when none is configured
const DefaultDebounce = 100 * time.Millisecond

// Client represents a connection to the retro daemon for receiving live updates.
// It handles event sending, receiving, batching, reconnection, and subscriptions.
type Client struct {
	socketPath string
	conn       net.Conn
	encoder    *json.Encoder
	decoder    *json.Decoder
	mu         sync.Mutex

	// Batching configuration
	eventQueue  chan Event
	debounce    time.Duration
	closed      bool
	batcherOnce sync.Once
	batcherDone chan struct{}
	batching    bool

	// Reconnection configuration
	maxRetries int
	baseDelay  time.Duration

	currentBoardID int
	lastSequence   int64

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a new event client but does not connect.
// A non-positive debounce falls back to DefaultDebounce.
func NewClient(socketPath string, debounce time.Duration) (*Client, error) {
	if socketPath == "" {
		return nil, fmt.Errorf("socket path is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		socketPath:  socketPath,
		eventQueue:  make(chan Event, 100),
		debounce:    debounce,
		maxRetries:  5,
		baseDelay:   1 * time.Second,
		ctx:         ctx,
		cancel:      cancel,
		batcherDone: make(chan struct{}),
	}, nil
}

// Connect establishes a connection to the daemon socket, subscribes to the
// current board and starts the batching goroutine on first use.
func (c *Client) Connect(ctx context.Context) error {
	if c == nil {
		return ErrNilClient
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	if err := c.dialLocked(ctx); err != nil {
		return err
	}

	c.batcherOnce.Do(func() {
		c.batching = true
		go c.startBatcher()
	})
	return nil
}

// dialLocked opens the socket and sends the subscription. Caller holds c.mu.
func (c *Client) dialLocked(ctx context.Context) error {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to dial daemon socket: %w", err)
	}

	encoder := json.NewEncoder(conn)
	msg := Message{
		Version:   ProtocolVersion,
		Type:      MessageSubscribe,
		Subscribe: &SubscribeMessage{BoardID: c.currentBoardID},
	}
	if err := encoder.Encode(msg); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Debug("error closing connection", "error", closeErr)
		}
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	c.conn = conn
	c.encoder = encoder
	c.decoder = json.NewDecoder(conn)
	return nil
}

// SendEvent queues an event to be sent to the daemon.
// Events are batched and sent once per debounce window. The send never blocks.
func (c *Client) SendEvent(event Event) error {
	if c == nil {
		return ErrNilClient
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.eventQueue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// batch accumulates queued events into the single event sent per window
type batch struct {
	pending bool
	event   Event
}

func (b *batch) add(e Event) {
	if !b.pending {
		b.pending = true
		b.event = Event{Type: EventBoardChanged, BoardID: e.BoardID, Entity: e.Entity, EntityID: e.EntityID}
		return
	}
	if b.event.BoardID != e.BoardID {
		b.event.BoardID = 0
	}
	if b.event.Entity != e.Entity {
		b.event.Entity = ""
	}
	if b.event.EntityID != e.EntityID {
		b.event.EntityID = ""
	}
}

// startBatcher batches events from the queue and sends at most one event
// per debounce window. Events for different boards collapse to board 0.
func (c *Client) startBatcher() {
	defer close(c.batcherDone)

	ticker := time.NewTicker(c.debounce)
	defer ticker.Stop()

	var b batch

	flush := func() {
		if !b.pending {
			return
		}
		evt := b.event
		evt.Timestamp = time.Now()
		if err := c.sendMessage(Message{Version: ProtocolVersion, Type: MessageEvent, Event: &evt}); err != nil {
			if !isConnectionError(err) {
				slog.Warn("failed to send batched event", "error", err)
			}
		}
		b = batch{}
	}

	for {
		select {
		case <-c.ctx.Done():
			// Drain what Close left behind before exiting
			for evt := range c.eventQueue {
				b.add(evt)
			}
			flush()
			return

		case evt, ok := <-c.eventQueue:
			if !ok {
				flush()
				return
			}
			b.add(evt)

		case <-ticker.C:
			flush()
		}
	}
}

// sendMessage writes one message to the daemon socket.
func (c *Client) sendMessage(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	// Short write deadline to detect dead connections
	if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	return c.encoder.Encode(msg)
}

// Listen starts listening for events from the daemon.
// It returns a channel that receives events and handles reconnection automatically.
// The channel is closed when ctx is done or reconnection fails.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	eventChan := make(chan Event, 10)
	if c == nil {
		close(eventChan)
		return eventChan, ErrNilClient
	}
	go c.listenLoop(ctx, eventChan)
	return eventChan, nil
}

// listenLoop reads events from the daemon and handles reconnection.
func (c *Client) listenLoop(ctx context.Context, eventChan chan Event) {
	defer close(eventChan)

	for {
		if ctx.Err() != nil {
			return
		}
		err := c.readEvents(ctx, eventChan)
		if err == nil || ctx.Err() != nil || errors.Is(err, ErrClientClosed) || c.isClosed() {
			return
		}

		slog.Info("connection to daemon lost, reconnecting", "error", err)
		if !c.reconnect(ctx) {
			slog.Warn("failed to reconnect to daemon, giving up", "attempts", c.maxRetries)
			return
		}
	}
}

// readEvents reads messages from the socket and forwards events to eventChan.
func (c *Client) readEvents(ctx context.Context, eventChan chan Event) error {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return ErrClientClosed
		}
		if c.conn == nil {
			c.mu.Unlock()
			return ErrNotConnected
		}
		// Read deadline detects hung connections; the daemon pings every 30s
		if err := c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
		decoder := c.decoder
		c.mu.Unlock()

		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			return fmt.Errorf("failed to decode message: %w", err)
		}

		if msg.Version != 0 && msg.Version != ProtocolVersion {
			slog.Warn("protocol version mismatch", "got", msg.Version, "want", ProtocolVersion)
		}

		switch msg.Type {
		case MessageEvent:
			// Sequence ids restart at 1 when the daemon restarts
			if msg.Event == nil {
				continue
			}
			if msg.Event.SequenceID <= c.lastSequence && msg.Event.SequenceID != 1 {
				continue
			}
			c.lastSequence = msg.Event.SequenceID
			select {
			case eventChan <- *msg.Event:
			case <-ctx.Done():
				return ctx.Err()
			}

		case MessagePing:
			if err := c.sendMessage(Message{Version: ProtocolVersion, Type: MessagePong}); err != nil {
				if !isConnectionError(err) {
					slog.Warn("failed to send pong", "error", err)
				}
			}
		}
	}
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// isConnectionError checks if an error is a network connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, ErrNotConnected) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset")
}

// reconnect attempts to reconnect to the daemon with exponential backoff.
func (c *Client) reconnect(ctx context.Context) bool {
	delay := c.baseDelay

	for i := 0; i < c.maxRetries; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-c.ctx.Done():
			return false
		case <-time.After(delay):
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				return false
			}
			if c.conn != nil {
				_ = c.conn.Close()
				c.conn = nil
			}
			err := c.dialLocked(ctx)
			c.mu.Unlock()

			if err == nil {
				slog.Info("reconnected to daemon", "attempt", i+1)
				return true
			}

			slog.Debug("reconnection attempt failed", "attempt", i+1, "max", c.maxRetries, "retry_in", delay)
			delay *= 2 // 1s, 2s, 4s, 8s, 16s
		}
	}

	return false
}

// Subscribe changes the subscription to a specific board.
// BoardID 0 means subscribe to all boards.
func (c *Client) Subscribe(boardID int) error {
	if c == nil {
		return ErrNilClient
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentBoardID = boardID

	if c.conn == nil {
		return ErrNotConnected
	}

	return c.encoder.Encode(Message{
		Version:   ProtocolVersion,
		Type:      MessageSubscribe,
		Subscribe: &SubscribeMessage{BoardID: boardID},
	})
}

// Close flushes pending events, closes the connection and stops all goroutines.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.eventQueue)
	batching := c.batching
	c.mu.Unlock()

	if batching {
		// Batcher flushes pending events before exiting
		<-c.batcherDone
	}
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
