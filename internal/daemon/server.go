package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/retro/internal/events"
)

// Config tunes buffer sizes and health timing. Zero values take defaults.
type Config struct {
	BroadcastBuffer int
	ClientBuffer    int
	PingInterval    time.Duration
	StaleAfter      time.Duration
}

func (c Config) withDefaults() Config {
	if c.BroadcastBuffer <= 0 {
		c.BroadcastBuffer = 100
	}
	if c.ClientBuffer <= 0 {
		c.ClientBuffer = 10
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = 3 * c.PingInterval
	}
	return c
}

// client represents a connected client to the daemon
type client struct {
	conn         net.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	lastPong     time.Time
	closed       bool
	mu           sync.Mutex // Protects subscription, lastPong, closed and send
}

// Server is the retro event daemon. It relays board change events between
// CLI processes over a unix socket.
type Server struct {
	socketPath      string
	listener        net.Listener
	clients         map[*client]bool
	mu              sync.RWMutex
	ctx             context.Context
	cancel          context.CancelFunc
	broadcast       chan events.Event
	metrics         *Metrics
	sequenceCounter atomic.Int64
	cfg             Config
	shutdownOnce    sync.Once
}

// NewServer creates the socket listener. Start must be called to serve.
func NewServer(socketPath string, cfg Config) (*Server, error) {
	if dir := filepath.Dir(socketPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	// Remove stale socket file if it exists
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		clients:    make(map[*client]bool),
		ctx:        ctx,
		cancel:     cancel,
		broadcast:  make(chan events.Event, cfg.BroadcastBuffer),
		metrics:    NewMetrics(),
		cfg:        cfg,
	}, nil
}

// Metrics exposes the live counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start runs the accept, broadcast and health loops until ctx is cancelled,
// Shutdown is called, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("daemon starting", "socket", s.socketPath)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return s.acceptLoop(gctx) })
	g.Go(func() error { s.broadcastLoop(gctx); return nil })
	g.Go(func() error { s.monitorHealth(gctx); return nil })

	err := g.Wait()
	if err != nil {
		slog.Error("daemon loop failed", "error", err)
	}

	if shutdownErr := s.Shutdown(); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}

// acceptLoop accepts incoming client connections
func (s *Server) acceptLoop(ctx context.Context) error {
	ul, _ := s.listener.(*net.UnixListener)

	for {
		if ctx.Err() != nil {
			return nil
		}

		// Deadline lets the loop observe cancellation
		if ul != nil {
			if err := ul.SetDeadline(time.Now().Add(time.Second)); err != nil {
				slog.Debug("error setting listener deadline", "error", err)
			}
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.cfg.ClientBuffer),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		s.updateClientCount()

		slog.Debug("client connected", "clients", s.getClientCount())

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop stamps sequence ids and fans events out to subscribers
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-s.broadcast:
			event.SequenceID = s.sequenceCounter.Add(1)
			if event.Timestamp.IsZero() {
				event.Timestamp = time.Now()
			}
			s.metrics.IncRefreshesTotal()

			for _, c := range s.snapshotClients() {
				c.mu.Lock()
				subscribed := event.Matches(c.subscription.BoardID)
				c.mu.Unlock()
				if !subscribed {
					continue
				}

				evt := event
				msg := events.Message{Version: events.ProtocolVersion, Type: events.MessageEvent, Event: &evt}
				if !s.sendToClient(c, msg) {
					s.metrics.IncEventsDropped()
					slog.Debug("client send queue full, event dropped", "board_id", event.BoardID)
				}
			}
		}
	}
}

// handleClient reads messages from a connected client
func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
		slog.Debug("client disconnected", "clients", s.getClientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			slog.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case events.MessageEvent:
			if msg.Event == nil {
				continue
			}
			s.metrics.IncEventsReceived()
			if err := s.Broadcast(*msg.Event); err != nil {
				s.metrics.IncEventsDropped()
				slog.Warn("broadcast dropped", "error", err)
			}

		case events.MessageSubscribe:
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.subscription = *msg.Subscribe
				c.mu.Unlock()
				slog.Debug("client subscribed", "board_id", msg.Subscribe.BoardID)
			}

		case events.MessagePong:
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

// clientWriter sends queued messages to a client
func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)

	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// monitorHealth pings clients and removes the ones that stop answering
func (s *Server) monitorHealth(ctx context.Context) {
	pingTicker := time.NewTicker(s.cfg.PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			now := time.Now()
			ping := events.Message{Version: events.ProtocolVersion, Type: events.MessagePing}

			for _, c := range s.snapshotClients() {
				c.mu.Lock()
				lastPong := c.lastPong
				c.mu.Unlock()

				if now.Sub(lastPong) > s.cfg.StaleAfter {
					slog.Info("removing stale client", "last_pong_ago", now.Sub(lastPong).Round(time.Second))
					s.metrics.IncStaleRemoved()
					s.removeClient(c)
					continue
				}
				if !s.sendToClient(c, ping) {
					slog.Debug("failed to queue ping")
				}
			}

			slog.Debug("daemon metrics", s.metrics.GetSnapshot().LogAttrs()...)
		}
	}
}

// Broadcast queues an event for delivery (non-blocking)
func (s *Server) Broadcast(event events.Event) error {
	if s.ctx.Err() != nil {
		return fmt.Errorf("daemon shutting down")
	}
	select {
	case s.broadcast <- event:
		return nil
	default:
		return fmt.Errorf("broadcast channel full")
	}
}

// Shutdown closes the listener and every client, then removes the socket file.
// It is safe to call more than once.
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		slog.Info("daemon shutting down", s.metrics.GetSnapshot().LogAttrs()...)

		s.cancel()

		if s.listener != nil {
			if closeErr := s.listener.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
				err = closeErr
			}
		}

		for _, c := range s.snapshotClients() {
			s.removeClient(c)
		}

		if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
			slog.Warn("failed to remove socket file", "error", removeErr)
		}
	})
	return err
}

func (s *Server) snapshotClients() []*client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	return clients
}

func (s *Server) getClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.SetConnectedClients(int32(s.getClientCount()))
}

// removeClient unregisters a client and closes its connection once
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
		_ = c.conn.Close()
	}
	c.mu.Unlock()

	s.updateClientCount()
}

// sendToClient queues a message for a client without blocking.
// It reports false when the queue is full or the client is gone.
func (s *Server) sendToClient(c *client, msg events.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		s.metrics.IncEventsSent()
		return true
	default:
		return false
	}
}

// Serve creates a server on socketPath and runs it until ctx is done
func Serve(ctx context.Context, socketPath string, cfg Config) error {
	server, err := NewServer(socketPath, cfg)
	if err != nil {
		return err
	}
	slog.Info("retro daemon listening", "socket", socketPath, "pid", os.Getpid())

	if err := server.Start(ctx); err != nil {
		return err
	}
	slog.Info("retro daemon stopped")
	return nil
}
