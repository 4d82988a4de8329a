package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/retro/internal/daemon"
	"github.com/thenoetrevino/retro/internal/events"
)

// SetupTestDaemon runs a daemon on a socket under t.TempDir() until the test
// ends and returns it once the socket exists.
func SetupTestDaemon(t *testing.T) (*daemon.Server, string) {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "retro.sock")
	server, err := daemon.NewServer(socketPath, daemon.Config{})
	require.NoError(t, err, "create test daemon")

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := server.Start(ctx); err != nil {
			t.Logf("test daemon: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-stopped:
		case <-time.After(3 * time.Second):
			t.Log("test daemon did not stop within 3s")
		}
	})

	require.Eventually(t, func() bool {
		_, err := os.Stat(socketPath)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond, "daemon socket never appeared")

	return server, socketPath
}

// SetupTestClient connects an event client with a 10ms debounce to
// socketPath. The client is closed by test cleanup.
func SetupTestClient(t *testing.T, socketPath string) *events.Client {
	t.Helper()

	client, err := events.NewClient(socketPath, 10*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx), "connect test client")

	return client
}

// WaitForClientCount reports whether the daemon reached the expected number
// of connected clients before timeout.
func WaitForClientCount(t *testing.T, server *daemon.Server, expected int32, timeout time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if server.Metrics().ConnectedClients.Load() == expected {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Logf("daemon has %d clients, want %d", server.Metrics().ConnectedClients.Load(), expected)
	return false
}
