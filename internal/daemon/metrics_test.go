package daemon

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.IncEventsSent()
	m.IncEventsSent()
	m.IncEventsReceived()
	m.IncEventsDropped()
	m.IncRefreshesTotal()
	m.IncStaleRemoved()
	m.SetConnectedClients(4)

	snap := m.GetSnapshot()
	assert.Equal(t, int64(2), snap.EventsSent)
	assert.Equal(t, int64(1), snap.EventsReceived)
	assert.Equal(t, int64(1), snap.EventsDropped)
	assert.Equal(t, int64(1), snap.RefreshesTotal)
	assert.Equal(t, int64(1), snap.StaleRemoved)
	assert.Equal(t, int32(4), snap.ConnectedClients)
	assert.WithinDuration(t, time.Now(), snap.StartTime, time.Minute)

	// Snapshot is a copy
	m.IncEventsSent()
	assert.Equal(t, int64(2), snap.EventsSent)

	attrs := snap.LogAttrs()
	assert.Len(t, attrs, 14)
}

func TestMetricsConcurrency(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.IncEventsSent()
				m.IncRefreshesTotal()
				_ = m.GetSnapshot()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5000), m.EventsSent.Load())
	assert.Equal(t, int64(5000), m.RefreshesTotal.Load())
}
