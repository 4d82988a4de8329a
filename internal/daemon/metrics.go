package daemon

import (
	"sync/atomic"
	"time"
)

// Metrics tracks daemon statistics using atomic operations for thread-safety
type Metrics struct {
	EventsSent       atomic.Int64
	EventsReceived   atomic.Int64
	EventsDropped    atomic.Int64
	RefreshesTotal   atomic.Int64
	StaleRemoved     atomic.Int64
	ConnectedClients atomic.Int32
	StartTime        time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

func (m *Metrics) IncEventsSent()     { m.EventsSent.Add(1) }
func (m *Metrics) IncEventsReceived() { m.EventsReceived.Add(1) }
func (m *Metrics) IncEventsDropped()  { m.EventsDropped.Add(1) }
func (m *Metrics) IncRefreshesTotal() { m.RefreshesTotal.Add(1) }
func (m *Metrics) IncStaleRemoved()   { m.StaleRemoved.Add(1) }

// SetConnectedClients sets the current connected clients count
func (m *Metrics) SetConnectedClients(count int32) {
	m.ConnectedClients.Store(count)
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	EventsSent       int64     `json:"events_sent"`
	EventsReceived   int64     `json:"events_received"`
	EventsDropped    int64     `json:"events_dropped"`
	RefreshesTotal   int64     `json:"refreshes_total"`
	StaleRemoved     int64     `json:"stale_removed"`
	ConnectedClients int32     `json:"connected_clients"`
	StartTime        time.Time `json:"start_time"`
	Uptime           string    `json:"uptime"`
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsSent:       m.EventsSent.Load(),
		EventsReceived:   m.EventsReceived.Load(),
		EventsDropped:    m.EventsDropped.Load(),
		RefreshesTotal:   m.RefreshesTotal.Load(),
		StaleRemoved:     m.StaleRemoved.Load(),
		ConnectedClients: m.ConnectedClients.Load(),
		StartTime:        m.StartTime,
		Uptime:           time.Since(m.StartTime).Round(time.Second).String(),
	}
}

// LogAttrs flattens the snapshot for structured logging
func (s MetricsSnapshot) LogAttrs() []any {
	return []any{
		"events_sent", s.EventsSent,
		"events_received", s.EventsReceived,
		"events_dropped", s.EventsDropped,
		"refreshes_total", s.RefreshesTotal,
		"stale_removed", s.StaleRemoved,
		"connected_clients", s.ConnectedClients,
		"uptime", s.Uptime,
	}
}
