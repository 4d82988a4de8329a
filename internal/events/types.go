package events

import "time"

// ProtocolVersion is sent with every message so both ends can detect skew
const ProtocolVersion = 1

// EventType indicates what kind of change occurred
type EventType string

const (
	EventBoardChanged EventType = "board_changed"
	EventPing         EventType = "ping"
	EventPong         EventType = "pong"
)

// Entity names the kind of record an event refers to
type Entity string

const (
	EntityBoard      Entity = "board"
	EntityColumn     Entity = "column"
	EntityFeedback   Entity = "feedback"
	EntityActionItem Entity = "action_item"
)

// Event represents a board change notification
type Event struct {
	Type       EventType `json:"type"`
	BoardID    int       `json:"board_id"` // 0 = several or all boards
	Entity     Entity    `json:"entity,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	SequenceID int64     `json:"sequence_id"` // assigned by the daemon
}

// SubscribeMessage is sent by clients to subscribe to specific board updates
type SubscribeMessage struct {
	BoardID int `json:"board_id"` // 0 = all boards
}

// Message types on the wire
const (
	MessageEvent     = "event"
	MessageSubscribe = "subscribe"
	MessagePing      = "ping"
	MessagePong      = "pong"
)

// Message wraps events and control messages for wire protocol
type Message struct {
	Version   int               `json:"version"`
	Type      string            `json:"type"`
	Event     *Event            `json:"event,omitempty"`
	Subscribe *SubscribeMessage `json:"subscribe,omitempty"`
}

// Matches reports whether an event should be delivered to a subscriber of boardID
func (e Event) Matches(boardID int) bool {
	return e.BoardID == 0 || boardID == 0 || e.BoardID == boardID
}
