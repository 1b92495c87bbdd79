package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventDispatch EventType = "dispatch"
	EventRejected EventType = "rejected"
	EventHistory  EventType = "history"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	DocumentID string    `json:"document_id,omitempty"`
}

// DispatchEvent reports a dispatched or rejected toolbar action.
type DispatchEvent struct {
	EventBase
	Action  string     `json:"action"`
	Kind    ActionKind `json:"kind"`
	Changed bool       `json:"changed"`
	Err     error      `json:"-"`
}

// HistoryEvent reports an undo or redo request.
type HistoryEvent struct {
	EventBase
	Op      string `json:"op"`
	Applied bool   `json:"applied"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the caller's goroutine.
type LifecycleHooks struct {
	OnDispatch func(*DispatchEvent)
	OnRejected func(*DispatchEvent)
	OnHistory  func(*HistoryEvent)
}
