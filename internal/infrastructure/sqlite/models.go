package sqlite

import "time"

// Usage actions.
const (
	ActionCreated   = "created"
	ActionRemoved   = "removed"
	ActionConnected = "connected"
	ActionPasted    = "pasted"
)

// UsageEvent is one recorded use of a widget.
type UsageEvent struct {
	QualifiedName string
	Action        string
	Document      string
	At            time.Time
}

// UsageCount aggregates usage of one widget.
type UsageCount struct {
	QualifiedName string
	Created       int
	Total         int
	LastUsed      time.Time
}

// usageModel is a usage_events row. Times are Unix milliseconds.
type usageModel struct {
	ID            int64
	QualifiedName string
	Action        string
	Document      string
	CreatedAt     int64
	SessionID     *int64 // nullable
}

func toUsageModel(e UsageEvent, session *int64) usageModel {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	return usageModel{
		QualifiedName: e.QualifiedName,
		Action:        e.Action,
		Document:      e.Document,
		CreatedAt:     at.UnixMilli(),
		SessionID:     session,
	}
}
