// Package pubsub provides the event plumbing used across Orchard.
//
// Two delivery styles live here. Broker is an asynchronous fan-out over
// buffered channels for crossing goroutine boundaries (log lines, file
// watcher notifications into the Bubble Tea loop). Dispatcher is a
// synchronous, ordered observer list used by the graph model, where
// listeners must see every change in commit order on the caller's goroutine.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
