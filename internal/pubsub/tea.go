package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd returns a command that delivers the next event on ch as a
// tea.Msg. It yields nil once ctx is done or ch is closed, which ends the
// listening chain.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return relayCmd(ctx, ch, func(ev Event[T]) tea.Msg { return ev })
}

func relayCmd[T any](ctx context.Context, ch <-chan Event[T], wrap func(Event[T]) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			return wrap(ev)
		}
	}
}

// Relay forwards one subscription into the Bubble Tea loop, converting each
// event to a model-specific message. Return Next again from Update after
// handling a message to keep receiving.
type Relay[T any] struct {
	ctx  context.Context
	ch   <-chan Event[T]
	wrap func(Event[T]) tea.Msg
}

// NewRelay subscribes to sub for the lifetime of ctx. A nil wrap delivers the
// Event itself.
func NewRelay[T any](ctx context.Context, sub Subscriber[T], wrap func(Event[T]) tea.Msg) *Relay[T] {
	if wrap == nil {
		wrap = func(ev Event[T]) tea.Msg { return ev }
	}
	return &Relay[T]{ctx: ctx, ch: sub.Subscribe(ctx), wrap: wrap}
}

// Next returns a command waiting for the next event.
func (r *Relay[T]) Next() tea.Cmd {
	return relayCmd(r.ctx, r.ch, r.wrap)
}
