package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fileChange struct {
	path    string
	removed bool
}

// receive waits briefly for the next event on ch.
func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(time.Second):
		require.FailNow(t, "no event delivered")
	}
	return Event[T]{}
}

func requireClosed[T any](t *testing.T, ch <-chan Event[T]) {
	t.Helper()
	select {
	case _, ok := <-ch:
		require.False(t, ok, "expected a closed subscription")
	case <-time.After(time.Second):
		require.FailNow(t, "subscription still open")
	}
}

func TestBroker_FansOutToEverySubscriber(t *testing.T) {
	b := NewBroker[fileChange]()
	defer b.Close()

	subs := []<-chan Event[fileChange]{
		b.Subscribe(context.Background()),
		b.Subscribe(context.Background()),
	}
	require.Equal(t, 2, b.SubscriberCount())

	b.Publish(UpdatedEvent, fileChange{path: "flow.orchard.yaml"})
	b.Publish(DeletedEvent, fileChange{path: "flow.orchard.yaml", removed: true})

	for _, ch := range subs {
		first := receive(t, ch)
		require.Equal(t, UpdatedEvent, first.Type)
		require.False(t, first.Payload.removed)
		require.False(t, first.Timestamp.IsZero())

		second := receive(t, ch)
		require.Equal(t, DeletedEvent, second.Type)
		require.True(t, second.Payload.removed)
	}
}

func TestBroker_CancelledSubscriptionIsRemoved(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)
	keep := b.Subscribe(context.Background())

	cancel()
	requireClosed(t, ch)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	b.Publish(CreatedEvent, "still delivered")
	require.Equal(t, "still delivered", receive(t, keep).Payload)
}

func TestBroker_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	for _, size := range []int{0, 1} {
		b := NewBrokerWithBuffer[int](size)
		ch := b.Subscribe(context.Background())

		published := make(chan struct{})
		go func() {
			for i := 1; i <= 3; i++ {
				b.Publish(UpdatedEvent, i)
			}
			close(published)
		}()
		select {
		case <-published:
		case <-time.After(time.Second):
			require.FailNow(t, "Publish blocked", "buffer %d", size)
		}

		require.Equal(t, 1, receive(t, ch).Payload, "buffer %d keeps the oldest event", size)
		require.Equal(t, int64(2), b.Dropped())
		b.Close()
	}
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker[string]()
	ch := b.Subscribe(context.Background())

	b.Close()
	b.Close()
	requireClosed(t, ch)
	require.Zero(t, b.SubscriberCount())

	requireClosed(t, b.Subscribe(context.Background()))
	require.NotPanics(t, func() { b.Publish(UpdatedEvent, "late") })
}
