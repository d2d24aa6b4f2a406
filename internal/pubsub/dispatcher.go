package pubsub

// Dispatcher is a synchronous observer list with ordered delivery.
//
// Handlers run on the publishing goroutine in subscription order. An event
// published from inside a handler is queued and delivered once the current
// event has reached every handler, so no handler is ever re-entered.
// A Dispatcher is not safe for concurrent use; it belongs to one goroutine.
type Dispatcher[T any] struct {
	handlers   []*handler[T]
	queue      []T
	delivering bool
}

type handler[T any] struct {
	fn      func(T)
	removed bool
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher[T any]() *Dispatcher[T] {
	return &Dispatcher[T]{}
}

// Subscribe registers fn and returns a function that removes it.
// Removing a handler during delivery takes effect immediately.
func (d *Dispatcher[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	h := &handler[T]{fn: fn}
	d.handlers = append(d.handlers, h)
	return func() {
		if h.removed {
			return
		}
		h.removed = true
		for i, other := range d.handlers {
			if other == h {
				d.handlers = append(d.handlers[:i:i], d.handlers[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers ev to every handler, or queues it when called from a handler.
func (d *Dispatcher[T]) Publish(ev T) {
	d.queue = append(d.queue, ev)
	if d.delivering {
		return
	}

	d.delivering = true
	defer func() {
		d.delivering = false
		d.queue = nil
	}()

	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue = d.queue[1:]

		snapshot := append([]*handler[T](nil), d.handlers...)
		for _, h := range snapshot {
			if !h.removed {
				h.fn(next)
			}
		}
	}
}

// Len returns the number of registered handlers.
func (d *Dispatcher[T]) Len() int {
	return len(d.handlers)
}

// Delivering reports whether a delivery is in progress.
func (d *Dispatcher[T]) Delivering() bool {
	return d.delivering
}
