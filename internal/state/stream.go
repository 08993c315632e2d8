package state

import (
	"context"
	"errors"
	"sync"
)

// Stream converts a blocking iterator into an open-ended channel of results.
// The first value is always Loading. Every successful call to next produces a
// Success; the first error produces a Failure and closes the channel unless it
// was caused by ctx ending, in which case the channel closes silently. stop is
// called exactly once when the stream ends.
func Stream[T any](ctx context.Context, next func() (T, error), stop func()) <-chan Result[T] {
	out := make(chan Result[T], 1)
	out <- Loading[T]()

	go func() {
		defer close(out)
		if stop != nil {
			defer stop()
		}

		for {
			v, err := next()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					return
				}
				select {
				case out <- Failure[T](err):
				case <-ctx.Done():
				}
				return
			}

			select {
			case out <- Success(v):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// Holder is an observable value scoped to one screen. Subscribers always see
// the latest value; intermediate values are dropped for slow readers.
type Holder[T any] struct {
	mu     sync.Mutex
	value  Result[T]
	subs   map[int]chan Result[T]
	nextID int
	closed bool
	done   chan struct{}
}

func NewHolder[T any]() *Holder[T] {
	return &Holder[T]{
		value: Idle[T](),
		subs:  make(map[int]chan Result[T]),
		done:  make(chan struct{}),
	}
}

func (h *Holder[T]) Get() Result[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value
}

func (h *Holder[T]) Set(v Result[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.value = v
	for _, ch := range h.subs {
		// drop the stale pending value, keep the newest
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Subscribe returns a channel primed with the current value. The channel is
// closed when ctx ends or the holder is closed.
func (h *Holder[T]) Subscribe(ctx context.Context) <-chan Result[T] {
	ch := make(chan Result[T], 1)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	ch <- h.value
	h.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-h.done:
		}
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}()

	return ch
}

// Close releases all subscribers. Later calls to Set are ignored.
func (h *Holder[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// Pipe copies every result from src into h until src is closed.
func (h *Holder[T]) Pipe(src <-chan Result[T]) {
	for v := range src {
		h.Set(v)
	}
}
