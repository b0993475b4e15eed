// Package queue provides a thread-safe ring queue for streaming events.
//
// Ring keeps a sliding window of the most recent elements: producers
// never block, and when the queue is full the oldest element is dropped.
// That makes it the right hand-off between a realtime producer (a MIDI
// driver's receive path) and a consumer that may fall behind.
package queue

import (
	"errors"
	"fmt"
	"iter"
	"sync"
)

// ErrDone is returned by Next when the queue is closed for writing and
// drained.
var ErrDone = errors.New("queue: done")

// Ring is a fixed-capacity queue that overwrites the oldest element
// when full. Add never blocks; Next blocks until an element is
// available or the queue is closed.
type Ring[T any] struct {
	addNotify chan struct{}

	mu         sync.Mutex
	buf        []T
	head, tail int64
	dropped    int64
	closeWrite bool
	closeErr   error
}

// NewRing creates a ring queue holding at most size elements.
func NewRing[T any](size int) *Ring[T] {
	if size <= 0 {
		size = 1
	}
	return &Ring[T]{
		addNotify: make(chan struct{}, 1),
		buf:       make([]T, size),
	}
}

// Add appends one element. If the queue is full the oldest element is
// dropped and counted. Add never blocks.
func (r *Ring[T]) Add(t T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closeErr != nil {
		return fmt.Errorf("queue: add to closed queue: %w", r.closeErr)
	}
	if r.closeWrite {
		return fmt.Errorf("queue: add to closed queue: %w", ErrDone)
	}
	r.buf[r.tail%int64(len(r.buf))] = t
	r.tail++
	if r.tail-r.head > int64(len(r.buf)) {
		r.head++
		r.dropped++
	}
	select {
	case r.addNotify <- struct{}{}:
	default:
	}
	return nil
}

// Next removes and returns the oldest element. It blocks until an
// element is available. It returns ErrDone after CloseWrite once the
// queue is drained, or the close error after CloseWithError.
func (r *Ring[T]) Next() (t T, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		if r.closeErr != nil {
			err = fmt.Errorf("queue: next from closed queue: %w", r.closeErr)
			return
		}
		if r.head != r.tail {
			t = r.buf[r.head%int64(len(r.buf))]
			r.head++
			return t, nil
		}
		if r.closeWrite {
			err = ErrDone
			return
		}
		r.mu.Unlock()
		<-r.addNotify
		r.mu.Lock()
	}
}

// TryNext removes and returns the oldest element without blocking.
func (r *Ring[T]) TryNext() (t T, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closeErr != nil || r.head == r.tail {
		return t, false
	}
	t = r.buf[r.head%int64(len(r.buf))]
	r.head++
	return t, true
}

// All iterates over elements in arrival order, blocking between
// elements, until the queue is closed. Breaking out of the loop leaves
// the queue usable.
func (r *Ring[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			t, err := r.Next()
			if err != nil {
				return
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Len returns the number of queued elements.
func (r *Ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.tail - r.head)
}

// Dropped returns the number of elements dropped to overwrites since
// creation.
func (r *Ring[T]) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// CloseWrite closes the queue for writing. Queued elements remain
// readable; Next returns ErrDone once the queue is drained.
func (r *Ring[T]) CloseWrite() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closeWrite {
		return nil
	}
	r.closeWrite = true
	close(r.addNotify)
	return nil
}

// CloseWithError closes the queue immediately. Pending and future Next
// calls return the given error; queued elements are discarded.
func (r *Ring[T]) CloseWithError(err error) error {
	if err == nil {
		err = ErrDone
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closeErr != nil {
		return nil
	}
	r.closeErr = err
	if !r.closeWrite {
		r.closeWrite = true
		close(r.addNotify)
	}
	return nil
}

// Close closes the queue immediately, discarding queued elements.
func (r *Ring[T]) Close() error {
	return r.CloseWithError(ErrDone)
}
