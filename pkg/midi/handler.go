package midi

import "github.com/kiro-audio/midi/pkg/queue"

// Handler receives events from a driver input. Handle is called from
// the driver's receive goroutine and must not block; handlers that need
// to do slow work should hand the event off, e.g. through a RingHandler.
type Handler interface {
	Handle(Event)
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(Event)

func (f HandlerFunc) Handle(ev Event) { f(ev) }

// RingHandler queues events into a ring for a consumer goroutine.
// Delivery never blocks the driver: when the consumer lags behind the
// ring capacity, the oldest events are dropped.
type RingHandler struct {
	ring *queue.Ring[Event]
}

// NewRingHandler creates a handler backed by a ring of the given
// capacity.
func NewRingHandler(size int) *RingHandler {
	return &RingHandler{ring: queue.NewRing[Event](size)}
}

// Handle implements Handler.
func (h *RingHandler) Handle(ev Event) {
	h.ring.Add(ev)
}

// Events returns the ring the consumer drains.
func (h *RingHandler) Events() *queue.Ring[Event] {
	return h.ring
}

// Close closes the underlying ring.
func (h *RingHandler) Close() error {
	return h.ring.Close()
}
