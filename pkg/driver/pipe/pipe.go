// Package pipe implements an in-process virtual MIDI driver.
//
// Virtual sources and destinations are created programmatically.
// Feeding words to a virtual source runs the full decode and routing
// path of the driver hub, which makes the pipe driver the backend for
// tests, the device simulator and session replay.
package pipe

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kiro-audio/midi/pkg/driver"
	"github.com/kiro-audio/midi/pkg/midi"
	"github.com/kiro-audio/midi/pkg/queue"
	"github.com/kiro-audio/midi/pkg/ump"
)

// ErrSourceClosed is returned when feeding a closed virtual source.
var ErrSourceClosed = errors.New("pipe: source closed")

// Driver is a virtual in-process MIDI driver.
type Driver struct {
	*driver.Hub
}

// New creates a virtual driver with the given client name.
func New(name string) *Driver {
	return &Driver{Hub: driver.NewHub(name)}
}

// Source is a virtual source endpoint. Feed words or messages into it
// to deliver them to the driver's inputs.
type Source struct {
	id   midi.SourceID
	name string
	d    *Driver

	mu     sync.Mutex
	closed bool
}

// CreateSource creates and connects a virtual source.
func (d *Driver) CreateSource(name string) *Source {
	id := d.AllocateID()
	d.AddSource(id, name)
	return &Source{id: id, name: name, d: d}
}

// ID returns the source's endpoint ID.
func (s *Source) ID() midi.SourceID { return s.id }

// Name returns the source's endpoint name.
func (s *Source) Name() string { return s.name }

// FeedAt delivers raw UMP words with an explicit timestamp.
func (s *Source) FeedAt(timestamp uint64, words ...ump.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: %s", ErrSourceClosed, s.name)
	}
	s.d.Deliver(s.id, timestamp, words...)
	return nil
}

// Feed delivers raw UMP words stamped with the current time.
func (s *Source) Feed(words ...ump.Word) error {
	return s.FeedAt(uint64(time.Now().UnixNano()), words...)
}

// SendWords is Feed under the method name replay emitters use.
func (s *Source) SendWords(words ...ump.Word) error {
	return s.Feed(words...)
}

// FeedMessage encodes messages and delivers their words stamped with
// the current time.
func (s *Source) FeedMessage(msgs ...ump.Message) error {
	var words []ump.Word
	for _, msg := range msgs {
		words = append(words, msg.Words()...)
	}
	return s.Feed(words...)
}

// Close disconnects the source. Feeding a closed source fails; the
// endpoint is remembered as disconnected.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.d.RemoveSource(s.id)
	return nil
}

// Destination is a virtual destination endpoint. Words sent to it by
// the driver are queued for inspection.
type Destination struct {
	id   midi.DestinationID
	name string
	d    *Driver
	out  *queue.Ring[ump.Word]
}

// CreateDestination creates and connects a virtual destination
// buffering up to size sent words.
func (d *Driver) CreateDestination(name string, size int) *Destination {
	dst := &Destination{
		id:   d.AllocateID(),
		name: name,
		d:    d,
		out:  queue.NewRing[ump.Word](size),
	}
	d.AddDestination(dst.id, name, dst)
	return dst
}

// ID returns the destination's endpoint ID.
func (dst *Destination) ID() midi.DestinationID { return dst.id }

// Name returns the destination's endpoint name.
func (dst *Destination) Name() string { return dst.name }

// WriteWords implements driver.WordWriter.
func (dst *Destination) WriteWords(words ...ump.Word) error {
	for _, w := range words {
		if err := dst.out.Add(w); err != nil {
			return err
		}
	}
	return nil
}

// Words returns the queue of words the driver has sent to this
// destination.
func (dst *Destination) Words() *queue.Ring[ump.Word] {
	return dst.out
}

// Close disconnects the destination.
func (dst *Destination) Close() error {
	dst.d.RemoveDestination(dst.id)
	return dst.out.Close()
}
