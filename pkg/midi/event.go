package midi

import (
	"fmt"

	"github.com/kiro-audio/midi/pkg/ump"
)

// EndpointID identifies a source or destination endpoint within a
// driver. IDs are assigned by the driver and stay stable while the
// endpoint is known, including across disconnects.
type EndpointID = uint64

// SourceID identifies a source endpoint.
type SourceID = EndpointID

// DestinationID identifies a destination endpoint.
type DestinationID = EndpointID

// Event is a decoded MIDI message delivered to an input.
type Event struct {
	// Timestamp is the receive time in nanoseconds. Drivers use the
	// transport's clock when it has one, the wall clock otherwise.
	Timestamp uint64

	// Endpoint is the source the message arrived from.
	Endpoint SourceID

	// Message is the decoded UMP message.
	Message ump.Message
}

func (ev Event) String() string {
	return fmt.Sprintf("[%08x] %v", ev.Endpoint, ev.Message)
}
