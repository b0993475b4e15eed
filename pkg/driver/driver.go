// Package driver defines the driver interface of the Kiro MIDI library
// and the Hub, the endpoint and input bookkeeping shared by all driver
// implementations.
//
// A driver exposes the MIDI sources and destinations of one transport
// (see pkg/driver/pipe, pkg/driver/netump and pkg/driver/rtpump) and
// routes decoded traffic to named inputs. Transports push raw UMP words
// into the Hub; the Hub decodes per input and source, applies the
// per-source filters and calls the input handlers.
package driver

import (
	"context"
	"errors"

	"github.com/kiro-audio/midi/pkg/midi"
	"github.com/kiro-audio/midi/pkg/ump"
)

// Sentinel errors.
var (
	// ErrInputExists is returned when creating an input whose name is
	// taken.
	ErrInputExists = errors.New("driver: input already exists")

	// ErrInputNotFound is returned when referring to an unknown input.
	ErrInputNotFound = errors.New("driver: input not found")

	// ErrDestinationNotFound is returned when sending to an unknown or
	// disconnected destination.
	ErrDestinationNotFound = errors.New("driver: destination not found")

	// ErrClosed is returned by operations on a closed driver.
	ErrClosed = errors.New("driver: closed")
)

// Driver is a MIDI driver: a set of source and destination endpoints
// plus named inputs receiving decoded traffic from matched sources.
//
// Implementations are safe for concurrent use.
type Driver interface {
	// CreateInput creates a named input. It connects the input to every
	// known source accepted by the config's source matches and returns
	// the input name. It fails with ErrInputExists if the name is taken.
	CreateInput(config midi.InputConfig, handler midi.Handler) (string, error)

	// Sources lists the connected sources, sorted by name, with the
	// names of the inputs attached to each.
	Sources() []midi.SourceInfo

	// Destinations lists the connected destinations, sorted by name.
	Destinations() []midi.DestinationInfo

	// Inputs lists the existing inputs.
	Inputs() []midi.InputInfo

	// InputConfig returns the config of the named input.
	InputConfig(name string) (midi.InputConfig, bool)

	// SetInputSources replaces the source matches of the named input
	// and reconciles its source connections: newly matching sources are
	// attached, sources that no longer match are detached, and filters
	// of kept sources are updated.
	SetInputSources(name string, sources midi.SourceMatches) error

	// Send encodes the messages and writes them to a destination.
	Send(ctx context.Context, dest midi.DestinationID, msgs ...ump.Message) error

	// Close shuts the driver down and releases its endpoints.
	Close() error
}

// WordWriter is the output side of a destination endpoint: a transport
// object that accepts raw UMP words.
type WordWriter interface {
	WriteWords(words ...ump.Word) error
}
