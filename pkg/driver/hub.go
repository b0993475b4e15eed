package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/kiro-audio/midi/pkg/midi"
	"github.com/kiro-audio/midi/pkg/ump"
)

// Hub implements the endpoint registry, input management and decode
// fan-out shared by driver implementations. Transports embed a Hub,
// announce sources and destinations as they appear and disappear, and
// push received words through Deliver.
//
// Hot-plug rule: when a source appears it is attached to every input
// whose source matches accept it; when it disappears it is detached
// everywhere and remembered as disconnected.
//
// The delivery path never takes the input lock: each input holds its
// routing table (source -> filter and decoder state) behind an atomic
// pointer, swapped wholesale on every change, the way the original
// realtime drivers swap their filter maps.
type Hub struct {
	name   string
	nextID atomic.Uint64

	mu        sync.Mutex
	closed    bool
	inputs    map[string]*input
	endpoints *midi.Endpoints[midi.SourceID, WordWriter]
}

// input is one named input. routes is read by delivery goroutines and
// replaced, never mutated, under Hub.mu.
type input struct {
	name     string
	protocol ump.Protocol
	sources  midi.SourceMatches
	handler  midi.Handler
	routes   atomic.Pointer[map[midi.SourceID]*route]
}

// route is the per-(input, source) decode state. A given source is
// delivered from a single transport goroutine, so the decoder needs no
// lock.
type route struct {
	filter ump.Filter
	dec    *ump.Decoder
}

// NewHub creates a hub for a driver with the given client name.
func NewHub(name string) *Hub {
	return &Hub{
		name:      name,
		inputs:    make(map[string]*input),
		endpoints: midi.NewEndpoints[midi.SourceID, WordWriter](),
	}
}

// Name returns the driver client name the hub was created with.
func (h *Hub) Name() string { return h.name }

// AllocateID returns a fresh endpoint ID. Transports without natural
// endpoint identifiers use it; transports with stable identifiers (an
// RTP SSRC, a port id) may use their own.
func (h *Hub) AllocateID() midi.EndpointID {
	return h.nextID.Add(1)
}

// AddSource announces a connected source and attaches it to every
// matching input.
func (h *Hub) AddSource(id midi.SourceID, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.endpoints.AddSource(id, name, id)
	for _, in := range h.inputs {
		routes := *in.routes.Load()
		if _, ok := routes[id]; ok {
			continue
		}
		if filter, ok := in.sources.MatchFilter(id, name); ok {
			in.swapRoute(id, &route{filter: filter, dec: ump.NewDecoder(in.protocol)})
			slog.Debug("midi source attached",
				"driver", h.name, "input", in.name, "source", name, "id", id)
		}
	}
}

// RemoveSource announces that a source disappeared. It is detached from
// all inputs and remembered as disconnected.
func (h *Hub) RemoveSource(id midi.SourceID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cs, ok := h.endpoints.RemoveSourceID(id)
	if !ok {
		return
	}
	for _, in := range h.inputs {
		in.dropRoute(id)
	}
	slog.Debug("midi source removed", "driver", h.name, "source", cs.Name, "id", id)
}

// AddDestination announces a connected destination with its transport
// writer.
func (h *Hub) AddDestination(id midi.DestinationID, name string, w WordWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.endpoints.AddDestination(id, name, w)
}

// RemoveDestination announces that a destination disappeared.
func (h *Hub) RemoveDestination(id midi.DestinationID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.endpoints.RemoveDestinationID(id)
}

// Deliver pushes received words from a source into the hub. Each input
// attached to the source runs the words through its own decoder and
// filter; decoded messages are handed to the input's handler stamped
// with the timestamp (nanoseconds).
//
// Deliver must be called from a single goroutine per source. Different
// sources may deliver concurrently.
func (h *Hub) Deliver(source midi.SourceID, timestamp uint64, words ...ump.Word) {
	h.mu.Lock()
	inputs := make([]*input, 0, len(h.inputs))
	for _, in := range h.inputs {
		inputs = append(inputs, in)
	}
	h.mu.Unlock()

	for _, in := range inputs {
		rt := (*in.routes.Load())[source]
		if rt == nil {
			continue
		}
		for _, w := range words {
			if msg, ok := rt.dec.Feed(w, rt.filter); ok {
				in.handler.Handle(midi.Event{
					Timestamp: timestamp,
					Endpoint:  source,
					Message:   msg,
				})
			}
		}
	}
}

// CreateInput implements Driver.
func (h *Hub) CreateInput(config midi.InputConfig, handler midi.Handler) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return "", ErrClosed
	}
	if config.Name == "" {
		return "", fmt.Errorf("driver: input name must not be empty")
	}
	if _, ok := h.inputs[config.Name]; ok {
		return "", fmt.Errorf("%w: %s", ErrInputExists, config.Name)
	}

	in := &input{
		name:     config.Name,
		protocol: config.DecodeProtocol(),
		sources:  config.Sources,
		handler:  handler,
	}
	routes := make(map[midi.SourceID]*route)
	for _, cs := range h.endpoints.ConnectedSources() {
		if filter, ok := in.sources.MatchFilter(cs.ID, cs.Name); ok {
			routes[cs.ID] = &route{filter: filter, dec: ump.NewDecoder(in.protocol)}
		}
	}
	in.routes.Store(&routes)
	h.inputs[config.Name] = in

	slog.Debug("midi input created",
		"driver", h.name, "input", in.name, "sources", len(routes))
	return config.Name, nil
}

// Sources implements Driver.
func (h *Hub) Sources() []midi.SourceInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	attached := make(map[midi.SourceID][]string)
	for _, in := range h.inputs {
		for id := range *in.routes.Load() {
			attached[id] = append(attached[id], in.name)
		}
	}

	sources := h.endpoints.ConnectedSources()
	out := make([]midi.SourceInfo, 0, len(sources))
	for _, cs := range sources {
		out = append(out, midi.SourceInfo{
			ID:              cs.ID,
			Name:            cs.Name,
			ConnectedInputs: attached[cs.ID],
		})
	}
	return out
}

// Destinations implements Driver.
func (h *Hub) Destinations() []midi.DestinationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	dests := h.endpoints.ConnectedDestinations()
	out := make([]midi.DestinationInfo, 0, len(dests))
	for _, cd := range dests {
		out = append(out, midi.DestinationInfo{ID: cd.ID, Name: cd.Name})
	}
	return out
}

// Inputs implements Driver.
func (h *Hub) Inputs() []midi.InputInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]midi.InputInfo, 0, len(h.inputs))
	for _, in := range h.inputs {
		routes := *in.routes.Load()
		connected := make([]midi.SourceID, 0, len(routes))
		for id := range routes {
			connected = append(connected, id)
		}
		out = append(out, midi.InputInfo{
			Name:             in.name,
			Sources:          in.sources,
			ConnectedSources: connected,
		})
	}
	return out
}

// InputConfig implements Driver.
func (h *Hub) InputConfig(name string) (midi.InputConfig, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	in, ok := h.inputs[name]
	if !ok {
		return midi.InputConfig{}, false
	}
	return midi.InputConfig{
		Name:     in.name,
		Sources:  in.sources,
		Protocol: in.protocol,
	}, true
}

// SetInputSources implements Driver.
func (h *Hub) SetInputSources(name string, sources midi.SourceMatches) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	in, ok := h.inputs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInputNotFound, name)
	}

	old := *in.routes.Load()
	routes := make(map[midi.SourceID]*route)
	for _, cs := range h.endpoints.ConnectedSources() {
		filter, ok := sources.MatchFilter(cs.ID, cs.Name)
		if !ok {
			continue
		}
		// Keep the decoder of a surviving source so a partial packet is
		// not lost across the swap.
		if rt, ok := old[cs.ID]; ok {
			routes[cs.ID] = &route{filter: filter, dec: rt.dec}
		} else {
			routes[cs.ID] = &route{filter: filter, dec: ump.NewDecoder(in.protocol)}
		}
	}
	in.sources = sources
	in.routes.Store(&routes)
	return nil
}

// Send implements Driver.
func (h *Hub) Send(ctx context.Context, dest midi.DestinationID, msgs ...ump.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	w, ok := h.endpoints.Destination(dest)
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %08x", ErrDestinationNotFound, dest)
	}

	var words []ump.Word
	for _, msg := range msgs {
		words = append(words, msg.Words()...)
	}
	if len(words) == 0 {
		return nil
	}
	return w.WriteWords(words...)
}

// Close implements Driver. Transports embedding the hub shut their I/O
// down first and then close the hub.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	empty := make(map[midi.SourceID]*route)
	for _, in := range h.inputs {
		in.routes.Store(&empty)
	}
	h.inputs = make(map[string]*input)
	return nil
}

// swapRoute publishes a new routing table with one route added.
// Caller holds Hub.mu.
func (in *input) swapRoute(id midi.SourceID, rt *route) {
	old := *in.routes.Load()
	routes := make(map[midi.SourceID]*route, len(old)+1)
	for k, v := range old {
		routes[k] = v
	}
	routes[id] = rt
	in.routes.Store(&routes)
}

// dropRoute publishes a new routing table with one route removed.
// Caller holds Hub.mu.
func (in *input) dropRoute(id midi.SourceID) {
	old := *in.routes.Load()
	if _, ok := old[id]; !ok {
		return
	}
	routes := make(map[midi.SourceID]*route, len(old))
	for k, v := range old {
		if k != id {
			routes[k] = v
		}
	}
	in.routes.Store(&routes)
}
