package midi

import (
	"slices"
	"strings"
	"sync"
)

// SourceInfo describes a source endpoint as seen by a driver.
type SourceInfo struct {
	ID   SourceID
	Name string

	// ConnectedInputs lists the names of inputs attached to this
	// source.
	ConnectedInputs []string
}

// DestinationInfo describes a destination endpoint.
type DestinationInfo struct {
	ID   DestinationID
	Name string
}

// ConnectedSource is a connected source endpoint with the driver's port
// handle.
type ConnectedSource[In any] struct {
	ID     SourceID
	Name   string
	Source In
}

// ConnectedDestination is a connected destination endpoint with the
// driver's port handle.
type ConnectedDestination[Out any] struct {
	ID          DestinationID
	Name        string
	Destination Out
}

// Endpoints tracks the sources and destinations of a driver. Endpoints
// that disappear are kept in a disconnected set under their ID and
// name, so a returning endpoint keeps its identity.
//
// In and Out are the driver's port handle types. Endpoints is safe for
// concurrent use.
type Endpoints[In, Out comparable] struct {
	mu sync.Mutex

	connectedSources      map[SourceID]*ConnectedSource[In]
	connectedDestinations map[DestinationID]*ConnectedDestination[Out]

	disconnectedSources      map[SourceID]string
	disconnectedDestinations map[DestinationID]string
}

// NewEndpoints creates an empty endpoint registry.
func NewEndpoints[In, Out comparable]() *Endpoints[In, Out] {
	return &Endpoints[In, Out]{
		connectedSources:         make(map[SourceID]*ConnectedSource[In]),
		connectedDestinations:    make(map[DestinationID]*ConnectedDestination[Out]),
		disconnectedSources:      make(map[SourceID]string),
		disconnectedDestinations: make(map[DestinationID]string),
	}
}

// AddSource registers a connected source. Adding an ID that is already
// connected is a no-op; a disconnected entry with the same ID is
// promoted.
func (e *Endpoints[In, Out]) AddSource(id SourceID, name string, source In) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.connectedSources[id]; ok {
		return
	}
	delete(e.disconnectedSources, id)
	e.connectedSources[id] = &ConnectedSource[In]{ID: id, Name: name, Source: source}
}

// RemoveSource moves the source with the given port handle to the
// disconnected set and returns it, if it was connected.
func (e *Endpoints[In, Out]) RemoveSource(source In) (ConnectedSource[In], bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, cs := range e.connectedSources {
		if cs.Source == source {
			delete(e.connectedSources, id)
			e.disconnectedSources[id] = cs.Name
			return *cs, true
		}
	}
	return ConnectedSource[In]{}, false
}

// RemoveSourceID moves the source with the given ID to the disconnected
// set and returns it, if it was connected.
func (e *Endpoints[In, Out]) RemoveSourceID(id SourceID) (ConnectedSource[In], bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cs, ok := e.connectedSources[id]
	if !ok {
		return ConnectedSource[In]{}, false
	}
	delete(e.connectedSources, id)
	e.disconnectedSources[id] = cs.Name
	return *cs, true
}

// Source returns the port handle of a connected source.
func (e *Endpoints[In, Out]) Source(id SourceID) (In, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cs, ok := e.connectedSources[id]
	if !ok {
		var zero In
		return zero, false
	}
	return cs.Source, true
}

// ConnectedSources returns the connected sources sorted by name.
func (e *Endpoints[In, Out]) ConnectedSources() []ConnectedSource[In] {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]ConnectedSource[In], 0, len(e.connectedSources))
	for _, cs := range e.connectedSources {
		out = append(out, *cs)
	}
	slices.SortFunc(out, func(a, b ConnectedSource[In]) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// AddDestination registers a connected destination. Adding an ID that
// is already connected is a no-op.
func (e *Endpoints[In, Out]) AddDestination(id DestinationID, name string, destination Out) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.connectedDestinations[id]; ok {
		return
	}
	delete(e.disconnectedDestinations, id)
	e.connectedDestinations[id] = &ConnectedDestination[Out]{
		ID: id, Name: name, Destination: destination,
	}
}

// RemoveDestination moves the destination with the given port handle to
// the disconnected set.
func (e *Endpoints[In, Out]) RemoveDestination(destination Out) (ConnectedDestination[Out], bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, cd := range e.connectedDestinations {
		if cd.Destination == destination {
			delete(e.connectedDestinations, id)
			e.disconnectedDestinations[id] = cd.Name
			return *cd, true
		}
	}
	return ConnectedDestination[Out]{}, false
}

// RemoveDestinationID moves the destination with the given ID to the
// disconnected set.
func (e *Endpoints[In, Out]) RemoveDestinationID(id DestinationID) (ConnectedDestination[Out], bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cd, ok := e.connectedDestinations[id]
	if !ok {
		return ConnectedDestination[Out]{}, false
	}
	delete(e.connectedDestinations, id)
	e.disconnectedDestinations[id] = cd.Name
	return *cd, true
}

// Destination returns the port handle of a connected destination.
func (e *Endpoints[In, Out]) Destination(id DestinationID) (Out, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cd, ok := e.connectedDestinations[id]
	if !ok {
		var zero Out
		return zero, false
	}
	return cd.Destination, true
}

// ConnectedDestinations returns the connected destinations sorted by
// name.
func (e *Endpoints[In, Out]) ConnectedDestinations() []ConnectedDestination[Out] {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]ConnectedDestination[Out], 0, len(e.connectedDestinations))
	for _, cd := range e.connectedDestinations {
		out = append(out, *cd)
	}
	slices.SortFunc(out, func(a, b ConnectedDestination[Out]) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
