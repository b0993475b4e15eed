package midi

import "github.com/kiro-audio/midi/pkg/ump"

// InputConfig describes a named input: which sources it listens to and
// with which filters.
type InputConfig struct {
	// Name identifies the input within its driver. Must be unique.
	Name string

	// Sources selects the source endpoints the input connects to.
	Sources SourceMatches

	// Protocol selects the decode protocol for the input's traffic.
	// The zero value is ump.Protocol2.
	Protocol ump.Protocol
}

// NewInputConfig creates an input config with the given name and no
// sources.
func NewInputConfig(name string) InputConfig {
	return InputConfig{Name: name}
}

// WithSource returns a copy with one more (match, filter) pair.
func (c InputConfig) WithSource(match SourceMatch, filter ump.Filter) InputConfig {
	c.Sources = c.Sources.WithSource(match, filter)
	return c
}

// WithProtocol returns a copy with the decode protocol set.
func (c InputConfig) WithProtocol(p ump.Protocol) InputConfig {
	c.Protocol = p
	return c
}

// DecodeProtocol returns the effective decode protocol.
func (c InputConfig) DecodeProtocol() ump.Protocol {
	if c.Protocol == 0 {
		return ump.Protocol2
	}
	return c.Protocol
}

// InputInfo describes an existing input.
type InputInfo struct {
	Name             string
	Sources          SourceMatches
	ConnectedSources []SourceID
}
