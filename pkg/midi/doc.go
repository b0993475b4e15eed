// Package midi provides the core types of the Kiro MIDI input library:
// events, input handlers, source matching and the endpoint registry
// shared by all drivers.
//
// A driver (see pkg/driver) exposes the MIDI sources and destinations of
// a transport. Applications create named inputs; an input selects the
// sources it wants with SourceMatches (regular expressions over endpoint
// names, or exact endpoint IDs), attaches a per-source ump.Filter, and
// receives decoded messages as Events through a Handler.
//
// Example usage:
//
//	cfg := midi.NewInputConfig("synth").
//	    WithSource(midi.MatchName("novation.*"), ump.Filter{})
//
//	d.CreateInput(cfg, midi.HandlerFunc(func(ev midi.Event) {
//	    fmt.Println(ev)
//	}))
package midi
