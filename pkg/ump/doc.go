// Package ump implements the Universal MIDI Packet format.
//
// A UMP stream is a sequence of 32-bit words. Each packet is one to four
// words long; the packet length is determined by the message type nibble of
// the first word. The package provides:
//
//   - Message types for utility, system, MIDI 1.0 channel voice and
//     MIDI 2.0 channel voice messages
//   - A streaming Decoder that consumes one word at a time and emits
//     complete messages
//   - Encoding of messages back to UMP words
//   - Filter for selecting messages by type, group and channel
//
// Example usage:
//
//	dec := ump.NewDecoder(ump.Protocol2)
//	for _, w := range words {
//	    if msg, ok := dec.Feed(w, ump.Filter{}); ok {
//	        fmt.Println(msg)
//	    }
//	}
package ump
