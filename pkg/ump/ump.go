package ump

import "fmt"

// Word is a single 32-bit UMP word.
type Word = uint32

// Type is the message type nibble of a UMP packet (bits 31..28 of the
// first word).
type Type uint8

const (
	// TypeUtility is the utility message page (NOOP, jitter reduction).
	TypeUtility Type = 0x0
	// TypeSystem is the system real time and system common message page.
	TypeSystem Type = 0x1
	// TypeChannelVoice1 is the MIDI 1.0 channel voice message page.
	TypeChannelVoice1 Type = 0x2
	// TypeData64 is the 64-bit data message page (SysEx7).
	TypeData64 Type = 0x3
	// TypeChannelVoice2 is the MIDI 2.0 channel voice message page.
	TypeChannelVoice2 Type = 0x4
	// TypeData128 is the 128-bit data message page (SysEx8, mixed data).
	TypeData128 Type = 0x5
)

// Len returns the packet length in words for this message type.
// Unknown and reserved types count as a single word so that a decoder
// can always resynchronize on the next word.
func (t Type) Len() int {
	switch t {
	case TypeUtility, TypeSystem, TypeChannelVoice1:
		return 1
	case TypeData64, TypeChannelVoice2:
		return 2
	case TypeData128:
		return 4
	default:
		return 1
	}
}

// String returns a short name for the message type.
func (t Type) String() string {
	switch t {
	case TypeUtility:
		return "utility"
	case TypeSystem:
		return "system"
	case TypeChannelVoice1:
		return "channel-voice-1"
	case TypeData64:
		return "data-64"
	case TypeChannelVoice2:
		return "channel-voice-2"
	case TypeData128:
		return "data-128"
	default:
		return fmt.Sprintf("reserved-%x", uint8(t))
	}
}

// Data is the payload of a decoded message. The concrete types are
// Utility, System, ChannelVoice1 and ChannelVoice2.
type Data interface {
	// Type returns the UMP message type this payload belongs to.
	Type() Type
}

// Message is a decoded UMP message with its group.
type Message struct {
	Group uint8
	Data  Data
}

// Words encodes the message back into UMP words. The result is the
// packet a Decoder in the matching protocol mode would turn back into an
// equal Message. It returns nil for a message with nil data.
func (m Message) Words() []Word {
	if m.Data == nil {
		return nil
	}
	head := Word(m.Data.Type())<<28 | Word(m.Group&0x0f)<<24
	switch d := m.Data.(type) {
	case Utility:
		return []Word{head | d.word()}
	case System:
		return []Word{head | d.word()}
	case ChannelVoice1:
		return []Word{head | d.word()}
	case ChannelVoice2:
		w0, w1 := d.words()
		return []Word{head | w0, w1}
	default:
		return nil
	}
}

// String formats the message for logs and monitor output.
func (m Message) String() string {
	return fmt.Sprintf("g%d %v", m.Group, m.Data)
}

// extract splits the first word of a packet into its type and group
// nibbles.
func extract(w Word) (Type, uint8) {
	return Type((w >> 28) & 0x0f), uint8((w >> 24) & 0x0f)
}
