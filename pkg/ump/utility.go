package ump

import "fmt"

// UtilityStatus is the status nibble of a utility message.
type UtilityStatus uint8

const (
	// UtilityNoop does nothing. It pads streams and keeps links alive.
	UtilityNoop UtilityStatus = 0x0
	// UtilityJRClock carries a jitter reduction clock time.
	UtilityJRClock UtilityStatus = 0x1
	// UtilityJRTimestamp carries a jitter reduction timestamp.
	UtilityJRTimestamp UtilityStatus = 0x2
)

// Utility is a utility message (message type 0x0).
type Utility struct {
	Status UtilityStatus

	// Value is the 16-bit clock or timestamp value. Zero for NOOP.
	Value uint16
}

// Type implements Data.
func (Utility) Type() Type { return TypeUtility }

func (u Utility) String() string {
	switch u.Status {
	case UtilityNoop:
		return "noop"
	case UtilityJRClock:
		return fmt.Sprintf("jr-clock %d", u.Value)
	case UtilityJRTimestamp:
		return fmt.Sprintf("jr-timestamp %d", u.Value)
	default:
		return fmt.Sprintf("utility-%x %d", uint8(u.Status), u.Value)
	}
}

func decodeUtility(w Word) Utility {
	return Utility{
		Status: UtilityStatus((w >> 20) & 0x0f),
		Value:  uint16(w & 0xffff),
	}
}

func (u Utility) word() Word {
	return Word(u.Status&0x0f)<<20 | Word(u.Value)
}
