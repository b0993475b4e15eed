package ump

import "fmt"

// SystemStatus is the status byte of a system common or system real time
// message, carried in byte 2 of the packet word.
type SystemStatus uint8

const (
	SystemTimeCode      SystemStatus = 0xf1
	SystemSongPosition  SystemStatus = 0xf2
	SystemSongSelect    SystemStatus = 0xf3
	SystemTuneRequest   SystemStatus = 0xf6
	SystemTimingClock   SystemStatus = 0xf8
	SystemStart         SystemStatus = 0xfa
	SystemContinue      SystemStatus = 0xfb
	SystemStop          SystemStatus = 0xfc
	SystemActiveSensing SystemStatus = 0xfe
	SystemReset         SystemStatus = 0xff
)

// System is a system common or system real time message (message type
// 0x1).
type System struct {
	Status SystemStatus

	// Value carries the message data: the 7-bit time code or song select
	// value, or the 14-bit song position. Zero for messages without data.
	Value uint16
}

// Type implements Data.
func (System) Type() Type { return TypeSystem }

func (s System) String() string {
	switch s.Status {
	case SystemTimeCode:
		return fmt.Sprintf("time-code %d", s.Value)
	case SystemSongPosition:
		return fmt.Sprintf("song-position %d", s.Value)
	case SystemSongSelect:
		return fmt.Sprintf("song-select %d", s.Value)
	case SystemTuneRequest:
		return "tune-request"
	case SystemTimingClock:
		return "timing-clock"
	case SystemStart:
		return "start"
	case SystemContinue:
		return "continue"
	case SystemStop:
		return "stop"
	case SystemActiveSensing:
		return "active-sensing"
	case SystemReset:
		return "reset"
	default:
		return fmt.Sprintf("system-%02x", uint8(s.Status))
	}
}

// knownSystem reports whether the status byte is a defined system
// message. Undefined status bytes decode to no message.
func knownSystem(st SystemStatus) bool {
	switch st {
	case SystemTimeCode, SystemSongPosition, SystemSongSelect,
		SystemTuneRequest, SystemTimingClock, SystemStart,
		SystemContinue, SystemStop, SystemActiveSensing, SystemReset:
		return true
	}
	return false
}

func decodeSystem(w Word) (System, bool) {
	st := SystemStatus((w >> 16) & 0xff)
	if !knownSystem(st) {
		return System{}, false
	}
	d1 := uint16((w >> 8) & 0x7f)
	d2 := uint16(w & 0x7f)
	s := System{Status: st}
	switch st {
	case SystemSongPosition:
		// 14-bit value, LSB first.
		s.Value = d1 | d2<<7
	case SystemTimeCode, SystemSongSelect:
		s.Value = d1
	}
	return s, true
}

func (s System) word() Word {
	w := Word(s.Status) << 16
	switch s.Status {
	case SystemSongPosition:
		w |= Word(s.Value&0x7f)<<8 | Word((s.Value>>7)&0x7f)
	case SystemTimeCode, SystemSongSelect:
		w |= Word(s.Value&0x7f) << 8
	}
	return w
}
