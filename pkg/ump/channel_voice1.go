package ump

import "fmt"

// ChannelVoice1 is a MIDI 1.0 channel voice message (message type 0x2).
// Data values keep the 7-bit resolution of the MIDI 1.0 protocol.
type ChannelVoice1 struct {
	Channel uint8
	Voice   Voice1
}

// Type implements Data.
func (ChannelVoice1) Type() Type { return TypeChannelVoice1 }

func (cv ChannelVoice1) String() string {
	return fmt.Sprintf("ch%d %v", cv.Channel, cv.Voice)
}

// Voice1 is the payload of a MIDI 1.0 channel voice message. The
// concrete types are NoteOn1, NoteOff1, PolyPressure1, ControlChange1,
// ProgramChange1, ChannelPressure1 and PitchBend1.
type Voice1 interface {
	voice1()
}

// NoteOn1 starts a note. Per the MIDI 1.0 protocol a NoteOn with
// velocity zero is delivered as a NoteOff1 with velocity zero.
type NoteOn1 struct {
	Note     uint8
	Velocity uint8
}

// NoteOff1 ends a note.
type NoteOff1 struct {
	Note     uint8
	Velocity uint8
}

// PolyPressure1 is per-note aftertouch.
type PolyPressure1 struct {
	Note     uint8
	Pressure uint8
}

// ControlChange1 changes a controller value.
type ControlChange1 struct {
	Controller uint8
	Value      uint8
}

// ProgramChange1 selects a program.
type ProgramChange1 struct {
	Program uint8
}

// ChannelPressure1 is channel aftertouch.
type ChannelPressure1 struct {
	Pressure uint8
}

// PitchBend1 bends the pitch. Value is the 14-bit bend, 0x2000 center.
type PitchBend1 struct {
	Value uint16
}

func (NoteOn1) voice1()          {}
func (NoteOff1) voice1()         {}
func (PolyPressure1) voice1()    {}
func (ControlChange1) voice1()   {}
func (ProgramChange1) voice1()   {}
func (ChannelPressure1) voice1() {}
func (PitchBend1) voice1()       {}

func (v NoteOn1) String() string {
	return fmt.Sprintf("note-on %d vel=%d", v.Note, v.Velocity)
}

func (v NoteOff1) String() string {
	return fmt.Sprintf("note-off %d vel=%d", v.Note, v.Velocity)
}

func (v PolyPressure1) String() string {
	return fmt.Sprintf("poly-pressure %d val=%d", v.Note, v.Pressure)
}

func (v ControlChange1) String() string {
	return fmt.Sprintf("cc %d val=%d", v.Controller, v.Value)
}

func (v ProgramChange1) String() string {
	return fmt.Sprintf("program %d", v.Program)
}

func (v ChannelPressure1) String() string {
	return fmt.Sprintf("channel-pressure %d", v.Pressure)
}

func (v PitchBend1) String() string {
	return fmt.Sprintf("pitch-bend %d", v.Value)
}

// Channel voice opcodes, shared between the MIDI 1.0 and MIDI 2.0 pages.
const (
	opNoteOff         = 0x8
	opNoteOn          = 0x9
	opPolyPressure    = 0xa
	opControlChange   = 0xb
	opProgramChange   = 0xc
	opChannelPressure = 0xd
	opPitchBend       = 0xe
)

func decodeChannelVoice1(w Word) (ChannelVoice1, bool) {
	op := uint8((w >> 20) & 0x0f)
	ch := uint8((w >> 16) & 0x0f)
	d1 := uint8((w >> 8) & 0x7f)
	d2 := uint8(w & 0x7f)

	var voice Voice1
	switch op {
	case opNoteOff:
		voice = NoteOff1{Note: d1, Velocity: d2}
	case opNoteOn:
		if d2 == 0 {
			voice = NoteOff1{Note: d1}
		} else {
			voice = NoteOn1{Note: d1, Velocity: d2}
		}
	case opPolyPressure:
		voice = PolyPressure1{Note: d1, Pressure: d2}
	case opControlChange:
		voice = ControlChange1{Controller: d1, Value: d2}
	case opProgramChange:
		voice = ProgramChange1{Program: d1}
	case opChannelPressure:
		voice = ChannelPressure1{Pressure: d1}
	case opPitchBend:
		voice = PitchBend1{Value: uint16(d1) | uint16(d2)<<7}
	default:
		return ChannelVoice1{}, false
	}
	return ChannelVoice1{Channel: ch, Voice: voice}, true
}

func (cv ChannelVoice1) word() Word {
	var op, d1, d2 uint8
	switch v := cv.Voice.(type) {
	case NoteOff1:
		op, d1, d2 = opNoteOff, v.Note, v.Velocity
	case NoteOn1:
		op, d1, d2 = opNoteOn, v.Note, v.Velocity
	case PolyPressure1:
		op, d1, d2 = opPolyPressure, v.Note, v.Pressure
	case ControlChange1:
		op, d1, d2 = opControlChange, v.Controller, v.Value
	case ProgramChange1:
		op, d1 = opProgramChange, v.Program
	case ChannelPressure1:
		op, d1 = opChannelPressure, v.Pressure
	case PitchBend1:
		op, d1, d2 = opPitchBend, uint8(v.Value&0x7f), uint8((v.Value>>7)&0x7f)
	}
	return Word(op&0x0f)<<20 | Word(cv.Channel&0x0f)<<16 |
		Word(d1&0x7f)<<8 | Word(d2&0x7f)
}
