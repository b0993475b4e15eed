package ump

import "fmt"

// ChannelVoice2 is a MIDI 2.0 channel voice message (message type 0x4,
// two words). Values carry the extended MIDI 2.0 resolution: 16-bit
// velocity, 32-bit controller and pressure values.
type ChannelVoice2 struct {
	Channel uint8
	Voice   Voice2
}

// Type implements Data.
func (ChannelVoice2) Type() Type { return TypeChannelVoice2 }

func (cv ChannelVoice2) String() string {
	return fmt.Sprintf("ch%d %v", cv.Channel, cv.Voice)
}

// Voice2 is the payload of a MIDI 2.0 channel voice message.
type Voice2 interface {
	voice2()
}

// NoteOn starts a note with 16-bit velocity and an optional attribute.
type NoteOn struct {
	Note     uint8
	Velocity uint16
	AttrType uint8
	AttrData uint16
}

// NoteOff ends a note.
type NoteOff struct {
	Note     uint8
	Velocity uint16
	AttrType uint8
	AttrData uint16
}

// PolyPressure is per-note aftertouch with a 32-bit value.
type PolyPressure struct {
	Note  uint8
	Value uint32
}

// RegisteredPerNoteController is a registered controller addressed to a
// single sounding note.
type RegisteredPerNoteController struct {
	Note       uint8
	Controller uint8
	Value      uint32
}

// AssignablePerNoteController is an assignable controller addressed to a
// single sounding note.
type AssignablePerNoteController struct {
	Note       uint8
	Controller uint8
	Value      uint32
}

// PerNoteManagement controls per-note controller lifetime for a note.
type PerNoteManagement struct {
	Note uint8

	// Detach detaches per-note controllers from previously received
	// notes with the same note number.
	Detach bool

	// Reset sets per-note controllers of the note back to their
	// defaults.
	Reset bool
}

// ControlChange changes a controller with 32-bit resolution.
type ControlChange struct {
	Controller uint8
	Value      uint32
}

// RPN is a registered (parameter bank, index) controller change.
type RPN struct {
	Bank  uint8
	Index uint8
	Value uint32
}

// NRPN is a non-registered (parameter bank, index) controller change.
type NRPN struct {
	Bank  uint8
	Index uint8
	Value uint32
}

// RelativeRPN is a relative registered controller change. Value is a
// signed two's complement delta.
type RelativeRPN struct {
	Bank  uint8
	Index uint8
	Value int32
}

// RelativeNRPN is a relative non-registered controller change.
type RelativeNRPN struct {
	Bank  uint8
	Index uint8
	Value int32
}

// ProgramChange selects a program, optionally with a bank.
type ProgramChange struct {
	Program uint8

	// Bank is the 14-bit bank number, valid only when BankValid is set.
	Bank      uint16
	BankValid bool
}

// ChannelPressure is channel aftertouch with a 32-bit value.
type ChannelPressure struct {
	Value uint32
}

// PitchBend bends the pitch with 32-bit resolution, 0x80000000 center.
type PitchBend struct {
	Value uint32
}

// PerNotePitchBend bends the pitch of a single sounding note.
type PerNotePitchBend struct {
	Note  uint8
	Value uint32
}

func (NoteOn) voice2()                      {}
func (NoteOff) voice2()                     {}
func (PolyPressure) voice2()                {}
func (RegisteredPerNoteController) voice2() {}
func (AssignablePerNoteController) voice2() {}
func (PerNoteManagement) voice2()           {}
func (ControlChange) voice2()               {}
func (RPN) voice2()                         {}
func (NRPN) voice2()                        {}
func (RelativeRPN) voice2()                 {}
func (RelativeNRPN) voice2()                {}
func (ProgramChange) voice2()               {}
func (ChannelPressure) voice2()             {}
func (PitchBend) voice2()                   {}
func (PerNotePitchBend) voice2()            {}

func (v NoteOn) String() string {
	return fmt.Sprintf("note-on %d vel=%d", v.Note, v.Velocity)
}

func (v NoteOff) String() string {
	return fmt.Sprintf("note-off %d vel=%d", v.Note, v.Velocity)
}

func (v PolyPressure) String() string {
	return fmt.Sprintf("poly-pressure %d val=%d", v.Note, v.Value)
}

func (v ControlChange) String() string {
	return fmt.Sprintf("cc %d val=%d", v.Controller, v.Value)
}

func (v ProgramChange) String() string {
	if v.BankValid {
		return fmt.Sprintf("program %d bank=%d", v.Program, v.Bank)
	}
	return fmt.Sprintf("program %d", v.Program)
}

func (v ChannelPressure) String() string {
	return fmt.Sprintf("channel-pressure %d", v.Value)
}

func (v PitchBend) String() string {
	return fmt.Sprintf("pitch-bend %d", v.Value)
}

func (v PerNotePitchBend) String() string {
	return fmt.Sprintf("per-note-pitch-bend %d val=%d", v.Note, v.Value)
}

// MIDI 2.0 only channel voice opcodes.
const (
	opRegisteredPNC     = 0x0
	opAssignablePNC     = 0x1
	opRPN               = 0x2
	opNRPN              = 0x3
	opRelativeRPN       = 0x4
	opRelativeNRPN      = 0x5
	opPerNotePitchBend  = 0x6
	opPerNoteManagement = 0xf
)

const (
	pnmReset  = 0x01
	pnmDetach = 0x02
)

func decodeChannelVoice2(w0, w1 Word) (ChannelVoice2, bool) {
	op := uint8((w0 >> 20) & 0x0f)
	ch := uint8((w0 >> 16) & 0x0f)
	b2 := uint8((w0 >> 8) & 0xff)
	b3 := uint8(w0 & 0xff)

	var voice Voice2
	switch op {
	case opRegisteredPNC:
		voice = RegisteredPerNoteController{Note: b2 & 0x7f, Controller: b3, Value: w1}
	case opAssignablePNC:
		voice = AssignablePerNoteController{Note: b2 & 0x7f, Controller: b3, Value: w1}
	case opRPN:
		voice = RPN{Bank: b2 & 0x7f, Index: b3 & 0x7f, Value: w1}
	case opNRPN:
		voice = NRPN{Bank: b2 & 0x7f, Index: b3 & 0x7f, Value: w1}
	case opRelativeRPN:
		voice = RelativeRPN{Bank: b2 & 0x7f, Index: b3 & 0x7f, Value: int32(w1)}
	case opRelativeNRPN:
		voice = RelativeNRPN{Bank: b2 & 0x7f, Index: b3 & 0x7f, Value: int32(w1)}
	case opPerNotePitchBend:
		voice = PerNotePitchBend{Note: b2 & 0x7f, Value: w1}
	case opNoteOff:
		voice = NoteOff{
			Note:     b2 & 0x7f,
			AttrType: b3,
			Velocity: uint16(w1 >> 16),
			AttrData: uint16(w1),
		}
	case opNoteOn:
		voice = NoteOn{
			Note:     b2 & 0x7f,
			AttrType: b3,
			Velocity: uint16(w1 >> 16),
			AttrData: uint16(w1),
		}
	case opPolyPressure:
		voice = PolyPressure{Note: b2 & 0x7f, Value: w1}
	case opControlChange:
		voice = ControlChange{Controller: b2 & 0x7f, Value: w1}
	case opProgramChange:
		voice = ProgramChange{
			Program:   uint8((w1 >> 24) & 0x7f),
			Bank:      uint16((w1>>8)&0x7f)<<7 | uint16(w1&0x7f),
			BankValid: b3&0x01 != 0,
		}
	case opChannelPressure:
		voice = ChannelPressure{Value: w1}
	case opPitchBend:
		voice = PitchBend{Value: w1}
	case opPerNoteManagement:
		voice = PerNoteManagement{
			Note:   b2 & 0x7f,
			Detach: b3&pnmDetach != 0,
			Reset:  b3&pnmReset != 0,
		}
	default:
		return ChannelVoice2{}, false
	}
	return ChannelVoice2{Channel: ch, Voice: voice}, true
}

func (cv ChannelVoice2) words() (Word, Word) {
	var op, b2, b3 uint8
	var w1 Word
	switch v := cv.Voice.(type) {
	case RegisteredPerNoteController:
		op, b2, b3, w1 = opRegisteredPNC, v.Note, v.Controller, v.Value
	case AssignablePerNoteController:
		op, b2, b3, w1 = opAssignablePNC, v.Note, v.Controller, v.Value
	case RPN:
		op, b2, b3, w1 = opRPN, v.Bank, v.Index, v.Value
	case NRPN:
		op, b2, b3, w1 = opNRPN, v.Bank, v.Index, v.Value
	case RelativeRPN:
		op, b2, b3, w1 = opRelativeRPN, v.Bank, v.Index, Word(v.Value)
	case RelativeNRPN:
		op, b2, b3, w1 = opRelativeNRPN, v.Bank, v.Index, Word(v.Value)
	case PerNotePitchBend:
		op, b2, w1 = opPerNotePitchBend, v.Note, v.Value
	case NoteOff:
		op, b2, b3 = opNoteOff, v.Note, v.AttrType
		w1 = Word(v.Velocity)<<16 | Word(v.AttrData)
	case NoteOn:
		op, b2, b3 = opNoteOn, v.Note, v.AttrType
		w1 = Word(v.Velocity)<<16 | Word(v.AttrData)
	case PolyPressure:
		op, b2, w1 = opPolyPressure, v.Note, v.Value
	case ControlChange:
		op, b2, w1 = opControlChange, v.Controller, v.Value
	case ProgramChange:
		op = opProgramChange
		if v.BankValid {
			b3 = 0x01
		}
		w1 = Word(v.Program&0x7f)<<24 |
			Word((v.Bank>>7)&0x7f)<<8 | Word(v.Bank&0x7f)
	case ChannelPressure:
		op, w1 = opChannelPressure, v.Value
	case PitchBend:
		op, w1 = opPitchBend, v.Value
	case PerNoteManagement:
		op, b2 = opPerNoteManagement, v.Note
		if v.Detach {
			b3 |= pnmDetach
		}
		if v.Reset {
			b3 |= pnmReset
		}
	}
	w0 := Word(op&0x0f)<<20 | Word(cv.Channel&0x0f)<<16 |
		Word(b2)<<8 | Word(b3)
	return w0, w1
}
