package ump

import "testing"

// feedWords runs encoded words back through a fresh decoder.
func feedWords(p Protocol, words []Word) (Message, bool) {
	dec := NewDecoder(p)
	var msg Message
	var ok bool
	for _, w := range words {
		msg, ok = dec.Feed(w, Filter{})
	}
	return msg, ok
}

func TestMessageWordsRoundTrip(t *testing.T) {
	midi2 := []Message{
		{Group: 0, Data: Utility{Status: UtilityNoop}},
		{Group: 3, Data: Utility{Status: UtilityJRTimestamp, Value: 0x1234}},
		{Group: 1, Data: System{Status: SystemTimingClock}},
		{Group: 0, Data: System{Status: SystemSongPosition, Value: 0x1fff}},
		{Group: 15, Data: System{Status: SystemTimeCode, Value: 0x42}},
		{Group: 1, Data: ChannelVoice2{Channel: 2, Voice: NoteOn{Note: 60, Velocity: 0xffff, AttrType: 1, AttrData: 7}}},
		{Group: 1, Data: ChannelVoice2{Channel: 2, Voice: NoteOff{Note: 60, Velocity: 0x8000}}},
		{Group: 0, Data: ChannelVoice2{Channel: 9, Voice: PolyPressure{Note: 38, Value: 0xdeadbeef}}},
		{Group: 0, Data: ChannelVoice2{Channel: 0, Voice: ControlChange{Controller: 7, Value: 1 << 31}}},
		{Group: 0, Data: ChannelVoice2{Channel: 0, Voice: ProgramChange{Program: 12}}},
		{Group: 0, Data: ChannelVoice2{Channel: 0, Voice: ProgramChange{Program: 12, Bank: 0x1abc, BankValid: true}}},
		{Group: 0, Data: ChannelVoice2{Channel: 4, Voice: ChannelPressure{Value: 42}}},
		{Group: 0, Data: ChannelVoice2{Channel: 4, Voice: PitchBend{Value: 0x80000000}}},
		{Group: 0, Data: ChannelVoice2{Channel: 4, Voice: PerNotePitchBend{Note: 60, Value: 0x80000001}}},
		{Group: 0, Data: ChannelVoice2{Channel: 0, Voice: RPN{Bank: 1, Index: 2, Value: 3}}},
		{Group: 0, Data: ChannelVoice2{Channel: 0, Voice: NRPN{Bank: 4, Index: 5, Value: 6}}},
		{Group: 0, Data: ChannelVoice2{Channel: 0, Voice: RelativeRPN{Bank: 1, Index: 2, Value: -3}}},
		{Group: 0, Data: ChannelVoice2{Channel: 0, Voice: RelativeNRPN{Bank: 1, Index: 2, Value: -128}}},
		{Group: 0, Data: ChannelVoice2{Channel: 0, Voice: RegisteredPerNoteController{Note: 60, Controller: 3, Value: 99}}},
		{Group: 0, Data: ChannelVoice2{Channel: 0, Voice: AssignablePerNoteController{Note: 60, Controller: 3, Value: 99}}},
		{Group: 0, Data: ChannelVoice2{Channel: 0, Voice: PerNoteManagement{Note: 60, Detach: true, Reset: true}}},
	}

	for _, want := range midi2 {
		t.Run(want.String(), func(t *testing.T) {
			words := want.Words()
			if len(words) != want.Data.Type().Len() {
				t.Fatalf("len(words)=%d want=%d", len(words), want.Data.Type().Len())
			}
			got, ok := feedWords(Protocol2, words)
			if !ok {
				t.Fatal("no message decoded")
			}
			if got != want {
				t.Errorf("got=%v want=%v", got, want)
			}
		})
	}

	midi1 := []Message{
		{Group: 2, Data: ChannelVoice1{Channel: 3, Voice: NoteOn1{Note: 64, Velocity: 100}}},
		{Group: 2, Data: ChannelVoice1{Channel: 3, Voice: NoteOff1{Note: 64, Velocity: 1}}},
		{Group: 0, Data: ChannelVoice1{Channel: 0, Voice: PolyPressure1{Note: 64, Pressure: 10}}},
		{Group: 0, Data: ChannelVoice1{Channel: 0, Voice: ControlChange1{Controller: 64, Value: 127}}},
		{Group: 0, Data: ChannelVoice1{Channel: 0, Voice: ProgramChange1{Program: 5}}},
		{Group: 0, Data: ChannelVoice1{Channel: 0, Voice: ChannelPressure1{Pressure: 99}}},
		{Group: 0, Data: ChannelVoice1{Channel: 0, Voice: PitchBend1{Value: 0x2000}}},
	}

	for _, want := range midi1 {
		t.Run(want.String(), func(t *testing.T) {
			got, ok := feedWords(Protocol1, want.Words())
			if !ok {
				t.Fatal("no message decoded")
			}
			if got != want {
				t.Errorf("got=%v want=%v", got, want)
			}
		})
	}
}

func TestTypeLen(t *testing.T) {
	cases := []struct {
		t    Type
		want int
	}{
		{TypeUtility, 1},
		{TypeSystem, 1},
		{TypeChannelVoice1, 1},
		{TypeData64, 2},
		{TypeChannelVoice2, 2},
		{TypeData128, 4},
		{Type(0x6), 1},
		{Type(0xf), 1},
	}
	for _, tc := range cases {
		if got := tc.t.Len(); got != tc.want {
			t.Errorf("Len(%v)=%d want=%d", tc.t, got, tc.want)
		}
	}
}

func TestMessageWordsNilData(t *testing.T) {
	if words := (Message{}).Words(); words != nil {
		t.Errorf("words=%v", words)
	}
}
