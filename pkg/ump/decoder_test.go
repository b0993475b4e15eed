package ump

import "testing"

func TestDecoderFirstWordDoesNotEmit(t *testing.T) {
	dec := NewDecoder(Protocol2)

	if msg, ok := dec.Feed(0x40903c00, Filter{}); ok {
		t.Errorf("unexpected message: %v", msg)
	}
}

func TestDecoderLastWordEmits(t *testing.T) {
	dec := NewDecoder(Protocol2)

	dec.Feed(0x41923c00, Filter{})
	msg, ok := dec.Feed(0xabcd0000, Filter{})
	if !ok {
		t.Fatal("no message emitted")
	}
	want := Message{
		Group: 1,
		Data: ChannelVoice2{
			Channel: 2,
			Voice: NoteOn{
				Note:     0x3c,
				Velocity: 0xabcd,
			},
		},
	}
	if msg != want {
		t.Errorf("got=%v want=%v", msg, want)
	}
}

func TestDecoderEmitsTwoMessages(t *testing.T) {
	dec := NewDecoder(Protocol2)

	dec.Feed(0x41923c00, Filter{})
	if _, ok := dec.Feed(0xabcd0000, Filter{}); !ok {
		t.Fatal("first message not emitted")
	}

	dec.Feed(0x43853d00, Filter{})
	msg, ok := dec.Feed(0x12340000, Filter{})
	if !ok {
		t.Fatal("second message not emitted")
	}
	want := Message{
		Group: 3,
		Data: ChannelVoice2{
			Channel: 5,
			Voice: NoteOff{
				Note:     0x3d,
				Velocity: 0x1234,
			},
		},
	}
	if msg != want {
		t.Errorf("got=%v want=%v", msg, want)
	}
}

func TestDecoderProtocol1(t *testing.T) {
	t.Run("channel voice 1", func(t *testing.T) {
		dec := NewDecoder(Protocol1)

		// Note on, group 0, channel 3, note 64, velocity 100.
		msg, ok := dec.Feed(0x20934064, Filter{})
		if !ok {
			t.Fatal("no message emitted")
		}
		want := Message{
			Data: ChannelVoice1{
				Channel: 3,
				Voice:   NoteOn1{Note: 0x40, Velocity: 0x64},
			},
		}
		if msg != want {
			t.Errorf("got=%v want=%v", msg, want)
		}
	})

	t.Run("note on with zero velocity is note off", func(t *testing.T) {
		dec := NewDecoder(Protocol1)

		msg, ok := dec.Feed(0x20904000, Filter{})
		if !ok {
			t.Fatal("no message emitted")
		}
		if _, isOff := msg.Data.(ChannelVoice1).Voice.(NoteOff1); !isOff {
			t.Errorf("got=%v, want note off", msg)
		}
	})

	t.Run("midi2 page is dropped", func(t *testing.T) {
		dec := NewDecoder(Protocol1)

		dec.Feed(0x41923c00, Filter{})
		if msg, ok := dec.Feed(0xabcd0000, Filter{}); ok {
			t.Errorf("unexpected message: %v", msg)
		}
	})
}

func TestDecoderProtocol2DropsMIDI1Page(t *testing.T) {
	dec := NewDecoder(Protocol2)

	if msg, ok := dec.Feed(0x20934064, Filter{}); ok {
		t.Errorf("unexpected message: %v", msg)
	}
}

func TestDecoderUtility(t *testing.T) {
	dec := NewDecoder(Protocol2)

	msg, ok := dec.Feed(0x08100040, Filter{})
	if !ok {
		t.Fatal("no message emitted")
	}
	want := Message{
		Group: 8,
		Data:  Utility{Status: UtilityJRClock, Value: 0x40},
	}
	if msg != want {
		t.Errorf("got=%v want=%v", msg, want)
	}
}

func TestDecoderSystem(t *testing.T) {
	cases := []struct {
		name string
		word Word
		want Message
	}{
		{
			name: "timing clock",
			word: 0x10f80000,
			want: Message{Data: System{Status: SystemTimingClock}},
		},
		{
			name: "start",
			word: 0x12fa0000,
			want: Message{Group: 2, Data: System{Status: SystemStart}},
		},
		{
			name: "song position",
			word: 0x10f27f01,
			want: Message{Data: System{Status: SystemSongPosition, Value: 0x7f | 0x01<<7}},
		},
		{
			name: "song select",
			word: 0x10f30500,
			want: Message{Data: System{Status: SystemSongSelect, Value: 5}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec := NewDecoder(Protocol2)
			msg, ok := dec.Feed(tc.word, Filter{})
			if !ok {
				t.Fatal("no message emitted")
			}
			if msg != tc.want {
				t.Errorf("got=%v want=%v", msg, tc.want)
			}
		})
	}

	t.Run("undefined status is dropped", func(t *testing.T) {
		dec := NewDecoder(Protocol2)
		if msg, ok := dec.Feed(0x10f40000, Filter{}); ok {
			t.Errorf("unexpected message: %v", msg)
		}
	})

	// The system page carries the same traffic under both protocols.
	t.Run("decodes under midi1 too", func(t *testing.T) {
		dec := NewDecoder(Protocol1)
		msg, ok := dec.Feed(0x10f80000, Filter{})
		if !ok {
			t.Fatal("no message emitted")
		}
		want := Message{Data: System{Status: SystemTimingClock}}
		if msg != want {
			t.Errorf("got=%v want=%v", msg, want)
		}
	})
}

func TestDecoderSkipsDataPackets(t *testing.T) {
	dec := NewDecoder(Protocol2)

	// A 128-bit data packet is counted and consumed without emitting.
	for _, w := range []Word{0x50000000, 0, 0, 0} {
		if msg, ok := dec.Feed(w, Filter{}); ok {
			t.Errorf("unexpected message: %v", msg)
		}
	}

	// The decoder must be in sync for the next packet.
	dec.Feed(0x41923c00, Filter{})
	if _, ok := dec.Feed(0xabcd0000, Filter{}); !ok {
		t.Error("decoder out of sync after data packet")
	}
}

func TestDecoderReset(t *testing.T) {
	dec := NewDecoder(Protocol2)

	dec.Feed(0x41923c00, Filter{})
	dec.Reset()

	// The word completing the dropped packet starts a new one instead.
	if msg, ok := dec.Feed(0xabcd0000, Filter{}); ok {
		t.Errorf("unexpected message: %v", msg)
	}
}

func TestDecoderFilter(t *testing.T) {
	noteOn := []Word{0x41923c00, 0xabcd0000} // group 1, channel 2

	feed := func(t *testing.T, f Filter) (Message, bool) {
		t.Helper()
		dec := NewDecoder(Protocol2)
		dec.Feed(noteOn[0], f)
		return dec.Feed(noteOn[1], f)
	}

	t.Run("group pass", func(t *testing.T) {
		if _, ok := feed(t, Filter{}.WithGroups(1)); !ok {
			t.Error("message filtered out")
		}
	})

	t.Run("group drop", func(t *testing.T) {
		if msg, ok := feed(t, Filter{}.WithGroups(2)); ok {
			t.Errorf("unexpected message: %v", msg)
		}
	})

	t.Run("channel pass", func(t *testing.T) {
		if _, ok := feed(t, Filter{}.WithChannels(1, 2)); !ok {
			t.Error("message filtered out")
		}
	})

	t.Run("channel drop", func(t *testing.T) {
		if msg, ok := feed(t, Filter{}.WithChannels(1, 3)); ok {
			t.Errorf("unexpected message: %v", msg)
		}
	})

	t.Run("channel mask of other group does not apply", func(t *testing.T) {
		if _, ok := feed(t, Filter{}.WithChannels(2, 3)); !ok {
			t.Error("message filtered out")
		}
	})

	t.Run("type drop", func(t *testing.T) {
		if msg, ok := feed(t, Filter{}.WithTypes(TypeUtility)); ok {
			t.Errorf("unexpected message: %v", msg)
		}
	})
}
