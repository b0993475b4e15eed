package pipe

import (
	"context"
	"errors"
	"testing"

	"github.com/kiro-audio/midi/pkg/midi"
	"github.com/kiro-audio/midi/pkg/ump"
)

var noteOn = []ump.Word{0x41923c00, 0xabcd0000}

func TestPipeSourceToInput(t *testing.T) {
	d := New("test")
	defer d.Close()

	src := d.CreateSource("virtual keys")

	h := midi.NewRingHandler(16)
	cfg := midi.NewInputConfig("all").
		WithSource(midi.MatchName(".*"), ump.Filter{})
	if _, err := d.CreateInput(cfg, h); err != nil {
		t.Fatalf("create input: %v", err)
	}

	if err := src.FeedAt(1234, noteOn...); err != nil {
		t.Fatalf("feed: %v", err)
	}

	ev, err := h.Events().Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if ev.Endpoint != src.ID() || ev.Timestamp != 1234 {
		t.Errorf("event=%v", ev)
	}
}

func TestPipeFeedMessage(t *testing.T) {
	d := New("test")
	defer d.Close()

	src := d.CreateSource("virtual keys")
	h := midi.NewRingHandler(16)
	cfg := midi.NewInputConfig("all").
		WithSource(midi.MatchID(src.ID()), ump.Filter{})
	if _, err := d.CreateInput(cfg, h); err != nil {
		t.Fatalf("create input: %v", err)
	}

	want := ump.Message{
		Group: 1,
		Data:  ump.ChannelVoice2{Channel: 2, Voice: ump.NoteOn{Note: 60, Velocity: 0x1000}},
	}
	if err := src.FeedMessage(want); err != nil {
		t.Fatalf("feed message: %v", err)
	}

	ev, err := h.Events().Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if ev.Message != want {
		t.Errorf("got=%v want=%v", ev.Message, want)
	}
	if ev.Timestamp == 0 {
		t.Error("timestamp not stamped")
	}
}

func TestPipeClosedSource(t *testing.T) {
	d := New("test")
	defer d.Close()

	src := d.CreateSource("gone")
	src.Close()

	if err := src.Feed(noteOn...); !errors.Is(err, ErrSourceClosed) {
		t.Errorf("err=%v, want ErrSourceClosed", err)
	}
	if got := d.Sources(); len(got) != 0 {
		t.Errorf("sources=%v", got)
	}
}

func TestPipeDestination(t *testing.T) {
	d := New("test")
	defer d.Close()

	dst := d.CreateDestination("virtual out", 16)

	msg := ump.Message{
		Group: 1,
		Data:  ump.ChannelVoice2{Channel: 2, Voice: ump.NoteOn{Note: 0x3c, Velocity: 0xabcd}},
	}
	if err := d.Send(context.Background(), dst.ID(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}

	for i, want := range noteOn {
		got, err := dst.Words().Next()
		if err != nil {
			t.Fatalf("next word %d: %v", i, err)
		}
		if got != want {
			t.Errorf("word %d: got=%08x want=%08x", i, got, want)
		}
	}

	names := d.Destinations()
	if len(names) != 1 || names[0].Name != "virtual out" {
		t.Errorf("destinations=%v", names)
	}
}
