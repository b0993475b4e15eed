package netump

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/kiro-audio/midi/pkg/midi"
	"github.com/kiro-audio/midi/pkg/ump"
)

func startDriver(t *testing.T) (*Driver, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	d := New("test")
	go d.Serve(ln)
	t.Cleanup(func() { d.Close() })
	return d, fmt.Sprintf("ws://%s%s", ln.Addr(), DefaultPath)
}

func waitForSource(t *testing.T, d *Driver, name string) midi.SourceInfo {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, s := range d.Sources() {
			if s.Name == name {
				return s
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("source %q did not appear", name)
	return midi.SourceInfo{}
}

func waitForGone(t *testing.T, d *Driver, name string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		found := false
		for _, s := range d.Sources() {
			if s.Name == name {
				found = true
			}
		}
		if !found {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("source %q did not disappear", name)
}

func TestNetumpClientToInput(t *testing.T) {
	d, url := startDriver(t)

	h := midi.NewRingHandler(16)
	cfg := midi.NewInputConfig("all").
		WithSource(midi.MatchName(".*"), ump.Filter{})
	if _, err := d.CreateInput(cfg, h); err != nil {
		t.Fatalf("create input: %v", err)
	}

	c, err := Dial(context.Background(), url, "padkontrol")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	src := waitForSource(t, d, "padkontrol")
	if len(src.ConnectedInputs) != 1 || src.ConnectedInputs[0] != "all" {
		t.Errorf("connected inputs=%v", src.ConnectedInputs)
	}

	want := ump.Message{
		Group: 1,
		Data:  ump.ChannelVoice2{Channel: 2, Voice: ump.NoteOn{Note: 60, Velocity: 0x7fff}},
	}
	if err := c.SendMessage(want); err != nil {
		t.Fatalf("send: %v", err)
	}

	ev, err := h.Events().Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if ev.Message != want {
		t.Errorf("got=%v want=%v", ev.Message, want)
	}
	if ev.Endpoint != src.ID {
		t.Errorf("endpoint=%d want=%d", ev.Endpoint, src.ID)
	}
}

func TestNetumpDriverToClient(t *testing.T) {
	d, url := startDriver(t)

	c, err := Dial(context.Background(), url, "synth")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	waitForSource(t, d, "synth")
	dests := d.Destinations()
	if len(dests) != 1 || dests[0].Name != "synth" {
		t.Fatalf("destinations=%v", dests)
	}

	want := ump.Message{
		Group: 0,
		Data:  ump.ChannelVoice2{Channel: 0, Voice: ump.ControlChange{Controller: 7, Value: 100}},
	}
	if err := d.Send(context.Background(), dests[0].ID, want); err != nil {
		t.Fatalf("send: %v", err)
	}

	for _, expect := range want.Words() {
		got, err := c.Words().Next()
		if err != nil {
			t.Fatalf("next word: %v", err)
		}
		if got != expect {
			t.Errorf("word got=%08x want=%08x", got, expect)
		}
	}
}

func TestNetumpUnplugOnClose(t *testing.T) {
	d, url := startDriver(t)

	c, err := Dial(context.Background(), url, "transient")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitForSource(t, d, "transient")

	c.Close()
	waitForGone(t, d, "transient")
}

func TestNetumpFrameCodec(t *testing.T) {
	words := []ump.Word{0x41923c00, 0xabcd0000, 0x10f80000}

	got, err := decodeFrame(encodeFrame(words))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(words) {
		t.Fatalf("len=%d", len(got))
	}
	for i := range words {
		if got[i] != words[i] {
			t.Errorf("word %d: got=%08x want=%08x", i, got[i], words[i])
		}
	}

	if _, err := decodeFrame([]byte{1, 2, 3}); err == nil {
		t.Error("want error for unaligned frame")
	}
}
