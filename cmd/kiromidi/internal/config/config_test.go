package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kiro-audio/midi/pkg/ump"
)

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != Default().Listen {
		t.Errorf("Listen = %q, want default %q", cfg.Listen, Default().Listen)
	}
	if len(cfg.Inputs) != 1 {
		t.Fatalf("Inputs = %d, want 1", len(cfg.Inputs))
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
listen: "0.0.0.0:9000"
rtp_listen: "0.0.0.0:5004"
inputs:
  - name: keys
    protocol: midi1
    sources:
      - match: "Key.*"
        groups: [0, 1]
        channels:
          0: [0, 9]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.RTPListen != "0.0.0.0:5004" {
		t.Errorf("RTPListen = %q", cfg.RTPListen)
	}
	if len(cfg.Inputs) != 1 {
		t.Fatalf("Inputs = %d, want 1", len(cfg.Inputs))
	}

	in, err := cfg.Inputs[0].InputConfig()
	if err != nil {
		t.Fatalf("InputConfig: %v", err)
	}
	if in.Name != "keys" {
		t.Errorf("Name = %q", in.Name)
	}
	if got := in.DecodeProtocol(); got != ump.Protocol1 {
		t.Errorf("protocol = %v, want Protocol1", got)
	}
	if in.Sources.Len() != 1 {
		t.Fatalf("Sources = %d, want 1", in.Sources.Len())
	}
	filter, ok := in.Sources.MatchFilter(0, "Keystation 61")
	if !ok {
		t.Fatal("source did not match")
	}
	if !filter.Group(1) || filter.Group(2) {
		t.Errorf("group filter wrong: %+v", filter)
	}
	if !filter.Channel(0, 9) || filter.Channel(0, 1) {
		t.Errorf("channel filter wrong: %+v", filter)
	}
}

func TestLoadBadProtocol(t *testing.T) {
	spec := InputSpec{Name: "x", Protocol: "midi3", Sources: []SourceSpec{{Match: ".*"}}}
	if _, err := spec.InputConfig(); err == nil {
		t.Fatal("want error for unknown protocol")
	}
}

func TestLoadBadRegexp(t *testing.T) {
	spec := InputSpec{Name: "x", Sources: []SourceSpec{{Match: "("}}}
	if _, err := spec.InputConfig(); err == nil {
		t.Fatal("want error for bad regexp")
	}
}
