// Package config loads the kiromidi CLI configuration.
//
// Configuration lives under os.UserConfigDir()/kiromidi/:
//
//	~/Library/Application Support/kiromidi/   (macOS)
//	~/.config/kiromidi/                       (Linux)
//	%AppData%/kiromidi/                       (Windows)
//
// Layout:
//
//	kiromidi/
//	├── config.yaml    # listeners and input profiles
//	└── sessions/      # captured session store (BadgerDB)
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/kiro-audio/midi/pkg/midi"
	"github.com/kiro-audio/midi/pkg/ump"
)

const (
	// appDir is the directory name under os.UserConfigDir().
	appDir = "kiromidi"

	configFile  = "config.yaml"
	sessionsDir = "sessions"
)

// Config is the kiromidi CLI configuration.
type Config struct {
	// Listen is the address of the netump WebSocket listener.
	Listen string `yaml:"listen"`

	// RTPListen is the UDP address of the RTP listener. Empty disables
	// RTP.
	RTPListen string `yaml:"rtp_listen,omitempty"`

	// StoreDir overrides the session store directory.
	StoreDir string `yaml:"store_dir,omitempty"`

	// Inputs are the input profiles created by monitor and record.
	Inputs []InputSpec `yaml:"inputs,omitempty"`
}

// InputSpec is one input profile.
type InputSpec struct {
	Name string `yaml:"name"`

	// Protocol is "midi1" or "midi2". Empty means midi2.
	Protocol string `yaml:"protocol,omitempty"`

	Sources []SourceSpec `yaml:"sources"`
}

// SourceSpec is one source match with its filter.
type SourceSpec struct {
	// Match is a regular expression over source endpoint names.
	Match string `yaml:"match"`

	// Groups restricts the filter to these groups. Empty passes all.
	Groups []uint8 `yaml:"groups,omitempty"`

	// Channels restricts the filter per group. Empty passes all.
	Channels map[uint8][]uint8 `yaml:"channels,omitempty"`
}

// Default returns the built-in configuration: a netump listener and a
// single input matching every source.
func Default() *Config {
	return &Config{
		Listen: "127.0.0.1:7791",
		Inputs: []InputSpec{
			{
				Name:    "all",
				Sources: []SourceSpec{{Match: ".*"}},
			},
		},
	}
}

// Load reads the configuration from path, or from the default location
// when path is empty. A missing file yields Default.
func Load(path string) (*Config, error) {
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("config: cannot determine config directory: %w", err)
		}
		path = filepath.Join(base, appDir, configFile)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Listen == "" {
		cfg.Listen = Default().Listen
	}
	return cfg, nil
}

// SessionsPath returns the session store directory, creating it if
// needed.
func (c *Config) SessionsPath() (string, error) {
	dir := c.StoreDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("config: cannot determine config directory: %w", err)
		}
		dir = filepath.Join(base, appDir, sessionsDir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("config: create session store dir: %w", err)
	}
	return dir, nil
}

// InputConfig converts the profile to a driver input config.
func (s InputSpec) InputConfig() (midi.InputConfig, error) {
	cfg := midi.NewInputConfig(s.Name)
	switch s.Protocol {
	case "", "midi2":
		cfg = cfg.WithProtocol(ump.Protocol2)
	case "midi1":
		cfg = cfg.WithProtocol(ump.Protocol1)
	default:
		return midi.InputConfig{}, fmt.Errorf("config: input %q: unknown protocol %q", s.Name, s.Protocol)
	}
	for _, src := range s.Sources {
		match, err := midi.CompileName(src.Match)
		if err != nil {
			return midi.InputConfig{}, fmt.Errorf("config: input %q: %w", s.Name, err)
		}
		var filter ump.Filter
		if len(src.Groups) > 0 {
			filter = filter.WithGroups(src.Groups...)
		}
		for group, channels := range src.Channels {
			filter = filter.WithChannels(group, channels...)
		}
		cfg = cfg.WithSource(match, filter)
	}
	return cfg, nil
}
