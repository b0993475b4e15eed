package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kiro-audio/midi/cmd/kiromidi/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Global configuration (loaded at init time)
	globalConfig  *config.Config
	configLoadErr error
)

var rootCmd = &cobra.Command{
	Use:   "kiromidi",
	Short: "Realtime MIDI hub for UMP traffic",
	Long: `kiromidi - a realtime hub for Universal MIDI Packet traffic.

The hub accepts sources over WebSocket (and optionally RTP), routes
their traffic through named inputs with per-source filters, and can
capture sessions for later replay.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/kiromidi/
  Linux:   ~/.config/kiromidi/
  Windows: %AppData%/kiromidi/

Examples:
  # Run the hub and watch traffic (press Enter to list endpoints)
  kiromidi monitor

  # Send a note from another terminal
  kiromidi send note --note 60 --velocity 100

  # Capture an input, then replay it
  kiromidi record --input all
  kiromidi sessions list
  kiromidi replay <session-id> --to ws://127.0.0.1:7791/ump`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: OS config dir)")
}

func initConfig() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	cfg, err := config.Load(configPath)
	if err != nil {
		// Deferred reporting: commands that need config get a clear
		// error via getConfig, and 'kiromidi version' still works.
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

func getConfig() (*config.Config, error) {
	if globalConfig == nil {
		return nil, configLoadErr
	}
	return globalConfig, nil
}
