package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kiro-audio/midi/cmd/kiromidi/internal/config"
	"github.com/kiro-audio/midi/pkg/capture"
	"github.com/kiro-audio/midi/pkg/driver/netump"
	"github.com/kiro-audio/midi/pkg/store"
)

var (
	recordListen   string
	recordInput    string
	recordDuration time.Duration
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Capture an input's traffic into the session store",
	Long: `Run the hub and persist everything one input profile decodes as a
capture session. Stop with Ctrl-C, or pass --duration.`,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordListen, "listen", "", "WebSocket listen address (overrides config)")
	recordCmd.Flags().StringVar(&recordInput, "input", "", "input profile to record (default: first configured)")
	recordCmd.Flags().DurationVar(&recordDuration, "duration", 0, "stop automatically after this long")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}
	listen := cfg.Listen
	if recordListen != "" {
		listen = recordListen
	}

	spec, err := findInput(cfg.Inputs, recordInput)
	if err != nil {
		return err
	}
	in, err := spec.InputConfig()
	if err != nil {
		return err
	}

	dir, err := cfg.SessionsPath()
	if err != nil {
		return err
	}
	s, err := store.NewBadger(store.BadgerOptions{Dir: dir})
	if err != nil {
		return err
	}
	defer s.Close()

	ws := netump.New("ws")
	defer ws.Close()
	go func() {
		slog.Info("record: websocket listening", "addr", listen)
		if err := ws.ListenAndServe(listen); !errors.Is(err, netump.ErrServerClosed) {
			slog.Error("record: serve", "err", err)
		}
	}()

	ctx := cmd.Context()
	rec, err := capture.Record(ctx, s, ws, in)
	if err != nil {
		return err
	}
	fmt.Printf("recording session %s (input %q), Ctrl-C to stop\n", rec.ID(), in.Name)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	if recordDuration > 0 {
		select {
		case <-sigCh:
		case <-time.After(recordDuration):
		}
	} else {
		<-sigCh
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	manifest, err := rec.Stop(stopCtx)
	if err != nil {
		return err
	}
	fmt.Printf("session %s: %d events\n", manifest.ID, manifest.Events)
	return nil
}

func findInput(specs []config.InputSpec, name string) (config.InputSpec, error) {
	if len(specs) == 0 {
		return config.InputSpec{}, fmt.Errorf("no inputs configured")
	}
	if name == "" {
		return specs[0], nil
	}
	for _, spec := range specs {
		if spec.Name == name {
			return spec, nil
		}
	}
	return config.InputSpec{}, fmt.Errorf("input %q not configured", name)
}
