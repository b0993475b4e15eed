package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kiro-audio/midi/pkg/capture"
	"github.com/kiro-audio/midi/pkg/driver/netump"
	"github.com/kiro-audio/midi/pkg/store"
	"github.com/kiro-audio/midi/pkg/ump"
)

var (
	replayTo     string
	replayRate   float64
	replayNoWait bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <session-id>",
	Short: "Replay a captured session",
	Long: `Replay a session's events with their original timing. Without --to
the words are printed; with --to they are sent to a hub as a source.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayTo, "to", "", "hub WebSocket URL to send the replay to")
	replayCmd.Flags().Float64Var(&replayRate, "rate", 1.0, "playback rate multiplier")
	replayCmd.Flags().BoolVar(&replayNoWait, "no-wait", false, "emit events back to back without waiting")
	rootCmd.AddCommand(replayCmd)
}

// printEmitter writes replayed words to stdout.
type printEmitter struct{}

func (printEmitter) SendWords(words ...ump.Word) error {
	fmt.Println(renderWords(words))
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := getConfig()
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

	id := args[0]
	manifest, err := capture.LoadManifest(cmd.Context(), s, id)
	if err != nil {
		return err
	}

	var emitter capture.Emitter = printEmitter{}
	if replayTo != "" {
		dialCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		c, err := netump.Dial(dialCtx, replayTo, "replay-"+manifest.Input)
		cancel()
		if err != nil {
			return err
		}
		defer c.Close()
		emitter = c
	}

	n, err := capture.Replay(cmd.Context(), s, id, emitter, capture.ReplayOptions{
		Rate:   replayRate,
		NoWait: replayNoWait,
	})
	if err != nil {
		return err
	}
	fmt.Printf("replayed %d events from session %s\n", n, id)
	return nil
}
