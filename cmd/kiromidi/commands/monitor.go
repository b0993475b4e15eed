package commands

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kiro-audio/midi/cmd/kiromidi/internal/config"
	"github.com/kiro-audio/midi/pkg/driver/netump"
	"github.com/kiro-audio/midi/pkg/driver/rtpump"
	"github.com/kiro-audio/midi/pkg/midi"
)

const monitorQueueSize = 1024

var (
	monitorListen    string
	monitorRTPListen string
	monitorInputs    []string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the UMP hub and print decoded traffic",
	Long: `Run the hub, accept sources over WebSocket (and RTP when enabled),
and print every event the configured inputs decode.

Press Enter to list the known endpoints. Press Ctrl-C to stop.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorListen, "listen", "", "WebSocket listen address (overrides config)")
	monitorCmd.Flags().StringVar(&monitorRTPListen, "rtp-listen", "", "RTP listen address (overrides config)")
	monitorCmd.Flags().StringSliceVar(&monitorInputs, "input", nil, "input profile names to monitor (default: all configured)")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}
	listen := cfg.Listen
	if monitorListen != "" {
		listen = monitorListen
	}
	rtpListen := cfg.RTPListen
	if monitorRTPListen != "" {
		rtpListen = monitorRTPListen
	}

	ws := netump.New("ws")
	defer ws.Close()

	for _, spec := range selectInputs(cfg, monitorInputs) {
		in, err := spec.InputConfig()
		if err != nil {
			return err
		}
		handler := midi.NewRingHandler(monitorQueueSize)
		name, err := ws.CreateInput(in, handler)
		if err != nil {
			return err
		}
		go printEvents(name, handler)
	}

	serveErr := make(chan error, 2)
	go func() {
		slog.Info("monitor: websocket listening", "addr", listen)
		if err := ws.ListenAndServe(listen); !errors.Is(err, netump.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var rtpd *rtpump.Driver
	if rtpListen != "" {
		rtpd = rtpump.New("rtp")
		defer rtpd.Close()
		for _, spec := range selectInputs(cfg, monitorInputs) {
			in, err := spec.InputConfig()
			if err != nil {
				return err
			}
			handler := midi.NewRingHandler(monitorQueueSize)
			name, err := rtpd.CreateInput(in, handler)
			if err != nil {
				return err
			}
			go printEvents("rtp/"+name, handler)
		}
		go func() {
			slog.Info("monitor: rtp listening", "addr", rtpListen)
			if err := rtpd.ListenAndServe(rtpListen); !errors.Is(err, rtpump.ErrServerClosed) {
				serveErr <- err
			}
		}()
	}

	// Enter prints the endpoint listing, like a status key.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			fmt.Print(renderEndpoints(ws.Sources(), ws.Destinations()))
			if rtpd != nil {
				fmt.Print(renderEndpoints(rtpd.Sources(), rtpd.Destinations()))
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		return nil
	case err := <-serveErr:
		return err
	}
}

// selectInputs returns the configured input profiles, restricted to the
// given names when any are set.
func selectInputs(cfg *config.Config, names []string) []config.InputSpec {
	if len(names) == 0 {
		return cfg.Inputs
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var specs []config.InputSpec
	for _, spec := range cfg.Inputs {
		if want[spec.Name] {
			specs = append(specs, spec)
		}
	}
	return specs
}

func printEvents(input string, handler *midi.RingHandler) {
	for ev := range handler.Events().All() {
		fmt.Println(renderEvent(input, ev))
	}
}
