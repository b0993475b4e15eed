package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kiro-audio/midi/pkg/driver/netump"
	"github.com/kiro-audio/midi/pkg/ump"
)

var (
	sendURL      string
	sendName     string
	sendGroup    uint8
	sendChannel  uint8
	sendNote     uint8
	sendVelocity uint16
	sendHold     time.Duration
	sendCC       uint8
	sendCCValue  uint32
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send messages to a running hub",
}

var sendNoteCmd = &cobra.Command{
	Use:   "note",
	Short: "Send a note on, hold, then note off",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(c *netump.Client) error {
			on := ump.Message{
				Group: sendGroup,
				Data: ump.ChannelVoice2{
					Channel: sendChannel,
					Voice:   ump.NoteOn{Note: sendNote, Velocity: sendVelocity},
				},
			}
			off := ump.Message{
				Group: sendGroup,
				Data: ump.ChannelVoice2{
					Channel: sendChannel,
					Voice:   ump.NoteOff{Note: sendNote},
				},
			}
			if err := c.SendMessage(on); err != nil {
				return err
			}
			time.Sleep(sendHold)
			return c.SendMessage(off)
		})
	},
}

var sendCCCmd = &cobra.Command{
	Use:   "cc",
	Short: "Send a control change",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(c *netump.Client) error {
			return c.SendMessage(ump.Message{
				Group: sendGroup,
				Data: ump.ChannelVoice2{
					Channel: sendChannel,
					Voice:   ump.ControlChange{Controller: sendCC, Value: sendCCValue},
				},
			})
		})
	},
}

var sendWordsCmd = &cobra.Command{
	Use:   "words <hex-word>...",
	Short: "Send raw UMP words",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		words := make([]ump.Word, len(args))
		for i, arg := range args {
			v, err := strconv.ParseUint(arg, 16, 32)
			if err != nil {
				return fmt.Errorf("bad word %q: %w", arg, err)
			}
			words[i] = ump.Word(v)
		}
		return withClient(cmd.Context(), func(c *netump.Client) error {
			return c.SendWords(words...)
		})
	},
}

func init() {
	sendCmd.PersistentFlags().StringVar(&sendURL, "url", "ws://127.0.0.1:7791"+netump.DefaultPath, "hub WebSocket URL")
	sendCmd.PersistentFlags().StringVar(&sendName, "name", "kiromidi-send", "source name announced to the hub")
	sendCmd.PersistentFlags().Uint8Var(&sendGroup, "group", 0, "UMP group (0-15)")
	sendCmd.PersistentFlags().Uint8Var(&sendChannel, "channel", 0, "channel (0-15)")

	sendNoteCmd.Flags().Uint8Var(&sendNote, "note", 60, "note number")
	sendNoteCmd.Flags().Uint16Var(&sendVelocity, "velocity", 0x8000, "16-bit velocity")
	sendNoteCmd.Flags().DurationVar(&sendHold, "hold", 200*time.Millisecond, "time between note on and note off")

	sendCCCmd.Flags().Uint8Var(&sendCC, "controller", 1, "controller number")
	sendCCCmd.Flags().Uint32Var(&sendCCValue, "value", 0, "32-bit controller value")

	sendCmd.AddCommand(sendNoteCmd, sendCCCmd, sendWordsCmd)
	rootCmd.AddCommand(sendCmd)
}

func withClient(ctx context.Context, fn func(*netump.Client) error) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	c, err := netump.Dial(ctx, sendURL, sendName)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}
