package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kiro-audio/midi/pkg/capture"
	"github.com/kiro-audio/midi/pkg/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List or delete captured sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s store.Store) error {
			fmt.Printf("%-36s  %-12s  %-20s  %8s\n",
				out.Label.Render("ID"), out.Label.Render("INPUT"),
				out.Label.Render("STARTED"), out.Label.Render("EVENTS"))
			for m, err := range capture.Sessions(cmd.Context(), s) {
				if err != nil {
					return err
				}
				fmt.Printf("%-36s  %-12s  %-20s  %8d\n",
					m.ID, m.Input, m.StartedAt.Format("2006-01-02 15:04:05"), m.Events)
			}
			return nil
		})
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>...",
	Short: "Delete captured sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s store.Store) error {
			for _, id := range args {
				if err := capture.DeleteSession(cmd.Context(), s, id); err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
				fmt.Printf("deleted %s\n", id)
			}
			return nil
		})
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func withStore(fn func(store.Store) error) error {
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
	return fn(s)
}
