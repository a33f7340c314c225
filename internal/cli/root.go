package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "focustrack",
	Short: "Pomodoro timer and focus-session tracker",
	Long: `focustrack is a local pomodoro timer that tracks focused-work sessions.

Run work/break intervals, keep a ledger of every session, and watch daily
statistics, streaks, levels and achievements grow out of it.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
