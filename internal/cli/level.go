package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Show the current level and progress",
	RunE:  runLevel,
}

func init() {
	rootCmd.AddCommand(levelCmd)
}

func runLevel(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	progress, err := app.Evaluator.GetLevelProgress(ctx)
	if err != nil {
		return fmt.Errorf("failed to load level: %w", err)
	}

	fmt.Printf("⭐ Level %d\n", progress.Level)
	fmt.Printf("  %s %.0f%%\n", progressBar(progress.Progress, 30), progress.Progress)
	if progress.PomodorosToNext > 0 {
		fmt.Printf("  %d pomodoro(s) to level %d\n", progress.PomodorosToNext, progress.Level+1)
	} else {
		fmt.Println("  Max level reached.")
	}
	return nil
}

func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
