package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"focustrack/internal/domain"
	"focustrack/internal/ports"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions",
	Long: `List sessions from the ledger, newest first.

Examples:
  focustrack sessions
  focustrack sessions --from 2026-08-01 --to 2026-08-31
  focustrack sessions --task report --limit 10`,
	RunE: runSessions,
}

var (
	sessionsFrom  string
	sessionsTo    string
	sessionsTask  string
	sessionsLimit int64
)

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().StringVar(&sessionsFrom, "from", "", "Earliest day to include (YYYY-MM-DD)")
	sessionsCmd.Flags().StringVar(&sessionsTo, "to", "", "Latest day to include (YYYY-MM-DD)")
	sessionsCmd.Flags().StringVar(&sessionsTask, "task", "", "Only sessions whose task contains this text")
	sessionsCmd.Flags().Int64VarP(&sessionsLimit, "limit", "n", 20, "Maximum rows to show (0 = all)")
}

func runSessions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	filter := ports.SessionFilter{
		TaskName: sessionsTask,
		Limit:    sessionsLimit,
	}
	if filter.StartDate, err = parseDayFlag("from", sessionsFrom); err != nil {
		return err
	}
	if filter.EndDate, err = parseDayFlag("to", sessionsTo); err != nil {
		return err
	}
	sessions, err := app.SessionRepo.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	fmt.Printf("%-5s %-16s %-6s %-24s %-6s %-5s %s\n",
		"ID", "START", "MIN", "TASK", "DONE", "INT", "FOCUS")
	for _, session := range sessions {
		fmt.Printf("%-5d %-16s %-6d %-24s %-6s %-5d %.0f\n",
			session.ID,
			session.StartTime.Format("2006-01-02 15:04"),
			session.Duration/60,
			truncate(session.TaskName, 24),
			checkmark(session.Completed),
			session.Interruptions,
			session.FocusScore)
	}
	return nil
}

func parseDayFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(domain.DateLayout, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s value %q: expected YYYY-MM-DD", name, value)
	}
	return &day, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func checkmark(done bool) string {
	if done {
		return "yes"
	}
	return "no"
}
