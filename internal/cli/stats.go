package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"focustrack/internal/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats [today|week|month|patterns|tasks|predict N]",
	Short: "Show productivity statistics",
	Long: `Show statistics computed from the session ledger.

Views:
  today     today's pomodoros, minutes, focus and streak (default)
  week      the current Monday-based week, day by day
  month     the current month with a weekly trend
  patterns  the trailing 30 days by hour of day and weekday
  tasks     per-task totals
  predict N days needed to finish N more pomodoros at the recent pace`,
	Args: cobra.MaximumNArgs(2),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	view := "today"
	if len(args) > 0 {
		view = args[0]
	}

	switch view {
	case "today":
		return printToday(ctx, app)
	case "week":
		return printWeek(ctx, app)
	case "month":
		return printMonth(ctx, app)
	case "patterns":
		return printPatterns(ctx, app)
	case "tasks":
		return printTasks(ctx, app)
	case "predict":
		if len(args) < 2 {
			return fmt.Errorf("predict needs a pomodoro count, e.g. stats predict 20")
		}
		remaining, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || remaining <= 0 {
			return fmt.Errorf("invalid pomodoro count %q", args[1])
		}
		return printPrediction(ctx, app, remaining)
	default:
		return fmt.Errorf("unknown view %q", view)
	}
}

func printToday(ctx context.Context, app *AppContext) error {
	stat, err := app.Reporter.Today(ctx)
	if err != nil {
		return fmt.Errorf("failed to load today's stats: %w", err)
	}

	fmt.Printf("📅 %s\n", stat.Date.Format(domain.DateLayout))
	fmt.Printf("  Pomodoros:   %d / %d\n", stat.TotalPomodoros, app.Config.DailyGoal)
	fmt.Printf("  Focus time:  %s\n", formatMinutes(stat.TotalMinutes))
	fmt.Printf("  Avg focus:   %.1f\n", stat.AvgFocusScore)
	fmt.Printf("  Tasks:       %d\n", stat.CompletedTasks)
	if stat.MostProductiveHour != nil {
		fmt.Printf("  Best hour:   %02d:00\n", *stat.MostProductiveHour)
	}
	fmt.Printf("  Streak:      %d day(s)\n", stat.StreakDays)
	return nil
}

func printWeek(ctx context.Context, app *AppContext) error {
	report, err := app.Reporter.Week(ctx)
	if err != nil {
		return fmt.Errorf("failed to build week report: %w", err)
	}

	fmt.Println("📊 This week")
	fmt.Printf("  Pomodoros:  %d\n", report.TotalPomodoros)
	fmt.Printf("  Focus time: %s\n", formatMinutes(report.TotalMinutes))
	fmt.Printf("  Avg focus:  %.1f\n", report.AvgFocus)
	if report.BestDay != nil {
		fmt.Printf("  Best day:   %s\n", report.BestDay.Format("Mon 2006-01-02"))
	}
	fmt.Println()
	for _, bucket := range report.DailyDistribution {
		fmt.Printf("  %s %3d  %s\n", bucket.Day, bucket.Pomodoros, bar(bucket.Pomodoros))
	}
	return nil
}

func printMonth(ctx context.Context, app *AppContext) error {
	report, err := app.Reporter.Month(ctx)
	if err != nil {
		return fmt.Errorf("failed to build month report: %w", err)
	}

	fmt.Println("📊 This month")
	fmt.Printf("  Pomodoros:   %d\n", report.TotalPomodoros)
	fmt.Printf("  Focus time:  %.1f h\n", report.TotalHours)
	fmt.Printf("  Work days:   %d\n", report.WorkDays)
	fmt.Printf("  Avg daily:   %.1f\n", report.AvgDaily)
	fmt.Printf("  Consistency: %.0f%%\n", report.CompletionRate)
	if len(report.WeeklyTrend) > 0 {
		fmt.Println("\n  Weekly trend:")
		for _, week := range report.WeeklyTrend {
			fmt.Printf("    W%02d  %3d pomodoros, %s\n",
				week.Week, week.Pomodoros, formatMinutes(week.Minutes))
		}
	}
	return nil
}

func printPatterns(ctx context.Context, app *AppContext) error {
	report, err := app.Reporter.Patterns(ctx)
	if err != nil {
		return fmt.Errorf("failed to build patterns report: %w", err)
	}
	if report.TotalSessions == 0 {
		fmt.Println("Not enough data yet. Complete a few pomodoros first.")
		return nil
	}

	fmt.Printf("📊 Last 30 days (%d sessions)\n", report.TotalSessions)
	fmt.Println("\n  By hour:")
	for hour, bucket := range report.Hourly {
		if bucket.Count == 0 {
			continue
		}
		fmt.Printf("    %02d:00  %3d  %s\n", hour, bucket.Count, bar(bucket.Count))
	}

	fmt.Println("\n  By weekday:")
	names := [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for day, count := range report.Weekday {
		fmt.Printf("    %s  %3d  %s\n", names[day], count, bar(count))
	}

	fmt.Print("\n  Most productive hours: ")
	hours := make([]string, 0, len(report.ProductiveHours))
	for _, hour := range report.ProductiveHours {
		hours = append(hours, fmt.Sprintf("%02d:00", hour))
	}
	fmt.Println(strings.Join(hours, ", "))
	return nil
}

func printTasks(ctx context.Context, app *AppContext) error {
	tasks, err := app.SessionRepo.TaskStats(ctx, 20)
	if err != nil {
		return fmt.Errorf("failed to load task stats: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks recorded yet.")
		return nil
	}

	fmt.Printf("%-28s %-9s %-7s %-7s %s\n", "TASK", "SESSIONS", "HOURS", "FOCUS", "LAST")
	for _, task := range tasks {
		fmt.Printf("%-28s %-9d %-7.1f %-7.1f %s\n",
			truncate(task.Name, 28), task.Sessions, task.Hours, task.AvgFocus, task.LastWorked)
	}
	return nil
}

func printPrediction(ctx context.Context, app *AppContext, remaining int64) error {
	prediction, err := app.Reporter.PredictCompletion(ctx, remaining)
	if err != nil {
		return fmt.Errorf("failed to predict: %w", err)
	}
	if prediction.EstimatedDays == nil {
		fmt.Println("Not enough recent data to predict. Complete a few pomodoros first.")
		return nil
	}

	fmt.Printf("🔮 %d pomodoros at ~%.1f/day:\n", remaining, prediction.AvgDaily)
	fmt.Printf("  Estimated:  %d day(s), done by %s\n",
		*prediction.EstimatedDays, prediction.EstimatedDate.Format(domain.DateLayout))
	fmt.Printf("  Confidence: %.0f%%\n", prediction.Confidence)
	return nil
}

func formatMinutes(minutes int64) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func bar(n int64) string {
	if n > 40 {
		n = 40
	}
	return strings.Repeat("█", int(n))
}
