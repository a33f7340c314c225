package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"focustrack/internal/domain"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a completed session after the fact",
	Long: `Record a work session that happened away from the timer, for
example one tracked on paper or on another machine. The session counts
toward daily statistics, streaks and achievements exactly like a timed
one.

Examples:
  focustrack record --task "Code review" --minutes 25
  focustrack record --task writing --minutes 50 --at "2026-08-30 09:00" --interruptions 1`,
	RunE: runRecord,
}

var (
	recordTask          string
	recordMinutes       int64
	recordAt            string
	recordInterruptions int64
	recordTags          []string
	recordNotes         string
)

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVarP(&recordTask, "task", "t", "", "Task label")
	recordCmd.Flags().Int64VarP(&recordMinutes, "minutes", "m", 25, "Session length in minutes")
	recordCmd.Flags().StringVar(&recordAt, "at", "", "Start time (\"2006-01-02 15:04\", default: ends now)")
	recordCmd.Flags().Int64Var(&recordInterruptions, "interruptions", 0, "Number of interruptions")
	recordCmd.Flags().StringSliceVar(&recordTags, "tags", nil, "Tags to attach")
	recordCmd.Flags().StringVar(&recordNotes, "notes", "", "Free-form notes")
}

func runRecord(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	duration := recordMinutes * 60
	var start time.Time
	if recordAt != "" {
		start, err = time.ParseInLocation("2006-01-02 15:04", recordAt, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --at value %q: %w", recordAt, err)
		}
	} else {
		start = time.Now().Add(-time.Duration(duration) * time.Second)
	}

	session := &domain.Session{
		StartTime:     start,
		EndTime:       start.Add(time.Duration(duration) * time.Second),
		Duration:      duration,
		TaskName:      recordTask,
		Completed:     true,
		Interruptions: recordInterruptions,
		FocusScore:    domain.CalculateFocusScore(recordInterruptions),
		Tags:          recordTags,
	}
	if recordNotes != "" {
		session.Notes = &recordNotes
	}

	id, err := app.SessionRepo.Save(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}

	if err := app.Aggregator.UpdateDailyStats(ctx, session.StartTime); err != nil {
		return fmt.Errorf("failed to update daily stats: %w", err)
	}
	if err := app.Aggregator.UpdateUserStats(ctx); err != nil {
		return fmt.Errorf("failed to update user stats: %w", err)
	}
	unlocked, err := app.Evaluator.CheckAchievements(ctx)
	if err != nil {
		return fmt.Errorf("failed to check achievements: %w", err)
	}

	fmt.Printf("Recorded session #%d: %q, %d min, focus score %.0f\n",
		id, session.TaskName, recordMinutes, session.FocusScore)
	for _, achievement := range unlocked {
		fmt.Printf("🏆 Achievement unlocked: %s %s — %s\n",
			achievement.Icon, achievement.Name, achievement.Description)
	}
	return nil
}
