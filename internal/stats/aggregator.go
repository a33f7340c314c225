// Package stats keeps the derived statistics consistent with the session
// ledger. Every recomputation is a full one: repeated runs over unchanged
// data produce identical rows, so a crash between a session save and a
// stats update costs nothing but the next recompute.
package stats

import (
	"context"
	"fmt"
	"time"

	"focustrack/internal/domain"
	"focustrack/internal/ports"
)

// Aggregator recomputes daily and lifetime statistics from the ledger.
type Aggregator struct {
	sessions ports.SessionRepository
	stats    ports.StatsRepository
	now      func() time.Time
}

func NewAggregator(sessions ports.SessionRepository, stats ports.StatsRepository) *Aggregator {
	return &Aggregator{sessions: sessions, stats: stats, now: time.Now}
}

// WithClock overrides the time source. Used by tests.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// UpdateDailyStats recomputes the daily_stats row for the given day from
// scratch. A day with no completed sessions writes nothing; any existing
// row is left untouched rather than deleted.
func (a *Aggregator) UpdateDailyStats(ctx context.Context, day time.Time) error {
	day = domain.DayOf(day)

	summary, err := a.sessions.DailySummary(ctx, day)
	if err != nil {
		return fmt.Errorf("summarize %s: %w", day.Format(domain.DateLayout), err)
	}
	if summary.Count == 0 {
		return nil
	}

	streak, err := a.calculateStreak(ctx, day)
	if err != nil {
		return fmt.Errorf("calculate streak: %w", err)
	}

	stat := &domain.DailyStat{
		Date:               day,
		TotalPomodoros:     summary.Count,
		TotalMinutes:       summary.TotalMinutes,
		AvgFocusScore:      summary.AvgFocusScore,
		CompletedTasks:     summary.DistinctTasks,
		MostProductiveHour: summary.MostProductiveHour,
		StreakDays:         streak,
	}

	if err := a.stats.UpsertDaily(ctx, stat); err != nil {
		return fmt.Errorf("upsert daily stat: %w", err)
	}
	return nil
}

// calculateStreak counts consecutive days with at least one completed
// session, walking backward from the given day inclusive.
func (a *Aggregator) calculateStreak(ctx context.Context, day time.Time) (int64, error) {
	var streak int64
	for check := day; ; check = check.AddDate(0, 0, -1) {
		count, err := a.sessions.CompletedCountOnDay(ctx, check)
		if err != nil {
			return 0, err
		}
		if count == 0 {
			return streak, nil
		}
		streak++
	}
}

// UpdateUserStats recomputes every lifetime aggregate from the full session
// table. Always a complete recomputation, never an incremental delta, so
// totals cannot drift when an earlier update was missed.
func (a *Aggregator) UpdateUserStats(ctx context.Context) error {
	summary, err := a.sessions.LifetimeSummary(ctx)
	if err != nil {
		return fmt.Errorf("lifetime summary: %w", err)
	}

	maxStreak, err := a.stats.MaxStreak(ctx)
	if err != nil {
		return fmt.Errorf("max streak: %w", err)
	}

	stats := &domain.UserStats{
		TotalPomodoros: summary.CompletedCount,
		TotalHours:     summary.TotalHours,
		TotalTasks:     summary.DistinctTasks,
		AvgFocus:       summary.AvgFocusScore,
		MaxStreak:      maxStreak,
		LastUpdated:    a.now(),
	}

	if err := a.stats.ReplaceUserStats(ctx, stats); err != nil {
		return fmt.Errorf("replace user stats: %w", err)
	}
	return nil
}
