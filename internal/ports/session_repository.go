package ports

import (
	"context"
	"time"

	"focustrack/internal/domain"
)

// SessionFilter narrows a ledger query. Zero values mean "no constraint".
type SessionFilter struct {
	StartDate *time.Time // inclusive, compared by calendar day
	EndDate   *time.Time // inclusive, compared by calendar day
	TaskName  string     // substring match
	Limit     int64      // 0 means no limit
}

// DailySummary is the aggregate of all completed sessions on one day,
// before the streak has been attached.
type DailySummary struct {
	Count              int64
	TotalMinutes       int64
	AvgFocusScore      float64
	DistinctTasks      int64
	MostProductiveHour *int64
}

// LifetimeSummary aggregates the full session table.
type LifetimeSummary struct {
	CompletedCount int64
	TotalHours     float64 // over completed sessions
	DistinctTasks  int64   // across all sessions, completed or not
	AvgFocusScore  float64 // over completed sessions
}

// SessionRepository is the session ledger: the single source of truth all
// derived statistics are computed from.
type SessionRepository interface {
	// Save inserts a new session in one transaction and returns its
	// ordering-stable surrogate ID.
	Save(ctx context.Context, session *domain.Session) (int64, error)
	// List returns sessions matching the filter, newest first.
	List(ctx context.Context, filter SessionFilter) ([]domain.Session, error)
	// CompletedCountOnDay counts completed sessions started on the given day.
	CompletedCountOnDay(ctx context.Context, day time.Time) (int64, error)
	// DailySummary aggregates the completed sessions started on the given day.
	DailySummary(ctx context.Context, day time.Time) (*DailySummary, error)
	// LifetimeSummary aggregates the full session table.
	LifetimeSummary(ctx context.Context) (*LifetimeSummary, error)
	// TaskStats returns the most-worked tasks by completed-session count.
	TaskStats(ctx context.Context, limit int) ([]domain.TaskStat, error)

	// Queries backing achievement rules.
	HasCompletedZeroInterruptions(ctx context.Context) (bool, error)
	WeekendCompletedCount(ctx context.Context) (int64, error)
	MaxCompletedForSingleTask(ctx context.Context) (int64, error)
	MaxDistinctTasksInDay(ctx context.Context) (int64, error)
	// CompletedInterruptionSeq returns the interruption counts of all
	// completed sessions ordered by start time ascending.
	CompletedInterruptionSeq(ctx context.Context) ([]int64, error)
}
