package ports

import (
	"context"
	"time"

	"focustrack/internal/domain"
)

// StatsRepository persists the derived per-day and lifetime statistics.
type StatsRepository interface {
	// GetDaily returns the row for a day, or nil when absent.
	GetDaily(ctx context.Context, day time.Time) (*domain.DailyStat, error)
	// GetRange returns daily stats between start and end inclusive,
	// ordered by date ascending.
	GetRange(ctx context.Context, start, end time.Time) ([]domain.DailyStat, error)
	// UpsertDaily replaces the row for stat.Date.
	UpsertDaily(ctx context.Context, stat *domain.DailyStat) error
	// MaxStreak returns the largest streak_days across all daily stats.
	MaxStreak(ctx context.Context) (int64, error)
	// ReplaceUserStats writes the full lifetime aggregate set in one
	// transaction.
	ReplaceUserStats(ctx context.Context, stats *domain.UserStats) error
	// GetUserStats reads the lifetime aggregates; zero value when the
	// table is empty.
	GetUserStats(ctx context.Context) (*domain.UserStats, error)
}
