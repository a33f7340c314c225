package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"focustrack/internal/domain"
)

// StatsRepository persists derived daily and lifetime statistics.
type StatsRepository struct {
	store *Store
}

func NewStatsRepository(store *Store) *StatsRepository {
	return &StatsRepository{store: store}
}

// GetDaily returns the stat row for a day, or nil when no row exists.
func (r *StatsRepository) GetDaily(ctx context.Context, day time.Time) (*domain.DailyStat, error) {
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT date, total_pomodoros, total_minutes, avg_focus_score,
		       completed_tasks, most_productive_hour, streak_days
		FROM daily_stats WHERE date = ?
	`, day.Format(domain.DateLayout))

	stat, err := scanDailyStat(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get daily stat: %w", err)
	}
	return stat, nil
}

// GetRange returns daily stats between start and end inclusive, ordered by
// date ascending.
func (r *StatsRepository) GetRange(ctx context.Context, start, end time.Time) ([]domain.DailyStat, error) {
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT date, total_pomodoros, total_minutes, avg_focus_score,
		       completed_tasks, most_productive_hour, streak_days
		FROM daily_stats
		WHERE date >= ? AND date <= ?
		ORDER BY date
	`, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("get stats range: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []domain.DailyStat
	for rows.Next() {
		stat, err := scanDailyStat(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		stats = append(stats, *stat)
	}
	return stats, rows.Err()
}

func scanDailyStat(scan func(...any) error) (*domain.DailyStat, error) {
	var s domain.DailyStat
	var date string
	var hour sql.NullInt64

	if err := scan(&date, &s.TotalPomodoros, &s.TotalMinutes, &s.AvgFocusScore,
		&s.CompletedTasks, &hour, &s.StreakDays); err != nil {
		return nil, err
	}

	parsed, err := time.ParseInLocation(domain.DateLayout, date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}
	s.Date = parsed
	if hour.Valid {
		s.MostProductiveHour = &hour.Int64
	}
	return &s, nil
}

// UpsertDaily replaces the row for stat.Date. Rerunning with unchanged
// inputs writes an identical row.
func (r *StatsRepository) UpsertDaily(ctx context.Context, stat *domain.DailyStat) error {
	var hour sql.NullInt64
	if stat.MostProductiveHour != nil {
		hour = sql.NullInt64{Int64: *stat.MostProductiveHour, Valid: true}
	}

	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO daily_stats
			(date, total_pomodoros, total_minutes, avg_focus_score,
			 completed_tasks, most_productive_hour, streak_days)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			stat.Date.Format(domain.DateLayout),
			stat.TotalPomodoros,
			stat.TotalMinutes,
			stat.AvgFocusScore,
			stat.CompletedTasks,
			hour,
			stat.StreakDays,
		)
		if err != nil {
			return fmt.Errorf("upsert daily stat: %w", err)
		}
		return nil
	})
}

// MaxStreak returns the largest streak recorded across all daily stats.
func (r *StatsRepository) MaxStreak(ctx context.Context) (int64, error) {
	db, err := r.store.handle()
	if err != nil {
		return 0, err
	}

	var max int64
	err = db.QueryRowContext(ctx, `SELECT COALESCE(MAX(streak_days), 0) FROM daily_stats`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max streak: %w", err)
	}
	return max, nil
}

// ReplaceUserStats writes the full lifetime aggregate set in one transaction.
func (r *StatsRepository) ReplaceUserStats(ctx context.Context, stats *domain.UserStats) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		for key, value := range stats.Values() {
			var encoded string
			switch v := value.(type) {
			case int64:
				encoded = strconv.FormatInt(v, 10)
			case float64:
				encoded = strconv.FormatFloat(v, 'f', -1, 64)
			case string:
				encoded = v
			default:
				return fmt.Errorf("unsupported stat type %T for %s", value, key)
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO user_stats (key, value, updated_at)
				VALUES (?, ?, CURRENT_TIMESTAMP)
			`, key, encoded); err != nil {
				return fmt.Errorf("write user stat %s: %w", key, err)
			}
		}
		return nil
	})
}

// GetUserStats reads the lifetime aggregates. Keys are decoded by their
// declared type rather than guessed from the stored text.
func (r *StatsRepository) GetUserStats(ctx context.Context) (*domain.UserStats, error) {
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT key, value FROM user_stats`)
	if err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats domain.UserStats
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan user stat: %w", err)
		}

		switch key {
		case domain.StatTotalPomodoros:
			stats.TotalPomodoros, _ = strconv.ParseInt(value, 10, 64)
		case domain.StatTotalHours:
			stats.TotalHours, _ = strconv.ParseFloat(value, 64)
		case domain.StatTotalTasks:
			stats.TotalTasks, _ = strconv.ParseInt(value, 10, 64)
		case domain.StatAvgFocus:
			stats.AvgFocus, _ = strconv.ParseFloat(value, 64)
		case domain.StatMaxStreak:
			stats.MaxStreak, _ = strconv.ParseInt(value, 10, 64)
		case domain.StatLastUpdated:
			stats.LastUpdated, _ = time.Parse(time.RFC3339, value)
		}
	}
	return &stats, rows.Err()
}
