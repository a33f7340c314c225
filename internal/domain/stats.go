package domain

import "time"

// DateLayout is the canonical calendar-day key used by daily_stats.
const DateLayout = "2006-01-02"

// DayOf truncates a timestamp to its local calendar day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DailyStat is one row per calendar day with completed work activity.
type DailyStat struct {
	Date               time.Time
	TotalPomodoros     int64
	TotalMinutes       int64
	AvgFocusScore      float64
	CompletedTasks     int64 // distinct task names that day
	MostProductiveHour *int64
	StreakDays         int64
}

// User stats keys as persisted in the user_stats table.
const (
	StatTotalPomodoros = "total_pomodoros"
	StatTotalHours     = "total_hours"
	StatTotalTasks     = "total_tasks"
	StatAvgFocus       = "avg_focus"
	StatMaxStreak      = "max_streak"
	StatLastUpdated    = "last_updated"
)

// UserStats holds the lifetime aggregates. Every field is recomputed in
// full from the session table on each update, never incremented, so a
// missed update can never leave the totals drifted.
type UserStats struct {
	TotalPomodoros int64
	TotalHours     float64
	TotalTasks     int64
	AvgFocus       float64
	MaxStreak      int64
	LastUpdated    time.Time
}

// Values renders the stats as the key/value view stored in user_stats.
// Integral values stay integers so callers get stable types instead of
// best-effort string parsing.
func (u *UserStats) Values() map[string]any {
	return map[string]any{
		StatTotalPomodoros: u.TotalPomodoros,
		StatTotalHours:     u.TotalHours,
		StatTotalTasks:     u.TotalTasks,
		StatAvgFocus:       u.AvgFocus,
		StatMaxStreak:      u.MaxStreak,
		StatLastUpdated:    u.LastUpdated.Format(time.RFC3339),
	}
}
