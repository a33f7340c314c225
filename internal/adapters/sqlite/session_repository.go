package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"focustrack/internal/domain"
	"focustrack/internal/ports"
	"focustrack/internal/util"
)

// SessionRepository is the ledger of work sessions.
type SessionRepository struct {
	store *Store
}

func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// Save inserts a session inside a single transaction and returns its
// surrogate ID. Empty task names fall back to a placeholder label.
func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) (int64, error) {
	if session.TaskName == "" {
		session.TaskName = domain.DefaultTaskName
	}
	if err := session.Validate(); err != nil {
		return 0, err
	}

	var tags sql.NullString
	if len(session.Tags) > 0 {
		encoded, err := json.Marshal(session.Tags)
		if err != nil {
			return 0, fmt.Errorf("marshal tags: %w", err)
		}
		tags = sql.NullString{String: string(encoded), Valid: true}
	}

	var id int64
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO sessions
			(start_time, end_time, duration, task_name, completed,
			 interruptions, focus_score, tags, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			session.StartTime.Format(timeLayout),
			session.EndTime.Format(timeLayout),
			session.Duration,
			session.TaskName,
			session.Completed,
			session.Interruptions,
			session.FocusScore,
			tags,
			util.NullStringPtr(session.Notes),
		)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read session id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	session.ID = id
	return id, nil
}

// List returns sessions matching the filter, newest first.
func (r *SessionRepository) List(ctx context.Context, filter ports.SessionFilter) ([]domain.Session, error) {
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	query := `SELECT id, start_time, end_time, duration, task_name, completed,
		interruptions, focus_score, tags, notes FROM sessions WHERE 1=1`
	var args []any

	if filter.StartDate != nil {
		query += ` AND date(start_time) >= ?`
		args = append(args, filter.StartDate.Format(domain.DateLayout))
	}
	if filter.EndDate != nil {
		query += ` AND date(start_time) <= ?`
		args = append(args, filter.EndDate.Format(domain.DateLayout))
	}
	if filter.TaskName != "" {
		query += ` AND task_name LIKE ?`
		args = append(args, "%"+filter.TaskName+"%")
	}

	query += ` ORDER BY start_time DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

func scanSession(rows *sql.Rows) (*domain.Session, error) {
	var s domain.Session
	var start, end string
	var tags, notes sql.NullString

	if err := rows.Scan(&s.ID, &start, &end, &s.Duration, &s.TaskName,
		&s.Completed, &s.Interruptions, &s.FocusScore, &tags, &notes); err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	var err error
	if s.StartTime, err = time.ParseInLocation(timeLayout, start, time.Local); err != nil {
		return nil, fmt.Errorf("parse start time %q: %w", start, err)
	}
	if s.EndTime, err = time.ParseInLocation(timeLayout, end, time.Local); err != nil {
		return nil, fmt.Errorf("parse end time %q: %w", end, err)
	}

	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &s.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	s.Notes = util.NullStringToPtr(notes)

	return &s, nil
}

// CompletedCountOnDay counts completed sessions started on the given day.
func (r *SessionRepository) CompletedCountOnDay(ctx context.Context, day time.Time) (int64, error) {
	db, err := r.store.handle()
	if err != nil {
		return 0, err
	}

	var count int64
	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sessions
		WHERE date(start_time) = ? AND completed = 1
	`, day.Format(domain.DateLayout)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed sessions: %w", err)
	}
	return count, nil
}

// DailySummary aggregates all completed sessions started on the given day.
// The most productive hour is the hour with the most completed sessions;
// ties resolve to the earliest such hour.
func (r *SessionRepository) DailySummary(ctx context.Context, day time.Time) (*ports.DailySummary, error) {
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	dateKey := day.Format(domain.DateLayout)

	var summary ports.DailySummary
	var minutes, avgFocus sql.NullFloat64
	err = db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			SUM(duration) / 60.0,
			AVG(focus_score),
			COUNT(DISTINCT task_name)
		FROM sessions
		WHERE date(start_time) = ? AND completed = 1
	`, dateKey).Scan(&summary.Count, &minutes, &avgFocus, &summary.DistinctTasks)
	if err != nil {
		return nil, fmt.Errorf("aggregate day: %w", err)
	}
	summary.TotalMinutes = int64(minutes.Float64)
	summary.AvgFocusScore = avgFocus.Float64

	if summary.Count == 0 {
		return &summary, nil
	}

	var hour string
	err = db.QueryRowContext(ctx, `
		SELECT strftime('%H', start_time) AS hour
		FROM sessions
		WHERE date(start_time) = ? AND completed = 1
		GROUP BY hour
		ORDER BY COUNT(*) DESC, hour ASC
		LIMIT 1
	`, dateKey).Scan(&hour)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("most productive hour: %w", err)
	}
	if err == nil {
		if h, err := strconv.ParseInt(strings.TrimSpace(hour), 10, 64); err == nil {
			summary.MostProductiveHour = &h
		}
	}

	return &summary, nil
}

// LifetimeSummary aggregates the full session table. Hours and focus cover
// completed sessions only; the distinct-task count includes abandoned ones.
func (r *SessionRepository) LifetimeSummary(ctx context.Context) (*ports.LifetimeSummary, error) {
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	var summary ports.LifetimeSummary
	var hours, avgFocus sql.NullFloat64
	err = db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sessions WHERE completed = 1),
			(SELECT SUM(duration) / 3600.0 FROM sessions WHERE completed = 1),
			(SELECT COUNT(DISTINCT task_name) FROM sessions),
			(SELECT AVG(focus_score) FROM sessions WHERE completed = 1)
	`).Scan(&summary.CompletedCount, &hours, &summary.DistinctTasks, &avgFocus)
	if err != nil {
		return nil, fmt.Errorf("lifetime summary: %w", err)
	}
	summary.TotalHours = hours.Float64
	summary.AvgFocusScore = avgFocus.Float64
	return &summary, nil
}

// TaskStats returns the most-worked tasks by completed-session count.
func (r *SessionRepository) TaskStats(ctx context.Context, limit int) ([]domain.TaskStat, error) {
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT
			task_name,
			COUNT(*) AS session_count,
			SUM(duration) / 3600.0 AS total_hours,
			AVG(focus_score) AS avg_focus,
			MAX(date(start_time)) AS last_worked
		FROM sessions
		WHERE completed = 1
		GROUP BY task_name
		ORDER BY session_count DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []domain.TaskStat
	for rows.Next() {
		var t domain.TaskStat
		if err := rows.Scan(&t.Name, &t.Sessions, &t.Hours, &t.AvgFocus, &t.LastWorked); err != nil {
			return nil, fmt.Errorf("scan task stat: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// HasCompletedZeroInterruptions reports whether any completed session ever
// finished without interruptions.
func (r *SessionRepository) HasCompletedZeroInterruptions(ctx context.Context) (bool, error) {
	db, err := r.store.handle()
	if err != nil {
		return false, err
	}

	var exists bool
	err = db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM sessions WHERE completed = 1 AND interruptions = 0)
	`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("zero-interruption lookup: %w", err)
	}
	return exists, nil
}

// WeekendCompletedCount counts completed sessions started on a Saturday or
// Sunday.
func (r *SessionRepository) WeekendCompletedCount(ctx context.Context) (int64, error) {
	db, err := r.store.handle()
	if err != nil {
		return 0, err
	}

	var count int64
	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sessions
		WHERE completed = 1 AND strftime('%w', start_time) IN ('0', '6')
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("weekend count: %w", err)
	}
	return count, nil
}

// MaxCompletedForSingleTask returns the highest completed-session count
// accumulated by any single task.
func (r *SessionRepository) MaxCompletedForSingleTask(ctx context.Context) (int64, error) {
	db, err := r.store.handle()
	if err != nil {
		return 0, err
	}

	var max int64
	err = db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(c), 0) FROM (
			SELECT COUNT(*) AS c FROM sessions
			WHERE completed = 1
			GROUP BY task_name
		)
	`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max single-task count: %w", err)
	}
	return max, nil
}

// MaxDistinctTasksInDay returns the largest number of distinct tasks with
// completed sessions on a single day.
func (r *SessionRepository) MaxDistinctTasksInDay(ctx context.Context) (int64, error) {
	db, err := r.store.handle()
	if err != nil {
		return 0, err
	}

	var max int64
	err = db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(c), 0) FROM (
			SELECT COUNT(DISTINCT task_name) AS c FROM sessions
			WHERE completed = 1
			GROUP BY date(start_time)
		)
	`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max distinct tasks per day: %w", err)
	}
	return max, nil
}

// CompletedInterruptionSeq returns the interruption counts of all completed
// sessions ordered by start time ascending.
func (r *SessionRepository) CompletedInterruptionSeq(ctx context.Context) ([]int64, error) {
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT interruptions FROM sessions
		WHERE completed = 1
		ORDER BY start_time ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("interruption sequence: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var seq []int64
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan interruptions: %w", err)
		}
		seq = append(seq, n)
	}
	return seq, rows.Err()
}
