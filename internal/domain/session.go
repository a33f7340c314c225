package domain

import (
	"fmt"
	"time"
)

// DefaultTaskName is used when a session is started without a task label.
const DefaultTaskName = "Unnamed task"

// Session is one attempted or completed focus interval. Sessions are never
// mutated after they are persisted.
type Session struct {
	ID            int64
	StartTime     time.Time
	EndTime       time.Time
	Duration      int64 // seconds
	TaskName      string
	Completed     bool
	Interruptions int64
	FocusScore    float64
	Tags          []string
	Notes         *string
}

// Validate rejects malformed sessions before they reach storage.
func (s *Session) Validate() error {
	if s.Duration < 0 {
		return fmt.Errorf("%w: negative duration %d", ErrValidation, s.Duration)
	}
	if s.EndTime.Before(s.StartTime) {
		return fmt.Errorf("%w: end time precedes start time", ErrValidation)
	}
	if s.Interruptions < 0 {
		return fmt.Errorf("%w: negative interruption count %d", ErrValidation, s.Interruptions)
	}
	if s.FocusScore < 0 || s.FocusScore > 100 {
		return fmt.Errorf("%w: focus score %.1f outside [0,100]", ErrValidation, s.FocusScore)
	}
	return nil
}

// CalculateFocusScore derives the per-session quality metric:
// 100 minus 10 per interruption, floored at 0.
func CalculateFocusScore(interruptions int64) float64 {
	score := 100 - 10*interruptions
	if score < 0 {
		return 0
	}
	return float64(score)
}

// TaskStat summarizes completed work for a single task label.
type TaskStat struct {
	Name       string
	Sessions   int64
	Hours      float64
	AvgFocus   float64
	LastWorked string
}
