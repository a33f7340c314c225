package cli

import (
	"strings"
	"testing"
	"time"

	"focustrack/internal/domain"
)

func TestFormatAchievementProgress(t *testing.T) {
	locked := domain.Achievement{
		ID:          "ten_pomodoros",
		Name:        "Getting Started",
		Description: "Complete 10 pomodoros",
		Icon:        "🔟",
		Rarity:      domain.RarityCommon,
		Progress:    3,
		MaxProgress: 10,
	}

	line := formatAchievement(locked)
	if !strings.Contains(line, "(3/10)") {
		t.Errorf("line = %q, want progress rendered as (3/10)", line)
	}
	if strings.Contains(line, "%!") {
		t.Errorf("line = %q, contains a formatting error", line)
	}
	if !strings.HasPrefix(strings.TrimSpace(line), "🔒") {
		t.Errorf("line = %q, want locked marker", line)
	}
}

func TestFormatAchievementUnlocked(t *testing.T) {
	at := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	unlocked := domain.Achievement{
		ID:           "first_pomodoro",
		Name:         "First Steps",
		Description:  "Complete your first pomodoro",
		Icon:         "🍅",
		Rarity:       domain.RarityCommon,
		Unlocked:     true,
		UnlockedDate: &at,
		Progress:     1,
		MaxProgress:  1,
	}

	line := formatAchievement(unlocked)
	if !strings.Contains(line, "unlocked 2026-08-28") {
		t.Errorf("line = %q, want unlock date", line)
	}
	if strings.Contains(line, "(1/1)") {
		t.Errorf("line = %q, unlocked rows should not show progress", line)
	}
}
