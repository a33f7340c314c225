package ports

import (
	"context"
	"time"

	"focustrack/internal/domain"
)

// AchievementRepository stores the achievement catalog and its mutable
// progress and unlock state.
type AchievementRepository interface {
	// Seed inserts any catalog entries not yet present. Existing rows
	// keep their progress and unlock state.
	Seed(ctx context.Context, catalog []domain.Achievement) error
	// All returns the full catalog, unlocked first, then by rarity.
	All(ctx context.Context) ([]domain.Achievement, error)
	// UpdateProgress writes a new progress value for an achievement.
	UpdateProgress(ctx context.Context, id string, progress float64) error
	// Unlock marks an achievement unlocked at the given time. The unlock
	// timestamp is only written once; unlocking an already-unlocked
	// achievement is a no-op.
	Unlock(ctx context.Context, id string, at time.Time) error
	// ResetAll clears progress, unlocked flags and unlock timestamps.
	ResetAll(ctx context.Context) error
}
