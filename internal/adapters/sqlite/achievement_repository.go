package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"focustrack/internal/domain"
)

// AchievementRepository stores the achievement catalog.
type AchievementRepository struct {
	store *Store
}

func NewAchievementRepository(store *Store) *AchievementRepository {
	return &AchievementRepository{store: store}
}

// Seed inserts catalog entries that are not yet present. Existing rows keep
// their progress and unlock state, so reseeding on every startup is safe.
func (r *AchievementRepository) Seed(ctx context.Context, catalog []domain.Achievement) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		for _, a := range catalog {
			_, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO achievements
				(id, name, description, icon, unlocked, progress, max_progress, category, rarity)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, a.ID, a.Name, a.Description, a.Icon, a.Unlocked, a.Progress,
				a.MaxProgress, a.Category, string(a.Rarity))
			if err != nil {
				return fmt.Errorf("seed achievement %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

// All returns the full catalog, unlocked achievements first.
func (r *AchievementRepository) All(ctx context.Context) ([]domain.Achievement, error) {
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, icon, unlocked, unlocked_date,
		       progress, max_progress, category, rarity
		FROM achievements
		ORDER BY unlocked DESC, rarity, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var achievements []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		var unlockedDate sql.NullString
		var rarity string

		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.Unlocked,
			&unlockedDate, &a.Progress, &a.MaxProgress, &a.Category, &rarity); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		a.Rarity = domain.Rarity(rarity)

		if unlockedDate.Valid {
			ts, err := time.Parse(time.RFC3339, unlockedDate.String)
			if err != nil {
				return nil, fmt.Errorf("parse unlock date %q: %w", unlockedDate.String, err)
			}
			a.UnlockedDate = &ts
		}

		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// UpdateProgress writes a new progress value for an achievement.
func (r *AchievementRepository) UpdateProgress(ctx context.Context, id string, progress float64) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE achievements SET progress = ? WHERE id = ?
		`, progress, id); err != nil {
			return fmt.Errorf("update progress for %s: %w", id, err)
		}
		return nil
	})
}

// Unlock marks an achievement unlocked. The WHERE clause makes unlocking
// idempotent: an already-unlocked achievement keeps its original timestamp.
func (r *AchievementRepository) Unlock(ctx context.Context, id string, at time.Time) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE achievements
			SET unlocked = 1, unlocked_date = ?, progress = max_progress
			WHERE id = ? AND unlocked = 0
		`, at.Format(time.RFC3339), id); err != nil {
			return fmt.Errorf("unlock %s: %w", id, err)
		}
		return nil
	})
}

// ResetAll clears progress, unlocked flags and unlock timestamps.
func (r *AchievementRepository) ResetAll(ctx context.Context) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE achievements SET unlocked = 0, unlocked_date = NULL, progress = 0
		`); err != nil {
			return fmt.Errorf("reset achievements: %w", err)
		}
		return nil
	})
}
