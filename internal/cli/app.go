package cli

import (
	"context"
	"fmt"

	"focustrack/internal/achievements"
	"focustrack/internal/adapters/sqlite"
	"focustrack/internal/infrastructure/config"
	"focustrack/internal/ports"
	"focustrack/internal/stats"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config       *config.App
	Store        *sqlite.Store
	SessionRepo  ports.SessionRepository
	StatsRepo    ports.StatsRepository
	Achievements ports.AchievementRepository
	Aggregator   *stats.Aggregator
	Reporter     *stats.Reporter
	Evaluator    *achievements.Evaluator
}

// NewAppContext loads configuration, opens the database and wires the
// services. The achievement catalog is seeded on every start; existing
// rows keep their state.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := sqlite.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sessionRepo := sqlite.NewSessionRepository(store)
	statsRepo := sqlite.NewStatsRepository(store)
	achievementRepo := sqlite.NewAchievementRepository(store)

	evaluator := achievements.NewEvaluator(sessionRepo, statsRepo, achievementRepo)
	if err := evaluator.Seed(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to seed achievements: %w", err)
	}

	return &AppContext{
		Config:      cfg,
		Store:       store,
		SessionRepo:  sessionRepo,
		StatsRepo:    statsRepo,
		Achievements: achievementRepo,
		Aggregator:   stats.NewAggregator(sessionRepo, statsRepo),
		Reporter:     stats.NewReporter(sessionRepo, statsRepo),
		Evaluator:    evaluator,
	}, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
