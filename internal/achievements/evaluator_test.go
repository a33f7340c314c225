package achievements_test

import (
	"context"
	"testing"
	"time"

	"focustrack/internal/achievements"
	"focustrack/internal/adapters/sqlite"
	"focustrack/internal/domain"
	"focustrack/internal/stats"
)

type fixture struct {
	sessions   *sqlite.SessionRepository
	stats      *sqlite.StatsRepository
	repo       *sqlite.AchievementRepository
	aggregator *stats.Aggregator
	evaluator  *achievements.Evaluator
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.OpenInMemory(context.Background())
	if err != nil {
		t.Fatalf("Failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{
		sessions: sqlite.NewSessionRepository(store),
		stats:    sqlite.NewStatsRepository(store),
		repo:     sqlite.NewAchievementRepository(store),
		now:      time.Date(2026, 8, 28, 12, 0, 0, 0, time.Local),
	}
	clock := func() time.Time { return f.now }
	f.aggregator = stats.NewAggregator(f.sessions, f.stats).WithClock(clock)
	f.evaluator = achievements.NewEvaluator(f.sessions, f.stats, f.repo).WithClock(clock)

	if err := f.evaluator.Seed(context.Background()); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return f
}

// completeAndAggregate records a completed session and refreshes the stats
// the evaluator reads.
func (f *fixture) completeAndAggregate(t *testing.T, start time.Time, task string, interruptions int64) {
	t.Helper()
	ctx := context.Background()

	session := &domain.Session{
		StartTime:     start,
		EndTime:       start.Add(25 * time.Minute),
		Duration:      1500,
		TaskName:      task,
		Completed:     true,
		Interruptions: interruptions,
		FocusScore:    domain.CalculateFocusScore(interruptions),
	}
	if _, err := f.sessions.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := f.aggregator.UpdateDailyStats(ctx, start); err != nil {
		t.Fatalf("UpdateDailyStats failed: %v", err)
	}
	if err := f.aggregator.UpdateUserStats(ctx); err != nil {
		t.Fatalf("UpdateUserStats failed: %v", err)
	}
}

func unlockedIDs(unlocked []domain.Achievement) map[string]bool {
	ids := make(map[string]bool, len(unlocked))
	for _, achievement := range unlocked {
		ids[achievement.ID] = true
	}
	return ids
}

func TestEvaluator_FirstPomodoroUnlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.completeAndAggregate(t, f.now.Add(-time.Hour), "alpha", 0)

	unlocked, err := f.evaluator.CheckAchievements(ctx)
	if err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}

	ids := unlockedIDs(unlocked)
	if !ids["first_pomodoro"] {
		t.Error("expected first_pomodoro to unlock")
	}
	if !ids["perfect_focus"] {
		t.Error("expected perfect_focus to unlock")
	}
	if ids["early_bird"] || ids["night_owl"] {
		t.Errorf("did not expect time-of-day unlocks at 11:00, got %v", ids)
	}

	// A second check unlocks nothing new.
	again, err := f.evaluator.CheckAchievements(ctx)
	if err != nil {
		t.Fatalf("second CheckAchievements failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("expected no new unlocks, got %v", unlockedIDs(again))
	}
}

func TestEvaluator_InterruptedSessionKeepsPerfectFocusLocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.completeAndAggregate(t, f.now.Add(-time.Hour), "alpha", 3)

	unlocked, err := f.evaluator.CheckAchievements(ctx)
	if err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}
	ids := unlockedIDs(unlocked)
	if !ids["first_pomodoro"] {
		t.Error("expected first_pomodoro to unlock")
	}
	if ids["perfect_focus"] {
		t.Error("perfect_focus must stay locked after an interrupted session")
	}
}

func TestEvaluator_EarlyBird(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dawn := time.Date(2026, 8, 28, 5, 30, 0, 0, time.Local)
	f.completeAndAggregate(t, dawn, "alpha", 0)

	unlocked, err := f.evaluator.CheckAchievements(ctx)
	if err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}
	if !unlockedIDs(unlocked)["early_bird"] {
		t.Error("expected early_bird for a 05:30 session")
	}
}

func TestEvaluator_StreakUnlocksAndProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	today := domain.DayOf(f.now)
	for i := 2; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		f.completeAndAggregate(t, day.Add(10*time.Hour), "alpha", 1)
	}

	unlocked, err := f.evaluator.CheckAchievements(ctx)
	if err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}
	if !unlockedIDs(unlocked)["three_day_streak"] {
		t.Error("expected three_day_streak after 3 consecutive days")
	}

	all, err := f.repo.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	for _, achievement := range all {
		if achievement.ID == "week_streak" {
			if achievement.Unlocked {
				t.Error("week_streak must not unlock at 3 days")
			}
			if achievement.Progress != 3 {
				t.Errorf("week_streak progress = %v, want 3", achievement.Progress)
			}
		}
	}
}

func TestEvaluator_ProgressNeverDecreases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Stored progress higher than the current metric, as after a
	// destructive edit of the history.
	if err := f.repo.UpdateProgress(ctx, "ten_pomodoros", 9); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}

	f.completeAndAggregate(t, f.now.Add(-time.Hour), "alpha", 0)
	if _, err := f.evaluator.CheckAchievements(ctx); err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}

	all, err := f.repo.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	for _, achievement := range all {
		if achievement.ID == "ten_pomodoros" && achievement.Progress != 9 {
			t.Errorf("progress = %v, want the stored 9 to survive", achievement.Progress)
		}
	}
}

func TestEvaluator_CalmRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	today := domain.DayOf(f.now)
	// 2 calm, 1 interrupted, then 5 calm in a row.
	interruptions := []int64{0, 0, 1, 0, 0, 0, 0, 0}
	for i, n := range interruptions {
		f.completeAndAggregate(t, today.Add(time.Duration(i)*30*time.Minute), "alpha", n)
	}

	unlocked, err := f.evaluator.CheckAchievements(ctx)
	if err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}
	if !unlockedIDs(unlocked)["focus_master"] {
		t.Error("expected focus_master after 5 uninterrupted pomodoros in a row")
	}
}

func TestEvaluator_GetUnlockedCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.completeAndAggregate(t, f.now.Add(-time.Hour), "alpha", 0)
	if _, err := f.evaluator.CheckAchievements(ctx); err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}

	count, err := f.evaluator.GetUnlockedCount(ctx)
	if err != nil {
		t.Fatalf("GetUnlockedCount failed: %v", err)
	}
	if count.Total != len(achievements.Catalog) {
		t.Errorf("total = %d, want %d", count.Total, len(achievements.Catalog))
	}
	if count.Unlocked < 2 {
		t.Errorf("unlocked = %d, want at least 2", count.Unlocked)
	}
	if count.ByRarity[domain.RarityCommon] != count.Unlocked {
		t.Errorf("expected all unlocks to be common, got %v", count.ByRarity)
	}
}

func TestEvaluator_GetRecentUnlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.completeAndAggregate(t, f.now.Add(-time.Hour), "alpha", 0)
	if _, err := f.evaluator.CheckAchievements(ctx); err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}

	recent, err := f.evaluator.GetRecentUnlocks(ctx, 7)
	if err != nil {
		t.Fatalf("GetRecentUnlocks failed: %v", err)
	}
	if len(recent) == 0 {
		t.Fatal("expected recent unlocks")
	}

	// Push the clock past the window; nothing remains recent.
	f.now = f.now.AddDate(0, 0, 10)
	recent, err = f.evaluator.GetRecentUnlocks(ctx, 7)
	if err != nil {
		t.Fatalf("GetRecentUnlocks failed: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("expected no unlocks after the window, got %d", len(recent))
	}
}

func TestEvaluator_GetNextAchievements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	today := domain.DayOf(f.now)
	for i := 0; i < 4; i++ {
		f.completeAndAggregate(t, today.Add(time.Duration(9+i)*time.Hour), "alpha", 1)
	}
	if _, err := f.evaluator.CheckAchievements(ctx); err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}

	next, err := f.evaluator.GetNextAchievements(ctx, 3)
	if err != nil {
		t.Fatalf("GetNextAchievements failed: %v", err)
	}
	if len(next) == 0 || len(next) > 3 {
		t.Fatalf("expected 1-3 upcoming achievements, got %d", len(next))
	}
	for i := 1; i < len(next); i++ {
		if next[i-1].ProgressPercent() < next[i].ProgressPercent() {
			t.Errorf("expected descending progress, got %v before %v",
				next[i-1].ProgressPercent(), next[i].ProgressPercent())
		}
	}
	for _, achievement := range next {
		if achievement.Unlocked {
			t.Errorf("%s is unlocked and must not appear", achievement.ID)
		}
	}
}
