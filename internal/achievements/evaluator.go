package achievements

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"focustrack/internal/domain"
	"focustrack/internal/ports"
)

// snapshot is everything a rule evaluation may look at, collected once per
// check so every rule sees a consistent view.
type snapshot struct {
	stats            *domain.UserStats
	today            *domain.DailyStat // nil when today has no row
	todaySessions    []domain.Session  // completed sessions started today
	anyUninterrupted bool
	weekendCount     int64
	maxSingleTask    int64
	maxDailyTasks    int64
	longestCalmRun   int64
}

// Evaluator checks the achievement catalog against current statistics.
type Evaluator struct {
	sessions     ports.SessionRepository
	stats        ports.StatsRepository
	achievements ports.AchievementRepository
	now          func() time.Time
}

func NewEvaluator(sessions ports.SessionRepository, stats ports.StatsRepository,
	achievements ports.AchievementRepository) *Evaluator {
	return &Evaluator{
		sessions:     sessions,
		stats:        stats,
		achievements: achievements,
		now:          time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// Seed installs the catalog rows that are not yet stored.
func (e *Evaluator) Seed(ctx context.Context) error {
	return e.achievements.Seed(ctx, CatalogAchievements())
}

// CheckAchievements evaluates every not-yet-unlocked achievement and
// returns the ones newly unlocked by this call. Progress is refreshed for
// the rest, clamped so a stored value never decreases even after a
// destructive edit of the underlying history.
func (e *Evaluator) CheckAchievements(ctx context.Context) ([]domain.Achievement, error) {
	snap, err := e.takeSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	all, err := e.achievements.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}

	now := e.now()
	var unlocked []domain.Achievement
	for _, achievement := range all {
		if achievement.Unlocked {
			continue
		}
		rule, ok := ruleIndex[achievement.ID]
		if !ok {
			continue
		}

		value, met := rule.evaluate(snap)

		if met {
			if err := e.achievements.Unlock(ctx, achievement.ID, now); err != nil {
				return nil, fmt.Errorf("unlock %s: %w", achievement.ID, err)
			}
			achievement.Unlocked = true
			unlockedAt := now
			achievement.UnlockedDate = &unlockedAt
			achievement.Progress = achievement.MaxProgress
			unlocked = append(unlocked, achievement)
			continue
		}

		if achievement.Boolean() {
			continue
		}
		progress := math.Min(value, achievement.MaxProgress)
		if progress > achievement.Progress {
			if err := e.achievements.UpdateProgress(ctx, achievement.ID, progress); err != nil {
				return nil, fmt.Errorf("update progress %s: %w", achievement.ID, err)
			}
		}
	}

	return unlocked, nil
}

func (e *Evaluator) takeSnapshot(ctx context.Context) (*snapshot, error) {
	snap := &snapshot{}

	var err error
	if snap.stats, err = e.stats.GetUserStats(ctx); err != nil {
		return nil, err
	}

	today := domain.DayOf(e.now())
	if snap.today, err = e.stats.GetDaily(ctx, today); err != nil {
		return nil, err
	}

	sessions, err := e.sessions.List(ctx, ports.SessionFilter{StartDate: &today, EndDate: &today})
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		if session.Completed {
			snap.todaySessions = append(snap.todaySessions, session)
		}
	}

	if snap.anyUninterrupted, err = e.sessions.HasCompletedZeroInterruptions(ctx); err != nil {
		return nil, err
	}
	if snap.weekendCount, err = e.sessions.WeekendCompletedCount(ctx); err != nil {
		return nil, err
	}
	if snap.maxSingleTask, err = e.sessions.MaxCompletedForSingleTask(ctx); err != nil {
		return nil, err
	}
	if snap.maxDailyTasks, err = e.sessions.MaxDistinctTasksInDay(ctx); err != nil {
		return nil, err
	}

	seq, err := e.sessions.CompletedInterruptionSeq(ctx)
	if err != nil {
		return nil, err
	}
	snap.longestCalmRun = longestZeroRun(seq)

	return snap, nil
}

// longestZeroRun finds the longest run of consecutive zero values.
func longestZeroRun(seq []int64) int64 {
	var longest, current int64
	for _, n := range seq {
		if n == 0 {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

// evaluate computes the rule's current metric value and whether the unlock
// condition holds. Pure: it only reads the snapshot.
func (r Rule) evaluate(snap *snapshot) (value float64, met bool) {
	switch r.Kind {
	case KindCumulativeCount:
		value = float64(snap.stats.TotalPomodoros)
	case KindStreak:
		if snap.today != nil {
			value = float64(snap.today.StreakDays)
		}
	case KindDailyCount:
		if snap.today != nil {
			value = float64(snap.today.TotalPomodoros)
		}
	case KindTimeOfDay:
		for _, session := range snap.todaySessions {
			hour := session.StartTime.Hour()
			if (r.Before && hour < r.Hour) || (!r.Before && hour >= r.Hour) {
				value = 1
				break
			}
		}
	case KindZeroInterruption:
		if snap.anyUninterrupted {
			value = 1
		}
	case KindCumulativeMinutes:
		value = snap.stats.TotalHours * 60
	case KindTaskTotal:
		value = float64(snap.stats.TotalTasks)
	case KindSingleTaskCount:
		value = float64(snap.maxSingleTask)
	case KindWeekendCount:
		value = float64(snap.weekendCount)
	case KindDailyDistinctTasks:
		value = float64(snap.maxDailyTasks)
	case KindZeroInterruptionRun:
		value = float64(snap.longestCalmRun)
	}

	return value, value >= r.Target
}

// UnlockedCount summarizes the catalog's unlock state.
type UnlockedCount struct {
	Total      int
	Unlocked   int
	Percentage float64
	ByRarity   map[domain.Rarity]int
}

// GetUnlockedCount totals unlocked achievements overall and per rarity.
func (e *Evaluator) GetUnlockedCount(ctx context.Context) (*UnlockedCount, error) {
	all, err := e.achievements.All(ctx)
	if err != nil {
		return nil, err
	}

	count := &UnlockedCount{
		Total:    len(all),
		ByRarity: make(map[domain.Rarity]int, len(domain.Rarities)),
	}
	for _, rarity := range domain.Rarities {
		count.ByRarity[rarity] = 0
	}
	for _, achievement := range all {
		if achievement.Unlocked {
			count.Unlocked++
			count.ByRarity[achievement.Rarity]++
		}
	}
	if count.Total > 0 {
		count.Percentage = float64(count.Unlocked) / float64(count.Total) * 100
	}
	return count, nil
}

// GetRecentUnlocks returns achievements unlocked within the trailing
// window, newest first.
func (e *Evaluator) GetRecentUnlocks(ctx context.Context, windowDays int) ([]domain.Achievement, error) {
	all, err := e.achievements.All(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := e.now().AddDate(0, 0, -windowDays)
	var recent []domain.Achievement
	for _, achievement := range all {
		if achievement.Unlocked && achievement.UnlockedDate != nil &&
			!achievement.UnlockedDate.Before(cutoff) {
			recent = append(recent, achievement)
		}
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].UnlockedDate.After(*recent[j].UnlockedDate)
	})
	return recent, nil
}

// GetNextAchievements returns the closest not-yet-unlocked achievements
// with visible progress, sorted by progress percentage descending.
func (e *Evaluator) GetNextAchievements(ctx context.Context, limit int) ([]domain.Achievement, error) {
	all, err := e.achievements.All(ctx)
	if err != nil {
		return nil, err
	}

	var upcoming []domain.Achievement
	for _, achievement := range all {
		if !achievement.Unlocked && achievement.MaxProgress > 1 && achievement.Progress > 0 {
			upcoming = append(upcoming, achievement)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ProgressPercent() > upcoming[j].ProgressPercent()
	})

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming, nil
}
