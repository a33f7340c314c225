// Package achievements maintains progress and unlock state for a fixed
// catalog of rules evaluated against the session ledger and its derived
// statistics.
package achievements

import "focustrack/internal/domain"

// Kind selects the evaluation family a rule belongs to. Each kind is a
// pure function over the evaluation snapshot.
type Kind int

const (
	// KindCumulativeCount unlocks at N total completed sessions.
	KindCumulativeCount Kind = iota
	// KindStreak unlocks at N consecutive active days, judged on today's streak.
	KindStreak
	// KindDailyCount unlocks at N completed sessions today.
	KindDailyCount
	// KindTimeOfDay unlocks when any completed session today matches the
	// hour predicate.
	KindTimeOfDay
	// KindZeroInterruption unlocks when any completed session ever had no
	// interruptions.
	KindZeroInterruption
	// KindCumulativeMinutes unlocks at N total focused minutes.
	KindCumulativeMinutes
	// KindTaskTotal unlocks at N distinct tasks worked on.
	KindTaskTotal
	// KindSingleTaskCount unlocks when one task accumulates N completed
	// sessions.
	KindSingleTaskCount
	// KindWeekendCount unlocks at N completed weekend sessions.
	KindWeekendCount
	// KindDailyDistinctTasks unlocks at N distinct tasks completed in a
	// single day.
	KindDailyDistinctTasks
	// KindZeroInterruptionRun unlocks at N consecutive completed sessions
	// without a single interruption.
	KindZeroInterruptionRun
)

// Rule pairs one catalog entry's presentation fields with its evaluation
// parameters. Target is the unlock threshold in the rule's metric unit;
// MaxProgress is the progress denominator shown to the user and may be 1
// for purely boolean rules even when Target is larger.
type Rule struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Kind        Kind
	Target      float64
	MaxProgress float64
	Category    string
	Rarity      domain.Rarity

	// Hour and Before parameterize KindTimeOfDay: Before selects
	// "starts before Hour", otherwise "starts at or after Hour".
	Hour   int
	Before bool
}

// Catalog is the fixed rule set, seeded into storage on first run.
var Catalog = []Rule{
	{ID: "first_pomodoro", Name: "Beginner", Description: "Complete your first pomodoro", Icon: "🌱",
		Kind: KindCumulativeCount, Target: 1, MaxProgress: 1, Category: "basic", Rarity: domain.RarityCommon},
	{ID: "ten_pomodoros", Name: "Apprentice", Description: "Complete 10 pomodoros", Icon: "🌿",
		Kind: KindCumulativeCount, Target: 10, MaxProgress: 10, Category: "basic", Rarity: domain.RarityCommon},
	{ID: "hundred_pomodoros", Name: "Focus Adept", Description: "Complete 100 pomodoros", Icon: "🌳",
		Kind: KindCumulativeCount, Target: 100, MaxProgress: 100, Category: "basic", Rarity: domain.RarityRare},
	{ID: "thousand_pomodoros", Name: "Focus Master", Description: "Complete 1000 pomodoros", Icon: "🌲",
		Kind: KindCumulativeCount, Target: 1000, MaxProgress: 1000, Category: "basic", Rarity: domain.RarityEpic},

	{ID: "three_day_streak", Name: "Three in a Row", Description: "Complete pomodoros 3 days in a row", Icon: "🔥",
		Kind: KindStreak, Target: 3, MaxProgress: 3, Category: "streak", Rarity: domain.RarityCommon},
	{ID: "week_streak", Name: "Weekly Regular", Description: "Complete pomodoros 7 days in a row", Icon: "💪",
		Kind: KindStreak, Target: 7, MaxProgress: 7, Category: "streak", Rarity: domain.RarityRare},
	{ID: "month_streak", Name: "Monthly Hero", Description: "Complete pomodoros 30 days in a row", Icon: "🏆",
		Kind: KindStreak, Target: 30, MaxProgress: 30, Category: "streak", Rarity: domain.RarityEpic},
	{ID: "year_streak", Name: "Living Legend", Description: "Complete pomodoros 365 days in a row", Icon: "👑",
		Kind: KindStreak, Target: 365, MaxProgress: 365, Category: "streak", Rarity: domain.RarityLegendary},

	{ID: "daily_goal", Name: "Goal Getter", Description: "Reach the daily goal", Icon: "☀️",
		Kind: KindDailyCount, Target: 8, MaxProgress: 1, Category: "daily", Rarity: domain.RarityCommon},
	{ID: "early_bird", Name: "Early Bird", Description: "Start a pomodoro before 6 AM", Icon: "🐦",
		Kind: KindTimeOfDay, Target: 1, MaxProgress: 1, Category: "daily", Rarity: domain.RarityCommon, Hour: 6, Before: true},
	{ID: "night_owl", Name: "Night Owl", Description: "Complete a pomodoro after 10 PM", Icon: "🦉",
		Kind: KindTimeOfDay, Target: 1, MaxProgress: 1, Category: "daily", Rarity: domain.RarityCommon, Hour: 22},
	{ID: "perfect_day", Name: "Perfect Day", Description: "Complete 8 pomodoros in one day", Icon: "⭐",
		Kind: KindDailyCount, Target: 8, MaxProgress: 8, Category: "daily", Rarity: domain.RarityCommon},

	{ID: "perfect_focus", Name: "Perfect Focus", Description: "Complete a pomodoro with zero interruptions", Icon: "🎯",
		Kind: KindZeroInterruption, Target: 1, MaxProgress: 1, Category: "focus", Rarity: domain.RarityCommon},
	{ID: "focus_master", Name: "Deep Calm", Description: "Complete 5 pomodoros in a row without interruptions", Icon: "🧘",
		Kind: KindZeroInterruptionRun, Target: 5, MaxProgress: 5, Category: "focus", Rarity: domain.RarityRare},
	{ID: "deep_work", Name: "Deep Work", Description: "Complete 10 pomodoros on a single task", Icon: "🌊",
		Kind: KindSingleTaskCount, Target: 10, MaxProgress: 10, Category: "focus", Rarity: domain.RarityRare},

	{ID: "weekend_warrior", Name: "Weekend Warrior", Description: "Complete 10 pomodoros on weekends", Icon: "⚔️",
		Kind: KindWeekendCount, Target: 10, MaxProgress: 10, Category: "special", Rarity: domain.RarityCommon},
	{ID: "task_crusher", Name: "Task Crusher", Description: "Complete 10 different tasks in one day", Icon: "💥",
		Kind: KindDailyDistinctTasks, Target: 10, MaxProgress: 10, Category: "special", Rarity: domain.RarityRare},
	{ID: "marathon", Name: "Marathon", Description: "Accumulate 100 hours of focused work", Icon: "🏃",
		Kind: KindCumulativeMinutes, Target: 6000, MaxProgress: 6000, Category: "special", Rarity: domain.RarityEpic},

	{ID: "time_traveler", Name: "Time Traveler", Description: "Accumulate 1000 hours of focused work", Icon: "⏰",
		Kind: KindCumulativeMinutes, Target: 60000, MaxProgress: 60000, Category: "milestone", Rarity: domain.RarityLegendary},
	{ID: "task_master", Name: "Task Master", Description: "Work on 1000 different tasks", Icon: "📋",
		Kind: KindTaskTotal, Target: 1000, MaxProgress: 1000, Category: "milestone", Rarity: domain.RarityLegendary},
}

// ruleIndex maps rule IDs to catalog entries for dispatch.
var ruleIndex = func() map[string]Rule {
	index := make(map[string]Rule, len(Catalog))
	for _, rule := range Catalog {
		index[rule.ID] = rule
	}
	return index
}()

// CatalogAchievements renders the catalog as zero-progress achievement rows
// for seeding.
func CatalogAchievements() []domain.Achievement {
	achievements := make([]domain.Achievement, 0, len(Catalog))
	for _, rule := range Catalog {
		achievements = append(achievements, domain.Achievement{
			ID:          rule.ID,
			Name:        rule.Name,
			Description: rule.Description,
			Icon:        rule.Icon,
			MaxProgress: rule.MaxProgress,
			Category:    rule.Category,
			Rarity:      rule.Rarity,
		})
	}
	return achievements
}
