package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"focustrack/internal/domain"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show achievements",
	Long: `Show the achievement catalog with unlock state and progress.

Examples:
  focustrack achievements
  focustrack achievements --next
  focustrack achievements --recent`,
	RunE: runAchievements,
}

var (
	achievementsNext   bool
	achievementsRecent bool
)

func init() {
	rootCmd.AddCommand(achievementsCmd)

	achievementsCmd.Flags().BoolVar(&achievementsNext, "next", false, "Only the closest locked achievements")
	achievementsCmd.Flags().BoolVar(&achievementsRecent, "recent", false, "Only achievements unlocked in the last 7 days")
}

func runAchievements(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	switch {
	case achievementsNext:
		upcoming, err := app.Evaluator.GetNextAchievements(ctx, 5)
		if err != nil {
			return fmt.Errorf("failed to load next achievements: %w", err)
		}
		if len(upcoming) == 0 {
			fmt.Println("No achievements in progress.")
			return nil
		}
		fmt.Println("🎯 Closest achievements:")
		for _, achievement := range upcoming {
			printAchievement(achievement)
		}
		return nil

	case achievementsRecent:
		recent, err := app.Evaluator.GetRecentUnlocks(ctx, 7)
		if err != nil {
			return fmt.Errorf("failed to load recent unlocks: %w", err)
		}
		if len(recent) == 0 {
			fmt.Println("Nothing unlocked in the last 7 days.")
			return nil
		}
		fmt.Println("🏆 Recently unlocked:")
		for _, achievement := range recent {
			printAchievement(achievement)
		}
		return nil
	}

	all, err := app.Achievements.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load achievements: %w", err)
	}
	count, err := app.Evaluator.GetUnlockedCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count unlocks: %w", err)
	}

	fmt.Printf("🏆 Achievements: %d/%d (%.0f%%)\n\n", count.Unlocked, count.Total, count.Percentage)
	for _, achievement := range all {
		printAchievement(achievement)
	}
	return nil
}

func printAchievement(achievement domain.Achievement) {
	fmt.Println(formatAchievement(achievement))
}

func formatAchievement(achievement domain.Achievement) string {
	status := "🔒"
	if achievement.Unlocked {
		status = achievement.Icon
	}
	line := fmt.Sprintf("  %s %-18s [%s] %s", status, achievement.Name, achievement.Rarity, achievement.Description)
	if !achievement.Unlocked && achievement.MaxProgress > 1 {
		line += fmt.Sprintf(" (%.0f/%.0f)", achievement.Progress, achievement.MaxProgress)
	}
	if achievement.Unlocked && achievement.UnlockedDate != nil {
		line += " — unlocked " + achievement.UnlockedDate.Format(domain.DateLayout)
	}
	return line
}
