package achievements

import (
	"context"
	"math"
)

// maxLevel is the highest reachable experience level.
const maxLevel = 100

// levelThresholds holds the cumulative completed-session count required
// for each level. thresholds[n] = thresholds[n-1] + floor(10 * 1.15^(n-1)),
// thresholds[0] = 0; the requirement per level grows exponentially.
var levelThresholds = func() []int64 {
	thresholds := make([]int64, 0, maxLevel+1)
	thresholds = append(thresholds, 0)
	for level := 1; level <= maxLevel; level++ {
		required := int64(10 * math.Pow(1.15, float64(level-1)))
		thresholds = append(thresholds, thresholds[level-1]+required)
	}
	return thresholds
}()

// LevelProgress describes the position within the experience curve.
type LevelProgress struct {
	Level           int
	CurrentExp      int64
	NextLevelExp    int64
	Progress        float64 // percent toward the next level
	PomodorosToNext int64
}

// GetLevel returns the current level: the largest index whose threshold is
// at most the lifetime completed-session count.
func (e *Evaluator) GetLevel(ctx context.Context) (int, error) {
	stats, err := e.stats.GetUserStats(ctx)
	if err != nil {
		return 0, err
	}
	return levelFor(stats.TotalPomodoros), nil
}

func levelFor(totalPomodoros int64) int {
	level := 0
	for i, threshold := range levelThresholds {
		if totalPomodoros >= threshold {
			level = i
		} else {
			break
		}
	}
	return level
}

// GetLevelProgress reports the current level and the distance to the next.
func (e *Evaluator) GetLevelProgress(ctx context.Context) (*LevelProgress, error) {
	stats, err := e.stats.GetUserStats(ctx)
	if err != nil {
		return nil, err
	}

	total := stats.TotalPomodoros
	level := levelFor(total)

	if level >= len(levelThresholds)-1 {
		return &LevelProgress{
			Level:        level,
			CurrentExp:   total,
			NextLevelExp: total,
			Progress:     100,
		}, nil
	}

	current := levelThresholds[level]
	next := levelThresholds[level+1]

	return &LevelProgress{
		Level:           level,
		CurrentExp:      total,
		NextLevelExp:    next,
		Progress:        float64(total-current) / float64(next-current) * 100,
		PomodorosToNext: next - total,
	}, nil
}
