package domain

import "time"

// Rarity is the ordinal cosmetic tier attached to an achievement.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists the tiers in ascending order.
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// Achievement is one rule definition plus its mutable progress. Once
// Unlocked is true it never reverts and UnlockedDate is immutable.
type Achievement struct {
	ID           string
	Name         string
	Description  string
	Icon         string
	Unlocked     bool
	UnlockedDate *time.Time
	Progress     float64
	MaxProgress  float64
	Category     string
	Rarity       Rarity
}

// ProgressPercent reports how close the achievement is to unlocking.
func (a *Achievement) ProgressPercent() float64 {
	if a.MaxProgress <= 0 {
		return 0
	}
	return a.Progress / a.MaxProgress * 100
}

// Boolean reports whether the achievement exposes no fractional progress.
func (a *Achievement) Boolean() bool {
	return a.MaxProgress <= 1
}
