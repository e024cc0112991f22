// Package progression maps cumulative XP to levels and levels to emoji rewards.
package progression

import (
	"math"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
)

// LevelUp describes the level transition caused by an XP gain.
type LevelUp struct {
	HasLeveledUp  bool `json:"has_leveled_up"`
	NewLevel      int  `json:"new_level"`
	PreviousLevel int  `json:"previous_level"`
}

// Stats is the progression summary shown on a profile.
type Stats struct {
	Level              int  `json:"level"`
	XP                 int  `json:"xp"`
	CurrentLevelXP     int  `json:"current_level_xp"`
	XPForNextLevel     int  `json:"xp_for_next_level"`
	ProgressPercentage int  `json:"progress_percentage"`
	XPRemaining        int  `json:"xp_remaining"`
	IsMaxLevel         bool `json:"is_max_level"`
}

// XPForNextLevel returns the XP needed to go from level to level+1:
// floor(BaseXP * XPGrowth^(level-1)). It is 0 at the max level.
func XPForNextLevel(level int) int {
	if level >= constants.MaxLevel {
		return 0
	}
	if level < 1 {
		level = 1
	}
	return int(math.Floor(constants.BaseXP * math.Pow(constants.XPGrowth, float64(level-1))))
}

// CalculateLevel returns the level reached with xp, clamped to [1, MaxLevel].
func CalculateLevel(xp int) int {
	if xp < 0 {
		return 1
	}

	required := 0
	for level := 1; level < constants.MaxLevel; level++ {
		required += XPForNextLevel(level)
		if xp < required {
			return level
		}
	}
	return constants.MaxLevel
}

// TotalXPForLevel returns the cumulative XP needed to reach target.
func TotalXPForLevel(target int) int {
	total := 0
	for level := 1; level < target && level <= constants.MaxLevel; level++ {
		total += XPForNextLevel(level)
	}
	return total
}

// CurrentLevelXP returns the XP accumulated inside the current level.
func CurrentLevelXP(xp int) int {
	return xp - TotalXPForLevel(CalculateLevel(xp))
}

// LevelProgress returns the percentage (0-100) towards the next level.
func LevelProgress(xp int) int {
	level := CalculateLevel(xp)
	if level >= constants.MaxLevel {
		return 100
	}
	pct := int(math.Floor(float64(CurrentLevelXP(xp)) / float64(XPForNextLevel(level)) * 100))
	return min(pct, 100)
}

// CheckLevelUp computes both levels from raw XP values so that repeated gains
// never drift from CalculateLevel.
func CheckLevelUp(currentXP, gained int) LevelUp {
	previous := CalculateLevel(currentXP)
	next := CalculateLevel(currentXP + gained)
	return LevelUp{
		HasLeveledUp:  next > previous,
		NewLevel:      next,
		PreviousLevel: previous,
	}
}

// XPForFrequency returns the XP granted for one completion of a habit with the
// given frequency. Unknown frequencies earn the daily amount.
func XPForFrequency(freq constants.Frequency) int {
	switch freq {
	case constants.FrequencyWeekly:
		return constants.XPWeekly
	case constants.FrequencyMonthly:
		return constants.XPMonthly
	default:
		return constants.XPDaily
	}
}

// ProgressionStats summarizes xp for display.
func ProgressionStats(xp int) Stats {
	level := CalculateLevel(xp)
	current := CurrentLevelXP(xp)
	next := XPForNextLevel(level)
	return Stats{
		Level:              level,
		XP:                 xp,
		CurrentLevelXP:     current,
		XPForNextLevel:     next,
		ProgressPercentage: LevelProgress(xp),
		XPRemaining:        max(next-current, 0),
		IsMaxLevel:         level >= constants.MaxLevel,
	}
}
