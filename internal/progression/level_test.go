package progression

import (
	"testing"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
)

func TestXPForNextLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 100},
		{2, 114}, // 100 * 1.15 is 114.99999999999999 in float64
		{3, 132},
		{constants.MaxLevel, 0},
		{constants.MaxLevel + 3, 0},
	}

	for _, tt := range tests {
		if got := XPForNextLevel(tt.level); got != tt.want {
			t.Errorf("XPForNextLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		name string
		xp   int
		want int
	}{
		{"negative xp", -50, 1},
		{"zero xp", 0, 1},
		{"just below level 2", 99, 1},
		{"exactly level 2", 100, 2},
		{"just below level 3", 213, 2},
		{"exactly level 3", 214, 3},
		{"huge xp clamps to max", 10_000_000, constants.MaxLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateLevel(tt.xp); got != tt.want {
				t.Errorf("CalculateLevel(%d) = %d, want %d", tt.xp, got, tt.want)
			}
		})
	}
}

func TestMaxLevelBoundary(t *testing.T) {
	total := TotalXPForLevel(constants.MaxLevel)
	if got := CalculateLevel(total); got != constants.MaxLevel {
		t.Errorf("CalculateLevel(%d) = %d, want %d", total, got, constants.MaxLevel)
	}
	if got := CalculateLevel(total - 1); got != constants.MaxLevel-1 {
		t.Errorf("CalculateLevel(%d) = %d, want %d", total-1, got, constants.MaxLevel-1)
	}
}

func TestCheckLevelUp(t *testing.T) {
	// Granting 100 XP from zero reaches level 2
	lu := CheckLevelUp(0, 100)
	if !lu.HasLeveledUp || lu.NewLevel != 2 || lu.PreviousLevel != 1 {
		t.Errorf("CheckLevelUp(0, 100) = %+v, want level 1 -> 2", lu)
	}

	lu = CheckLevelUp(100, 10)
	if lu.HasLeveledUp {
		t.Errorf("CheckLevelUp(100, 10) should not level up, got %+v", lu)
	}
	if lu.NewLevel != CalculateLevel(110) {
		t.Errorf("NewLevel = %d, want %d", lu.NewLevel, CalculateLevel(110))
	}

	// A single large gain can skip several levels
	lu = CheckLevelUp(0, TotalXPForLevel(5))
	if lu.NewLevel != 5 || lu.PreviousLevel != 1 {
		t.Errorf("CheckLevelUp multi-level = %+v, want 1 -> 5", lu)
	}
}

func TestXPForFrequency(t *testing.T) {
	tests := []struct {
		freq constants.Frequency
		want int
	}{
		{constants.FrequencyDaily, 10},
		{constants.FrequencyWeekly, 25},
		{constants.FrequencyMonthly, 50},
		{constants.Frequency("yearly"), 10},
	}

	for _, tt := range tests {
		if got := XPForFrequency(tt.freq); got != tt.want {
			t.Errorf("XPForFrequency(%q) = %d, want %d", tt.freq, got, tt.want)
		}
	}
}

func TestProgressionStats(t *testing.T) {
	stats := ProgressionStats(150)
	if stats.Level != 2 {
		t.Fatalf("Level = %d, want 2", stats.Level)
	}
	if stats.CurrentLevelXP != 50 {
		t.Errorf("CurrentLevelXP = %d, want 50", stats.CurrentLevelXP)
	}
	if stats.XPForNextLevel != 114 {
		t.Errorf("XPForNextLevel = %d, want 114", stats.XPForNextLevel)
	}
	if stats.XPRemaining != 64 {
		t.Errorf("XPRemaining = %d, want 64", stats.XPRemaining)
	}
	if stats.ProgressPercentage != 43 {
		t.Errorf("ProgressPercentage = %d, want 43", stats.ProgressPercentage)
	}

	maxed := ProgressionStats(TotalXPForLevel(constants.MaxLevel) + 500)
	if !maxed.IsMaxLevel || maxed.ProgressPercentage != 100 || maxed.XPRemaining != 0 {
		t.Errorf("unexpected max level stats: %+v", maxed)
	}
}
