package tracker

import (
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
)

// CalculateStreak counts consecutive periods with at least one completion, walking
// backward from the period containing asOf: days for daily habits, Monday-started
// weeks for weekly habits and calendar months for monthly habits. The walk stops at
// the first empty period, so a daily habit not completed on asOf has a streak of 0.
func CalculateStreak(h models.Habit, completions []models.Completion, asOf time.Time) int {
	if len(completions) == 0 {
		return 0
	}

	switch h.Frequency() {
	case constants.FrequencyWeekly:
		return countBackward(completions, utils.WeekStart(asOf), utils.WeekStart,
			func(t time.Time) time.Time { return t.AddDate(0, 0, -7) })
	case constants.FrequencyMonthly:
		return countBackward(completions, utils.MonthStart(asOf), utils.MonthStart,
			func(t time.Time) time.Time { return t.AddDate(0, -1, 0) })
	default:
		return countBackward(completions, utils.NormalizeDay(asOf), utils.NormalizeDay,
			func(t time.Time) time.Time { return t.AddDate(0, 0, -1) })
	}
}

// countBackward groups completions by period (bucket maps a day to its period start)
// and counts consecutive filled periods starting at start.
func countBackward(completions []models.Completion, start time.Time, bucket func(time.Time) time.Time, prev func(time.Time) time.Time) int {
	filled := make(map[string]bool, len(completions))
	for _, c := range completions {
		filled[dayKey(bucket(c.Day))] = true
	}

	streak := 0
	for cursor := start; filled[dayKey(cursor)]; cursor = prev(cursor) {
		streak++
	}
	return streak
}
