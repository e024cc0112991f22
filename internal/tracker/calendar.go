// Package tracker holds the pure calculations over a habit's completion history:
// which days it is due, streaks, period progress, dashboard grouping and statistics.
package tracker

import (
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
)

// dayKey identifies a calendar day independently of the time of day.
func dayKey(t time.Time) string {
	return utils.FormatDay(t)
}

// IsPastEnd reports whether date falls strictly after the habit's end date.
func IsPastEnd(h models.Habit, date time.Time) bool {
	if h.EndDate == nil {
		return false
	}
	return dayKey(date) > dayKey(*h.EndDate)
}

// IsDueOn decides whether the habit should be actionable on date.
func IsDueOn(h models.Habit, completions []models.Completion, date time.Time) bool {
	day := utils.NormalizeDay(date)
	if IsPastEnd(h, day) {
		return false
	}

	switch s := h.Schedule.(type) {
	case models.WeeklyOnDays:
		return s.HasWeekday(day.Weekday())
	case models.WeeklyCount:
		if s.Goal <= 0 {
			return true
		}
		p := GetWeeklyProgress(h, completions, day)
		if p.Current < p.Goal {
			return true
		}
		// Goal met: keep showing it on the day it was reached so it can be toggled back.
		last, ok := lastCompletionInWeek(completions, day)
		return ok && dayKey(last) >= dayKey(day)
	case models.MonthlyOnDays:
		return s.HasDay(day.Day())
	default:
		// Daily and MonthlyCount habits are always due.
		return true
	}
}

// IsCompletedOn reports whether a completion exists for date.
func IsCompletedOn(completions []models.Completion, date time.Time) bool {
	key := dayKey(date)
	for _, c := range completions {
		if dayKey(c.Day) == key {
			return true
		}
	}
	return false
}

// LastCompletion returns the most recent completion day.
func LastCompletion(completions []models.Completion) (time.Time, bool) {
	var last time.Time
	found := false
	for _, c := range completions {
		if !found || c.Day.After(last) {
			last = c.Day
			found = true
		}
	}
	return last, found
}

func lastCompletionInWeek(completions []models.Completion, date time.Time) (time.Time, bool) {
	week := dayKey(utils.WeekStart(date))
	var inWeek []models.Completion
	for _, c := range completions {
		if dayKey(utils.WeekStart(c.Day)) == week {
			inWeek = append(inWeek, c)
		}
	}
	return LastCompletion(inWeek)
}
