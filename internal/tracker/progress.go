package tracker

import (
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
)

// Progress is the completion count towards a period goal.
type Progress struct {
	Current    int     `json:"current"`
	Goal       int     `json:"goal"`
	Percentage float64 `json:"percentage"`
}

func newProgress(current, goal int) Progress {
	p := Progress{Current: current, Goal: goal}
	if goal > 0 {
		p.Percentage = min(float64(current)/float64(goal)*100, 100)
	}
	return p
}

// GetProgress returns the progress of a monthly habit for the month containing asOf.
// Days configured for a MonthlyOnDays habit that do not exist in that month are not
// part of the goal. Habits of other frequencies have no monthly progress.
func GetProgress(h models.Habit, completions []models.Completion, asOf time.Time) Progress {
	month := dayKey(utils.MonthStart(asOf))
	inMonth := func(c models.Completion) bool {
		return dayKey(utils.MonthStart(c.Day)) == month
	}

	switch s := h.Schedule.(type) {
	case models.MonthlyOnDays:
		last := utils.DaysInMonth(asOf)
		goal := 0
		for _, d := range s.Days {
			if d >= 1 && d <= last {
				goal++
			}
		}
		current := distinctDays(completions, func(c models.Completion) bool {
			return inMonth(c) && s.HasDay(c.Day.Day())
		})
		return newProgress(current, goal)
	case models.MonthlyCount:
		return newProgress(distinctDays(completions, inMonth), s.Goal)
	default:
		return Progress{}
	}
}

// GetWeeklyProgress returns the progress of a weekly habit for the Monday-started
// week containing asOf.
func GetWeeklyProgress(h models.Habit, completions []models.Completion, asOf time.Time) Progress {
	week := dayKey(utils.WeekStart(asOf))
	inWeek := func(c models.Completion) bool {
		return dayKey(utils.WeekStart(c.Day)) == week
	}

	switch s := h.Schedule.(type) {
	case models.WeeklyOnDays:
		current := distinctDays(completions, func(c models.Completion) bool {
			return inWeek(c) && s.HasWeekday(c.Day.Weekday())
		})
		return newProgress(current, len(s.Days))
	case models.WeeklyCount:
		return newProgress(distinctDays(completions, inWeek), s.Goal)
	default:
		return Progress{}
	}
}

// PeriodProgress returns the weekly or monthly progress depending on the habit's
// frequency. Daily habits have no period goal.
func PeriodProgress(h models.Habit, completions []models.Completion, asOf time.Time) Progress {
	switch h.Frequency() {
	case constants.FrequencyWeekly:
		return GetWeeklyProgress(h, completions, asOf)
	case constants.FrequencyMonthly:
		return GetProgress(h, completions, asOf)
	default:
		return Progress{}
	}
}

func distinctDays(completions []models.Completion, keep func(models.Completion) bool) int {
	seen := make(map[string]struct{}, len(completions))
	for _, c := range completions {
		if keep(c) {
			seen[dayKey(c.Day)] = struct{}{}
		}
	}
	return len(seen)
}
