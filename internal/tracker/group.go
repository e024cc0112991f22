package tracker

import (
	"sort"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/models"
)

// Groups is the dashboard partition of a user's habits for one day.
type Groups struct {
	DueToday       []models.HabitHistory `json:"due_today"`
	NotDueToday    []models.HabitHistory `json:"not_due_today"`
	FullyCompleted []models.HabitHistory `json:"fully_completed"`
}

// IsFullyCompleted reports whether a weekly or monthly habit has already met its
// period goal before asOf. A habit completed on asOf itself stays actionable.
func IsFullyCompleted(hh models.HabitHistory, asOf time.Time) bool {
	if hh.Habit.Frequency() == constants.FrequencyDaily {
		return false
	}
	p := PeriodProgress(hh.Habit, hh.Completions, asOf)
	if p.Goal <= 0 || p.Current < p.Goal {
		return false
	}
	last, ok := LastCompletion(hh.Completions)
	return ok && dayKey(last) < dayKey(asOf)
}

// Group partitions habits into fully completed, due today and not due today.
// Input order is preserved inside each bucket, except that DueToday lists habits
// not yet completed on asOf first.
func Group(habits []models.HabitHistory, asOf time.Time) Groups {
	g := Groups{
		DueToday:       []models.HabitHistory{},
		NotDueToday:    []models.HabitHistory{},
		FullyCompleted: []models.HabitHistory{},
	}

	for _, hh := range habits {
		switch {
		case IsFullyCompleted(hh, asOf):
			g.FullyCompleted = append(g.FullyCompleted, hh)
		case IsDueOn(hh.Habit, hh.Completions, asOf):
			g.DueToday = append(g.DueToday, hh)
		default:
			g.NotDueToday = append(g.NotDueToday, hh)
		}
	}

	sort.SliceStable(g.DueToday, func(i, j int) bool {
		return !IsCompletedOn(g.DueToday[i].Completions, asOf) && IsCompletedOn(g.DueToday[j].Completions, asOf)
	})
	return g
}
