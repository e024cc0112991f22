package models

import (
	"encoding/json"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
)

// Habit represents a recurring practice owned by one user
type Habit struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Emoji       string     `json:"emoji,omitempty"`
	Category    string     `json:"category,omitempty"`
	Color       string     `json:"color,omitempty"`
	Description string     `json:"description,omitempty"`
	Schedule    Schedule   `json:"-"`
	EndDate     *time.Time `json:"end_date,omitempty"` // midnight of the last due day
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Frequency returns the habit's frequency, defaulting to daily when no schedule is set.
func (h Habit) Frequency() constants.Frequency {
	if h.Schedule == nil {
		return constants.FrequencyDaily
	}
	return h.Schedule.Frequency()
}

// MarshalJSON flattens the schedule into the habit object.
func (h Habit) MarshalJSON() ([]byte, error) {
	type habit Habit
	cols := Columns(h.Schedule)
	return json.Marshal(struct {
		habit
		Frequency   constants.Frequency `json:"frequency"`
		WeekDays    []int               `json:"week_days,omitempty"`
		WeeklyGoal  int                 `json:"weekly_goal,omitempty"`
		MonthDays   []int               `json:"month_days,omitempty"`
		MonthlyGoal int                 `json:"monthly_goal,omitempty"`
	}{
		habit:       habit(h),
		Frequency:   cols.Frequency,
		WeekDays:    cols.WeekDays,
		WeeklyGoal:  cols.WeeklyGoal,
		MonthDays:   cols.MonthDays,
		MonthlyGoal: cols.MonthlyGoal,
	})
}

// Completion records that a habit was performed on one calendar day
type Completion struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Day       time.Time `json:"day"` // normalized to midnight
	CreatedAt time.Time `json:"created_at"`
}

// XPGrant is a ledger row recording that XP was awarded for (habit, user, day).
// Grants are never deleted.
type XPGrant struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	UserID    string    `json:"user_id"`
	Day       time.Time `json:"day"`
	Amount    int       `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// HabitHistory pairs a habit with its stored completions
type HabitHistory struct {
	Habit       Habit
	Completions []Completion
}
