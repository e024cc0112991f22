package validation

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/progression"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
)

// ProblemType identifies a kind of invalid input
type ProblemType string

const (
	ProblemRequired     ProblemType = "required"
	ProblemTooLong      ProblemType = "too_long"
	ProblemTooShort     ProblemType = "too_short"
	ProblemInvalidValue ProblemType = "invalid_value"
	ProblemOutOfRange   ProblemType = "out_of_range"
	ProblemLocked       ProblemType = "locked"
)

// Problem is a single invalid field
type Problem struct {
	Type    ProblemType `json:"type"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
}

// Result contains all detected problems
type Result struct {
	Problems []Problem
}

// HasProblems returns true if there are any problems
func (r Result) HasProblems() bool {
	return len(r.Problems) > 0
}

// FormatReport returns a human-readable report of all problems
func (r Result) FormatReport() string {
	if !r.HasProblems() {
		return "No problems detected."
	}

	var b strings.Builder
	b.WriteString("Invalid input:\n")
	for _, p := range r.Problems {
		fmt.Fprintf(&b, "- %s: %s\n", p.Field, p.Message)
	}
	return b.String()
}

// Err returns the problems as an *Error, or nil when the input is valid.
func (r Result) Err() error {
	if !r.HasProblems() {
		return nil
	}
	return &Error{Problems: r.Problems}
}

func (r *Result) add(t ProblemType, field, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{Type: t, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Error is returned by services when input validation fails.
type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("invalid %s: %s", e.Problems[0].Field, e.Problems[0].Message)
	}
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Field+": "+p.Message)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// HabitInput is the user-supplied part of a habit, as received from the API or CLI.
type HabitInput struct {
	Name        string              `json:"name"`
	Emoji       string              `json:"emoji"`
	Category    string              `json:"category"`
	Color       string              `json:"color"`
	Description string              `json:"description"`
	Frequency   constants.Frequency `json:"frequency"`
	WeekDays    []int               `json:"week_days"`
	WeeklyGoal  int                 `json:"weekly_goal"`
	MonthDays   []int               `json:"month_days"`
	MonthlyGoal int                 `json:"monthly_goal"`
	EndDate     string              `json:"end_date"`
}

// Normalize trims text fields and fills defaults.
func (in HabitInput) Normalize() HabitInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Emoji = norm.NFC.String(strings.TrimSpace(in.Emoji))
	in.EndDate = strings.TrimSpace(in.EndDate)
	if in.Emoji == "" {
		in.Emoji = constants.DefaultHabitEmoji
	}
	if in.Color == "" {
		in.Color = constants.DefaultHabitColor
	}
	if in.Category == "" {
		in.Category = "Autre"
	}
	if in.Frequency == "" {
		in.Frequency = constants.FrequencyDaily
	}
	return in
}

// Schedule converts the scheduling fields into a Schedule.
func (in HabitInput) Schedule() (models.Schedule, error) {
	return models.ScheduleFromColumns(models.ScheduleColumns{
		Frequency:   in.Frequency,
		WeekDays:    in.WeekDays,
		WeeklyGoal:  in.WeeklyGoal,
		MonthDays:   in.MonthDays,
		MonthlyGoal: in.MonthlyGoal,
	})
}

// ValidateHabit checks a normalized habit input. level is the owner's level and
// decides which emoji can be used.
func ValidateHabit(in HabitInput, level int, loc *time.Location) Result {
	var r Result

	switch n := utf8.RuneCountInString(in.Name); {
	case n == 0:
		r.add(ProblemRequired, "name", "name is required")
	case n > constants.MaxHabitNameLen:
		r.add(ProblemTooLong, "name", "name must be at most %d characters", constants.MaxHabitNameLen)
	}

	if utf8.RuneCountInString(in.Description) > constants.MaxDescriptionLen {
		r.add(ProblemTooLong, "description", "description must be at most %d characters", constants.MaxDescriptionLen)
	}

	if !slices.Contains(constants.Categories, in.Category) {
		r.add(ProblemInvalidValue, "category", "unknown category %q", in.Category)
	}
	if !slices.Contains(constants.Colors, in.Color) {
		r.add(ProblemInvalidValue, "color", "unknown color %q", in.Color)
	}

	if in.Emoji != constants.DefaultHabitEmoji && !progression.IsRewardUnlocked(in.Emoji, level) {
		r.add(ProblemLocked, "emoji", "emoji %s is not unlocked at level %d", in.Emoji, level)
	}

	validateSchedule(&r, in)

	if in.EndDate != "" {
		if _, err := utils.ParseDayInLocation(in.EndDate, loc); err != nil {
			r.add(ProblemInvalidValue, "end_date", "end date must be YYYY-MM-DD")
		}
	}

	return r
}

func validateSchedule(r *Result, in HabitInput) {
	switch in.Frequency {
	case constants.FrequencyDaily:
	case constants.FrequencyWeekly:
		for _, d := range in.WeekDays {
			if d < 0 || d > 6 {
				r.add(ProblemOutOfRange, "week_days", "weekday %d must be between 0 (Sunday) and 6 (Saturday)", d)
			}
		}
		if in.WeeklyGoal < 0 || in.WeeklyGoal > constants.MaxWeeklyGoal {
			r.add(ProblemOutOfRange, "weekly_goal", "weekly goal must be between 1 and %d", constants.MaxWeeklyGoal)
		}
	case constants.FrequencyMonthly:
		for _, d := range in.MonthDays {
			if d < 1 || d > 31 {
				r.add(ProblemOutOfRange, "month_days", "day of month %d must be between 1 and 31", d)
			}
		}
		if in.MonthlyGoal < 0 || in.MonthlyGoal > constants.MaxMonthlyGoal {
			r.add(ProblemOutOfRange, "monthly_goal", "monthly goal must be between 1 and %d", constants.MaxMonthlyGoal)
		}
	default:
		r.add(ProblemInvalidValue, "frequency", "frequency must be daily, weekly or monthly")
	}
}

// MoodInput is a mood journal entry for one day.
type MoodInput struct {
	Day   string `json:"day"`
	Emoji string `json:"emoji"`
	Notes string `json:"notes"`
}

// ValidateMood checks a mood entry.
func ValidateMood(in MoodInput, loc *time.Location) Result {
	var r Result
	if strings.TrimSpace(in.Emoji) == "" {
		r.add(ProblemRequired, "emoji", "emoji is required")
	}
	if utf8.RuneCountInString(in.Notes) > constants.MaxMoodNotesLen {
		r.add(ProblemTooLong, "notes", "notes must be at most %d characters", constants.MaxMoodNotesLen)
	}
	if in.Day != "" {
		if _, err := utils.ParseDayInLocation(in.Day, loc); err != nil {
			r.add(ProblemInvalidValue, "day", "day must be YYYY-MM-DD")
		}
	}
	return r
}

// RegistrationInput is a new account request.
type RegistrationInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateRegistration checks a registration request.
func ValidateRegistration(in RegistrationInput) Result {
	var r Result

	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < constants.MinUserNameLen {
		r.add(ProblemTooShort, "name", "name must be at least %d characters", constants.MinUserNameLen)
	}

	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != strings.TrimSpace(in.Email) {
		r.add(ProblemInvalidValue, "email", "email address is invalid")
	}

	if utf8.RuneCountInString(in.Password) < constants.MinPasswordLen {
		r.add(ProblemTooShort, "password", "password must be at least %d characters", constants.MinPasswordLen)
	}
	var hasLetter, hasDigit bool
	for _, c := range in.Password {
		hasLetter = hasLetter || unicode.IsLetter(c)
		hasDigit = hasDigit || unicode.IsDigit(c)
	}
	if !hasLetter || !hasDigit {
		r.add(ProblemInvalidValue, "password", "password must contain a letter and a digit")
	}

	return r
}
