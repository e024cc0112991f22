package storage

import (
	"errors"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
)

var (
	// ErrNotFound is returned when a row does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("already exists")
)

// DayString formats a day for storage.
func DayString(day time.Time) string {
	return day.Format(constants.DateFormat)
}

// ParseDay parses a stored day as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}
