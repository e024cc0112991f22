package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a habit, mood entry or user does not exist or
	// belongs to someone else.
	ErrNotFound = errors.New("not found")
	// ErrInvalidDate is returned when a completion is toggled for a day other than today.
	ErrInvalidDate = errors.New("completions can only be toggled for today")
	// ErrNotDueToday is returned when the habit's schedule excludes the day.
	ErrNotDueToday = errors.New("habit is not due today")
	// ErrFrequencyChange is returned when an update tries to change a habit's frequency.
	ErrFrequencyChange = errors.New("a habit's frequency cannot be changed")
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrPersistence matches every *PersistenceError.
	ErrPersistence = errors.New("persistence failure")
	// ErrXPContention is wrapped in a PersistenceError when the XP update keeps
	// losing to concurrent writers.
	ErrXPContention = errors.New("user XP changed concurrently")
)

// PersistenceError wraps a repository failure. errors.Is matches both
// ErrPersistence and the underlying error.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
