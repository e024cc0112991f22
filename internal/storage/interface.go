package storage

import (
	"context"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/migration"
	"github.com/BradSavary/Habit-Tracker/internal/models"
)

type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error
	// Migrate applies pending schema migrations and returns how many ran.
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	MigrationStatus(ctx context.Context) (migration.Status, error)

	UserRepository
	HabitRepository
	CompletionRepository
	LedgerRepository
	MoodRepository

	// Utils
	GetConfigPath() string
}

type UserRepository interface {
	// CreateUser returns ErrDuplicate when the email is already registered.
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	// CompareAndSetUserXP stores newXP and newLevel only if the user's XP is still
	// oldXP. It reports whether the row was updated.
	CompareAndSetUserXP(ctx context.Context, userID string, oldXP, newXP, newLevel int) (bool, error)
}

type HabitRepository interface {
	CreateHabit(ctx context.Context, habit models.Habit) error
	// FindHabit returns ErrNotFound when the habit does not exist or belongs to
	// another user.
	FindHabit(ctx context.Context, id, userID string) (models.Habit, error)
	ListHabits(ctx context.Context, userID string) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, habit models.Habit) error
	// DeleteHabit removes the habit and its completions. XP grants are kept.
	DeleteHabit(ctx context.Context, id, userID string) error
}

type CompletionRepository interface {
	FindCompletion(ctx context.Context, habitID string, day time.Time) (models.Completion, error)
	// CreateCompletion returns ErrDuplicate when the habit is already completed on that day.
	CreateCompletion(ctx context.Context, c models.Completion) error
	DeleteCompletion(ctx context.Context, id string) error
	// ListCompletions returns the habit's completions between from and to
	// inclusive, oldest first. A zero from or to leaves that side open.
	ListCompletions(ctx context.Context, habitID string, from, to time.Time) ([]models.Completion, error)
	// ListUserCompletions is ListCompletions across all of a user's habits.
	ListUserCompletions(ctx context.Context, userID string, from, to time.Time) ([]models.Completion, error)
}

type LedgerRepository interface {
	// CreateXPGrant returns ErrDuplicate when XP was already granted for the
	// same habit, user and day.
	CreateXPGrant(ctx context.Context, grant models.XPGrant) error
	FindXPGrant(ctx context.Context, habitID, userID string, day time.Time) (models.XPGrant, error)
}

type MoodRepository interface {
	// UpsertMood stores the entry for its user and day, replacing any existing
	// one. It reports whether a new row was created and returns the stored entry.
	UpsertMood(ctx context.Context, entry models.MoodEntry) (models.MoodEntry, bool, error)
	FindMoodByDay(ctx context.Context, userID string, day time.Time) (models.MoodEntry, error)
	ListMoods(ctx context.Context, userID string, from, to time.Time) ([]models.MoodEntry, error)
	DeleteMood(ctx context.Context, id, userID string) error
}
