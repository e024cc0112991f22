package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/logger"
	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/progression"
	"github.com/BradSavary/Habit-Tracker/internal/storage"
	"github.com/BradSavary/Habit-Tracker/internal/tracker"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
)

// LevelUpInfo is set on a ToggleResult when the granted XP crossed a level.
type LevelUpInfo struct {
	NewLevel      int                 `json:"new_level"`
	PreviousLevel int                 `json:"previous_level"`
	UnlockedEmoji string              `json:"unlocked_emoji,omitempty"`
	Reward        *progression.Reward `json:"reward,omitempty"`
}

// ToggleResult is the outcome of a successful toggle.
type ToggleResult struct {
	Completed bool         `json:"completed"`
	XPGained  int          `json:"xp_gained"`
	LevelUp   *LevelUpInfo `json:"level_up,omitempty"`
}

// Toggle flips the habit's completion for today. A zero date means today; any
// other day fails with ErrInvalidDate.
//
// Completing a habit grants XP at most once per habit and day. Toggling off
// never removes XP, so completing again later that day grants nothing.
func (s *Service) Toggle(ctx context.Context, habitID, userID string, date time.Time) (result ToggleResult, err error) {
	ctx, span := s.startSpan(ctx, "Toggle",
		attribute.String("habit.id", habitID),
		attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	h, err := s.store.FindHabit(ctx, habitID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ToggleResult{}, ErrNotFound
		}
		return ToggleResult{}, persistErr("find habit", err)
	}

	today := s.Today()
	day := today
	if !date.IsZero() {
		d := date.In(s.loc)
		day = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
	}
	if utils.FormatDay(day) != utils.FormatDay(today) {
		return ToggleResult{}, ErrInvalidDate
	}

	switch sch := h.Schedule.(type) {
	case models.WeeklyOnDays:
		if !sch.HasWeekday(day.Weekday()) {
			return ToggleResult{}, ErrNotDueToday
		}
	case models.MonthlyOnDays:
		if !sch.HasDay(day.Day()) {
			return ToggleResult{}, ErrNotDueToday
		}
	}
	if tracker.IsPastEnd(h, day) {
		return ToggleResult{}, ErrNotDueToday
	}

	existing, err := s.store.FindCompletion(ctx, h.ID, day)
	switch {
	case err == nil:
		if err := s.store.DeleteCompletion(ctx, existing.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return ToggleResult{}, persistErr("delete completion", err)
		}
		s.invalidateStats(ctx, userID)
		logger.Debug("Completion removed", "habit", h.ID, "day", utils.FormatDay(day))
		return ToggleResult{Completed: false}, nil
	case !errors.Is(err, storage.ErrNotFound):
		return ToggleResult{}, persistErr("find completion", err)
	}

	completion := models.Completion{
		ID:        uuid.NewString(),
		HabitID:   h.ID,
		Day:       day,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateCompletion(ctx, completion); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			// A concurrent toggle completed it first and owns the XP grant.
			return ToggleResult{Completed: true}, nil
		}
		return ToggleResult{}, persistErr("create completion", err)
	}
	s.invalidateStats(ctx, userID)

	granted, err := s.grantXP(ctx, h, userID, day)
	if err != nil {
		return ToggleResult{}, err
	}
	if granted == 0 {
		return ToggleResult{Completed: true}, nil
	}

	levelUp, err := s.addXP(ctx, userID, granted)
	if err != nil {
		return ToggleResult{}, err
	}

	result = ToggleResult{Completed: true, XPGained: granted}
	if levelUp.HasLeveledUp {
		info := &LevelUpInfo{NewLevel: levelUp.NewLevel, PreviousLevel: levelUp.PreviousLevel}
		if reward, ok := progression.RewardForLevel(levelUp.NewLevel); ok {
			info.UnlockedEmoji = reward.Emoji
			info.Reward = &reward
		}
		result.LevelUp = info
		logger.Info("Level up", "user", userID, "level", levelUp.NewLevel)
	}
	return result, nil
}

// grantXP writes the ledger row for (habit, user, day) and returns the XP it
// awards, or 0 when XP was already granted that day. The ledger's unique key is
// authoritative; the lookup only skips the insert in the common case.
func (s *Service) grantXP(ctx context.Context, h models.Habit, userID string, day time.Time) (int, error) {
	if _, err := s.store.FindXPGrant(ctx, h.ID, userID, day); err == nil {
		return 0, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return 0, persistErr("find xp grant", err)
	}

	amount := progression.XPForFrequency(h.Frequency())
	grant := models.XPGrant{
		ID:        uuid.NewString(),
		HabitID:   h.ID,
		UserID:    userID,
		Day:       day,
		Amount:    amount,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateXPGrant(ctx, grant); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return 0, nil
		}
		return 0, persistErr("create xp grant", err)
	}
	return amount, nil
}

// addXP adds gained to the user's XP with compare-and-set, retrying when a
// concurrent writer changed the XP in between.
func (s *Service) addXP(ctx context.Context, userID string, gained int) (progression.LevelUp, error) {
	for attempt := 0; attempt < constants.XPUpdateMaxRetries; attempt++ {
		user, err := s.store.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return progression.LevelUp{}, ErrNotFound
			}
			return progression.LevelUp{}, persistErr("get user", err)
		}

		newXP := user.XP + gained
		ok, err := s.store.CompareAndSetUserXP(ctx, userID, user.XP, newXP, progression.CalculateLevel(newXP))
		if err != nil {
			return progression.LevelUp{}, persistErr("update user xp", err)
		}
		if ok {
			return progression.CheckLevelUp(user.XP, gained), nil
		}
		logger.Debug("XP update lost a race, retrying", "user", userID, "attempt", attempt+1)
	}
	return progression.LevelUp{}, persistErr("update user xp", ErrXPContention)
}
