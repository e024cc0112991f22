package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/storage"
	"github.com/BradSavary/Habit-Tracker/internal/tracker"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
	"github.com/BradSavary/Habit-Tracker/internal/validation"
)

// HabitView is a habit with the figures computed from its history for today.
type HabitView struct {
	Habit          models.Habit        `json:"habit"`
	Streak         int                 `json:"streak"`
	Progress       tracker.Progress    `json:"progress"`
	CompletedToday bool                `json:"completed_today"`
	DueToday       bool                `json:"due_today"`
	Completions    []models.Completion `json:"completions,omitempty"`
}

// Dashboard is the grouped list of a user's habits for one day.
type Dashboard struct {
	Date           string      `json:"date"`
	DueToday       []HabitView `json:"due_today"`
	NotDueToday    []HabitView `json:"not_due_today"`
	FullyCompleted []HabitView `json:"fully_completed"`
}

func (s *Service) view(hh models.HabitHistory, today time.Time, withHistory bool) HabitView {
	v := HabitView{
		Habit:          hh.Habit,
		Streak:         tracker.CalculateStreak(hh.Habit, hh.Completions, today),
		Progress:       tracker.PeriodProgress(hh.Habit, hh.Completions, today),
		CompletedToday: tracker.IsCompletedOn(hh.Completions, today),
		DueToday:       tracker.IsDueOn(hh.Habit, hh.Completions, today),
	}
	if withHistory {
		v.Completions = hh.Completions
	}
	return v
}

// CreateHabit validates and stores a new habit for userID.
func (s *Service) CreateHabit(ctx context.Context, userID string, in validation.HabitInput) (h models.Habit, err error) {
	ctx, span := s.startSpan(ctx, "CreateHabit", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return models.Habit{}, err
	}

	in = in.Normalize()
	if err := validation.ValidateHabit(in, user.Level, s.loc).Err(); err != nil {
		return models.Habit{}, err
	}

	schedule, err := in.Schedule()
	if err != nil {
		return models.Habit{}, &validation.Error{Problems: []validation.Problem{{
			Type: validation.ProblemInvalidValue, Field: "frequency", Message: err.Error(),
		}}}
	}

	now := s.now()
	h = models.Habit{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        in.Name,
		Emoji:       in.Emoji,
		Category:    in.Category,
		Color:       in.Color,
		Description: in.Description,
		Schedule:    schedule,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if h.EndDate, err = s.parseEndDate(in.EndDate); err != nil {
		return models.Habit{}, err
	}

	if err := s.store.CreateHabit(ctx, h); err != nil {
		return models.Habit{}, persistErr("create habit", err)
	}
	s.invalidateStats(ctx, userID)
	return h, nil
}

// GetHabit returns one habit with its full completion history.
func (s *Service) GetHabit(ctx context.Context, id, userID string) (v HabitView, err error) {
	ctx, span := s.startSpan(ctx, "GetHabit", attribute.String("habit.id", id))
	defer func() { endSpan(span, err) }()

	h, err := s.findHabit(ctx, id, userID)
	if err != nil {
		return HabitView{}, err
	}
	completions, err := s.store.ListCompletions(ctx, h.ID, time.Time{}, time.Time{})
	if err != nil {
		return HabitView{}, persistErr("list completions", err)
	}
	return s.view(models.HabitHistory{Habit: h, Completions: completions}, s.Today(), true), nil
}

// Histories loads every habit of the user with its completions.
func (s *Service) Histories(ctx context.Context, userID string) ([]models.HabitHistory, error) {
	habits, err := s.store.ListHabits(ctx, userID)
	if err != nil {
		return nil, persistErr("list habits", err)
	}
	completions, err := s.store.ListUserCompletions(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, persistErr("list completions", err)
	}

	byHabit := make(map[string][]models.Completion, len(habits))
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}

	histories := make([]models.HabitHistory, 0, len(habits))
	for _, h := range habits {
		histories = append(histories, models.HabitHistory{Habit: h, Completions: byHabit[h.ID]})
	}
	return histories, nil
}

// Dashboard groups the user's habits for today.
func (s *Service) Dashboard(ctx context.Context, userID string) (d Dashboard, err error) {
	ctx, span := s.startSpan(ctx, "Dashboard", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	histories, err := s.Histories(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	today := s.Today()
	groups := tracker.Group(histories, today)
	toViews := func(hs []models.HabitHistory) []HabitView {
		views := make([]HabitView, 0, len(hs))
		for _, hh := range hs {
			views = append(views, s.view(hh, today, false))
		}
		return views
	}

	return Dashboard{
		Date:           utils.FormatDay(today),
		DueToday:       toViews(groups.DueToday),
		NotDueToday:    toViews(groups.NotDueToday),
		FullyCompleted: toViews(groups.FullyCompleted),
	}, nil
}

// UpdateHabit replaces the editable fields of a habit. The frequency is fixed at
// creation, but a weekly or monthly habit may switch between days and a goal.
func (s *Service) UpdateHabit(ctx context.Context, id, userID string, in validation.HabitInput) (h models.Habit, err error) {
	ctx, span := s.startSpan(ctx, "UpdateHabit", attribute.String("habit.id", id))
	defer func() { endSpan(span, err) }()

	h, err = s.findHabit(ctx, id, userID)
	if err != nil {
		return models.Habit{}, err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return models.Habit{}, err
	}

	if in.Frequency == "" {
		in.Frequency = h.Frequency()
	}
	in = in.Normalize()
	if in.Frequency != h.Frequency() {
		return models.Habit{}, ErrFrequencyChange
	}
	if err := validation.ValidateHabit(in, user.Level, s.loc).Err(); err != nil {
		return models.Habit{}, err
	}
	schedule, err := in.Schedule()
	if err != nil {
		return models.Habit{}, &validation.Error{Problems: []validation.Problem{{
			Type: validation.ProblemInvalidValue, Field: "frequency", Message: err.Error(),
		}}}
	}

	h.Name = in.Name
	h.Emoji = in.Emoji
	h.Category = in.Category
	h.Color = in.Color
	h.Description = in.Description
	h.Schedule = schedule
	h.UpdatedAt = s.now()
	if h.EndDate, err = s.parseEndDate(in.EndDate); err != nil {
		return models.Habit{}, err
	}

	if err := s.store.UpdateHabit(ctx, h); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Habit{}, ErrNotFound
		}
		return models.Habit{}, persistErr("update habit", err)
	}
	s.invalidateStats(ctx, userID)
	return h, nil
}

// DeleteHabit removes a habit and its completions. XP already granted is kept.
func (s *Service) DeleteHabit(ctx context.Context, id, userID string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteHabit", attribute.String("habit.id", id))
	defer func() { endSpan(span, err) }()

	if err := s.store.DeleteHabit(ctx, id, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return persistErr("delete habit", err)
	}
	s.invalidateStats(ctx, userID)
	return nil
}

func (s *Service) findHabit(ctx context.Context, id, userID string) (models.Habit, error) {
	h, err := s.store.FindHabit(ctx, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Habit{}, ErrNotFound
		}
		return models.Habit{}, persistErr("find habit", err)
	}
	return h, nil
}

func (s *Service) parseEndDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	end, err := utils.ParseDayInLocation(value, s.loc)
	if err != nil {
		return nil, &validation.Error{Problems: []validation.Problem{{
			Type: validation.ProblemInvalidValue, Field: "end_date", Message: err.Error(),
		}}}
	}
	return &end, nil
}
