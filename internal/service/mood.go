package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/unicode/norm"

	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/storage"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
	"github.com/BradSavary/Habit-Tracker/internal/validation"
)

// SetMood records the user's mood for a day, today when in.Day is empty,
// replacing any earlier entry for that day. It reports whether the entry is new.
func (s *Service) SetMood(ctx context.Context, userID string, in validation.MoodInput) (m models.MoodEntry, isNew bool, err error) {
	ctx, span := s.startSpan(ctx, "SetMood", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	in.Day = strings.TrimSpace(in.Day)
	in.Emoji = norm.NFC.String(strings.TrimSpace(in.Emoji))
	in.Notes = strings.TrimSpace(in.Notes)
	if err := validation.ValidateMood(in, s.loc).Err(); err != nil {
		return models.MoodEntry{}, false, err
	}

	day := s.Today()
	if in.Day != "" {
		if day, err = utils.ParseDayInLocation(in.Day, s.loc); err != nil {
			return models.MoodEntry{}, false, err
		}
	}

	now := s.now()
	m, isNew, err = s.store.UpsertMood(ctx, models.MoodEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Day:       day,
		Emoji:     in.Emoji,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return models.MoodEntry{}, false, persistErr("save mood", err)
	}
	return m, isNew, nil
}

// ListMoods returns the user's entries between from and to inclusive, newest
// first. Zero bounds are open.
func (s *Service) ListMoods(ctx context.Context, userID string, from, to time.Time) (entries []models.MoodEntry, err error) {
	ctx, span := s.startSpan(ctx, "ListMoods", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	entries, err = s.store.ListMoods(ctx, userID, from, to)
	if err != nil {
		return nil, persistErr("list moods", err)
	}
	return entries, nil
}

// MoodForDay returns the entry for day, or ErrNotFound.
func (s *Service) MoodForDay(ctx context.Context, userID string, day time.Time) (models.MoodEntry, error) {
	m, err := s.store.FindMoodByDay(ctx, userID, day)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.MoodEntry{}, ErrNotFound
		}
		return models.MoodEntry{}, persistErr("find mood", err)
	}
	return m, nil
}

// DeleteMood removes one of the user's entries.
func (s *Service) DeleteMood(ctx context.Context, id, userID string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteMood", attribute.String("mood.id", id))
	defer func() { endSpan(span, err) }()

	if err := s.store.DeleteMood(ctx, id, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return persistErr("delete mood", err)
	}
	return nil
}
