package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/storage"
)

const moodColumns = `id, user_id, day, emoji, notes, created_at, updated_at`

func (s *Store) UpsertMood(ctx context.Context, m models.MoodEntry) (models.MoodEntry, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.MoodEntry{}, false, err
	}
	defer tx.Rollback()

	existing, err := s.scanMood(tx.QueryRowContext(ctx, `
		SELECT `+moodColumns+` FROM mood_entries WHERE user_id = ? AND day = ?`,
		m.UserID, storage.DayString(m.Day)))
	created := errors.Is(err, storage.ErrNotFound)
	if err != nil && !created {
		return models.MoodEntry{}, false, err
	}

	if created {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO mood_entries (`+moodColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.UserID, storage.DayString(m.Day), m.Emoji, m.Notes, formatTime(m.CreatedAt), formatTime(m.UpdatedAt))
	} else {
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		_, err = tx.ExecContext(ctx, `
			UPDATE mood_entries SET emoji = ?, notes = ?, updated_at = ? WHERE id = ?`,
			m.Emoji, m.Notes, formatTime(m.UpdatedAt), m.ID)
	}
	if err != nil {
		return models.MoodEntry{}, false, mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return models.MoodEntry{}, false, err
	}
	return m, created, nil
}

func (s *Store) FindMoodByDay(ctx context.Context, userID string, day time.Time) (models.MoodEntry, error) {
	return s.scanMood(s.db.QueryRowContext(ctx, `
		SELECT `+moodColumns+` FROM mood_entries WHERE user_id = ? AND day = ?`,
		userID, storage.DayString(day)))
}

func (s *Store) ListMoods(ctx context.Context, userID string, from, to time.Time) ([]models.MoodEntry, error) {
	lo, hi := dayBounds(from, to)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+moodColumns+` FROM mood_entries
		WHERE user_id = ? AND day >= ? AND day <= ?
		ORDER BY day DESC`, userID, lo, hi)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.MoodEntry{}
	for rows.Next() {
		m, err := s.scanMood(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, m)
	}
	return entries, rows.Err()
}

func (s *Store) DeleteMood(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM mood_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *Store) scanMood(row scanner) (models.MoodEntry, error) {
	var m models.MoodEntry
	var day, createdAt, updatedAt string
	var notes sql.NullString

	if err := row.Scan(&m.ID, &m.UserID, &day, &m.Emoji, &notes, &createdAt, &updatedAt); err != nil {
		return models.MoodEntry{}, mapError(err)
	}
	m.Notes = notes.String

	var err error
	if m.Day, err = storage.ParseDay(day, s.loc); err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to parse day for mood %s: %w", m.ID, err)
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to parse created_at for mood %s: %w", m.ID, err)
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to parse updated_at for mood %s: %w", m.ID, err)
	}
	return m, nil
}
