package postgres

import (
	"context"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/storage"
)

const moodColumns = `id, user_id, day, emoji, notes, created_at, updated_at`

// UpsertMood uses xmax = 0 to tell an insert from an update in a single statement.
func (s *Store) UpsertMood(ctx context.Context, m models.MoodEntry) (models.MoodEntry, bool, error) {
	var inserted bool
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO mood_entries (`+moodColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, day) DO UPDATE SET
			emoji = EXCLUDED.emoji,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (xmax = 0)`,
		m.ID, m.UserID, storage.DayString(m.Day), m.Emoji, m.Notes, m.CreatedAt, m.UpdatedAt).
		Scan(&m.ID, &m.CreatedAt, &inserted)
	if err != nil {
		return models.MoodEntry{}, false, mapError(err)
	}
	return m, inserted, nil
}

func (s *Store) FindMoodByDay(ctx context.Context, userID string, day time.Time) (models.MoodEntry, error) {
	return s.scanMood(s.db.QueryRowContext(ctx, `
		SELECT `+moodColumns+` FROM mood_entries WHERE user_id = $1 AND day = $2`,
		userID, storage.DayString(day)))
}

func (s *Store) ListMoods(ctx context.Context, userID string, from, to time.Time) ([]models.MoodEntry, error) {
	lo, hi := dayBounds(from, to)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+moodColumns+` FROM mood_entries
		WHERE user_id = $1 AND day BETWEEN $2 AND $3
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
	result, err := s.db.ExecContext(ctx, `DELETE FROM mood_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *Store) scanMood(row scanner) (models.MoodEntry, error) {
	var m models.MoodEntry
	if err := row.Scan(&m.ID, &m.UserID, &m.Day, &m.Emoji, &m.Notes, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return models.MoodEntry{}, mapError(err)
	}
	m.Day = s.dayIn(m.Day)
	return m, nil
}
