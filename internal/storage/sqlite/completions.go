package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/storage"
)

func (s *Store) FindCompletion(ctx context.Context, habitID string, day time.Time) (models.Completion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, habit_id, day, created_at FROM habit_completions
		WHERE habit_id = ? AND day = ?`, habitID, storage.DayString(day))
	return s.scanCompletion(row)
}

func (s *Store) CreateCompletion(ctx context.Context, c models.Completion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_completions (id, habit_id, day, created_at)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.HabitID, storage.DayString(c.Day), formatTime(c.CreatedAt))
	return mapError(err)
}

func (s *Store) DeleteCompletion(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM habit_completions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *Store) ListCompletions(ctx context.Context, habitID string, from, to time.Time) ([]models.Completion, error) {
	lo, hi := dayBounds(from, to)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, habit_id, day, created_at FROM habit_completions
		WHERE habit_id = ? AND day >= ? AND day <= ?
		ORDER BY day`, habitID, lo, hi)
	if err != nil {
		return nil, err
	}
	return s.collectCompletions(rows)
}

func (s *Store) ListUserCompletions(ctx context.Context, userID string, from, to time.Time) ([]models.Completion, error) {
	lo, hi := dayBounds(from, to)
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.habit_id, c.day, c.created_at
		FROM habit_completions c JOIN habits h ON h.id = c.habit_id
		WHERE h.user_id = ? AND c.day >= ? AND c.day <= ?
		ORDER BY c.day, c.habit_id`, userID, lo, hi)
	if err != nil {
		return nil, err
	}
	return s.collectCompletions(rows)
}

func (s *Store) collectCompletions(rows *sql.Rows) ([]models.Completion, error) {
	defer rows.Close()

	completions := []models.Completion{}
	for rows.Next() {
		c, err := s.scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (s *Store) scanCompletion(row scanner) (models.Completion, error) {
	var c models.Completion
	var day, createdAt string

	if err := row.Scan(&c.ID, &c.HabitID, &day, &createdAt); err != nil {
		return models.Completion{}, mapError(err)
	}

	var err error
	if c.Day, err = storage.ParseDay(day, s.loc); err != nil {
		return models.Completion{}, fmt.Errorf("failed to parse day for completion %s: %w", c.ID, err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Completion{}, fmt.Errorf("failed to parse created_at for completion %s: %w", c.ID, err)
	}
	return c, nil
}

func (s *Store) CreateXPGrant(ctx context.Context, g models.XPGrant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_xp_grants (id, habit_id, user_id, day, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.HabitID, g.UserID, storage.DayString(g.Day), g.Amount, formatTime(g.CreatedAt))
	return mapError(err)
}

func (s *Store) FindXPGrant(ctx context.Context, habitID, userID string, day time.Time) (models.XPGrant, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, habit_id, user_id, day, amount, created_at FROM habit_xp_grants
		WHERE habit_id = ? AND user_id = ? AND day = ?`, habitID, userID, storage.DayString(day))

	var g models.XPGrant
	var d, createdAt string
	if err := row.Scan(&g.ID, &g.HabitID, &g.UserID, &d, &g.Amount, &createdAt); err != nil {
		return models.XPGrant{}, mapError(err)
	}

	var err error
	if g.Day, err = storage.ParseDay(d, s.loc); err != nil {
		return models.XPGrant{}, fmt.Errorf("failed to parse day for grant %s: %w", g.ID, err)
	}
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.XPGrant{}, fmt.Errorf("failed to parse created_at for grant %s: %w", g.ID, err)
	}
	return g, nil
}
