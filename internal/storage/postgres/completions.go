package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/storage"
)

func (s *Store) FindCompletion(ctx context.Context, habitID string, day time.Time) (models.Completion, error) {
	return s.scanCompletion(s.db.QueryRowContext(ctx, `
		SELECT id, habit_id, day, created_at FROM habit_completions
		WHERE habit_id = $1 AND day = $2`, habitID, storage.DayString(day)))
}

func (s *Store) CreateCompletion(ctx context.Context, c models.Completion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_completions (id, habit_id, day, created_at)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.HabitID, storage.DayString(c.Day), c.CreatedAt)
	return mapError(err)
}

func (s *Store) DeleteCompletion(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM habit_completions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *Store) ListCompletions(ctx context.Context, habitID string, from, to time.Time) ([]models.Completion, error) {
	lo, hi := dayBounds(from, to)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, habit_id, day, created_at FROM habit_completions
		WHERE habit_id = $1 AND day BETWEEN $2 AND $3
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
		WHERE h.user_id = $1 AND c.day BETWEEN $2 AND $3
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
	if err := row.Scan(&c.ID, &c.HabitID, &c.Day, &c.CreatedAt); err != nil {
		return models.Completion{}, mapError(err)
	}
	c.Day = s.dayIn(c.Day)
	return c, nil
}

func (s *Store) CreateXPGrant(ctx context.Context, g models.XPGrant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_xp_grants (id, habit_id, user_id, day, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		g.ID, g.HabitID, g.UserID, storage.DayString(g.Day), g.Amount, g.CreatedAt)
	return mapError(err)
}

func (s *Store) FindXPGrant(ctx context.Context, habitID, userID string, day time.Time) (models.XPGrant, error) {
	var g models.XPGrant
	err := s.db.QueryRowContext(ctx, `
		SELECT id, habit_id, user_id, day, amount, created_at FROM habit_xp_grants
		WHERE habit_id = $1 AND user_id = $2 AND day = $3`, habitID, userID, storage.DayString(day)).
		Scan(&g.ID, &g.HabitID, &g.UserID, &g.Day, &g.Amount, &g.CreatedAt)
	if err != nil {
		return models.XPGrant{}, mapError(err)
	}
	g.Day = s.dayIn(g.Day)
	return g, nil
}
