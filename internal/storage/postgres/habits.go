package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/storage"
)

const habitColumns = `id, user_id, name, emoji, category, color, description,
	frequency, week_days, weekly_goal, month_days, monthly_goal, end_date, created_at, updated_at`

func (s *Store) CreateHabit(ctx context.Context, h models.Habit) error {
	cols := models.Columns(h.Schedule)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		h.ID, h.UserID, h.Name, h.Emoji, h.Category, h.Color, h.Description,
		string(cols.Frequency), models.EncodeDays(cols.WeekDays), cols.WeeklyGoal,
		models.EncodeDays(cols.MonthDays), cols.MonthlyGoal, endDate(h), h.CreatedAt, h.UpdatedAt)
	return mapError(err)
}

func (s *Store) FindHabit(ctx context.Context, id, userID string) (models.Habit, error) {
	return s.scanHabit(s.db.QueryRowContext(ctx, `
		SELECT `+habitColumns+` FROM habits WHERE id = $1 AND user_id = $2`, id, userID))
}

func (s *Store) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+habitColumns+` FROM habits WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := s.scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(ctx context.Context, h models.Habit) error {
	cols := models.Columns(h.Schedule)
	result, err := s.db.ExecContext(ctx, `
		UPDATE habits SET
			name = $1, emoji = $2, category = $3, color = $4, description = $5,
			week_days = $6, weekly_goal = $7, month_days = $8, monthly_goal = $9,
			end_date = $10, updated_at = $11
		WHERE id = $12 AND user_id = $13`,
		h.Name, h.Emoji, h.Category, h.Color, h.Description,
		models.EncodeDays(cols.WeekDays), cols.WeeklyGoal, models.EncodeDays(cols.MonthDays), cols.MonthlyGoal,
		endDate(h), h.UpdatedAt, h.ID, h.UserID)
	if err != nil {
		return mapError(err)
	}
	return expectOne(result)
}

// DeleteHabit relies on ON DELETE CASCADE for completions.
func (s *Store) DeleteHabit(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *Store) scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var frequency, weekDays, monthDays string
	var weeklyGoal, monthlyGoal int
	var end sql.NullTime

	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Emoji, &h.Category, &h.Color, &h.Description,
		&frequency, &weekDays, &weeklyGoal, &monthDays, &monthlyGoal, &end, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return models.Habit{}, mapError(err)
	}

	cols := models.ScheduleColumns{
		Frequency:   constants.Frequency(frequency),
		WeeklyGoal:  weeklyGoal,
		MonthlyGoal: monthlyGoal,
	}
	if cols.WeekDays, err = models.DecodeDays(weekDays); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	if cols.MonthDays, err = models.DecodeDays(monthDays); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	if h.Schedule, err = models.ScheduleFromColumns(cols); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}

	if end.Valid {
		t := s.dayIn(end.Time)
		h.EndDate = &t
	}
	return h, nil
}

func endDate(h models.Habit) any {
	if h.EndDate == nil {
		return nil
	}
	return storage.DayString(*h.EndDate)
}
