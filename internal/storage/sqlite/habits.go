package sqlite

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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.UserID, h.Name, h.Emoji, h.Category, h.Color, h.Description,
		string(cols.Frequency), models.EncodeDays(cols.WeekDays), cols.WeeklyGoal,
		models.EncodeDays(cols.MonthDays), cols.MonthlyGoal, endDate(h),
		formatTime(h.CreatedAt), formatTime(h.UpdatedAt))
	return mapError(err)
}

func (s *Store) FindHabit(ctx context.Context, id, userID string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+habitColumns+` FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	return s.scanHabit(row)
}

func (s *Store) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+habitColumns+` FROM habits WHERE user_id = ? ORDER BY created_at, id`, userID)
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
			name = ?, emoji = ?, category = ?, color = ?, description = ?,
			week_days = ?, weekly_goal = ?, month_days = ?, monthly_goal = ?,
			end_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		h.Name, h.Emoji, h.Category, h.Color, h.Description,
		models.EncodeDays(cols.WeekDays), cols.WeeklyGoal, models.EncodeDays(cols.MonthDays), cols.MonthlyGoal,
		endDate(h), formatTime(h.UpdatedAt), h.ID, h.UserID)
	if err != nil {
		return mapError(err)
	}
	return expectOne(result)
}

func (s *Store) DeleteHabit(ctx context.Context, id, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM habit_completions WHERE habit_id IN (SELECT id FROM habits WHERE id = ? AND user_id = ?)`,
		id, userID); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if err := expectOne(result); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var frequency, weekDays, monthDays, createdAt, updatedAt string
	var weeklyGoal, monthlyGoal int
	var end sql.NullString

	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Emoji, &h.Category, &h.Color, &h.Description,
		&frequency, &weekDays, &weeklyGoal, &monthDays, &monthlyGoal, &end, &createdAt, &updatedAt)
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
		t, err := storage.ParseDay(end.String, s.loc)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse end_date for habit %s: %w", h.ID, err)
		}
		h.EndDate = &t
	}
	if h.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	if h.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse updated_at for habit %s: %w", h.ID, err)
	}
	return h, nil
}

func endDate(h models.Habit) sql.NullString {
	if h.EndDate == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: storage.DayString(*h.EndDate), Valid: true}
}

func expectOne(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}
