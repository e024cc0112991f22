package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/BradSavary/Habit-Tracker/internal/models"
)

const userColumns = `id, name, email, password_hash, xp, level, created_at`

func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, xp, level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, strings.ToLower(user.Email), user.PasswordHash, user.XP, user.Level, formatTime(user.CreatedAt))
	return mapError(err)
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(email))
	return scanUser(row)
}

func (s *Store) CompareAndSetUserXP(ctx context.Context, userID string, oldXP, newXP, newLevel int) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET xp = ?, level = ? WHERE id = ? AND xp = ?`,
		newXP, newLevel, userID, oldXP)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var createdAt string

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.XP, &u.Level, &createdAt); err != nil {
		return models.User{}, mapError(err)
	}

	var err error
	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to parse created_at for user %s: %w", u.ID, err)
	}
	return u, nil
}
