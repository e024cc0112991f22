package postgres

import (
	"context"
	"strings"

	"github.com/BradSavary/Habit-Tracker/internal/models"
)

const userColumns = `id, name, email, password_hash, xp, level, created_at`

func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, xp, level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Name, strings.ToLower(user.Email), user.PasswordHash, user.XP, user.Level, user.CreatedAt)
	return mapError(err)
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
}

func (s *Store) CompareAndSetUserXP(ctx context.Context, userID string, oldXP, newXP, newLevel int) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET xp = $1, level = $2 WHERE id = $3 AND xp = $4`,
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
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.XP, &u.Level, &u.CreatedAt); err != nil {
		return models.User{}, mapError(err)
	}
	return u, nil
}
