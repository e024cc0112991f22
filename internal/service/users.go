package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/progression"
	"github.com/BradSavary/Habit-Tracker/internal/storage"
	"github.com/BradSavary/Habit-Tracker/internal/validation"
)

// Profile is a user's account with its progression.
type Profile struct {
	User        models.User                     `json:"user"`
	Progression progression.Stats               `json:"progression"`
	Unlocked    progression.UnlockCount         `json:"unlocked"`
	Rewards     map[string][]progression.Reward `json:"rewards"`
	NextRewards []progression.Reward            `json:"next_rewards"`
}

// Register creates an account. The password is stored as a bcrypt hash.
func (s *Service) Register(ctx context.Context, in validation.RegistrationInput) (u models.User, err error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer func() { endSpan(span, err) }()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateRegistration(in).Err(); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), constants.BcryptCost)
	if err != nil {
		return models.User{}, err
	}

	u = models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		XP:           0,
		Level:        1,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, persistErr("create user", err)
	}
	return u, nil
}

// Authenticate returns the user owning email when password matches.
func (s *Service) Authenticate(ctx context.Context, email, password string) (u models.User, err error) {
	ctx, span := s.startSpan(ctx, "Authenticate")
	defer func() { endSpan(span, err) }()

	u, err = s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, persistErr("get user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// UserByEmail looks up an account without checking credentials. It is used by
// the local CLI, which acts on behalf of a configured user.
func (s *Service) UserByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, persistErr("get user", err)
	}
	return u, nil
}

// Profile returns the user with level, XP and reward details.
func (s *Service) Profile(ctx context.Context, userID string) (p Profile, err error) {
	ctx, span := s.startSpan(ctx, "Profile", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	u, err := s.getUser(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	stats := progression.ProgressionStats(u.XP)
	return Profile{
		User:        u,
		Progression: stats,
		Unlocked:    progression.CountUnlocked(stats.Level),
		Rewards:     progression.RewardsByCategory(stats.Level),
		NextRewards: progression.NextRewards(stats.Level, 3),
	}, nil
}

func (s *Service) getUser(ctx context.Context, userID string) (models.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, persistErr("get user", err)
	}
	return u, nil
}
