package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BradSavary/Habit-Tracker/internal/cache"
	"github.com/BradSavary/Habit-Tracker/internal/logger"
	"github.com/BradSavary/Habit-Tracker/internal/tracker"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
)

// Stats returns the user's statistics for today, served from the cache until a
// completion changes.
func (s *Service) Stats(ctx context.Context, userID string) (stats tracker.UserStats, err error) {
	ctx, span := s.startSpan(ctx, "Stats", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	key := cache.StatsKey(userID, utils.FormatDay(s.Today()))
	if ok, err := cache.GetJSON(ctx, s.cache, key, &stats); err != nil {
		logger.Warn("Stats cache read failed", "key", key, "error", err)
	} else if ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return stats, nil
	}

	histories, err := s.Histories(ctx, userID)
	if err != nil {
		return tracker.UserStats{}, err
	}
	stats = tracker.ComputeUserStats(histories, s.now().In(s.loc))

	if err := cache.SetJSON(ctx, s.cache, key, stats, s.statsTTL); err != nil {
		logger.Warn("Stats cache write failed", "key", key, "error", err)
	}
	return stats, nil
}
