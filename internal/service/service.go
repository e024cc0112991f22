// Package service implements the habit tracker's use cases on top of a storage
// provider: habit management, the completion toggle with its XP ledger, the mood
// journal, accounts and statistics.
package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BradSavary/Habit-Tracker/internal/cache"
	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/logger"
	"github.com/BradSavary/Habit-Tracker/internal/storage"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
)

const tracerName = "github.com/BradSavary/Habit-Tracker/internal/service"

// Store is the subset of storage.Provider the service needs.
type Store interface {
	storage.UserRepository
	storage.HabitRepository
	storage.CompletionRepository
	storage.LedgerRepository
	storage.MoodRepository
}

type Service struct {
	store    Store
	cache    cache.Cache
	loc      *time.Location
	now      func() time.Time
	tracer   trace.Tracer
	statsTTL time.Duration
}

type Option func(*Service)

// WithCache sets the statistics cache. Without it an in-memory cache is used.
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLocation sets the time zone that decides where a day starts.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func WithStatsTTL(ttl time.Duration) Option {
	return func(s *Service) { s.statsTTL = ttl }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		loc:      time.Local,
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
		statsTTL: constants.DefaultStatsCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.NewMemory()
	}
	return s
}

// Location returns the service time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today returns midnight of the current day in the service time zone.
func (s *Service) Today() time.Time {
	return utils.Today(s.now(), s.loc)
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "service."+name, trace.WithAttributes(attrs...))
}

// endSpan records err on the span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// invalidateStats drops cached statistics after the user's habits or completions changed.
// Cache failures are logged and otherwise ignored.
func (s *Service) invalidateStats(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, cache.UserPrefix(userID)); err != nil {
		logger.Warn("Failed to invalidate stats cache", "user", userID, "error", err)
	}
}
