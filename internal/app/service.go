// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/matchweek/refassign/internal/adapters/repository"
	"github.com/matchweek/refassign/internal/config"
	"github.com/matchweek/refassign/internal/domain/availability"
	"github.com/matchweek/refassign/internal/domain/conflict"
	"github.com/matchweek/refassign/internal/domain/fit"
	"github.com/matchweek/refassign/internal/domain/model"
	"github.com/matchweek/refassign/internal/domain/suggest"
	"github.com/matchweek/refassign/pkg/logger"
)

// Service wires the stores and engines together and implements the API
// dependency interfaces.
type Service struct {
	mu sync.RWMutex

	cfg *config.Config

	store    repository.Store
	memstore *repository.MemStore // set when running without a database

	resolver  *availability.Resolver
	detector  *conflict.Detector
	scorer    *fit.Scorer
	suggester *suggest.Suggester

	started bool
	logger  logger.Logger

	// Last completed suggestion run, for /stats.
	lastRun *suggest.Summary
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore overrides the backing store, mainly for tests and the seeder.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a Service from configuration.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the store and engines.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		if s.cfg.PostgresDSN != "" {
			store, err := repository.NewGormStore(s.cfg.PostgresDSN)
			if err != nil {
				return err
			}
			s.store = store
			s.logger.Info(ctx, "using postgres store")
		} else {
			mem := repository.NewMemStore()
			s.store = mem
			s.memstore = mem
			s.logger.Warn(ctx, "no postgres_dsn configured; using in-memory store")
		}
	} else if mem, ok := s.store.(*repository.MemStore); ok {
		s.memstore = mem
	}

	policy := model.ParseDivisionGradePolicy(s.cfg.DivisionGrades)

	s.resolver = availability.NewResolver(s.store)
	s.detector = conflict.NewDetector(s.store,
		conflict.WithProximityDays(s.cfg.ProximityWindowDays),
		conflict.WithFixtureDuration(time.Duration(s.cfg.FixtureDurationMinutes)*time.Minute),
	)
	s.scorer = fit.NewScorer(s.store, s.detector, s.resolver,
		fit.WithPenalties(fit.Penalties{
			HardConflict:      s.cfg.PenaltyHardConflict,
			SoftConflict:      s.cfg.PenaltySoftConflict,
			ProximityConflict: s.cfg.PenaltyProximityConflict,
			BelowGrade:        s.cfg.PenaltyBelowGrade,
			RecentTeam:        s.cfg.PenaltyRecentTeam,
			OwnClub:           s.cfg.PenaltyOwnClub,
			Unavailable:       s.cfg.PenaltyUnavailable,
		}),
		fit.WithPolicy(policy),
		fit.WithRecentTeam(s.cfg.RecentTeamEnabled),
		fit.WithLookbackDays(s.cfg.RecentTeamLookbackDays),
	)

	role, _ := model.ParseRole(s.cfg.SuggestRole)
	s.suggester = suggest.New(s.store, s.store, s.resolver,
		suggest.WithRole(role),
		suggest.WithPolicy(policy),
		suggest.WithDefaultCaps(s.cfg.DefaultMaxWeekendFixtures, s.cfg.DefaultMaxWeekendDays),
		suggest.WithWeekendCount(s.cfg.DefaultWeekendCount),
		suggest.WithMaxWindows(s.cfg.MaxWeekendCount),
		suggest.WithLogger(s.logger),
	)

	s.started = true
	s.logger.Info(ctx, "assignment service started",
		logger.String("suggestRole", s.cfg.SuggestRole),
		logger.Int("defaultMaxWeekendFixtures", s.cfg.DefaultMaxWeekendFixtures),
		logger.Int("defaultMaxWeekendDays", s.cfg.DefaultMaxWeekendDays),
	)
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "assignment service stopped")
}

// ScoreFit computes the fit score for one (fixture, official) pair. Each
// call owns a fresh invocation cache; nothing leaks across requests.
func (s *Service) ScoreFit(ctx context.Context, fixtureID, officialID string, debug bool) (fit.Result, error) {
	fixture, err := s.store.Fixture(ctx, fixtureID)
	if err != nil {
		return fit.Result{}, err
	}
	official, err := s.store.Official(ctx, officialID)
	if err != nil {
		return fit.Result{}, err
	}

	return s.scorer.Score(ctx, fit.Input{
		Fixture:    fixture,
		OfficialID: official.ID,
		Grade:      official.Grade,
		Debug:      debug,
	}, fit.NewCache())
}

// Suggest streams weekend proposals, recording the terminal summary for
// the stats endpoint as it passes through.
func (s *Service) Suggest(ctx context.Context, from, to time.Time) <-chan suggest.Event {
	upstream := s.suggester.Run(ctx, from, to)
	out := make(chan suggest.Event)
	go func() {
		defer close(out)
		for event := range upstream {
			if event.Summary != nil {
				s.mu.Lock()
				s.lastRun = event.Summary
				s.mu.Unlock()
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"store":       "postgres",
		"suggestRole": s.cfg.SuggestRole,
	}
	if s.memstore != nil {
		fixtures, officials := s.memstore.Counts()
		stats["store"] = "memory"
		stats["fixtures"] = fixtures
		stats["officials"] = officials
	}
	if s.lastRun != nil {
		stats["lastRunWindows"] = s.lastRun.Windows
		stats["lastRunConsidered"] = s.lastRun.FixturesConsidered
		stats["lastRunAssigned"] = s.lastRun.FixturesAssigned
	}
	return stats
}
