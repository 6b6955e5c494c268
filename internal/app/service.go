// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	repository "github.com/pitchmix/pitchmix/internal/adapters/repository"
	"github.com/pitchmix/pitchmix/internal/domain/model"
	"github.com/pitchmix/pitchmix/internal/domain/recommend"
	"github.com/pitchmix/pitchmix/internal/domain/summary"
	"github.com/pitchmix/pitchmix/internal/domain/types"
	"github.com/pitchmix/pitchmix/pkg/logger"
	"github.com/pitchmix/pitchmix/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultDBPath        = "data/pitchmix.db"
	defaultMinSample     = 5
	defaultLocationLimit = 500
)

// situationAdapter adapts the repository aggregate query to the
// recommendation engine's Aggregator interface.
type situationAdapter struct {
	store repository.Store
}

func (a *situationAdapter) AggregateBySituation(ctx context.Context, s recommend.Situation, minTotal int) ([]model.PitchTypeAggregate, error) {
	return a.store.AggregateBySituation(ctx, repository.SituationFilter{
		PitcherID:  s.PitcherID,
		Balls:      s.Balls,
		Strikes:    s.Strikes,
		BatterHand: s.BatterHand,
	}, minTotal)
}

// Service implements the API dependencies for the pitch analytics system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	engine *recommend.Engine

	// Configuration
	dbPath        string
	minSampleSize int
	locationLimit int

	// State
	started  bool
	ownStore bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDBPath sets the SQLite database path the service opens on Start.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithMinSampleSize sets the minimum sample size for recommendations.
func WithMinSampleSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minSampleSize = n
		}
	}
}

// WithLocationLimit sets the default cap on returned located pitches.
func WithLocationLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.locationLimit = n
		}
	}
}

// WithStore injects an already-open store. The service will not close it.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbPath:        defaultDBPath,
		minSampleSize: defaultMinSample,
		locationLimit: defaultLocationLimit,
		logger:        nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the store (unless one was injected) and wires the
// recommendation engine.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting pitch analytics service...")

	if s.store == nil {
		store, err := repository.NewSQLiteStore(ctx, s.dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = store
		s.ownStore = true
		s.logger.Info(ctx, "using sqlite store", logger.String("path", s.dbPath))
	}

	s.engine = recommend.New(&situationAdapter{store: s.store},
		recommend.WithMinSampleSize(s.minSampleSize),
	)

	s.started = true
	s.logger.Info(ctx, "pitch analytics service started",
		logger.Int("minSampleSize", s.minSampleSize),
		logger.Int("locationLimit", s.locationLimit),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping pitch analytics service...")

	if s.ownStore && s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "pitch analytics service stopped")
}

// ListPitchers returns every known pitcher ordered by display name.
func (s *Service) ListPitchers(ctx context.Context) ([]types.Pitcher, error) {
	pitchers, err := s.store.ListPitchers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.Pitcher, len(pitchers))
	for i, p := range pitchers {
		out[i] = types.Pitcher{
			ID:         p.ID,
			Name:       p.Name,
			ThrowsHand: p.ThrowsHand,
		}
	}
	return out, nil
}

// Recommend runs the recommendation cascade for the given situation.
func (s *Service) Recommend(ctx context.Context, pitcherID int64, balls, strikes int, batterHand string) (types.Recommendation, error) {
	rec, stage, err := s.engine.Recommend(ctx, recommend.Situation{
		PitcherID:  pitcherID,
		Balls:      balls,
		Strikes:    strikes,
		BatterHand: batterHand,
	})
	if err != nil {
		return types.Recommendation{}, err
	}
	metrics.RecordRecommendation(string(stage))

	s.logger.Debug(ctx, "recommendation served",
		logger.Int64("pitcherID", pitcherID),
		logger.Int("balls", balls),
		logger.Int("strikes", strikes),
		logger.String("stage", string(stage)),
		logger.String("pitchType", rec.RecommendedPitchType),
	)
	return rec, nil
}

// Usage returns per-count pitch mix summaries for one pitcher.
func (s *Service) Usage(ctx context.Context, pitcherID int64, batterHand string) ([]types.CountUsage, error) {
	rows, err := s.store.AggregateByCount(ctx, pitcherID, batterHand)
	if err != nil {
		return nil, err
	}
	return summary.UsageByCount(rows), nil
}

// PitchLocations returns located pitches for a situation with averaged
// strike-zone bounds. A non-positive limit falls back to the configured
// default.
func (s *Service) PitchLocations(ctx context.Context, pitcherID int64, balls, strikes int, batterHand string, limit int) (types.LocationSummary, error) {
	if limit <= 0 {
		limit = s.locationLimit
	}
	rows, err := s.store.LocatedPitches(ctx, repository.SituationFilter{
		PitcherID:  pitcherID,
		Balls:      balls,
		Strikes:    strikes,
		BatterHand: batterHand,
	}, limit)
	if err != nil {
		return types.LocationSummary{}, err
	}
	return summary.Location(rows), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"dbPath":        s.dbPath,
		"minSampleSize": s.minSampleSize,
	}

	if s.started {
		if n, err := s.store.CountPitches(ctx); err == nil {
			stats["totalPitches"] = n
			metrics.UpdateTotalPitches(n)
		}
		if pitchers, err := s.store.ListPitchers(ctx); err == nil {
			stats["totalPitchers"] = len(pitchers)
			metrics.UpdateTotalPitchers(len(pitchers))
		}
	}

	return stats
}
