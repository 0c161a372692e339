// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/Bapt252/nextvision/internal/adapters/routing"
	"github.com/Bapt252/nextvision/internal/config"
	"github.com/Bapt252/nextvision/internal/domain/match"
	"github.com/Bapt252/nextvision/internal/domain/model"
	"github.com/Bapt252/nextvision/internal/domain/scoring"
	"github.com/Bapt252/nextvision/internal/domain/weights"
	"github.com/Bapt252/nextvision/internal/transport"
	"github.com/Bapt252/nextvision/pkg/logger"
)

// Service wires the matching pipeline: tables, weight resolver, profile
// scorers, the route chain (provider, breaker, cache, estimator) and the
// transport engine behind the aggregator.
type Service struct {
	mu sync.RWMutex

	cfg *config.Config

	tables     *scoring.Tables
	resolver   *weights.Resolver
	aggregator *match.Aggregator
	cache      *routing.Cache
	breaker    *routing.Breaker
	engine     *transport.Engine

	started bool
	logger  logger.Logger
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

// New constructs a Service from configuration. Construction validates
// every table and the base weight vector; an error here aborts startup.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}

	tables, err := buildTables(cfg)
	if err != nil {
		return nil, err
	}
	s.tables = tables

	resolver, err := weights.NewResolver(buildBaseVector(cfg))
	if err != nil {
		return nil, err
	}
	s.resolver = resolver

	return s, nil
}

// Start brings up the route chain and the aggregator. Idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.breaker = routing.NewBreaker(
		routing.WithFailureThreshold(s.cfg.BreakerThreshold),
		routing.WithCooldown(time.Duration(s.cfg.BreakerCooldownSeconds)*time.Second),
		routing.WithFailureWindow(time.Duration(s.cfg.BreakerWindowSeconds)*time.Second),
	)

	estimator := routing.NewEstimator(
		routing.WithModeSpeeds(modeSpeeds(s.cfg)),
		routing.WithDefaultDistance(s.cfg.DefaultCommuteKm),
	)

	var provider routing.Provider
	if s.cfg.GoogleMapsAPIKey != "" {
		p, err := routing.NewGoogleMapsProvider(s.cfg.GoogleMapsAPIKey,
			routing.WithRegion(s.cfg.GoogleMapsRegion))
		if err != nil {
			return err
		}
		provider = p
		s.logger.Info(ctx, "using google maps route provider")
	} else {
		s.logger.Warn(ctx, "no maps api key; routes served by estimator only")
	}

	s.cache = routing.NewCache(provider, s.breaker, estimator,
		routing.WithTTL(time.Duration(s.cfg.CacheTTLMinutes)*time.Minute),
		routing.WithCapacity(s.cfg.CacheCapacity),
	)

	transportScorer := transport.NewScorer(s.cache,
		transport.WithQueryTimeout(time.Duration(s.cfg.QueryTimeoutMS)*time.Millisecond),
		transport.WithTrafficPenalty(s.cfg.TrafficPenalty),
		transport.WithNeutralDefault(s.tables.NeutralDefault(model.ComponentTransport)),
	)

	s.engine = transport.NewEngine(transportScorer, s.cache,
		transport.WithConcurrency(s.cfg.BatchConcurrency),
		transport.WithBatchTimeout(time.Duration(s.cfg.BatchTimeoutMS)*time.Millisecond),
	)

	// Cheap pure scorers first; the suspending transport scorer last so
	// a blown deadline only costs the expensive tail.
	scorers := []scoring.Scorer{
		scoring.NewSemanticScorer(s.tables),
		scoring.NewSalaryScorer(s.tables),
		scoring.NewExperienceScorer(s.tables),
		scoring.NewSectorScorer(s.tables),
		scoring.NewContractScorer(s.tables),
		scoring.NewTimingScorer(s.tables),
		transportScorer,
	}

	s.aggregator = match.New(s.resolver, s.tables, scorers,
		match.WithDeadline(time.Duration(s.cfg.MatchDeadlineMS)*time.Millisecond),
	)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("components", len(scorers)),
		logger.Int("cache_capacity", s.cfg.CacheCapacity),
		logger.Int("batch_concurrency", s.cfg.BatchConcurrency),
	)
	return nil
}

// Stop shuts the service down. Idempotent; current state is in-memory
// only, so there is nothing to flush.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "matching service stopped")
}

// Match computes one candidate/job match. The contract is total: every
// well-formed profile pair yields a MatchResult.
func (s *Service) Match(ctx context.Context, c *model.Candidate, j *model.Job, mctx model.MatchContext) model.MatchResult {
	return s.aggregator.Match(ctx, c, j, mctx)
}

// BatchTransport scores the candidate's commute against many jobs.
func (s *Service) BatchTransport(ctx context.Context, c *model.Candidate, jobs []*model.Job) map[string]model.ComponentScore {
	return s.engine.BatchScore(ctx, c, jobs)
}

// Stats returns read-only counters for the monitoring collaborator.
func (s *Service) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
	}
	if s.started {
		stats["route_cache"] = s.cache.Snapshot()
		stats["transport"] = s.engine.Snapshot()
	}
	return stats
}

// buildTables merges configured table entries over the shipped defaults.
func buildTables(cfg *config.Config) (*scoring.Tables, error) {
	t := scoring.DefaultTables()

	mergeTable(&t.UrgencyScores, cfg.UrgencyScores, cfg.UrgencyDefault)
	mergeTable(&t.SectorAttractiveness, cfg.SectorAttractiveness, cfg.SectorDefault)
	mergeTable(&t.ContractRanks, cfg.ContractRanks, cfg.ContractDefault)

	for name, v := range cfg.NeutralDefaults {
		t.NeutralDefaults[model.Component(name)] = v
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func mergeTable(dst *scoring.Table, entries map[string]float64, def *float64) {
	for k, v := range entries {
		dst.Entries[k] = v
	}
	if def != nil {
		dst.Default = def
	}
}

// buildBaseVector converts the configured weight map, falling back to
// the shipped base vector.
func buildBaseVector(cfg *config.Config) weights.Vector {
	if len(cfg.BaseWeights) == 0 {
		return weights.DefaultBase()
	}
	v := make(weights.Vector, len(cfg.BaseWeights))
	for name, w := range cfg.BaseWeights {
		v[model.Component(name)] = w
	}
	return v
}

func modeSpeeds(cfg *config.Config) map[model.TravelMode]float64 {
	speeds := make(map[model.TravelMode]float64, len(cfg.ModeSpeedsKmh))
	for name, kmh := range cfg.ModeSpeedsKmh {
		speeds[model.TravelMode(name)] = kmh
	}
	return speeds
}
