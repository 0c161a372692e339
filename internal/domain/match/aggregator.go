// Package match orchestrates every component scorer under a resolved
// weight vector and a hard time budget, producing one MatchResult.
package match

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Bapt252/nextvision/internal/domain/model"
	"github.com/Bapt252/nextvision/internal/domain/scoring"
	"github.com/Bapt252/nextvision/internal/domain/weights"
	"github.com/Bapt252/nextvision/pkg/logger"
	"github.com/Bapt252/nextvision/pkg/metrics"
)

// DefaultDeadline is the per-match time budget. Past it, remaining
// components fall back to their neutral defaults instead of blocking.
const DefaultDeadline = 175 * time.Millisecond

// noInputScore is returned when not a single component has valid input:
// maximally uncertain.
const noInputScore = 0.5

// Aggregator runs the registered scorers and combines their values.
// Scorer order matters: cheap pure scorers should come first so that a
// blown deadline only costs the expensive tail.
type Aggregator struct {
	resolver *weights.Resolver
	scorers  []scoring.Scorer
	tables   *scoring.Tables
	deadline time.Duration
	logger   logger.Logger
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithDeadline overrides the per-match time budget.
func WithDeadline(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.deadline = d
		}
	}
}

// WithLogger sets a custom logger for the aggregator.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an aggregator over the given resolver and scorers.
func New(resolver *weights.Resolver, tables *scoring.Tables, scorers []scoring.Scorer, opts ...Option) *Aggregator {
	a := &Aggregator{
		resolver: resolver,
		scorers:  scorers,
		tables:   tables,
		deadline: DefaultDeadline,
		logger:   logger.Get().Named("aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Match computes the final score for one profile pair. It never returns
// an error and never blocks past the deadline: components that cannot be
// computed in time contribute their neutral default and the result is
// flagged degraded.
func (a *Aggregator) Match(ctx context.Context, c *model.Candidate, j *model.Job, mctx model.MatchContext) model.MatchResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, a.deadline)
	defer cancel()

	vec := a.resolver.Resolve(mctx)

	// Skip scorers without input; their weight is redistributed
	// proportionally over the active set.
	active := make(map[model.Component]bool, len(a.scorers))
	var runnable []scoring.Scorer
	for _, s := range a.scorers {
		if s.HasInput(c, j) {
			active[s.Component()] = true
			runnable = append(runnable, s)
		}
	}

	if len(runnable) == 0 {
		// Nothing to compute: maximally uncertain result, with every
		// component reporting its fallback so the caller can see why.
		components := make(map[model.Component]model.ComponentScore, len(a.scorers))
		for _, s := range a.scorers {
			comp := s.Component()
			components[comp] = model.ComponentScore{
				Value:       a.tables.NeutralDefault(comp),
				Weight:      vec[comp],
				Confidence:  0.3,
				Explanation: []string{fmt.Sprintf("%s: neutral default (no valid input)", comp)},
			}
		}
		metrics.RecordMatchDegraded()
		metrics.RecordMatch(time.Since(start))
		return model.MatchResult{
			FinalScore: noInputScore,
			Components: components,
			Degraded:   true,
			Elapsed:    time.Since(start),
		}
	}

	vec = vec.Restrict(active)

	components := make(map[model.Component]model.ComponentScore, len(runnable))
	var final float64
	degraded := false
	var defaulted []model.Component

	for _, s := range runnable {
		comp := s.Component()
		weight := vec[comp]

		if ctx.Err() != nil {
			// Out of budget: remaining components get their neutral
			// default instead of being invoked.
			cs := model.ComponentScore{
				Value:       a.tables.NeutralDefault(comp),
				Weight:      weight,
				Confidence:  0.3,
				Explanation: []string{fmt.Sprintf("%s: neutral default (deadline exceeded)", comp)},
			}
			components[comp] = cs
			final += cs.Value * weight
			degraded = true
			defaulted = append(defaulted, comp)
			continue
		}

		compStart := time.Now()
		cs := s.Score(ctx, c, j)
		metrics.RecordComponentLatency(string(comp), time.Since(compStart))

		cs.Value = clamp01(cs.Value)
		cs.Weight = weight
		components[comp] = cs
		final += cs.Value * weight
	}

	elapsed := time.Since(start)
	result := model.MatchResult{
		FinalScore: clamp01(final),
		Components: components,
		Degraded:   degraded,
		Elapsed:    elapsed,
	}

	metrics.RecordMatch(elapsed)
	if degraded {
		metrics.RecordMatchDegraded()
		a.logger.Warn(ctx, "match degraded past deadline",
			logger.String("candidate", c.ID),
			logger.String("job", j.ID),
			logger.Int("defaulted", len(defaulted)),
		)
	}

	return result
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
