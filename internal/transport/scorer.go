// Package transport turns route lookups into the transport compatibility
// component and batches it across many jobs for one candidate.
package transport

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Bapt252/nextvision/internal/adapters/routing"
	"github.com/Bapt252/nextvision/internal/domain/model"
)

// Term weights of the transport score.
const (
	timeWeight        = 0.50
	flexibilityWeight = 0.25
	efficiencyWeight  = 0.15
	reliabilityWeight = 0.10
)

// Default tuning.
const (
	defaultTrafficPenalty = 0.15
	defaultQueryTimeout   = 2 * time.Second
)

// flexibilityMultipliers rewards candidates with several viable modes.
// Keyed by the number of compatible modes; the multiplier applies to the
// whole weighted sum, capped at 1.0.
var flexibilityMultipliers = map[int]float64{
	0: 1.0,
	1: 1.0,
	2: 1.15,
	3: 1.25,
	4: 1.35,
}

// Router is the route lookup boundary. The routing cache satisfies it;
// lookups never fail.
type Router interface {
	Route(ctx context.Context, q model.TravelQuery) routing.RouteResult
}

// Scorer computes the transport component for one candidate/job pair.
type Scorer struct {
	router         Router
	queryTimeout   time.Duration
	trafficPenalty float64
	neutral        float64
}

// ScorerOption applies a configuration option to the Scorer.
type ScorerOption func(*Scorer)

// WithQueryTimeout bounds each individual route lookup.
func WithQueryTimeout(d time.Duration) ScorerOption {
	return func(s *Scorer) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

// WithTrafficPenalty sets the reliability penalty applied when the best
// mode reports a traffic delay.
func WithTrafficPenalty(p float64) ScorerOption {
	return func(s *Scorer) {
		if p >= 0 && p <= 1 {
			s.trafficPenalty = p
		}
	}
}

// WithNeutralDefault sets the value returned when transport inputs are
// missing.
func WithNeutralDefault(v float64) ScorerOption {
	return func(s *Scorer) {
		if v >= 0 && v <= 1 {
			s.neutral = v
		}
	}
}

// NewScorer creates a transport scorer over the given router.
func NewScorer(router Router, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		router:         router,
		queryTimeout:   defaultQueryTimeout,
		trafficPenalty: defaultTrafficPenalty,
		neutral:        0.6,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Component implements scoring.Scorer.
func (s *Scorer) Component() model.Component { return model.ComponentTransport }

// HasInput implements scoring.Scorer.
func (s *Scorer) HasInput(c *model.Candidate, j *model.Job) bool {
	return len(c.TravelPreferences) > 0 && c.Location != "" && j.Location != ""
}

// modeOutcome is one evaluated travel mode.
type modeOutcome struct {
	pref       model.TravelPreference
	result     routing.RouteResult
	compatible bool
}

// Score implements scoring.Scorer. Each declared mode is routed under
// the per-query timeout; a mode is compatible iff its duration fits the
// candidate's budget.
func (s *Scorer) Score(ctx context.Context, c *model.Candidate, j *model.Job) model.ComponentScore {
	if !s.HasInput(c, j) {
		return model.ComponentScore{
			Value:       s.neutral,
			Confidence:  0.3,
			Explanation: []string{"transport: neutral default (modes or locations missing)"},
		}
	}

	outcomes := make([]modeOutcome, 0, len(c.TravelPreferences))
	estimated := 0
	for _, pref := range c.TravelPreferences {
		qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
		res := s.router.Route(qctx, model.TravelQuery{
			Origin:        c.Location,
			Destination:   j.Location,
			Mode:          pref.Mode,
			BudgetMinutes: pref.BudgetMinutes,
		})
		cancel()

		if res.Estimated {
			estimated++
		}
		outcomes = append(outcomes, modeOutcome{
			pref:       pref,
			result:     res,
			compatible: pref.BudgetMinutes > 0 && res.DurationMinutes <= pref.BudgetMinutes,
		})
	}

	return s.combine(outcomes, estimated)
}

// combine folds the per-mode outcomes into the weighted transport score.
func (s *Scorer) combine(outcomes []modeOutcome, estimated int) model.ComponentScore {
	compatible := make([]modeOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.compatible {
			compatible = append(compatible, o)
		}
	}
	// Best option is the compatible mode with the lowest duration.
	sort.Slice(compatible, func(i, k int) bool {
		return compatible[i].result.DurationMinutes < compatible[k].result.DurationMinutes
	})

	multiplier := flexibilityMultiplier(len(compatible))

	var timeScore, efficiency, reliability float64
	if len(compatible) > 0 {
		for _, o := range compatible {
			ratio := math.Min(1.0, o.pref.BudgetMinutes/o.result.DurationMinutes)
			timeScore += ratio
			efficiency += ratio * (o.result.DurationMinutes / o.pref.BudgetMinutes)
		}
		timeScore /= float64(len(compatible))
		efficiency /= float64(len(compatible))

		reliability = 1.0
		if compatible[0].result.HasTrafficDelay {
			reliability -= s.trafficPenalty
		}
	}

	weighted := timeWeight*timeScore +
		flexibilityWeight*(multiplier-1.0) +
		efficiencyWeight*efficiency +
		reliabilityWeight*reliability
	value := clamp01(weighted * multiplier)

	explanation := make([]string, 0, len(outcomes)+2)
	for _, o := range outcomes {
		verdict := "≤"
		if !o.compatible {
			verdict = ">"
		}
		used := 0.0
		if o.pref.BudgetMinutes > 0 {
			used = o.result.DurationMinutes / o.pref.BudgetMinutes * 100
		}
		explanation = append(explanation, fmt.Sprintf("%s: %.0fmin %s %.0fmin (budget used %.0f%%)",
			o.pref.Mode, o.result.DurationMinutes, verdict, o.pref.BudgetMinutes, used))
	}
	if len(compatible) > 0 {
		best := compatible[0]
		explanation = append(explanation, fmt.Sprintf("transport: best option %s (%.0fmin)",
			best.pref.Mode, best.result.DurationMinutes))
	}
	explanation = append(explanation, fmt.Sprintf("transport: %d/%d modes compatible (bonus x%.2f)",
		len(compatible), len(outcomes), multiplier))

	// Estimated routes carry less signal than provider routes.
	confidence := 0.9
	if len(outcomes) > 0 && estimated > 0 {
		confidence = 0.9 - 0.4*float64(estimated)/float64(len(outcomes))
	}

	return model.ComponentScore{
		Value:       value,
		Confidence:  clamp01(confidence),
		Explanation: explanation,
	}
}

// flexibilityMultiplier looks up the bonus for n compatible modes,
// saturating at the table's top entry.
func flexibilityMultiplier(n int) float64 {
	if m, ok := flexibilityMultipliers[n]; ok {
		return m
	}
	return flexibilityMultipliers[4]
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
