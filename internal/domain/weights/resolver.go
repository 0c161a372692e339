package weights

import (
	"fmt"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// Boost bounds. Adaptation rules may emphasize a component but never
// erase or explode it before renormalization.
const (
	minBoost = 0.25
	maxBoost = 2.5
)

// Rule is one bounded adaptation: multiplicative factors per component.
type Rule struct {
	Name   string
	Boosts map[model.Component]float64
}

// Resolver turns a match context into a normalized weight vector.
type Resolver struct {
	base        Vector
	reasonRules map[model.ListeningReason]Rule
	statusRules map[model.EmploymentStatus]Rule
	urgencyRule Rule
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithReasonRule registers the adaptation applied for a listening reason.
func WithReasonRule(reason model.ListeningReason, rule Rule) Option {
	return func(r *Resolver) {
		r.reasonRules[reason] = rule
	}
}

// WithStatusRule registers the adaptation applied for an employment status.
func WithStatusRule(status model.EmploymentStatus, rule Rule) Option {
	return func(r *Resolver) {
		r.statusRules[status] = rule
	}
}

// WithUrgencyRule registers the adaptation applied when the context
// reports high urgency.
func WithUrgencyRule(rule Rule) Option {
	return func(r *Resolver) {
		r.urgencyRule = rule
	}
}

// NewResolver validates the base vector and builds a resolver with the
// default adaptation rules. An invalid base vector is a configuration
// error: it fails here, at startup, never at request time.
func NewResolver(base Vector, opts ...Option) (*Resolver, error) {
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("base vector: %w", err)
	}

	r := &Resolver{
		base:        base.Clone(),
		reasonRules: defaultReasonRules(),
		statusRules: defaultStatusRules(),
		urgencyRule: Rule{
			Name:   "high-urgency",
			Boosts: map[model.Component]float64{model.ComponentTiming: 1.3},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Base returns a copy of the validated base vector.
func (r *Resolver) Base() Vector {
	return r.base.Clone()
}

// Resolve produces the weight vector for mctx. The result always
// satisfies Vector.Validate.
func (r *Resolver) Resolve(mctx model.MatchContext) Vector {
	v := r.base.Clone()

	if rule, ok := r.reasonRules[mctx.ListeningReason]; ok {
		v.apply(rule)
	}
	if rule, ok := r.statusRules[mctx.EmploymentStatus]; ok {
		v.apply(rule)
	}
	if mctx.Urgency == "high" || mctx.Urgency == "immediate" {
		v.apply(r.urgencyRule)
	}

	return v
}

// apply multiplies the rule's boosts in, clamped to the bound, then
// renormalizes. Boosts are never applied without renormalization.
func (v Vector) apply(rule Rule) {
	for c, factor := range rule.Boosts {
		if _, ok := v[c]; !ok {
			continue
		}
		if factor < minBoost {
			factor = minBoost
		}
		if factor > maxBoost {
			factor = maxBoost
		}
		v[c] *= factor
	}
	v.normalize()
}

// defaultReasonRules encodes which components matter more given why the
// candidate is listening to offers.
func defaultReasonRules() map[model.ListeningReason]Rule {
	return map[model.ListeningReason]Rule{
		model.ReasonRemunerationLow: {
			Name:   "remuneration-too-low",
			Boosts: map[model.Component]float64{model.ComponentSalary: 1.8},
		},
		model.ReasonPositionMismatch: {
			Name:   "position-mismatch",
			Boosts: map[model.Component]float64{model.ComponentSemantic: 1.5},
		},
		model.ReasonLocationTooFar: {
			Name:   "location-too-far",
			Boosts: map[model.Component]float64{model.ComponentTransport: 1.9},
		},
		model.ReasonCareerGrowth: {
			Name: "career-growth",
			Boosts: map[model.Component]float64{
				model.ComponentExperience: 1.3,
				model.ComponentSector:     1.3,
			},
		},
		model.ReasonFlexibility: {
			Name: "flexibility",
			Boosts: map[model.Component]float64{
				model.ComponentContract: 1.4,
				model.ComponentTiming:   1.3,
			},
		},
	}
}

// defaultStatusRules encodes employment-status adaptations.
func defaultStatusRules() map[model.EmploymentStatus]Rule {
	return map[model.EmploymentStatus]Rule{
		model.StatusUnemployed: {
			Name:   "unemployed",
			Boosts: map[model.Component]float64{model.ComponentTiming: 1.2},
		},
		model.StatusFreelance: {
			Name:   "freelance",
			Boosts: map[model.Component]float64{model.ComponentContract: 1.2},
		},
	}
}

// DefaultBase is the shipped base vector used when configuration
// supplies none.
func DefaultBase() Vector {
	return Vector{
		model.ComponentSemantic:   0.24,
		model.ComponentSalary:     0.19,
		model.ComponentExperience: 0.14,
		model.ComponentSector:     0.10,
		model.ComponentContract:   0.09,
		model.ComponentTiming:     0.09,
		model.ComponentTransport:  0.15,
	}
}
