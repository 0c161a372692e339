// Package weights resolves the per-component weight vector for one match
// computation.
//
// A base vector comes from configuration and is validated once at
// startup. Request-scoped signals (listening reason, urgency, employment
// status) apply bounded multiplicative boosts, and every adjustment is
// followed by a renormalization so the vector always sums to 1.
package weights

import (
	"fmt"
	"math"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// Tolerance for the sum-to-one invariant.
const SumTolerance = 1e-6

// Vector maps each active component to its weight.
type Vector map[model.Component]float64

// Sum returns the total weight.
func (v Vector) Sum() float64 {
	var sum float64
	for _, w := range v {
		sum += w
	}
	return sum
}

// Validate checks the sum-to-one and non-negativity invariants.
func (v Vector) Validate() error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty vector", ErrInvalidVector)
	}
	for c, w := range v {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("%w: component %q has weight %v", ErrInvalidVector, c, w)
		}
	}
	if sum := v.Sum(); math.Abs(sum-1.0) > SumTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", ErrInvalidVector, sum)
	}
	return nil
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for c, w := range v {
		out[c] = w
	}
	return out
}

// normalize rescales the vector in place so it sums to 1. A zero vector
// degenerates to uniform weights.
func (v Vector) normalize() {
	sum := v.Sum()
	if sum <= 0 {
		uniform := 1.0 / float64(len(v))
		for c := range v {
			v[c] = uniform
		}
		return
	}
	for c := range v {
		v[c] /= sum
	}
}

// Restrict drops every component not in active and renormalizes, which
// redistributes the dropped weight proportionally over the remainder.
func (v Vector) Restrict(active map[model.Component]bool) Vector {
	out := make(Vector, len(active))
	for c, w := range v {
		if active[c] {
			out[c] = w
		}
	}
	if len(out) == 0 {
		return out
	}
	out.normalize()
	return out
}
