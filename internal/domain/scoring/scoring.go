// Package scoring defines the contract for computing component sub-scores
// from a candidate/job profile pair.
//
// Scorers are pure and total: they never return an error. When a required
// input is missing the scorer produces its configured neutral default with
// low confidence and an explanation naming the gap.
package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// Confidence bounds used by scorers.
const (
	// missingInputConfidence is the ceiling for scores produced without
	// their required inputs.
	missingInputConfidence = 0.3

	// fallbackNeutral is used when a component has no configured neutral
	// default.
	fallbackNeutral = 0.5
)

// Scorer computes one component sub-score for a profile pair.
//
// Score must always return a usable ComponentScore; ctx is accepted for
// interface symmetry with suspending scorers (transport) and is ignored
// by the pure profile scorers.
type Scorer interface {
	// Component identifies which sub-score this scorer produces.
	Component() model.Component

	// HasInput reports whether the profile pair carries the inputs this
	// scorer requires. The aggregator skips scorers without input and
	// redistributes their weight.
	HasInput(c *model.Candidate, j *model.Job) bool

	// Score computes the sub-score. Value and Confidence are always in
	// [0,1]; Weight is left zero for the aggregator to fill in.
	Score(ctx context.Context, c *model.Candidate, j *model.Job) model.ComponentScore
}

// clamp01 bounds v to [0,1] and maps NaN to 0.
func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// neutralScore builds the missing-input result for a component.
func neutralScore(tables *Tables, c model.Component, reason string) model.ComponentScore {
	return model.ComponentScore{
		Value:       tables.NeutralDefault(c),
		Confidence:  missingInputConfidence,
		Explanation: []string{fmt.Sprintf("%s: neutral default (%s)", c, reason)},
	}
}
