package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// lateAvailabilityPenalty applies when the candidate cannot start inside
// the job's start window.
const lateAvailabilityPenalty = 0.3

// TimingScorer scores urgency fit: the job's urgency bucket from the
// urgency table, penalized when the candidate's availability misses the
// start window.
type TimingScorer struct {
	tables *Tables
}

// NewTimingScorer creates a timing scorer over the given tables.
func NewTimingScorer(tables *Tables) *TimingScorer {
	return &TimingScorer{tables: tables}
}

// Component implements Scorer.
func (s *TimingScorer) Component() model.Component { return model.ComponentTiming }

// HasInput implements Scorer.
func (s *TimingScorer) HasInput(c *model.Candidate, j *model.Job) bool {
	return strings.TrimSpace(j.Urgency) != "" || (c.AvailabilityWeeks != nil && j.StartWindowWeeks != nil)
}

// Score implements Scorer.
func (s *TimingScorer) Score(_ context.Context, c *model.Candidate, j *model.Job) model.ComponentScore {
	if !s.HasInput(c, j) {
		return neutralScore(s.tables, model.ComponentTiming, "urgency and availability missing")
	}

	urgency := strings.ToLower(strings.TrimSpace(j.Urgency))
	value := s.tables.UrgencyScores.Lookup(urgency)
	explanation := []string{fmt.Sprintf("timing: job urgency %q scores %.2f", urgency, value)}

	confidence := 0.6
	if c.AvailabilityWeeks != nil && j.StartWindowWeeks != nil {
		confidence = 0.9
		if *c.AvailabilityWeeks > *j.StartWindowWeeks {
			value -= lateAvailabilityPenalty
			explanation = append(explanation, fmt.Sprintf(
				"timing: available in %dw, start window %dw", *c.AvailabilityWeeks, *j.StartWindowWeeks))
		} else {
			explanation = append(explanation, fmt.Sprintf(
				"timing: available in %dw within start window %dw", *c.AvailabilityWeeks, *j.StartWindowWeeks))
		}
	}

	return model.ComponentScore{
		Value:       clamp01(value),
		Confidence:  confidence,
		Explanation: explanation,
	}
}
