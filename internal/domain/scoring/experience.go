package scoring

import (
	"context"
	"fmt"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// Overqualification handling.
const (
	// overqualifiedFactor is how many times the required experience counts
	// as overqualified.
	overqualifiedFactor = 2.0

	// overqualifiedScore is the damped score for overqualified candidates.
	overqualifiedScore = 0.9
)

// ExperienceScorer compares held experience years against the job's
// requirement: full credit at or above the requirement, proportional
// credit below it, and a small damping when far above it.
type ExperienceScorer struct {
	tables *Tables
}

// NewExperienceScorer creates an experience scorer over the given tables.
func NewExperienceScorer(tables *Tables) *ExperienceScorer {
	return &ExperienceScorer{tables: tables}
}

// Component implements Scorer.
func (s *ExperienceScorer) Component() model.Component { return model.ComponentExperience }

// HasInput implements Scorer.
func (s *ExperienceScorer) HasInput(c *model.Candidate, j *model.Job) bool {
	return c.ExperienceYears != nil && j.RequiredExperienceYears != nil
}

// Score implements Scorer.
func (s *ExperienceScorer) Score(_ context.Context, c *model.Candidate, j *model.Job) model.ComponentScore {
	if !s.HasInput(c, j) {
		return neutralScore(s.tables, model.ComponentExperience, "experience years missing")
	}

	held := *c.ExperienceYears
	required := *j.RequiredExperienceYears
	if held < 0 {
		held = 0
	}

	var value float64
	var note string
	switch {
	case required <= 0:
		value = 1.0
		note = "experience: no requirement declared"
	case held >= required*overqualifiedFactor:
		value = overqualifiedScore
		note = fmt.Sprintf("experience: %.1fy well above required %.1fy", held, required)
	case held >= required:
		value = 1.0
		note = fmt.Sprintf("experience: %.1fy meets required %.1fy", held, required)
	default:
		value = held / required
		note = fmt.Sprintf("experience: %.1fy below required %.1fy", held, required)
	}

	return model.ComponentScore{
		Value:       clamp01(value),
		Confidence:  0.9,
		Explanation: []string{note},
	}
}
