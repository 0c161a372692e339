package scoring

import (
	"context"
	"fmt"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// Salary fit boundaries.
const (
	// salaryFloorScore is the fit at the very top of the offered range.
	salaryFloorScore = 0.6

	// progressionBonus rewards offers that move the candidate forward
	// from their current salary.
	progressionBonus = 0.1

	// progressionThreshold is the minimum raise that counts as progression.
	progressionThreshold = 1.05
)

// SalaryScorer measures how well the offered range fits the candidate's
// expectation, with a progression bonus when the current salary is known.
//
// Candidates without a current salary (freelance, unemployed) are still
// scored from their expectation alone; only a missing expectation or a
// missing offered range falls back to the configured neutral default.
type SalaryScorer struct {
	tables *Tables
}

// NewSalaryScorer creates a salary scorer over the given tables.
func NewSalaryScorer(tables *Tables) *SalaryScorer {
	return &SalaryScorer{tables: tables}
}

// Component implements Scorer.
func (s *SalaryScorer) Component() model.Component { return model.ComponentSalary }

// HasInput implements Scorer.
func (s *SalaryScorer) HasInput(c *model.Candidate, j *model.Job) bool {
	return c.ExpectedSalary != nil && *c.ExpectedSalary > 0 && j.SalaryMax != nil && *j.SalaryMax > 0
}

// Score implements Scorer.
func (s *SalaryScorer) Score(_ context.Context, c *model.Candidate, j *model.Job) model.ComponentScore {
	if !s.HasInput(c, j) {
		return neutralScore(s.tables, model.ComponentSalary, "expected salary or offered range missing")
	}

	expected := *c.ExpectedSalary
	max := *j.SalaryMax
	min := max
	if j.SalaryMin != nil && *j.SalaryMin > 0 && *j.SalaryMin <= max {
		min = *j.SalaryMin
	}

	var value float64
	var explanation []string
	switch {
	case expected <= min:
		value = 1.0
		explanation = append(explanation, fmt.Sprintf("salary: expectation %.0f at or below offered minimum %.0f", expected, min))
	case expected <= max:
		// Linear decay across the offered range, never below the floor.
		span := max - min
		value = 1.0
		if span > 0 {
			value = 1.0 - (1.0-salaryFloorScore)*(expected-min)/span
		}
		explanation = append(explanation, fmt.Sprintf("salary: expectation %.0f inside offered range %.0f-%.0f", expected, min, max))
	default:
		// Expectation above the range decays with the overshoot.
		value = salaryFloorScore * max / expected
		explanation = append(explanation, fmt.Sprintf("salary: expectation %.0f above offered maximum %.0f", expected, max))
	}

	confidence := 0.7
	if c.CurrentSalary != nil && *c.CurrentSalary > 0 {
		confidence = 0.9
		if max >= *c.CurrentSalary*progressionThreshold {
			value += progressionBonus
			explanation = append(explanation, fmt.Sprintf("salary: offer progresses from current %.0f", *c.CurrentSalary))
		}
	}

	return model.ComponentScore{
		Value:       clamp01(value),
		Confidence:  confidence,
		Explanation: explanation,
	}
}
