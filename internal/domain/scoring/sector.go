package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// Sector preference adjustments applied on top of the attractiveness table.
const (
	targetSectorBonus  = 0.2
	avoidSectorPenalty = 0.3
)

// SectorScorer scores the job's sector from the attractiveness table,
// boosted when it matches a declared target sector and penalized when it
// matches a declared avoid sector.
type SectorScorer struct {
	tables *Tables
}

// NewSectorScorer creates a sector scorer over the given tables.
func NewSectorScorer(tables *Tables) *SectorScorer {
	return &SectorScorer{tables: tables}
}

// Component implements Scorer.
func (s *SectorScorer) Component() model.Component { return model.ComponentSector }

// HasInput implements Scorer.
func (s *SectorScorer) HasInput(_ *model.Candidate, j *model.Job) bool {
	return strings.TrimSpace(j.Sector) != ""
}

// Score implements Scorer.
func (s *SectorScorer) Score(_ context.Context, c *model.Candidate, j *model.Job) model.ComponentScore {
	if !s.HasInput(c, j) {
		return neutralScore(s.tables, model.ComponentSector, "job sector missing")
	}

	sector := strings.ToLower(strings.TrimSpace(j.Sector))
	value := s.tables.SectorAttractiveness.Lookup(sector)
	explanation := []string{fmt.Sprintf("sector: %s attractiveness %.2f", sector, value)}

	confidence := 0.6
	if len(c.TargetSectors) > 0 || len(c.AvoidSectors) > 0 {
		confidence = 0.9
	}

	if containsFold(c.TargetSectors, sector) {
		value += targetSectorBonus
		explanation = append(explanation, "sector: matches a target sector")
	}
	if containsFold(c.AvoidSectors, sector) {
		value -= avoidSectorPenalty
		explanation = append(explanation, "sector: matches an avoided sector")
	}

	return model.ComponentScore{
		Value:       clamp01(value),
		Confidence:  confidence,
		Explanation: explanation,
	}
}

func containsFold(list []string, target string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), target) {
			return true
		}
	}
	return false
}
