package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// preferenceRankScores maps the position of the offered contract inside
// the candidate's ordered preference list to a score. Offers outside the
// list fall back to the contract rank table.
var preferenceRankScores = []float64{1.0, 0.8, 0.6}

// ContractScorer scores the offered contract type, preferring the
// candidate's declared ordering and falling back to the rank table.
type ContractScorer struct {
	tables *Tables
}

// NewContractScorer creates a contract scorer over the given tables.
func NewContractScorer(tables *Tables) *ContractScorer {
	return &ContractScorer{tables: tables}
}

// Component implements Scorer.
func (s *ContractScorer) Component() model.Component { return model.ComponentContract }

// HasInput implements Scorer.
func (s *ContractScorer) HasInput(_ *model.Candidate, j *model.Job) bool {
	return strings.TrimSpace(j.ContractType) != ""
}

// Score implements Scorer.
func (s *ContractScorer) Score(_ context.Context, c *model.Candidate, j *model.Job) model.ComponentScore {
	if !s.HasInput(c, j) {
		return neutralScore(s.tables, model.ComponentContract, "contract type missing")
	}

	offered := strings.ToLower(strings.TrimSpace(j.ContractType))

	if len(c.PreferredContracts) > 0 {
		for i, pref := range c.PreferredContracts {
			if !strings.EqualFold(strings.TrimSpace(pref), offered) {
				continue
			}
			value := preferenceRankScores[len(preferenceRankScores)-1]
			if i < len(preferenceRankScores) {
				value = preferenceRankScores[i]
			}
			return model.ComponentScore{
				Value:       value,
				Confidence:  0.9,
				Explanation: []string{fmt.Sprintf("contract: %s is preference #%d", offered, i+1)},
			}
		}
		// Declared preferences that exclude the offer are a strong signal.
		return model.ComponentScore{
			Value:       clamp01(s.tables.ContractRanks.Lookup(offered) / 2),
			Confidence:  0.9,
			Explanation: []string{fmt.Sprintf("contract: %s not among declared preferences", offered)},
		}
	}

	return model.ComponentScore{
		Value:       clamp01(s.tables.ContractRanks.Lookup(offered)),
		Confidence:  0.6,
		Explanation: []string{fmt.Sprintf("contract: %s scored from rank table", offered)},
	}
}
