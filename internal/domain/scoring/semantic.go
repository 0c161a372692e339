package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// Relative shares of required vs nice-to-have skill coverage.
const (
	requiredSkillShare = 0.85
	niceToHaveShare    = 0.15
)

// SemanticScorer measures skill coverage between the candidate's declared
// skills and the job's required and nice-to-have skills.
type SemanticScorer struct {
	tables *Tables
}

// NewSemanticScorer creates a semantic scorer over the given tables.
func NewSemanticScorer(tables *Tables) *SemanticScorer {
	return &SemanticScorer{tables: tables}
}

// Component implements Scorer.
func (s *SemanticScorer) Component() model.Component { return model.ComponentSemantic }

// HasInput implements Scorer.
func (s *SemanticScorer) HasInput(c *model.Candidate, j *model.Job) bool {
	return len(c.Skills) > 0 && len(j.RequiredSkills) > 0
}

// Score implements Scorer.
func (s *SemanticScorer) Score(_ context.Context, c *model.Candidate, j *model.Job) model.ComponentScore {
	if !s.HasInput(c, j) {
		return neutralScore(s.tables, model.ComponentSemantic, "skills missing on one side")
	}

	have := normalizeSkillSet(c.Skills)
	requiredHits, missing := coverage(have, j.RequiredSkills)
	niceHits, _ := coverage(have, j.NiceToHaveSkills)

	value := requiredSkillShare * ratio(requiredHits, len(j.RequiredSkills))
	if len(j.NiceToHaveSkills) > 0 {
		value += niceToHaveShare * ratio(niceHits, len(j.NiceToHaveSkills))
	} else {
		// No nice-to-have list: required coverage carries the full score.
		value /= requiredSkillShare
	}

	explanation := []string{
		fmt.Sprintf("semantic: %d/%d required skills covered", requiredHits, len(j.RequiredSkills)),
	}
	if len(missing) > 0 {
		explanation = append(explanation, "semantic: missing "+strings.Join(missing, ", "))
	}

	// Thin requirement lists give less signal.
	confidence := 0.9
	if len(j.RequiredSkills) < 3 {
		confidence = 0.7
	}

	return model.ComponentScore{
		Value:       clamp01(value),
		Confidence:  confidence,
		Explanation: explanation,
	}
}

func normalizeSkillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[normalizeSkill(s)] = struct{}{}
	}
	return set
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// coverage counts how many of wanted appear in have and collects misses.
func coverage(have map[string]struct{}, wanted []string) (hits int, missing []string) {
	for _, w := range wanted {
		if _, ok := have[normalizeSkill(w)]; ok {
			hits++
		} else {
			missing = append(missing, w)
		}
	}
	return hits, missing
}

func ratio(hits, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
