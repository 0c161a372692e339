package smoketest

import (
	"fmt"
	"math"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

const weightSumTolerance = 1e-6

// verifyMatch checks the response invariants of one match result:
// scores and confidences in [0,1], component weights summing to 1 when
// any component ran.
func verifyMatch(result model.MatchResult) []string {
	var violations []string

	if result.FinalScore < 0 || result.FinalScore > 1 {
		violations = append(violations, fmt.Sprintf("final score %v outside [0,1]", result.FinalScore))
	}

	var weightSum float64
	for comp, cs := range result.Components {
		if cs.Value < 0 || cs.Value > 1 {
			violations = append(violations, fmt.Sprintf("%s value %v outside [0,1]", comp, cs.Value))
		}
		if cs.Confidence < 0 || cs.Confidence > 1 {
			violations = append(violations, fmt.Sprintf("%s confidence %v outside [0,1]", comp, cs.Confidence))
		}
		weightSum += cs.Weight
	}
	if len(result.Components) > 0 && math.Abs(weightSum-1.0) > weightSumTolerance {
		violations = append(violations, fmt.Sprintf("component weights sum to %v, want 1.0", weightSum))
	}

	if result.Degraded {
		// A degraded result must say which components fell back.
		explained := false
		for _, cs := range result.Components {
			for _, line := range cs.Explanation {
				if line != "" {
					explained = true
				}
			}
		}
		if !explained {
			violations = append(violations, "degraded result carries no explanation")
		}
	}

	return violations
}

// verifyBatch checks that every submitted job got exactly one in-range
// score back.
func verifyBatch(jobs []*model.Job, resp batchResponse) []string {
	var violations []string

	if len(resp.Scores) != len(jobs) {
		violations = append(violations, fmt.Sprintf("got %d scores for %d jobs", len(resp.Scores), len(jobs)))
	}
	for _, j := range jobs {
		score, ok := resp.Scores[j.ID]
		if !ok {
			violations = append(violations, fmt.Sprintf("job %s missing from response", j.ID))
			continue
		}
		if score.Value < 0 || score.Value > 1 {
			violations = append(violations, fmt.Sprintf("job %s score %v outside [0,1]", j.ID, score.Value))
		}
	}

	return violations
}
