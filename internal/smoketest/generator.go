package smoketest

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

const randomFloatDivisor = 1_000_000

// Profile pools the generator draws from.
var (
	skillPool = []string{
		"go", "python", "sql", "docker", "kubernetes", "react",
		"terraform", "kafka", "redis", "grpc", "java", "rust",
	}
	sectorPool   = []string{"tech", "finance", "healthcare", "industry", "retail", "public"}
	contractPool = []string{"permanent", "fixed-term", "freelance", "internship"}
	urgencyPool  = []string{"immediate", "high", "normal", "low"}
	reasonPool   = []model.ListeningReason{
		model.ReasonRemunerationLow,
		model.ReasonPositionMismatch,
		model.ReasonLocationTooFar,
		model.ReasonCareerGrowth,
		model.ReasonFlexibility,
		model.ReasonUnspecified,
	}
	statusPool = []model.EmploymentStatus{
		model.StatusEmployed,
		model.StatusUnemployed,
		model.StatusFreelance,
	}
)

// randomFloat returns a random float64 in [0,1) using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func pick[T any](pool []T) T {
	return pool[randomInt(len(pool))]
}

// sample draws up to n distinct entries from pool.
func sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, 0, n)
	seen := make(map[int]bool, n)
	for len(out) < n {
		i := randomInt(len(pool))
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, pool[i])
	}
	return out
}

// parisLatLng returns a random coordinate pair inside greater Paris, the
// form the profile parser emits for geocoded locations.
func parisLatLng() string {
	lat := 48.75 + randomFloat()*0.25
	lng := 2.20 + randomFloat()*0.35
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// generateCandidate builds one randomized candidate. Roughly one field
// in five is left absent to exercise the neutral-default paths.
func generateCandidate() *model.Candidate {
	c := &model.Candidate{
		ID:               "smoke-" + uuid.NewString(),
		Skills:           sample(skillPool, 2+randomInt(5)),
		Location:         parisLatLng(),
		ListeningReason:  pick(reasonPool),
		EmploymentStatus: pick(statusPool),
	}
	if randomFloat() > 0.2 {
		c.ExpectedSalary = floatPtr(35_000 + randomFloat()*45_000)
	}
	if randomFloat() > 0.4 {
		c.CurrentSalary = floatPtr(30_000 + randomFloat()*40_000)
	}
	if randomFloat() > 0.2 {
		c.ExperienceYears = floatPtr(randomFloat() * 15)
	}
	if randomFloat() > 0.5 {
		c.TargetSectors = sample(sectorPool, 1+randomInt(2))
	}
	if randomFloat() > 0.7 {
		c.AvoidSectors = sample(sectorPool, 1)
	}
	if randomFloat() > 0.4 {
		c.PreferredContracts = sample(contractPool, 1+randomInt(2))
	}
	if randomFloat() > 0.3 {
		c.AvailabilityWeeks = intPtr(randomInt(12))
	}

	modes := model.TravelModes()
	count := 1 + randomInt(len(modes))
	for _, mode := range modes[:count] {
		c.TravelPreferences = append(c.TravelPreferences, model.TravelPreference{
			Mode:          mode,
			BudgetMinutes: 20 + randomFloat()*60,
		})
	}
	return c
}

// generateJob builds one randomized job profile.
func generateJob() *model.Job {
	j := &model.Job{
		ID:             "smoke-job-" + uuid.NewString(),
		Title:          "engineer",
		RequiredSkills: sample(skillPool, 2+randomInt(4)),
		Sector:         pick(sectorPool),
		ContractType:   pick(contractPool),
		Urgency:        pick(urgencyPool),
		Location:       parisLatLng(),
	}
	if randomFloat() > 0.3 {
		j.NiceToHaveSkills = sample(skillPool, 1+randomInt(3))
	}
	if randomFloat() > 0.2 {
		min := 32_000 + randomFloat()*30_000
		j.SalaryMin = floatPtr(min)
		j.SalaryMax = floatPtr(min + 5_000 + randomFloat()*20_000)
	}
	if randomFloat() > 0.2 {
		j.RequiredExperienceYears = floatPtr(randomFloat() * 10)
	}
	if randomFloat() > 0.4 {
		j.StartWindowWeeks = intPtr(1 + randomInt(10))
	}
	return j
}

func generateContext() model.MatchContext {
	return model.MatchContext{
		ListeningReason:  pick(reasonPool),
		EmploymentStatus: pick(statusPool),
		Urgency:          pick(urgencyPool),
	}
}
