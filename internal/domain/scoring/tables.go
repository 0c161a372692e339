package scoring

import (
	"fmt"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// Table is a string-keyed lookup with a declared default. Tables are
// loaded from configuration at startup and never mutated afterwards; a
// table without a default is a configuration error.
type Table struct {
	Entries map[string]float64
	Default *float64
}

// Lookup returns the value for key, falling back to the declared default.
func (t Table) Lookup(key string) float64 {
	if v, ok := t.Entries[key]; ok {
		return v
	}
	if t.Default != nil {
		return *t.Default
	}
	// Validate guarantees a default; this is unreachable after startup.
	return fallbackNeutral
}

// Validate checks the table against name for startup diagnostics.
func (t Table) Validate(name string) error {
	if t.Default == nil {
		return fmt.Errorf("%w: table %q has no declared default", ErrInvalidTable, name)
	}
	for k, v := range t.Entries {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: table %q entry %q = %v outside [0,1]", ErrInvalidTable, name, k, v)
		}
	}
	if *t.Default < 0 || *t.Default > 1 {
		return fmt.Errorf("%w: table %q default %v outside [0,1]", ErrInvalidTable, name, *t.Default)
	}
	return nil
}

// Tables bundles every externally-loaded lookup table the profile
// scorers read. The maps are data, not control flow: updating a sector
// score or an urgency bucket requires no code change.
type Tables struct {
	// UrgencyScores maps a job urgency bucket to a timing score.
	UrgencyScores Table

	// SectorAttractiveness maps a job sector to its market attractiveness.
	SectorAttractiveness Table

	// ContractRanks maps a contract type to a baseline desirability used
	// when the candidate declared no contract preference.
	ContractRanks Table

	// NeutralDefaults carries the per-component value returned when a
	// scorer is missing its required inputs.
	NeutralDefaults map[model.Component]float64
}

// NeutralDefault returns the configured missing-input value for c.
func (t *Tables) NeutralDefault(c model.Component) float64 {
	if v, ok := t.NeutralDefaults[c]; ok {
		return v
	}
	return fallbackNeutral
}

// Validate checks every table. It is called once at startup; a failure
// here aborts the process rather than degrading requests.
func (t *Tables) Validate() error {
	if err := t.UrgencyScores.Validate("urgency_scores"); err != nil {
		return err
	}
	if err := t.SectorAttractiveness.Validate("sector_attractiveness"); err != nil {
		return err
	}
	if err := t.ContractRanks.Validate("contract_ranks"); err != nil {
		return err
	}
	for c, v := range t.NeutralDefaults {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: neutral default for %q = %v outside [0,1]", ErrInvalidTable, c, v)
		}
	}
	return nil
}

// DefaultTables returns the built-in tables used when configuration
// supplies none. Values mirror the shipped config file.
func DefaultTables() *Tables {
	def := func(v float64) *float64 { return &v }
	return &Tables{
		UrgencyScores: Table{
			Entries: map[string]float64{
				"immediate": 1.0,
				"high":      0.85,
				"normal":    0.7,
				"low":       0.5,
			},
			Default: def(0.6),
		},
		SectorAttractiveness: Table{
			Entries: map[string]float64{
				"tech":       0.9,
				"finance":    0.8,
				"healthcare": 0.75,
				"industry":   0.65,
				"retail":     0.55,
				"public":     0.6,
			},
			Default: def(0.6),
		},
		ContractRanks: Table{
			Entries: map[string]float64{
				"permanent":  0.9,
				"fixed-term": 0.65,
				"freelance":  0.6,
				"internship": 0.4,
			},
			Default: def(0.5),
		},
		NeutralDefaults: map[model.Component]float64{
			model.ComponentSemantic:   0.5,
			model.ComponentSalary:     0.5,
			model.ComponentExperience: 0.5,
			model.ComponentSector:     0.6,
			model.ComponentContract:   0.5,
			model.ComponentTiming:     0.6,
			model.ComponentTransport:  0.6,
		},
	}
}
