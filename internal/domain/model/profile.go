// Package model contains domain models passed between layers.
package model

import "time"

// Component identifies one independently computed sub-score of a match.
type Component string

// The closed set of match components.
const (
	ComponentSemantic   Component = "semantic"
	ComponentSalary     Component = "salary"
	ComponentExperience Component = "experience"
	ComponentSector     Component = "sector"
	ComponentContract   Component = "contract"
	ComponentTiming     Component = "timing"
	ComponentTransport  Component = "transport"
)

// Components returns every known component in a stable order.
func Components() []Component {
	return []Component{
		ComponentSemantic,
		ComponentSalary,
		ComponentExperience,
		ComponentSector,
		ComponentContract,
		ComponentTiming,
		ComponentTransport,
	}
}

// TravelMode is one way of commuting between two addresses.
type TravelMode string

// Supported travel modes.
const (
	ModePublicTransport TravelMode = "public-transport"
	ModeVehicle         TravelMode = "vehicle"
	ModeBike            TravelMode = "bike"
	ModeWalking         TravelMode = "walking"
)

// TravelModes returns every supported travel mode.
func TravelModes() []TravelMode {
	return []TravelMode{ModePublicTransport, ModeVehicle, ModeBike, ModeWalking}
}

// TravelPreference is a candidate-declared mode with its acceptable
// one-way commute budget.
type TravelPreference struct {
	Mode          TravelMode `json:"mode"`
	BudgetMinutes float64    `json:"budget_minutes"`
}

// ListeningReason is why a candidate is open to offers. It drives the
// adaptive weighting of components.
type ListeningReason string

// Known listening reasons.
const (
	ReasonUnspecified      ListeningReason = ""
	ReasonRemunerationLow  ListeningReason = "remuneration-too-low"
	ReasonPositionMismatch ListeningReason = "position-mismatch"
	ReasonLocationTooFar   ListeningReason = "location-too-far"
	ReasonCareerGrowth     ListeningReason = "career-growth"
	ReasonFlexibility      ListeningReason = "flexibility"
)

// EmploymentStatus is the candidate's current situation.
type EmploymentStatus string

// Known employment statuses.
const (
	StatusUnspecified EmploymentStatus = ""
	StatusEmployed    EmploymentStatus = "employed"
	StatusUnemployed  EmploymentStatus = "unemployed"
	StatusFreelance   EmploymentStatus = "freelance"
)

// Candidate is the profile supplied by the external parser. Every field
// is optional; scorers fall back to neutral defaults on gaps.
type Candidate struct {
	ID                 string             `json:"id"`
	Skills             []string           `json:"skills,omitempty"`
	CurrentSalary      *float64           `json:"current_salary,omitempty"`
	ExpectedSalary     *float64           `json:"expected_salary,omitempty"`
	ExperienceYears    *float64           `json:"experience_years,omitempty"`
	CurrentSector      string             `json:"current_sector,omitempty"`
	TargetSectors      []string           `json:"target_sectors,omitempty"`
	AvoidSectors       []string           `json:"avoid_sectors,omitempty"`
	PreferredContracts []string           `json:"preferred_contracts,omitempty"`
	AvailabilityWeeks  *int               `json:"availability_weeks,omitempty"`
	ListeningReason    ListeningReason    `json:"listening_reason,omitempty"`
	EmploymentStatus   EmploymentStatus   `json:"employment_status,omitempty"`
	Location           string             `json:"location,omitempty"`
	TravelPreferences  []TravelPreference `json:"travel_preferences,omitempty"`
}

// Job is the position profile supplied by the external parser.
type Job struct {
	ID                      string   `json:"id"`
	Title                   string   `json:"title,omitempty"`
	RequiredSkills          []string `json:"required_skills,omitempty"`
	NiceToHaveSkills        []string `json:"nice_to_have_skills,omitempty"`
	SalaryMin               *float64 `json:"salary_min,omitempty"`
	SalaryMax               *float64 `json:"salary_max,omitempty"`
	RequiredExperienceYears *float64 `json:"required_experience_years,omitempty"`
	Sector                  string   `json:"sector,omitempty"`
	ContractType            string   `json:"contract_type,omitempty"`
	StartWindowWeeks        *int     `json:"start_window_weeks,omitempty"`
	Urgency                 string   `json:"urgency,omitempty"`
	Location                string   `json:"location,omitempty"`
}

// MatchContext carries the request-scoped signals the weight resolver
// adapts on.
type MatchContext struct {
	ListeningReason  ListeningReason  `json:"listening_reason,omitempty"`
	EmploymentStatus EmploymentStatus `json:"employment_status,omitempty"`
	Urgency          string           `json:"urgency,omitempty"`
}

// ComponentScore is one normalized sub-score with its explanation trail.
// Immutable once produced.
type ComponentScore struct {
	Value       float64  `json:"value"`
	Weight      float64  `json:"weight"`
	Explanation []string `json:"explanation,omitempty"`
	Confidence  float64  `json:"confidence"`
}

// MatchResult is the outcome of one match computation. It is returned to
// the API layer and never retained.
type MatchResult struct {
	FinalScore float64                      `json:"final_score"`
	Components map[Component]ComponentScore `json:"components"`
	Degraded   bool                         `json:"degraded"`
	Elapsed    time.Duration                `json:"elapsed_ns"`
}

// TravelQuery asks for one (origin, destination, mode) route with the
// candidate's acceptable budget attached.
type TravelQuery struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	Mode          TravelMode `json:"mode"`
	BudgetMinutes float64    `json:"budget_minutes"`
}
