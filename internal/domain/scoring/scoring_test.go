package scoring_test

import (
	"context"
	"testing"

	"github.com/Bapt252/nextvision/internal/domain/model"
	scoring "github.com/Bapt252/nextvision/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func TestTables(t *testing.T) {
	Convey("Given the shipped default tables", t, func() {
		tables := scoring.DefaultTables()

		Convey("When validating them", func() {
			So(tables.Validate(), ShouldBeNil)
		})

		Convey("When looking up a known key", func() {
			So(tables.UrgencyScores.Lookup("immediate"), ShouldEqual, 1.0)
		})

		Convey("When looking up an unknown key", func() {
			Convey("Then the declared default applies", func() {
				So(tables.SectorAttractiveness.Lookup("agritech"), ShouldEqual, 0.6)
			})
		})

		Convey("When a table has no default", func() {
			bad := scoring.Table{Entries: map[string]float64{"x": 0.5}}

			Convey("Then validation fails", func() {
				So(bad.Validate("bad"), ShouldWrap, scoring.ErrInvalidTable)
			})
		})

		Convey("When a table entry is outside [0,1]", func() {
			bad := scoring.Table{Entries: map[string]float64{"x": 1.5}, Default: f(0.5)}

			Convey("Then validation fails", func() {
				So(bad.Validate("bad"), ShouldWrap, scoring.ErrInvalidTable)
			})
		})
	})
}

func TestSemanticScorer(t *testing.T) {
	Convey("Given a semantic scorer", t, func() {
		s := scoring.NewSemanticScorer(scoring.DefaultTables())
		ctx := context.Background()

		Convey("When the candidate covers every required skill", func() {
			c := &model.Candidate{Skills: []string{"Go", "SQL", "Docker"}}
			j := &model.Job{RequiredSkills: []string{"go", "sql", "docker"}}

			score := s.Score(ctx, c, j)

			Convey("Then the score is full and case did not matter", func() {
				So(score.Value, ShouldAlmostEqual, 1.0, 1e-9)
				So(score.Explanation[0], ShouldContainSubstring, "3/3")
			})
		})

		Convey("When half the required skills are missing", func() {
			c := &model.Candidate{Skills: []string{"go"}}
			j := &model.Job{RequiredSkills: []string{"go", "rust"}}

			score := s.Score(ctx, c, j)

			Convey("Then the score is proportional and names the gap", func() {
				So(score.Value, ShouldAlmostEqual, 0.5, 1e-9)
				So(score.Explanation[1], ShouldContainSubstring, "rust")
			})
		})

		Convey("When nice-to-have skills contribute", func() {
			c := &model.Candidate{Skills: []string{"go", "kubernetes"}}
			j := &model.Job{
				RequiredSkills:   []string{"go"},
				NiceToHaveSkills: []string{"kubernetes", "terraform"},
			}

			score := s.Score(ctx, c, j)

			Convey("Then the split is 85/15", func() {
				So(score.Value, ShouldAlmostEqual, 0.85+0.15*0.5, 1e-9)
			})
		})

		Convey("When skills are missing on one side", func() {
			score := s.Score(ctx, &model.Candidate{}, &model.Job{RequiredSkills: []string{"go"}})

			Convey("Then the neutral default applies with low confidence", func() {
				So(s.HasInput(&model.Candidate{}, &model.Job{RequiredSkills: []string{"go"}}), ShouldBeFalse)
				So(score.Value, ShouldEqual, 0.5)
				So(score.Confidence, ShouldEqual, 0.3)
				So(score.Explanation[0], ShouldContainSubstring, "neutral default")
			})
		})
	})
}

func TestSalaryScorer(t *testing.T) {
	Convey("Given a salary scorer", t, func() {
		s := scoring.NewSalaryScorer(scoring.DefaultTables())
		ctx := context.Background()

		Convey("When the expectation sits at or below the offered minimum", func() {
			c := &model.Candidate{ExpectedSalary: f(40_000)}
			j := &model.Job{SalaryMin: f(42_000), SalaryMax: f(50_000)}

			score := s.Score(ctx, c, j)

			Convey("Then the fit is perfect", func() {
				So(score.Value, ShouldEqual, 1.0)
			})
		})

		Convey("When the expectation sits mid-range", func() {
			c := &model.Candidate{ExpectedSalary: f(46_000)}
			j := &model.Job{SalaryMin: f(42_000), SalaryMax: f(50_000)}

			score := s.Score(ctx, c, j)

			Convey("Then the fit decays linearly toward the floor", func() {
				So(score.Value, ShouldAlmostEqual, 0.8, 1e-9)
			})
		})

		Convey("When the expectation exceeds the offered maximum", func() {
			c := &model.Candidate{ExpectedSalary: f(75_000)}
			j := &model.Job{SalaryMin: f(42_000), SalaryMax: f(50_000)}

			score := s.Score(ctx, c, j)

			Convey("Then the fit decays with the overshoot", func() {
				So(score.Value, ShouldAlmostEqual, 0.6*50_000/75_000, 1e-9)
				So(score.Value, ShouldBeLessThan, 0.6)
			})
		})

		Convey("When the offer progresses from the current salary", func() {
			c := &model.Candidate{ExpectedSalary: f(45_000), CurrentSalary: f(40_000)}
			j := &model.Job{SalaryMin: f(45_000), SalaryMax: f(52_000)}

			score := s.Score(ctx, c, j)

			Convey("Then the progression bonus applies with high confidence", func() {
				So(score.Value, ShouldEqual, 1.0) // clamped
				So(score.Confidence, ShouldEqual, 0.9)
				So(score.Explanation, ShouldHaveLength, 2)
			})
		})

		Convey("When the candidate has no current salary", func() {
			c := &model.Candidate{ExpectedSalary: f(45_000), EmploymentStatus: model.StatusFreelance}
			j := &model.Job{SalaryMin: f(42_000), SalaryMax: f(50_000)}

			Convey("Then the expectation alone still scores", func() {
				So(s.HasInput(c, j), ShouldBeTrue)
				score := s.Score(ctx, c, j)
				So(score.Value, ShouldBeGreaterThan, 0.6)
				So(score.Confidence, ShouldEqual, 0.7)
			})
		})

		Convey("When the expectation is missing", func() {
			score := s.Score(ctx, &model.Candidate{}, &model.Job{SalaryMax: f(50_000)})

			Convey("Then the neutral default applies", func() {
				So(score.Value, ShouldEqual, 0.5)
				So(score.Confidence, ShouldEqual, 0.3)
			})
		})
	})
}

func TestExperienceScorer(t *testing.T) {
	Convey("Given an experience scorer", t, func() {
		s := scoring.NewExperienceScorer(scoring.DefaultTables())
		ctx := context.Background()

		Convey("When held experience meets the requirement", func() {
			score := s.Score(ctx, &model.Candidate{ExperienceYears: f(5)}, &model.Job{RequiredExperienceYears: f(4)})
			So(score.Value, ShouldEqual, 1.0)
		})

		Convey("When held experience falls short", func() {
			score := s.Score(ctx, &model.Candidate{ExperienceYears: f(2)}, &model.Job{RequiredExperienceYears: f(4)})
			So(score.Value, ShouldAlmostEqual, 0.5, 1e-9)
		})

		Convey("When the candidate is far overqualified", func() {
			score := s.Score(ctx, &model.Candidate{ExperienceYears: f(10)}, &model.Job{RequiredExperienceYears: f(4)})

			Convey("Then the score is damped, not zeroed", func() {
				So(score.Value, ShouldEqual, 0.9)
			})
		})

		Convey("When the job declares no requirement", func() {
			score := s.Score(ctx, &model.Candidate{ExperienceYears: f(1)}, &model.Job{RequiredExperienceYears: f(0)})
			So(score.Value, ShouldEqual, 1.0)
		})
	})
}

func TestSectorScorer(t *testing.T) {
	Convey("Given a sector scorer", t, func() {
		s := scoring.NewSectorScorer(scoring.DefaultTables())
		ctx := context.Background()

		Convey("When the sector is looked up without preferences", func() {
			score := s.Score(ctx, &model.Candidate{}, &model.Job{Sector: "tech"})

			Convey("Then the table value applies with modest confidence", func() {
				So(score.Value, ShouldEqual, 0.9)
				So(score.Confidence, ShouldEqual, 0.6)
			})
		})

		Convey("When the sector matches a target", func() {
			c := &model.Candidate{TargetSectors: []string{"Finance"}}
			score := s.Score(ctx, c, &model.Job{Sector: "finance"})

			Convey("Then the bonus applies case-insensitively", func() {
				So(score.Value, ShouldAlmostEqual, 1.0, 1e-9)
				So(score.Confidence, ShouldEqual, 0.9)
			})
		})

		Convey("When the sector is avoided", func() {
			c := &model.Candidate{AvoidSectors: []string{"retail"}}
			score := s.Score(ctx, c, &model.Job{Sector: "retail"})

			Convey("Then the penalty applies", func() {
				So(score.Value, ShouldAlmostEqual, 0.55-0.3, 1e-9)
			})
		})
	})
}

func TestContractScorer(t *testing.T) {
	Convey("Given a contract scorer", t, func() {
		s := scoring.NewContractScorer(scoring.DefaultTables())
		ctx := context.Background()

		Convey("When the offer matches the first preference", func() {
			c := &model.Candidate{PreferredContracts: []string{"permanent", "freelance"}}
			score := s.Score(ctx, c, &model.Job{ContractType: "permanent"})
			So(score.Value, ShouldEqual, 1.0)
		})

		Convey("When the offer matches the second preference", func() {
			c := &model.Candidate{PreferredContracts: []string{"permanent", "freelance"}}
			score := s.Score(ctx, c, &model.Job{ContractType: "freelance"})
			So(score.Value, ShouldEqual, 0.8)
		})

		Convey("When declared preferences exclude the offer", func() {
			c := &model.Candidate{PreferredContracts: []string{"permanent"}}
			score := s.Score(ctx, c, &model.Job{ContractType: "internship"})

			Convey("Then the rank table value is halved", func() {
				So(score.Value, ShouldAlmostEqual, 0.2, 1e-9)
				So(score.Explanation[0], ShouldContainSubstring, "not among declared preferences")
			})
		})

		Convey("When no preferences are declared", func() {
			score := s.Score(ctx, &model.Candidate{}, &model.Job{ContractType: "fixed-term"})

			Convey("Then the rank table applies with modest confidence", func() {
				So(score.Value, ShouldEqual, 0.65)
				So(score.Confidence, ShouldEqual, 0.6)
			})
		})
	})
}

func TestTimingScorer(t *testing.T) {
	Convey("Given a timing scorer", t, func() {
		s := scoring.NewTimingScorer(scoring.DefaultTables())
		ctx := context.Background()

		Convey("When only urgency is known", func() {
			score := s.Score(ctx, &model.Candidate{}, &model.Job{Urgency: "high"})
			So(score.Value, ShouldEqual, 0.85)
			So(score.Confidence, ShouldEqual, 0.6)
		})

		Convey("When availability fits the start window", func() {
			c := &model.Candidate{AvailabilityWeeks: i(2)}
			j := &model.Job{Urgency: "normal", StartWindowWeeks: i(4)}
			score := s.Score(ctx, c, j)

			So(score.Value, ShouldEqual, 0.7)
			So(score.Confidence, ShouldEqual, 0.9)
		})

		Convey("When the candidate is available too late", func() {
			c := &model.Candidate{AvailabilityWeeks: i(8)}
			j := &model.Job{Urgency: "immediate", StartWindowWeeks: i(2)}
			score := s.Score(ctx, c, j)

			Convey("Then the late-availability penalty applies", func() {
				So(score.Value, ShouldAlmostEqual, 0.7, 1e-9)
			})
		})
	})
}
