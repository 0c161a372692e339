package app_test

import (
	"context"
	"testing"

	app "github.com/Bapt252/nextvision/internal/app"
	config "github.com/Bapt252/nextvision/internal/config"
	"github.com/Bapt252/nextvision/internal/domain/model"
	"github.com/Bapt252/nextvision/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func f(v float64) *float64 { return &v }

func testCandidate() *model.Candidate {
	return &model.Candidate{
		ID:              "cand-1",
		Skills:          []string{"go", "sql"},
		ExpectedSalary:  f(45_000),
		ExperienceYears: f(5),
		Location:        "48.8443,2.3743",
		TravelPreferences: []model.TravelPreference{
			{Mode: model.ModeVehicle, BudgetMinutes: 45},
			{Mode: model.ModePublicTransport, BudgetMinutes: 60},
		},
	}
}

func testJob(id string) *model.Job {
	return &model.Job{
		ID:                      id,
		RequiredSkills:          []string{"go", "sql"},
		SalaryMin:               f(42_000),
		SalaryMax:               f(52_000),
		RequiredExperienceYears: f(3),
		Sector:                  "tech",
		ContractType:            "permanent",
		Urgency:                 "high",
		Location:                "48.8918,2.2362",
	}
}

func TestService(t *testing.T) {
	Convey("Given a service built from default configuration", t, func() {
		ctx := context.Background()
		svc, err := app.New(config.New())
		So(err, ShouldBeNil)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When matching a strong candidate against a fitting job", func() {
			result := svc.Match(ctx, testCandidate(), testJob("job-1"), model.MatchContext{})

			Convey("Then the result is complete, in range and not degraded", func() {
				So(result.FinalScore, ShouldBeBetweenOrEqual, 0.0, 1.0)
				So(result.FinalScore, ShouldBeGreaterThan, 0.6)
				So(result.Degraded, ShouldBeFalse)
				So(result.Components, ShouldContainKey, model.ComponentSemantic)
				So(result.Components, ShouldContainKey, model.ComponentTransport)
			})
		})

		Convey("When matching profiles with no usable input", func() {
			result := svc.Match(ctx, &model.Candidate{ID: "cand-2"}, &model.Job{ID: "job-2"}, model.MatchContext{})

			Convey("Then the result is maximally uncertain and degraded", func() {
				So(result.FinalScore, ShouldEqual, 0.5)
				So(result.Degraded, ShouldBeTrue)
			})
		})

		Convey("When batch scoring transport across jobs", func() {
			jobs := []*model.Job{testJob("job-1"), testJob("job-2"), testJob("job-3")}
			scores := svc.BatchTransport(ctx, testCandidate(), jobs)

			Convey("Then every job gets exactly one score", func() {
				So(len(scores), ShouldEqual, 3)
				for _, j := range jobs {
					So(scores, ShouldContainKey, j.ID)
				}
			})
		})

		Convey("When reading stats", func() {
			svc.Match(ctx, testCandidate(), testJob("job-1"), model.MatchContext{})
			stats := svc.Stats()

			Convey("Then the monitoring snapshot is populated", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats, ShouldContainKey, "route_cache")
				So(stats, ShouldContainKey, "transport")
			})
		})

		Convey("When starting twice", func() {
			Convey("Then the second start is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given invalid configuration", t, func() {
		Convey("When the configured base weights do not sum to one", func() {
			cfg := config.New()
			cfg.BaseWeights = map[string]float64{"semantic": 0.5, "salary": 0.6}

			_, err := app.New(cfg)

			Convey("Then construction fails instead of degrading requests", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a configured table entry escapes [0,1]", func() {
			cfg := config.New()
			cfg.UrgencyScores = map[string]float64{"immediate": 1.7}

			_, err := app.New(cfg)

			So(err, ShouldNotBeNil)
		})
	})
}
