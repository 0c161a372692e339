package transport_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Bapt252/nextvision/internal/adapters/routing"
	"github.com/Bapt252/nextvision/internal/domain/model"
	transport "github.com/Bapt252/nextvision/internal/transport"
	"github.com/Bapt252/nextvision/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeRouter serves canned durations per mode.
type fakeRouter struct {
	durations map[model.TravelMode]float64
	traffic   map[model.TravelMode]bool
	estimated bool
	panics    bool
}

func (r *fakeRouter) Route(_ context.Context, q model.TravelQuery) routing.RouteResult {
	if r.panics {
		panic("router blew up")
	}
	return routing.RouteResult{
		DurationMinutes: r.durations[q.Mode],
		HasTrafficDelay: r.traffic[q.Mode],
		Estimated:       r.estimated,
	}
}

func candidateWithModes(prefs ...model.TravelPreference) *model.Candidate {
	return &model.Candidate{
		ID:                "cand-1",
		Location:          "48.8443,2.3743",
		TravelPreferences: prefs,
	}
}

func job(id string) *model.Job {
	return &model.Job{ID: id, Location: "48.8918,2.2362"}
}

func TestScorer(t *testing.T) {
	Convey("Given a transport scorer over a fake router", t, func() {
		ctx := context.Background()

		Convey("When scoring the reference commute scenario", func() {
			// Four declared modes; two fit their budgets.
			router := &fakeRouter{durations: map[model.TravelMode]float64{
				model.ModePublicTransport: 28,
				model.ModeVehicle:         22,
				model.ModeBike:            45,
				model.ModeWalking:         78,
			}}
			s := transport.NewScorer(router)
			c := candidateWithModes(
				model.TravelPreference{Mode: model.ModePublicTransport, BudgetMinutes: 45},
				model.TravelPreference{Mode: model.ModeVehicle, BudgetMinutes: 35},
				model.TravelPreference{Mode: model.ModeBike, BudgetMinutes: 25},
				model.TravelPreference{Mode: model.ModeWalking, BudgetMinutes: 45},
			)

			score := s.Score(ctx, c, job("job-1"))

			Convey("Then the score lands near 0.84 with a full explanation trail", func() {
				So(score.Value, ShouldAlmostEqual, 0.84, 0.02)
				So(score.Confidence, ShouldEqual, 0.9)

				So(score.Explanation, ShouldHaveLength, 6)
				So(score.Explanation[4], ShouldContainSubstring, "best option vehicle (22min)")
				So(score.Explanation[5], ShouldContainSubstring, "2/4 modes compatible (bonus x1.15)")
			})
		})

		Convey("When more modes become compatible", func() {
			router := &fakeRouter{durations: map[model.TravelMode]float64{
				model.ModePublicTransport: 20,
				model.ModeVehicle:         20,
				model.ModeBike:            20,
				model.ModeWalking:         20,
			}}
			s := transport.NewScorer(router)

			prefs := []model.TravelPreference{
				{Mode: model.ModePublicTransport, BudgetMinutes: 30},
				{Mode: model.ModeVehicle, BudgetMinutes: 30},
				{Mode: model.ModeBike, BudgetMinutes: 30},
				{Mode: model.ModeWalking, BudgetMinutes: 30},
			}

			var previous float64
			for n := 1; n <= len(prefs); n++ {
				score := s.Score(ctx, candidateWithModes(prefs[:n]...), job("job-1"))

				Convey(fmt.Sprintf("Then the flexibility bonus never decreases the score at %d modes", n), func() {
					So(score.Value, ShouldBeGreaterThanOrEqualTo, previous)
				})
				previous = score.Value
			}
		})

		Convey("When no declared mode fits its budget", func() {
			router := &fakeRouter{durations: map[model.TravelMode]float64{
				model.ModeWalking: 120,
			}}
			s := transport.NewScorer(router)
			c := candidateWithModes(model.TravelPreference{Mode: model.ModeWalking, BudgetMinutes: 20})

			score := s.Score(ctx, c, job("job-1"))

			Convey("Then the score collapses but stays in range", func() {
				So(score.Value, ShouldBeBetweenOrEqual, 0.0, 1.0)
				So(score.Value, ShouldBeLessThan, 0.2)
				So(score.Explanation[1], ShouldContainSubstring, "0/1 modes compatible")
			})
		})

		Convey("When the best mode reports traffic", func() {
			base := &fakeRouter{durations: map[model.TravelMode]float64{model.ModeVehicle: 25}}
			withTraffic := &fakeRouter{
				durations: map[model.TravelMode]float64{model.ModeVehicle: 25},
				traffic:   map[model.TravelMode]bool{model.ModeVehicle: true},
			}
			pref := model.TravelPreference{Mode: model.ModeVehicle, BudgetMinutes: 40}

			clean := transport.NewScorer(base).Score(ctx, candidateWithModes(pref), job("job-1"))
			delayed := transport.NewScorer(withTraffic).Score(ctx, candidateWithModes(pref), job("job-1"))

			Convey("Then reliability drags the score down", func() {
				So(delayed.Value, ShouldBeLessThan, clean.Value)
			})
		})

		Convey("When routes come from the fallback estimator", func() {
			router := &fakeRouter{
				durations: map[model.TravelMode]float64{model.ModeVehicle: 25},
				estimated: true,
			}
			s := transport.NewScorer(router)
			c := candidateWithModes(model.TravelPreference{Mode: model.ModeVehicle, BudgetMinutes: 40})

			score := s.Score(ctx, c, job("job-1"))

			Convey("Then confidence drops below provider-backed scores", func() {
				So(score.Confidence, ShouldAlmostEqual, 0.5, 1e-9)
			})
		})

		Convey("When locations or modes are missing", func() {
			s := transport.NewScorer(&fakeRouter{})

			Convey("Then the neutral default applies with low confidence", func() {
				c := &model.Candidate{ID: "cand-1"}
				So(s.HasInput(c, job("job-1")), ShouldBeFalse)

				score := s.Score(ctx, c, job("job-1"))
				So(score.Value, ShouldEqual, 0.6)
				So(score.Confidence, ShouldEqual, 0.3)
			})
		})
	})
}
