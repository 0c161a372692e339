package routing_test

import (
	"context"
	"testing"

	routing "github.com/Bapt252/nextvision/internal/adapters/routing"
	"github.com/Bapt252/nextvision/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEstimator(t *testing.T) {
	Convey("Given the fallback estimator", t, func() {
		ctx := context.Background()
		e := routing.NewEstimator()

		Convey("When both addresses carry coordinates", func() {
			// Paris Gare de Lyon to La Defense, roughly 12km straight line.
			q := model.TravelQuery{
				Origin:      "48.8443,2.3743",
				Destination: "48.8918,2.2362",
				Mode:        model.ModeVehicle,
			}
			res, err := e.Route(ctx, q)

			Convey("Then the duration follows distance and mode speed", func() {
				So(err, ShouldBeNil)
				So(res.Estimated, ShouldBeTrue)
				So(res.DistanceKm, ShouldBeBetween, 10.0, 20.0)
				So(res.DurationMinutes, ShouldBeBetween, 15.0, 30.0)
			})
		})

		Convey("When addresses are free-form text", func() {
			q := model.TravelQuery{
				Origin:      "12 rue de la Paix, Paris",
				Destination: "Tour Montparnasse",
				Mode:        model.ModeBike,
			}
			res, err := e.Route(ctx, q)

			Convey("Then the default commute distance applies", func() {
				So(err, ShouldBeNil)
				So(res.DistanceKm, ShouldEqual, 10.0)
				So(res.DurationMinutes, ShouldAlmostEqual, 10.0/15.0*60.0, 1e-9)
			})
		})

		Convey("When a slower mode is used over the same route", func() {
			q := model.TravelQuery{Origin: "a", Destination: "b", Mode: model.ModeVehicle}
			fast, _ := e.Route(ctx, q)
			q.Mode = model.ModeWalking
			slow, _ := e.Route(ctx, q)

			Convey("Then walking takes longer than driving", func() {
				So(slow.DurationMinutes, ShouldBeGreaterThan, fast.DurationMinutes)
			})
		})

		Convey("When the speed table is overridden", func() {
			custom := routing.NewEstimator(
				routing.WithModeSpeeds(map[model.TravelMode]float64{model.ModeBike: 30}),
				routing.WithDefaultDistance(5),
			)
			res, _ := custom.Route(ctx, model.TravelQuery{Origin: "a", Destination: "b", Mode: model.ModeBike})

			So(res.DurationMinutes, ShouldAlmostEqual, 5.0/30.0*60.0, 1e-9)
		})
	})
}
