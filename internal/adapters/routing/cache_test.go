package routing_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	routing "github.com/Bapt252/nextvision/internal/adapters/routing"
	"github.com/Bapt252/nextvision/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeProvider returns canned results and counts calls.
type fakeProvider struct {
	mu      sync.Mutex
	calls   atomic.Int64
	err     error
	block   chan struct{}
	minutes float64
}

func (p *fakeProvider) Route(_ context.Context, q model.TravelQuery) (routing.RouteResult, error) {
	p.calls.Add(1)
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return routing.RouteResult{}, p.err
	}
	return routing.RouteResult{DurationMinutes: p.minutes, DistanceKm: 12}, nil
}

func (p *fakeProvider) setError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func query(origin string, mode model.TravelMode) model.TravelQuery {
	return model.TravelQuery{
		Origin:        origin,
		Destination:   "48.8566,2.3522",
		Mode:          mode,
		BudgetMinutes: 45,
	}
}

func TestCache(t *testing.T) {
	Convey("Given a route cache over a healthy provider", t, func() {
		ctx := context.Background()
		provider := &fakeProvider{minutes: 25}
		clock := newTestClock()
		cache := routing.NewCache(provider, routing.NewBreaker(), routing.NewEstimator(),
			routing.WithTTL(time.Hour),
			routing.WithCapacity(3),
			routing.WithCacheClock(clock.Now),
		)

		Convey("When the same query repeats within the TTL", func() {
			first := cache.Route(ctx, query("a", model.ModeVehicle))
			second := cache.Route(ctx, query("a", model.ModeVehicle))

			Convey("Then the provider is called exactly once", func() {
				So(provider.calls.Load(), ShouldEqual, 1)
				So(first, ShouldResemble, second)
				So(cache.Snapshot().Hits, ShouldEqual, 1)
				So(cache.Snapshot().Misses, ShouldEqual, 1)
			})
		})

		Convey("When the TTL expires", func() {
			cache.Route(ctx, query("a", model.ModeVehicle))
			clock.Advance(2 * time.Hour)
			cache.Route(ctx, query("a", model.ModeVehicle))

			Convey("Then the entry is refreshed upstream", func() {
				So(provider.calls.Load(), ShouldEqual, 2)
			})
		})

		Convey("When the capacity is exceeded", func() {
			cache.Route(ctx, query("a", model.ModeVehicle))
			cache.Route(ctx, query("b", model.ModeVehicle))
			cache.Route(ctx, query("c", model.ModeVehicle))

			// Touch "a" so "b" becomes the eviction candidate.
			cache.Route(ctx, query("a", model.ModeVehicle))
			cache.Route(ctx, query("d", model.ModeVehicle))

			Convey("Then the least recently used entry is evicted", func() {
				So(cache.Len(), ShouldEqual, 3)
				So(cache.Snapshot().Evictions, ShouldEqual, 1)

				before := provider.calls.Load()
				cache.Route(ctx, query("a", model.ModeVehicle))
				So(provider.calls.Load(), ShouldEqual, before)

				cache.Route(ctx, query("b", model.ModeVehicle))
				So(provider.calls.Load(), ShouldEqual, before+1)
			})
		})

		Convey("When mode differs for the same address pair", func() {
			cache.Route(ctx, query("a", model.ModeVehicle))
			cache.Route(ctx, query("a", model.ModeBike))

			Convey("Then each mode is its own entry", func() {
				So(provider.calls.Load(), ShouldEqual, 2)
				So(cache.Len(), ShouldEqual, 2)
			})
		})

		Convey("When identical queries arrive concurrently", func() {
			provider.block = make(chan struct{})

			var wg sync.WaitGroup
			results := make([]routing.RouteResult, 8)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = cache.Route(ctx, query("a", model.ModeVehicle))
				}(i)
			}

			// Let the goroutines pile up on the in-flight call.
			time.Sleep(50 * time.Millisecond)
			close(provider.block)
			wg.Wait()

			Convey("Then the in-flight call is shared", func() {
				So(provider.calls.Load(), ShouldEqual, 1)
				for _, r := range results {
					So(r.DurationMinutes, ShouldEqual, 25)
				}
			})
		})
	})

	Convey("Given a route cache over a failing provider", t, func() {
		ctx := context.Background()
		provider := &fakeProvider{minutes: 25}
		provider.setError(&routing.ProviderError{Kind: routing.KindQuotaExceeded, Err: fmt.Errorf("quota")})
		breaker := routing.NewBreaker(routing.WithFailureThreshold(2))
		cache := routing.NewCache(provider, breaker, routing.NewEstimator())

		Convey("When the provider fails", func() {
			res := cache.Route(ctx, query("a", model.ModeVehicle))

			Convey("Then the estimator serves the result and nothing errors", func() {
				So(res.Estimated, ShouldBeTrue)
				So(res.DurationMinutes, ShouldBeGreaterThan, 0)
			})

			Convey("Then estimates are not cached", func() {
				cache.Route(ctx, query("a", model.ModeVehicle))
				So(cache.Len(), ShouldEqual, 0)
				So(provider.calls.Load(), ShouldEqual, 2)
			})
		})

		Convey("When failures trip the breaker", func() {
			cache.Route(ctx, query("a", model.ModeVehicle))
			cache.Route(ctx, query("b", model.ModeVehicle))

			Convey("Then further lookups skip the provider entirely", func() {
				So(breaker.State(), ShouldEqual, routing.StateOpen)

				before := provider.calls.Load()
				res := cache.Route(ctx, query("c", model.ModeVehicle))
				So(provider.calls.Load(), ShouldEqual, before)
				So(res.Estimated, ShouldBeTrue)
				So(cache.Snapshot().CircuitState, ShouldEqual, "open")
			})
		})

		Convey("When the provider recovers after a failure", func() {
			cache.Route(ctx, query("a", model.ModeVehicle))
			provider.setError(nil)

			res := cache.Route(ctx, query("a", model.ModeVehicle))

			Convey("Then fresh provider results replace the estimates", func() {
				So(res.Estimated, ShouldBeFalse)
				So(res.DurationMinutes, ShouldEqual, 25)
				So(cache.Len(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a route cache with no provider at all", t, func() {
		ctx := context.Background()
		cache := routing.NewCache(nil, routing.NewBreaker(), routing.NewEstimator())

		Convey("When a route is requested", func() {
			res := cache.Route(ctx, query("a", model.ModeWalking))

			Convey("Then the estimator answers directly", func() {
				So(res.Estimated, ShouldBeTrue)
				So(res.DurationMinutes, ShouldBeGreaterThan, 0)
			})
		})
	})
}
