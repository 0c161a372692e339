package routing

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

const (
	earthRadiusKm = 6371.0

	// routeDetourFactor inflates the straight-line distance to approximate
	// a real road/transit route.
	routeDetourFactor = 1.3

	// defaultCommuteKm is assumed when neither address carries coordinates.
	defaultCommuteKm = 10.0

	minutesPerHour = 60.0
)

// defaultModeSpeeds are average door-to-door speeds in km/h.
var defaultModeSpeeds = map[model.TravelMode]float64{
	model.ModeVehicle:         40,
	model.ModePublicTransport: 25,
	model.ModeBike:            15,
	model.ModeWalking:         4.5,
}

// Estimator is the terminal fallback in the route chain: a coarse
// duration from straight-line distance and a mode average speed. It
// never fails.
type Estimator struct {
	speeds    map[model.TravelMode]float64
	defaultKm float64
}

// EstimatorOption applies a configuration option to the Estimator.
type EstimatorOption func(*Estimator)

// WithModeSpeeds overrides the average speed table (km/h).
func WithModeSpeeds(speeds map[model.TravelMode]float64) EstimatorOption {
	return func(e *Estimator) {
		for mode, kmh := range speeds {
			if kmh > 0 {
				e.speeds[mode] = kmh
			}
		}
	}
}

// WithDefaultDistance overrides the assumed commute distance used when
// coordinates are unavailable.
func WithDefaultDistance(km float64) EstimatorOption {
	return func(e *Estimator) {
		if km > 0 {
			e.defaultKm = km
		}
	}
}

// NewEstimator creates an estimator with the default speed table.
func NewEstimator(opts ...EstimatorOption) *Estimator {
	e := &Estimator{
		speeds:    make(map[model.TravelMode]float64, len(defaultModeSpeeds)),
		defaultKm: defaultCommuteKm,
	}
	for mode, kmh := range defaultModeSpeeds {
		e.speeds[mode] = kmh
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Route implements Provider. The returned error is always nil.
func (e *Estimator) Route(_ context.Context, q model.TravelQuery) (RouteResult, error) {
	distance := e.defaultKm
	if oLat, oLng, ok := parseLatLng(q.Origin); ok {
		if dLat, dLng, ok2 := parseLatLng(q.Destination); ok2 {
			distance = haversineKm(oLat, oLng, dLat, dLng) * routeDetourFactor
		}
	}

	speed := e.speeds[q.Mode]
	if speed <= 0 {
		speed = defaultModeSpeeds[model.ModeVehicle]
	}

	return RouteResult{
		DurationMinutes: distance / speed * minutesPerHour,
		DistanceKm:      distance,
		Estimated:       true,
	}, nil
}

// parseLatLng accepts "lat,lng" address strings, the form the profile
// parser emits when it has geocoded a location.
func parseLatLng(addr string) (lat, lng float64, ok bool) {
	parts := strings.Split(addr, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

// haversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
