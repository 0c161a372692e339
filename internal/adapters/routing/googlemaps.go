package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// trafficDelayFactor marks a route as traffic-delayed when the live
// duration exceeds the baseline by this factor.
const trafficDelayFactor = 1.1

// GoogleMapsProvider implements Provider against the Google Maps
// Directions API.
type GoogleMapsProvider struct {
	client *maps.Client
	region string
}

// GoogleMapsOption applies a configuration option to the provider.
type GoogleMapsOption func(*GoogleMapsProvider)

// WithRegion biases geocoding towards a region code, e.g. "fr".
func WithRegion(region string) GoogleMapsOption {
	return func(p *GoogleMapsProvider) {
		if region != "" {
			p.region = region
		}
	}
}

// NewGoogleMapsProvider creates a provider with the given API key.
func NewGoogleMapsProvider(apiKey string, opts ...GoogleMapsOption) (*GoogleMapsProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	p := &GoogleMapsProvider{client: client}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Route implements Provider. Failures are returned as *ProviderError for
// the cache/breaker boundary to absorb.
func (p *GoogleMapsProvider) Route(ctx context.Context, q model.TravelQuery) (RouteResult, error) {
	r := &maps.DirectionsRequest{
		Origin:        q.Origin,
		Destination:   q.Destination,
		Mode:          travelMode(q.Mode),
		Region:        p.region,
		DepartureTime: "now",
	}

	routes, _, err := p.client.Directions(ctx, r)
	if err != nil {
		return RouteResult{}, classify(err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return RouteResult{}, &ProviderError{Kind: KindInvalidAddress, Err: errors.New("no route found")}
	}

	leg := routes[0].Legs[0]
	duration := leg.Duration
	traffic := false
	if leg.DurationInTraffic > 0 {
		if leg.DurationInTraffic > time.Duration(float64(leg.Duration)*trafficDelayFactor) {
			traffic = true
		}
		duration = leg.DurationInTraffic
	}

	return RouteResult{
		DurationMinutes: duration.Minutes(),
		DistanceKm:      float64(leg.Distance.Meters) / 1000.0,
		HasTrafficDelay: traffic,
	}, nil
}

// travelMode maps domain modes to Directions API modes.
func travelMode(mode model.TravelMode) maps.Mode {
	switch mode {
	case model.ModePublicTransport:
		return maps.TravelModeTransit
	case model.ModeBike:
		return maps.TravelModeBicycling
	case model.ModeWalking:
		return maps.TravelModeWalking
	default:
		return maps.TravelModeDriving
	}
}

// classify converts a raw API failure into a typed ProviderError.
func classify(err error) *ProviderError {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return &ProviderError{Kind: KindTimeout, Err: err}
	case containsAny(err.Error(), "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT", "quota"):
		return &ProviderError{Kind: KindQuotaExceeded, Err: err}
	case containsAny(err.Error(), "NOT_FOUND", "ZERO_RESULTS", "INVALID_REQUEST"):
		return &ProviderError{Kind: KindInvalidAddress, Err: err}
	default:
		return &ProviderError{Kind: KindUnknown, Err: err}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
