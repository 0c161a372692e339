// Package routing wraps the external route provider behind a TTL+LRU
// cache, a circuit breaker and a fallback estimator.
//
// The package guarantee is that route lookups never fail: every provider
// error kind is absorbed here and converted into an estimated result.
package routing

import (
	"context"
	"fmt"

	"github.com/Bapt252/nextvision/internal/domain/model"
)

// ErrorKind classifies provider failures.
type ErrorKind string

// Provider error kinds.
const (
	KindTimeout        ErrorKind = "timeout"
	KindQuotaExceeded  ErrorKind = "quota_exceeded"
	KindInvalidAddress ErrorKind = "invalid_address"
	KindUnknown        ErrorKind = "unknown"
)

// ProviderError is a typed provider failure. It never propagates past
// this package.
type ProviderError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("route provider: %s", e.Kind)
	}
	return fmt.Sprintf("route provider: %s: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// RouteResult is the outcome of one travel computation. Estimated marks
// results produced by the fallback estimator rather than the provider.
type RouteResult struct {
	DurationMinutes float64 `json:"duration_minutes"`
	DistanceKm      float64 `json:"distance_km"`
	HasTrafficDelay bool    `json:"has_traffic_delay"`
	Estimated       bool    `json:"estimated"`
}

// Provider computes one route for an (origin, destination, mode) triple.
type Provider interface {
	Route(ctx context.Context, q model.TravelQuery) (RouteResult, error)
}
