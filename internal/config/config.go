// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers an optional YAML file and environment variables on top.
// - Validation here is the configuration-error boundary: a bad weight
//   vector or lookup table aborts startup and never degrades a request.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// GoogleMapsAPIKey enables the real route provider. Empty means the
	// fallback estimator serves every route.
	GoogleMapsAPIKey string `koanf:"google_maps_api_key"`

	// GoogleMapsRegion biases geocoding, e.g. "fr".
	GoogleMapsRegion string `koanf:"google_maps_region"`

	// MatchDeadlineMS is the per-match time budget in milliseconds.
	MatchDeadlineMS int `koanf:"match_deadline_ms"`

	// BaseWeights is the per-component base weight vector. Must sum to
	// 1.0; validated at load.
	BaseWeights map[string]float64 `koanf:"base_weights"`

	// NeutralDefaults is the per-component missing-input value.
	NeutralDefaults map[string]float64 `koanf:"neutral_defaults"`

	// Lookup tables for the profile scorers.
	UrgencyScores        map[string]float64 `koanf:"urgency_scores"`
	UrgencyDefault       *float64           `koanf:"urgency_default"`
	SectorAttractiveness map[string]float64 `koanf:"sector_attractiveness"`
	SectorDefault        *float64           `koanf:"sector_default"`
	ContractRanks        map[string]float64 `koanf:"contract_ranks"`
	ContractDefault      *float64           `koanf:"contract_default"`

	// Route cache tuning.
	CacheTTLMinutes int `koanf:"cache_ttl_minutes"`
	CacheCapacity   int `koanf:"cache_capacity"`

	// Circuit breaker tuning.
	BreakerThreshold       int `koanf:"breaker_threshold"`
	BreakerCooldownSeconds int `koanf:"breaker_cooldown_seconds"`
	BreakerWindowSeconds   int `koanf:"breaker_window_seconds"`

	// Transport engine tuning. QueryTimeoutMS must stay below
	// BatchTimeoutMS; validated at load.
	BatchConcurrency int `koanf:"batch_concurrency"`
	BatchTimeoutMS   int `koanf:"batch_timeout_ms"`
	QueryTimeoutMS   int `koanf:"query_timeout_ms"`

	// Fallback estimator tuning.
	ModeSpeedsKmh    map[string]float64 `koanf:"mode_speeds_kmh"`
	DefaultCommuteKm float64            `koanf:"default_commute_km"`

	// TrafficPenalty is subtracted from transport reliability when the
	// best mode reports a traffic delay.
	TrafficPenalty float64 `koanf:"traffic_penalty"`

	// WorkerCount reserved for future async scoring surfaces.
	WorkerCount int `koanf:"worker_count"`
}

// New creates a Config with defaults. Weight and table defaults live in
// the domain packages; nil maps here mean "use the shipped tables".
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9090",
		MatchDeadlineMS:        175,
		CacheTTLMinutes:        120,
		CacheCapacity:          1000,
		BreakerThreshold:       5,
		BreakerCooldownSeconds: 60,
		BreakerWindowSeconds:   60,
		BatchConcurrency:       10,
		BatchTimeoutMS:         10_000,
		QueryTimeoutMS:         2_000,
		DefaultCommuteKm:       10,
		TrafficPenalty:         0.15,
		WorkerCount:            runtime.NumCPU() * 2,
	}
}
