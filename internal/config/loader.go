package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// weightSumTolerance mirrors the domain invariant on the base vector.
const weightSumTolerance = 1e-6

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if NEXTVISION_CONFIG is set
//  3. env (prefix NEXTVISION_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("NEXTVISION_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: NEXTVISION_ADDR, NEXTVISION_CACHE_CAPACITY, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("NEXTVISION_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "nextvision_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the startup invariants. Configuration errors abort
// startup; they never surface as degraded requests.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.MatchDeadlineMS <= 0 {
		return fmt.Errorf("%w: match_deadline_ms must be positive", ErrInvalidConfig)
	}
	if c.QueryTimeoutMS >= c.BatchTimeoutMS {
		return fmt.Errorf("%w: query_timeout_ms (%d) must be below batch_timeout_ms (%d)",
			ErrInvalidConfig, c.QueryTimeoutMS, c.BatchTimeoutMS)
	}
	if c.BatchConcurrency <= 0 {
		return fmt.Errorf("%w: batch_concurrency must be positive", ErrInvalidConfig)
	}
	if c.TrafficPenalty < 0 || c.TrafficPenalty > 1 {
		return fmt.Errorf("%w: traffic_penalty must be in [0,1]", ErrInvalidConfig)
	}

	// A configured base vector must sum to one up front; the resolver
	// re-checks, but the failure should name the config key.
	if len(c.BaseWeights) > 0 {
		var sum float64
		for component, w := range c.BaseWeights {
			if w < 0 {
				return fmt.Errorf("%w: base_weights[%s] is negative", ErrInvalidConfig, component)
			}
			sum += w
		}
		if math.Abs(sum-1.0) > weightSumTolerance {
			return fmt.Errorf("%w: base_weights sum to %v, want 1.0", ErrInvalidConfig, sum)
		}
	}

	for name, v := range c.NeutralDefaults {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: neutral_defaults[%s] = %v outside [0,1]", ErrInvalidConfig, name, v)
		}
	}

	return nil
}
