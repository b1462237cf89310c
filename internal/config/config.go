package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hyugeso/planner/server/internal/lib/routing"
)

// Config represents the complete planner configuration. It is read from the
// "planner" section of prefab.yaml (or PF__PLANNER__* environment variables).
type Config struct {
	Provider ProviderConfig `koanf:"provider" yaml:"provider"`
	Matching MatchingConfig `koanf:"matching" yaml:"matching"`
}

// ProviderConfig holds route provider settings
type ProviderConfig struct {
	BaseURL         string        `koanf:"base_url" yaml:"base_url"`
	Timeout         time.Duration `koanf:"timeout" yaml:"timeout"`
	CacheTTL        time.Duration `koanf:"cache_ttl" yaml:"cache_ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval" yaml:"cleanup_interval"`

	// WarmRoutes are re-planned every WarmInterval to keep them cached.
	WarmRoutes   []RoutePair   `koanf:"warm_routes" yaml:"warm_routes"`
	WarmInterval time.Duration `koanf:"warm_interval" yaml:"warm_interval"`
}

// RoutePair names a start/end lookup.
type RoutePair struct {
	Start string `koanf:"start" yaml:"start"`
	End   string `koanf:"end" yaml:"end"`
}

// MatchingConfig holds the proximity parameters used for every request.
type MatchingConfig struct {
	ThresholdMeters float64 `koanf:"threshold_meters" yaml:"threshold_meters"`
	Stride          int     `koanf:"stride" yaml:"stride"`
	Mode            string  `koanf:"mode" yaml:"mode"`
}

// Unmarshaler is satisfied by prefab.Config.
type Unmarshaler interface {
	Unmarshal(path string, o interface{}) error
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:         "http://localhost:5000",
			Timeout:         30 * time.Second,
			CacheTTL:        10 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			WarmInterval:    5 * time.Minute,
		},
		Matching: MatchingConfig{
			ThresholdMeters: routing.DefaultThresholdMeters,
			Stride:          routing.DefaultStride,
			Mode:            string(routing.Sampled),
		},
	}
}

// Load overlays the "planner" section from source onto DefaultConfig and
// validates the result.
func Load(source Unmarshaler) (*Config, error) {
	cfg := DefaultConfig()
	if err := source.Unmarshal("planner", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal planner section: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the planner cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Provider.BaseURL == "" {
		errs = append(errs, errors.New("provider.base_url is required"))
	} else if u, err := url.Parse(c.Provider.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("provider.base_url %q is not an absolute URL", c.Provider.BaseURL))
	}
	if c.Provider.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("provider.timeout must be positive, got %s", c.Provider.Timeout))
	}
	if c.Provider.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("provider.cache_ttl must not be negative, got %s", c.Provider.CacheTTL))
	}
	if c.Provider.CleanupInterval <= 0 {
		errs = append(errs, fmt.Errorf("provider.cleanup_interval must be positive, got %s", c.Provider.CleanupInterval))
	}
	if len(c.Provider.WarmRoutes) > 0 && c.Provider.WarmInterval <= 0 {
		errs = append(errs, fmt.Errorf("provider.warm_interval must be positive when warm_routes are set, got %s", c.Provider.WarmInterval))
	}
	for i, r := range c.Provider.WarmRoutes {
		if strings.TrimSpace(r.Start) == "" || strings.TrimSpace(r.End) == "" {
			errs = append(errs, fmt.Errorf("provider.warm_routes[%d] needs both start and end", i))
		}
	}
	if c.Matching.ThresholdMeters <= 0 {
		errs = append(errs, fmt.Errorf("matching.threshold_meters must be positive, got %v", c.Matching.ThresholdMeters))
	}
	if c.Matching.Stride < 1 {
		errs = append(errs, fmt.Errorf("matching.stride must be at least 1, got %d", c.Matching.Stride))
	}
	if _, err := routing.ParseProximityMode(c.Matching.Mode); err != nil {
		errs = append(errs, fmt.Errorf("matching.mode: %w", err))
	}

	return errors.Join(errs...)
}

// ProximityIndex builds the routing index described by the matching section.
func (c *Config) ProximityIndex() (routing.ProximityIndex, error) {
	mode, err := routing.ParseProximityMode(c.Matching.Mode)
	if err != nil {
		return routing.ProximityIndex{}, err
	}
	return routing.ProximityIndex{
		ThresholdMeters: c.Matching.ThresholdMeters,
		Stride:          c.Matching.Stride,
		Mode:            mode,
	}, nil
}
