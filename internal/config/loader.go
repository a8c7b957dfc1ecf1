package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if REFASSIGN_CONFIG is set
//  3. env (prefix REFASSIGN_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("REFASSIGN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: REFASSIGN_ADDR, REFASSIGN_PENALTY_HARD_CONFLICT, ...
	// Keys stay flat snake_case to match the koanf tags on the struct.
	envProvider := env.Provider("REFASSIGN_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "refassign_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ProximityWindowDays < 0:
		return fmt.Errorf("%w: proximity_window_days must not be negative", ErrInvalidConfig)
	case c.FixtureDurationMinutes <= 0:
		return fmt.Errorf("%w: fixture_duration_minutes must be positive", ErrInvalidConfig)
	case c.DefaultMaxWeekendFixtures < 1:
		return fmt.Errorf("%w: default_max_weekend_fixtures must be at least 1", ErrInvalidConfig)
	case c.DefaultMaxWeekendDays < 1:
		return fmt.Errorf("%w: default_max_weekend_days must be at least 1", ErrInvalidConfig)
	case c.DefaultWeekendCount < 1:
		return fmt.Errorf("%w: default_weekend_count must be at least 1", ErrInvalidConfig)
	}

	switch c.SuggestRole {
	case "referee", "assistant_1", "assistant_2", "commissioner":
	default:
		return fmt.Errorf("%w: unknown suggest_role %q", ErrInvalidConfig, c.SuggestRole)
	}
	return nil
}
