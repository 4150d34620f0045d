package config

import (
	"context"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SAVOR_CONFIG is set
//  3. env (prefix SAVOR_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SAVOR_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: SAVOR_ADDR, SAVOR_STORAGE, ...
	// Map env keys like SAVOR_MAX_LEADERBOARD_LIMIT -> max_leaderboard_limit
	// (flat keys; underscores preserved to match koanf tags on the struct).
	envProvider := env.Provider("SAVOR_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "savor_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, ErrEmptyAddr
	}
	if cfg.Storage != "memory" && cfg.Storage != "postgres" {
		return nil, ErrUnknownStorage
	}
	if cfg.Storage == "postgres" && cfg.PostgresDSN == "" {
		return nil, ErrMissingDSN
	}
	return &cfg, nil
}
