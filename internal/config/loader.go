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
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DRAFTBOARD_CONFIG is set
//  3. env (prefix DRAFTBOARD_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("DRAFTBOARD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, loadFailed(err)
		}
	}

	// Environment variables: DRAFTBOARD_ADDR, DRAFTBOARD_CURRENT_WEEK, ...
	// Map env keys like DRAFTBOARD_MAX_FILTERS -> max_filters (flat keys).
	// Preserve underscores to match koanf tags on the struct. List values
	// such as DEFAULT_MODELS are comma separated without spaces.
	envProvider := env.Provider("DRAFTBOARD_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "draftboard_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, loadFailed(err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, loadFailed(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
