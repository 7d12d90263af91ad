package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "POSTIT_"

// parseEnv overlays cfg with POSTIT_* variables. A nil environ reads the
// process environment. Unset variables leave fields untouched.
func parseEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: envPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
