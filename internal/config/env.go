// Package config loads the recordkit command configuration from the
// environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the command configuration. Flags override these values.
type Config struct {
	LogLevel string `env:"RECORDKIT_LOG_LEVEL" envDefault:"info"`
	Format   string `env:"RECORDKIT_FORMAT" envDefault:"yaml"`
	Lang     string `env:"RECORDKIT_LANG" envDefault:"en"`
	// Stacks lists directories searched for stack names.
	Stacks []string `env:"RECORDKIT_STACKS" envSeparator:":"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
