package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates cfg from the process environment using `env` struct tags.
// cfg must be a pointer to a struct.
//
//	type Config struct {
//	    Port        int    `env:"HTTP_PORT" envDefault:"8080"`
//	    Environment string `env:"ENVIRONMENT" envDefault:"development"`
//	}
//
// Defaults come from `envDefault`; list values split on `envSeparator`.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
