package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"

	"github.com/housevarsha/catalog-service/pkg/validator"
)

// Load parses environment variables into the provided struct and then
// validates it. The struct should use `env` tags to define mappings and
// may use `validate` tags for constraints.
//
// Example:
//
//	type Config struct {
//	    Port     int    `env:"HTTP_PORT" envDefault:"8080" validate:"gte=1,lte=65535"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := validator.Validate(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
