package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// parseEnv overlays cfg with PETSYNC_* environment variables. Unset
// variables leave the current value in place. It panics on malformed values.
func parseEnv(cfg *Config) {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		panic(fmt.Errorf("read environment: %w", err))
	}
}

// EnvUsage describes the supported environment variables.
func EnvUsage() (string, error) {
	return cleanenv.GetDescription(&Config{}, nil)
}
