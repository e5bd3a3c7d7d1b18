package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by the CLI
const (
	EnvSeed        = "CUTGEN_SEED"
	EnvDatabaseURL = "DATABASE_URL"
)

// EnvConfig holds values that may come from the environment (or a .env file).
type EnvConfig struct {
	Seed        uint64
	DatabaseURL string
}

// NewEnvConfig reads CUTGEN_SEED (optional, default 0) and DATABASE_URL (optional).
func NewEnvConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{DatabaseURL: os.Getenv(EnvDatabaseURL)}

	seedStr := os.Getenv(EnvSeed)
	if seedStr == "" {
		return cfg, nil
	}

	seed, err := strconv.ParseUint(seedStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an unsigned integer: %w", EnvSeed, err)
	}
	cfg.Seed = seed
	return cfg, nil
}
