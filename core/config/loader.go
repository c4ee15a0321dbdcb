package config

import (
	"fmt"
	"os"

	"github.com/stegoflow/stegoflow/pkg/securerandom"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML configuration file, fills defaults, and validates
// the result.
func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in '%s': %w", path, err)
	}
	return &cfg, nil
}

// randomSeed returns a fresh hex seed for engines configured without
// an explicit one.
func randomSeed() string {
	seed, err := securerandom.Hex(16)
	if err != nil {
		// crypto/rand failing means the platform entropy source is
		// broken; nothing sensible can run in that state.
		panic(fmt.Sprintf("config: failed to generate default seed: %v", err))
	}
	return seed
}
