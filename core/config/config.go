package config

import (
	"fmt"
)

// Policy selects what Encode returns when it cannot proceed.
type Policy string

const (
	// OnErrorPassthrough returns a failure result whose Data is the
	// original, unmodified payload.
	OnErrorPassthrough Policy = "passthrough"
	// OnErrorThrow returns a non-nil error instead of a result.
	OnErrorThrow Policy = "throw"
	// OnErrorDrop returns a failure result with empty Data.
	OnErrorDrop Policy = "drop"
)

// MediaSpec describes one initial pool entry in a config file: either
// a generated cover (kind + size, optionally a per-entry seed) or the
// contents of a file on disk.
type MediaSpec struct {
	Kind string `yaml:"kind"`
	Size int    `yaml:"size,omitempty"`
	Path string `yaml:"path,omitempty"`
}

// Config is the Engine's effective configuration. Zero-value fields
// are filled by ApplyDefaults; updates go through Update so every
// field is replaced whole, never deep-merged.
type Config struct {
	Enabled    *bool       `yaml:"enabled,omitempty"`
	Codec      string      `yaml:"codec,omitempty"`
	Seed       string      `yaml:"seed,omitempty"`
	OnError    Policy      `yaml:"on_error,omitempty"`
	Debug      bool        `yaml:"debug,omitempty"`
	CoverMedia []MediaSpec `yaml:"cover_media,omitempty"`
}

// Default returns a fully populated configuration: engine enabled,
// plain LSB codec, passthrough failure policy, fresh random seed.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field. The seed default is a fresh
// random value, so two engines built from empty configs never share a
// scatter layout by accident.
func (c *Config) ApplyDefaults() {
	if c.Enabled == nil {
		enabled := true
		c.Enabled = &enabled
	}
	if c.Codec == "" {
		c.Codec = "lsb"
	}
	if c.Seed == "" {
		c.Seed = randomSeed()
	}
	if c.OnError == "" {
		c.OnError = OnErrorPassthrough
	}
}

// IsEnabled reports the effective bypass switch, defaulting to true.
func (c *Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Validate checks the configuration for values no Engine can act on.
func (c *Config) Validate() error {
	switch c.OnError {
	case "", OnErrorPassthrough, OnErrorThrow, OnErrorDrop:
	default:
		return fmt.Errorf("invalid on_error policy: %q (must be passthrough, throw, or drop)", c.OnError)
	}
	for i, spec := range c.CoverMedia {
		if spec.Path == "" && spec.Kind == "" {
			return fmt.Errorf("cover_media entry %d needs a kind or a path", i)
		}
		if spec.Path == "" && spec.Size <= 0 {
			return fmt.Errorf("cover_media entry %d (%s) needs a positive size", i, spec.Kind)
		}
	}
	return nil
}

// Update is a partial configuration change. Nil fields are left
// untouched; non-nil fields replace the current value whole. A non-nil
// CoverMedia replaces the Engine's entire pool (an empty slice clears
// it) and resets the round-robin cursor.
type Update struct {
	Enabled    *bool
	Codec      *string
	Seed       *string
	OnError    *Policy
	Debug      *bool
	CoverMedia *[][]byte
}

// Apply merges the update into c field by field.
func (u *Update) Apply(c *Config) {
	if u.Enabled != nil {
		enabled := *u.Enabled
		c.Enabled = &enabled
	}
	if u.Codec != nil {
		c.Codec = *u.Codec
	}
	if u.Seed != nil {
		c.Seed = *u.Seed
	}
	if u.OnError != nil {
		c.OnError = *u.OnError
	}
	if u.Debug != nil {
		c.Debug = *u.Debug
	}
}
