package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.IsEnabled())
	assert.Equal(t, "lsb", cfg.Codec)
	assert.Equal(t, OnErrorPassthrough, cfg.OnError)
	assert.False(t, cfg.Debug)
	assert.NotEmpty(t, cfg.Seed, "a default seed must be generated")

	other := Default()
	assert.NotEqual(t, cfg.Seed, other.Seed, "default seeds must be fresh per config")
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	enabled := false
	cfg := &Config{
		Enabled: &enabled,
		Codec:   "lsb-permute",
		Seed:    "fixed",
		OnError: OnErrorThrow,
	}
	cfg.ApplyDefaults()

	assert.False(t, cfg.IsEnabled())
	assert.Equal(t, "lsb-permute", cfg.Codec)
	assert.Equal(t, "fixed", cfg.Seed)
	assert.Equal(t, OnErrorThrow, cfg.OnError)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty is valid", Config{}, ""},
		{"known policies", Config{OnError: OnErrorDrop}, ""},
		{"unknown policy", Config{OnError: "explode"}, "invalid on_error policy"},
		{"media without kind or path", Config{CoverMedia: []MediaSpec{{}}}, "needs a kind or a path"},
		{"generated media without size", Config{CoverMedia: []MediaSpec{{Kind: "noise"}}}, "needs a positive size"},
		{"file media", Config{CoverMedia: []MediaSpec{{Path: "/tmp/cover.bin"}}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
enabled: true
codec: lsb-permute
seed: file-seed
on_error: drop
debug: true
cover_media:
  - kind: noise
    size: 4096
  - kind: text
    size: 2048
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "lsb-permute", cfg.Codec)
		assert.Equal(t, "file-seed", cfg.Seed)
		assert.Equal(t, OnErrorDrop, cfg.OnError)
		assert.True(t, cfg.Debug)
		require.Len(t, cfg.CoverMedia, 2)
		assert.Equal(t, "noise", cfg.CoverMedia[0].Kind)
		assert.Equal(t, 4096, cfg.CoverMedia[0].Size)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yaml")
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("codec: [unclosed"), 0o600))
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invalid.yaml")
		require.NoError(t, os.WriteFile(path, []byte("on_error: explode"), 0o600))
		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestUpdateApply(t *testing.T) {
	cfg := Default()
	originalSeed := cfg.Seed

	t.Run("nil fields leave config untouched", func(t *testing.T) {
		next := *cfg
		(&Update{}).Apply(&next)
		assert.Equal(t, *cfg, next)
	})

	t.Run("set fields replace whole values", func(t *testing.T) {
		next := *cfg
		enabled := false
		policy := OnErrorThrow
		(&Update{Enabled: &enabled, OnError: &policy}).Apply(&next)

		assert.False(t, next.IsEnabled())
		assert.Equal(t, OnErrorThrow, next.OnError)
		assert.Equal(t, originalSeed, next.Seed)
	})
}
