package stegoflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stegoflow/stegoflow/core"
	"github.com/stegoflow/stegoflow/core/config"
	"github.com/stegoflow/stegoflow/core/covergen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoundTrip(t *testing.T) {
	cfg := &config.Config{
		Seed: "facade-seed",
		CoverMedia: []config.MediaSpec{
			{Kind: "noise", Size: 512},
		},
	}

	engine, err := New(cfg, nil)
	require.NoError(t, err)

	payload := []byte("through the front door")
	encoded, err := engine.Encode(payload)
	require.NoError(t, err)
	require.True(t, encoded.Success)

	decoded := engine.Decode(encoded.Data)
	require.True(t, decoded.Success)
	assert.Equal(t, payload, decoded.Data)
}

func TestNewResolvesConfiguredCodec(t *testing.T) {
	cfg := &config.Config{
		Codec: "lsb-permute",
		Seed:  "facade-seed",
		CoverMedia: []config.MediaSpec{
			{Kind: "text", Size: 1024},
		},
	}

	engine, err := New(cfg, nil)
	require.NoError(t, err)

	encoded, err := engine.Encode([]byte("scattered"))
	require.NoError(t, err)
	require.True(t, encoded.Success)
	assert.Equal(t, "lsb-permute", encoded.Codec)
}

func TestNewRejectsUnknownCodec(t *testing.T) {
	_, err := New(&config.Config{Codec: "rot13"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rot13")
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()

	binPath := filepath.Join(dir, "cover.bin")
	require.NoError(t, os.WriteFile(binPath, make([]byte, 600), 0o644))

	cfgPath := filepath.Join(dir, "stegoflow.yaml")
	cfgYAML := `
codec: lsb
seed: file-seed
on_error: drop
cover_media:
  - kind: noise
    size: 512
  - path: ` + binPath + `
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	engine, err := NewFromFile(cfgPath, nil)
	require.NoError(t, err)

	stats := engine.PoolStats()
	assert.Equal(t, 2, stats.Size)
	assert.Greater(t, stats.TotalCapacity, 0)
}

func TestNewFromFileImageCover(t *testing.T) {
	dir := t.TempDir()

	plane := make([]byte, 64*64)
	for i := range plane {
		plane[i] = byte(i % 251)
	}
	png, err := covergen.ToPNG(plane, 64)
	require.NoError(t, err)
	imgPath := filepath.Join(dir, "cover.png")
	require.NoError(t, os.WriteFile(imgPath, png, 0o644))

	cfgPath := filepath.Join(dir, "stegoflow.yaml")
	cfgYAML := `
seed: image-seed
cover_media:
  - kind: image
    path: ` + imgPath + `
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	engine, err := NewFromFile(cfgPath, nil)
	require.NoError(t, err)

	payload := []byte("under the pixels")
	encoded, err := engine.Encode(payload)
	require.NoError(t, err)
	require.True(t, encoded.Success)

	decoded := engine.Decode(encoded.Data)
	require.True(t, decoded.Success)
	assert.Equal(t, payload, decoded.Data)
}

func TestFacadeUpdateConfigAndEvents(t *testing.T) {
	engine, err := New(&config.Config{Seed: "facade-seed"}, nil)
	require.NoError(t, err)
	engine.AddCover(make([]byte, 256))

	var seen []core.EventKind
	cancel := engine.Subscribe(core.EventConfigUpdated, func(ev core.Event) {
		seen = append(seen, ev.Kind)
	})
	defer cancel()

	policy := config.OnErrorThrow
	require.NoError(t, engine.UpdateConfig(config.Update{OnError: &policy}))
	assert.Equal(t, []core.EventKind{core.EventConfigUpdated}, seen)
}
