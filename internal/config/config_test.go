package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "m4k.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint32(45390874), cfg.Seed)
	w, h := cfg.BufferSize()
	assert.Equal(t, 200, w)
	assert.Equal(t, 150, h)
	assert.Equal(t, time.Second/60, cfg.FrameBudget())
	assert.InDelta(t, 1.5708, cfg.FOVRadians(), 1e-4)

	sky, err := cfg.SkyColor()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x80, G: 0xc0, B: 0xff, A: 0xff}, sky)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
seed: 7
workers: 3
world:
  height: 32
render:
  fog: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(7), cfg.Seed)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 32, cfg.World.Height)
	assert.False(t, cfg.Render.Fog)

	// Untouched fields keep their defaults.
	assert.Equal(t, 64, cfg.World.Width)
	assert.True(t, cfg.World.Trees)
	assert.Equal(t, 60, cfg.MaxFPS)
	assert.Equal(t, "#80c0ff", cfg.Render.Sky)
}

func TestLoadEnvFallback(t *testing.T) {
	path := writeFile(t, "seed: 99\n")
	t.Setenv(EnvPath, path)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint32(99), cfg.Seed)
}

func TestLoadNoPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "seed: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "sead: 1\n"))
	assert.Error(t, err, "unknown keys must be rejected")

	_, err = Load(writeFile(t, "max_fps: -1\n"))
	assert.ErrorContains(t, err, "max_fps")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Window.Scale = 0
	cfg.World.Depth = 0
	cfg.Render.FOV = 180
	cfg.Render.Distance = 0
	cfg.Render.Sky = "blue"
	cfg.Workers = -2

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"scale", "world size", "fov_degrees", "distance", "sky", "workers"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestValidateScaleLargerThanWindow(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 3
	assert.ErrorContains(t, cfg.Validate(), "smaller than scale")
}

func TestUnlimitedFrameRate(t *testing.T) {
	cfg := Default()
	cfg.MaxFPS = 0
	require.NoError(t, cfg.Validate())
	assert.Zero(t, cfg.FrameBudget())
}

func TestParseSeed(t *testing.T) {
	v, err := ParseSeed("45390874")
	require.NoError(t, err)
	assert.Equal(t, uint32(45390874), v)

	v, err = ParseSeed("4294967295")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xffffffff), v)

	for _, in := range []string{"4294967296", "-1", "", "12abc", "99999999999"} {
		_, err := ParseSeed(in)
		assert.Error(t, err, in)
	}
}

func TestSkyColor(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"#000000", true},
		{"#FfA0b1", true},
		{"#fff", false},
		{"ffffff", false},
		{"#gg0000", false},
		{"#0000001", false},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Render.Sky = tt.in
		_, err := cfg.SkyColor()
		assert.Equal(t, tt.ok, err == nil, tt.in)
	}
}
