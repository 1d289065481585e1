package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 500, cfg.Grid.Side)
	assert.Zero(t, cfg.Grid.Seed)
	assert.Equal(t, "lambert", cfg.Material.Kind)
	assert.Equal(t, float32(55), cfg.Camera.FovDegrees)
	assert.Equal(t, float32(0.1), cfg.Camera.Near)
	assert.Equal(t, float32(1000), cfg.Camera.Far)
	assert.Equal(t, [3]float32{2, 2, 10}, cfg.Camera.Position)
	assert.Equal(t, [3]float32{0, 0, 0}, cfg.Camera.Target)
	assert.Equal(t, float32(1), cfg.Camera.RotateSpeed)
	assert.Equal(t, float32(1), cfg.Camera.PanSpeed)
	assert.Equal(t, float32(7), cfg.Camera.KeyPanSpeed)
	assert.Equal(t, float32(3), cfg.Lights.Directional.Intensity)
	assert.Equal(t, [3]float32{5, 5, 5}, cfg.Lights.Directional.Position)
	assert.Equal(t, [3]float32{1, 1, 1}, cfg.Lights.Directional.Color)
	assert.Equal(t, float32(1), cfg.Lights.Hemisphere.Intensity)
	assert.True(t, cfg.Axes.Enabled)
	assert.Equal(t, float32(5), cfg.Axes.Size)
	assert.Equal(t, 4, cfg.Renderer.MSAA)
	assert.True(t, cfg.Renderer.VSync)
	assert.Equal(t, time.Second, cfg.Profiler.Interval())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultPath))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	doc := `
[window]
title = "cubes"

[grid]
side = 12
seed = 42

[material]
kind = "normal"

[camera]
fov = 60.0
position = [0.0, 5.0, 20.0]
rotate_speed = 0.5

[renderer]
msaa = 1
vsync = false
clear_color = [0.1, 0.2, 0.3, 1.0]

[lights.directional]
intensity = 1.5

[axes]
enabled = false

[profiler]
enabled = true
interval_ms = 250
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cubes", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width, "unset keys keep their default")
	assert.Equal(t, 12, cfg.Grid.Side)
	assert.Equal(t, int64(42), cfg.Grid.Seed)
	assert.Equal(t, "normal", cfg.Material.Kind)
	assert.Equal(t, float32(60), cfg.Camera.FovDegrees)
	assert.Equal(t, float32(0.1), cfg.Camera.Near)
	assert.Equal(t, [3]float32{0, 5, 20}, cfg.Camera.Position)
	assert.Equal(t, float32(0.5), cfg.Camera.RotateSpeed)
	assert.Equal(t, float32(7), cfg.Camera.KeyPanSpeed)
	assert.Equal(t, 1, cfg.Renderer.MSAA)
	assert.False(t, cfg.Renderer.VSync)
	assert.Equal(t, [4]float64{0.1, 0.2, 0.3, 1}, cfg.Renderer.ClearColor)
	assert.Equal(t, float32(1.5), cfg.Lights.Directional.Intensity)
	assert.Equal(t, [3]float32{5, 5, 5}, cfg.Lights.Directional.Position)
	assert.False(t, cfg.Axes.Enabled)
	assert.True(t, cfg.Profiler.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Profiler.Interval())
}

func TestLoad_ReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte("[grid]\nside = -1\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, path)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", "[grid\nside = 1"},
		{"wrong type", "[grid]\nside = \"big\""},
		{"unknown key", "[grid]\nsides = 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative side", func(c *Config) { c.Grid.Side = -1 }},
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative workers", func(c *Config) { c.Grid.PackWorkers = -2 }},
		{"zero chunk", func(c *Config) { c.Grid.ChunkSize = 0 }},
		{"zero cube", func(c *Config) { c.Grid.CubeSize = 0 }},
		{"flat fov", func(c *Config) { c.Camera.FovDegrees = 180 }},
		{"zero near", func(c *Config) { c.Camera.Near = 0 }},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }},
		{"eye on target", func(c *Config) { c.Camera.Position = c.Camera.Target }},
		{"inverted radius", func(c *Config) { c.Camera.MaxRadius = 0.1 }},
		{"zero rotate speed", func(c *Config) { c.Camera.RotateSpeed = 0 }},
		{"negative pan speed", func(c *Config) { c.Camera.PanSpeed = -1 }},
		{"zero key pan speed", func(c *Config) { c.Camera.KeyPanSpeed = 0 }},
		{"msaa 2", func(c *Config) { c.Renderer.MSAA = 2 }},
		{"negative light", func(c *Config) { c.Lights.Directional.Intensity = -1 }},
		{"light at origin", func(c *Config) { c.Lights.Directional.Position = [3]float32{} }},
		{"negative axes", func(c *Config) { c.Axes.Size = -5 }},
		{"negative interval", func(c *Config) { c.Profiler.IntervalMS = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidate_UnknownMaterial(t *testing.T) {
	cfg := Default()
	cfg.Material.Kind = "phong"

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, material.ErrUnknownKind)
}

func TestValidate_ZeroSideIsAllowed(t *testing.T) {
	cfg := Default()
	cfg.Grid.Side = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExampleFileMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "cubes.example.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
