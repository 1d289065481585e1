// Package config loads the cubes demo settings from an optional TOML file.
// Every field has a default, so a missing file or a partial file is valid; values present in
// the file override the defaults one by one.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/material"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the file cmd/cubes reads from the working directory.
const DefaultPath = "cubes.toml"

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable of the demo.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Grid     GridConfig     `toml:"grid"`
	Material MaterialConfig `toml:"material"`
	Camera   CameraConfig   `toml:"camera"`
	Renderer RendererConfig `toml:"renderer"`
	Lights   LightsConfig   `toml:"lights"`
	Axes     AxesConfig     `toml:"axes"`
	Profiler ProfilerConfig `toml:"profiler"`
}

// WindowConfig sizes the window in screen coordinates.
type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`
}

// GridConfig controls the instance generator.
type GridConfig struct {
	// Side is N; the grid holds N*N cubes.
	Side int `toml:"side"`
	// Seed feeds the random source. Zero picks a time based seed.
	Seed int64 `toml:"seed"`
	// PackWorkers caps the goroutines packing instance data. Zero uses NumCPU-1, at least one.
	PackWorkers int `toml:"pack_workers"`
	// ChunkSize is the number of records packed per task.
	ChunkSize int `toml:"chunk_size"`
	// CubeSize is the edge length of the unit box before per-instance scaling.
	CubeSize float32 `toml:"cube_size"`
}

// MaterialConfig picks the cube material.
type MaterialConfig struct {
	Kind string `toml:"kind"`
}

// CameraConfig describes the perspective camera, where it starts and how the map controls
// respond to input.
type CameraConfig struct {
	FovDegrees float32    `toml:"fov"`
	Near       float32    `toml:"near"`
	Far        float32    `toml:"far"`
	Position   [3]float32 `toml:"position"`
	Target     [3]float32 `toml:"target"`
	MinRadius  float32    `toml:"min_radius"`
	MaxRadius  float32    `toml:"max_radius"`

	// RotateSpeed and PanSpeed scale drags; KeyPanSpeed is the pixel distance per arrow key.
	RotateSpeed float32 `toml:"rotate_speed"`
	PanSpeed    float32 `toml:"pan_speed"`
	KeyPanSpeed float32 `toml:"key_pan_speed"`
}

// RendererConfig tunes the surface and the render pass.
type RendererConfig struct {
	MSAA          int        `toml:"msaa"`
	VSync         bool       `toml:"vsync"`
	ClearColor    [4]float64 `toml:"clear_color"`
	ForceSoftware bool       `toml:"force_software"`
}

// LightsConfig holds the two scene lights.
type LightsConfig struct {
	Hemisphere  HemisphereConfig  `toml:"hemisphere"`
	Directional DirectionalConfig `toml:"directional"`
}

// HemisphereConfig is the sky/ground ambient light.
type HemisphereConfig struct {
	Sky       [3]float32 `toml:"sky"`
	Ground    [3]float32 `toml:"ground"`
	Intensity float32    `toml:"intensity"`
}

// DirectionalConfig is the key light shining toward the origin.
type DirectionalConfig struct {
	Color     [3]float32 `toml:"color"`
	Intensity float32    `toml:"intensity"`
	Position  [3]float32 `toml:"position"`
}

// AxesConfig controls the axes helper.
type AxesConfig struct {
	Enabled bool    `toml:"enabled"`
	Size    float32 `toml:"size"`
}

// ProfilerConfig controls redraw statistics logging.
type ProfilerConfig struct {
	Enabled    bool `toml:"enabled"`
	IntervalMS int  `toml:"interval_ms"`
}

// Interval returns the profiler log interval as a duration.
//
// Returns:
//   - time.Duration: the interval
func (p ProfilerConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMS) * time.Millisecond
}

// Default returns the settings the demo runs with when no file overrides them.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "oxy-cubes",
			Width:     1280,
			Height:    720,
			MinWidth:  320,
			MinHeight: 240,
		},
		Grid: GridConfig{
			Side:      500,
			ChunkSize: 16384,
			CubeSize:  1,
		},
		Material: MaterialConfig{Kind: material.KindLambert.String()},
		Camera: CameraConfig{
			FovDegrees: 55,
			Near:       0.1,
			Far:        1000,
			Position:   [3]float32{2, 2, 10},
			MinRadius:  0.5,
			MaxRadius:  900,

			RotateSpeed: 1,
			PanSpeed:    1,
			KeyPanSpeed: 7,
		},
		Renderer: RendererConfig{
			MSAA:       4,
			VSync:      true,
			ClearColor: [4]float64{0, 0, 0, 1},
		},
		Lights: LightsConfig{
			Hemisphere: HemisphereConfig{
				Sky:       [3]float32{1, 1, 1},
				Ground:    [3]float32{1, 1, 1},
				Intensity: 1,
			},
			Directional: DirectionalConfig{
				Color:     [3]float32{1, 1, 1},
				Intensity: 3,
				Position:  [3]float32{5, 5, 5},
			},
		},
		Axes: AxesConfig{
			Enabled: true,
			Size:    5,
		},
		Profiler: ProfilerConfig{
			IntervalMS: 1000,
		},
	}
}

// Load reads the TOML file at path over the defaults and validates the result.
// A missing file is not an error; the defaults are returned.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the loaded configuration
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result. Unknown keys are rejected so
// typos surface instead of silently keeping a default.
//
// Parameters:
//   - data: TOML document
//
// Returns:
//   - Config: the parsed configuration
//   - error: error if decoding or validation fails
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("parse toml at %d:%d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("parse toml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value the demo cannot run with.
//
// Returns:
//   - error: an error wrapping ErrInvalidConfig naming the first bad field
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return invalid("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Window.MinWidth < 0 || c.Window.MinHeight < 0:
		return invalid("window minimum size must not be negative, got %dx%d", c.Window.MinWidth, c.Window.MinHeight)
	case c.Grid.Side < 0:
		return invalid("grid.side must not be negative, got %d", c.Grid.Side)
	case c.Grid.PackWorkers < 0:
		return invalid("grid.pack_workers must not be negative, got %d", c.Grid.PackWorkers)
	case c.Grid.ChunkSize <= 0:
		return invalid("grid.chunk_size must be positive, got %d", c.Grid.ChunkSize)
	case c.Grid.CubeSize <= 0:
		return invalid("grid.cube_size must be positive, got %g", c.Grid.CubeSize)
	case c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180:
		return invalid("camera.fov must be in (0, 180), got %g", c.Camera.FovDegrees)
	case c.Camera.Near <= 0:
		return invalid("camera.near must be positive, got %g", c.Camera.Near)
	case c.Camera.Far <= c.Camera.Near:
		return invalid("camera.far must exceed camera.near, got %g <= %g", c.Camera.Far, c.Camera.Near)
	case c.Camera.Position == c.Camera.Target:
		return invalid("camera.position must differ from camera.target")
	case c.Camera.MinRadius <= 0 || c.Camera.MaxRadius < c.Camera.MinRadius:
		return invalid("camera radius bounds must satisfy 0 < min <= max, got [%g, %g]", c.Camera.MinRadius, c.Camera.MaxRadius)
	case c.Camera.RotateSpeed <= 0 || c.Camera.PanSpeed <= 0 || c.Camera.KeyPanSpeed <= 0:
		return invalid("camera control speeds must be positive, got rotate %g, pan %g, key pan %g",
			c.Camera.RotateSpeed, c.Camera.PanSpeed, c.Camera.KeyPanSpeed)
	case c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4:
		return invalid("renderer.msaa must be 1 or 4, got %d", c.Renderer.MSAA)
	case c.Lights.Hemisphere.Intensity < 0 || c.Lights.Directional.Intensity < 0:
		return invalid("light intensities must not be negative")
	case c.Lights.Directional.Position == [3]float32{}:
		return invalid("lights.directional.position must not be the origin, the light shines toward it")
	case c.Axes.Size < 0:
		return invalid("axes.size must not be negative, got %g", c.Axes.Size)
	case c.Profiler.IntervalMS < 0:
		return invalid("profiler.interval_ms must not be negative, got %d", c.Profiler.IntervalMS)
	}
	if _, err := material.ParseKind(c.Material.Kind); err != nil {
		return fmt.Errorf("%w: material.kind: %w", ErrInvalidConfig, err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
