package engine

import (
	"github.com/Carmen-Shannon/oxy-cubes/engine/camera"
	"github.com/Carmen-Shannon/oxy-cubes/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cubes/engine/trigger"
	"github.com/Carmen-Shannon/oxy-cubes/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler to record redraws into
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithWindow sets the window the engine listens to and presents into.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithFrameTarget sets the renderer frames are drawn with.
//
// Parameters:
//   - t: the frame target, usually a renderer.Renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameTarget(t FrameTarget) EngineBuilderOption {
	return func(e *engine) {
		e.target = t
	}
}

// WithScene sets the scene drawn on every redraw.
//
// Parameters:
//   - s: the scene, usually a scene.Scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s Drawable) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithTrigger sets the render trigger the engine subscribes to.
//
// Parameters:
//   - t: the render trigger shared with the camera controller
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTrigger(t trigger.RenderTrigger) EngineBuilderOption {
	return func(e *engine) {
		e.trigger = t
	}
}

// WithControls attaches map controls to the window during construction.
//
// Parameters:
//   - c: the map controls driving the scene camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithControls(c camera.MapControls) EngineBuilderOption {
	return func(e *engine) {
		e.controls = c
	}
}
