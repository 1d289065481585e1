package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/camera"
	"github.com/Carmen-Shannon/oxy-cubes/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cubes/engine/scene"
	"github.com/Carmen-Shannon/oxy-cubes/engine/trigger"
	"github.com/Carmen-Shannon/oxy-cubes/engine/window"
)

// FrameTarget is the part of renderer.Renderer the engine drives: everything a scene draws
// through plus the surface and frame lifecycle.
type FrameTarget interface {
	scene.Renderer

	Resize(width, height int)
	BeginFrame() error
	EndFrame() error
	Present()
	DiscardFrame()
	Release()
}

// Drawable is the part of scene.Scene the engine renders.
type Drawable interface {
	Camera() camera.Camera
	Init(r scene.Renderer) error
	DrawCalls(r scene.Renderer) error
	Release()
}

// engine implements the Engine interface.
// All of its work happens on the goroutine that runs the window event loop.
type engine struct {
	mu *sync.Mutex

	window   window.Window
	target   FrameTarget
	scene    Drawable
	controls camera.MapControls

	trigger     trigger.RenderTrigger
	unsubscribe func()

	profiler         *profiler.Profiler
	profilingEnabled bool

	frames      uint64
	initialized bool

	quitOnce    sync.Once
	releaseOnce sync.Once
}

// Engine is the application context. It owns the window, the frame target and the scene and
// redraws only when the render trigger fires: once on load, after every camera control change
// and after every framebuffer resize.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Trigger returns the render trigger that schedules redraws.
	//
	// Returns:
	//   - trigger.RenderTrigger: the trigger
	Trigger() trigger.RenderTrigger

	// Profiler returns the redraw profiler. Stats are only recorded when profiling is enabled.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Run initializes the scene on the frame target, requests the load redraw and then runs the
	// window event loop until the window closes.
	//
	// Returns:
	//   - error: error if scene initialization fails
	Run() error

	// HandleResize reacts to a framebuffer resize. The camera aspect becomes width/height, the
	// surface is reconfigured and a resize redraw is requested. Non-positive sizes, as reported
	// while the window is minimized, are ignored.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	HandleResize(width, height int)

	// Render draws one frame: BeginFrame, the scene's draw calls, EndFrame and Present.
	//
	// Returns:
	//   - error: the first error hit while producing the frame
	Render() error

	// Frames returns how many frames have been presented.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Quit asks the window to close, which ends Run.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Release frees the scene and frame target and closes the window.
	//
	// Returns:
	//   - error: error if the window fails to close
	Release() error
}

var _ Engine = &engine{}

// NewEngine creates a new Engine from the provided options.
// A window, a frame target and a scene are required. When no trigger is supplied a new one is
// created; camera controllers must notify the same trigger for control changes to redraw.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:       &sync.Mutex{},
		profiler: profiler.NewProfiler(),
	}
	for _, opt := range options {
		opt(e)
	}

	if e.window == nil || e.target == nil || e.scene == nil {
		panic("engine requires a window, a frame target and a scene")
	}
	if e.trigger == nil {
		e.trigger = trigger.NewRenderTrigger()
	}

	if e.controls != nil {
		e.controls.Attach(e.window)
	}
	e.window.SetKeyDownCallback(e.handleKeyDown)
	e.window.SetResizeCallback(e.HandleResize)
	e.unsubscribe = e.trigger.Subscribe(e.redraw)

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Trigger() trigger.RenderTrigger {
	return e.trigger
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = true
	e.mu.Unlock()
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = false
	e.mu.Unlock()
}

func (e *engine) Run() error {
	if err := e.init(); err != nil {
		return err
	}
	e.trigger.Notify(trigger.ReasonLoad)
	e.window.ProcessMessages()
	return nil
}

func (e *engine) HandleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if c := e.scene.Camera(); c != nil {
		c.SetAspect(float32(width) / float32(height))
	}
	e.target.Resize(width, height)
	e.trigger.Notify(trigger.ReasonResize)
}

func (e *engine) Render() error {
	e.mu.Lock()
	ready := e.initialized
	e.mu.Unlock()
	if !ready {
		return scene.ErrNotInitialized
	}

	if err := e.target.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	if err := e.scene.DrawCalls(e.target); err != nil {
		// A half-drawn frame is dropped so the next event can acquire a new surface texture.
		e.target.DiscardFrame()
		return fmt.Errorf("draw scene: %w", err)
	}
	if err := e.target.EndFrame(); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}
	e.target.Present()

	e.mu.Lock()
	e.frames++
	e.mu.Unlock()
	return nil
}

func (e *engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// Quit requests the window to close.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.window.RequestClose()
	})
}

func (e *engine) Release() error {
	var err error
	e.releaseOnce.Do(func() {
		if e.unsubscribe != nil {
			e.unsubscribe()
		}
		e.scene.Release()
		e.target.Release()
		err = e.window.Close()
	})
	return err
}

// init allocates the scene's GPU resources once.
func (e *engine) init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return nil
	}
	if err := e.scene.Init(e.target); err != nil {
		return fmt.Errorf("init scene: %w", err)
	}
	e.initialized = true
	return nil
}

// redraw is the trigger subscriber. Frame errors are logged and the next event retries.
func (e *engine) redraw(reason trigger.Reason) {
	start := time.Now()
	if err := e.Render(); err != nil {
		log.Printf("[Engine] %s redraw failed: %v", reason, err)
		return
	}

	e.mu.Lock()
	profiling := e.profilingEnabled
	e.mu.Unlock()
	if profiling {
		e.profiler.Record(reason, time.Since(start))
	}
}

// handleKeyDown closes the window on Escape and forwards every other key to the map controls.
func (e *engine) handleKeyDown(keyCode uint32) {
	if keyCode == common.KeyEsc {
		e.Quit()
		return
	}
	if e.controls != nil {
		e.controls.KeyDown(keyCode)
	}
}
