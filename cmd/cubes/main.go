// Command cubes renders an N*N grid of randomly scaled and colored cubes laid over a sine
// surface, lit by a hemisphere and a directional light and navigated with map controls.
// Frames are only drawn on load, after a camera move and after a window resize.
//
// Settings are read from cubes.toml in the working directory when present.
package main

import (
	"log"
	"runtime"

	"github.com/Carmen-Shannon/oxy-cubes/config"
	"github.com/Carmen-Shannon/oxy-cubes/engine"
	"github.com/Carmen-Shannon/oxy-cubes/engine/instance"
	"github.com/Carmen-Shannon/oxy-cubes/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cubes/engine/trigger"
	"github.com/Carmen-Shannon/oxy-cubes/engine/window"
)

func init() {
	// GLFW and the wgpu surface must be driven from the main OS thread.
	runtime.LockOSThread()
}

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("[Cubes] %v", err)
	}

	// ── Window + Renderer ───────────────────────────────────────────
	win := window.NewWindow(windowOptions(cfg.Window)...)
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win, rendererOptions(cfg.Renderer)...)

	// ── Scene ───────────────────────────────────────────────────────
	trig := trigger.NewRenderTrigger()
	aspect := float32(win.Width()) / float32(max(win.Height(), 1))
	sc, err := buildScene(cfg, aspect, instance.NewRandomSource(cfg.Grid.Seed), trig)
	if err != nil {
		log.Fatalf("[Cubes] build scene: %v", err)
	}
	log.Printf("[Cubes] %d cubes (%d x %d), material %s", cfg.Grid.Side*cfg.Grid.Side, cfg.Grid.Side, cfg.Grid.Side, cfg.Material.Kind)

	// ── Engine ──────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithFrameTarget(r),
		engine.WithScene(sc),
		engine.WithTrigger(trig),
		engine.WithControls(buildControls(cfg.Camera, sc.Camera())),
		engine.WithProfiling(cfg.Profiler.Enabled),
		engine.WithProfiler(profiler.NewProfiler(profiler.WithUpdateInterval(cfg.Profiler.Interval()))),
	)
	defer func() {
		if err := eng.Release(); err != nil {
			log.Printf("[Cubes] release: %v", err)
		}
	}()

	if err := eng.Run(); err != nil {
		log.Printf("[Cubes] %v", err)
		return
	}
	log.Printf("[Cubes] closed after %d frames", eng.Frames())
}
