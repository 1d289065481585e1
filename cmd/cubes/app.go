package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-cubes/config"
	"github.com/Carmen-Shannon/oxy-cubes/engine/camera"
	"github.com/Carmen-Shannon/oxy-cubes/engine/instance"
	"github.com/Carmen-Shannon/oxy-cubes/engine/instanced_mesh"
	"github.com/Carmen-Shannon/oxy-cubes/engine/light"
	"github.com/Carmen-Shannon/oxy-cubes/engine/model"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-cubes/engine/scene"
	"github.com/Carmen-Shannon/oxy-cubes/engine/trigger"
	"github.com/Carmen-Shannon/oxy-cubes/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// sceneName names the scene and prefixes its light provider label.
const sceneName = "cubes"

// buildCubes generates the N*N instance records and wraps them in one instanced box mesh.
//
// Parameters:
//   - cfg: the grid and material settings
//   - rnd: random source for scales and colors
//
// Returns:
//   - instanced_mesh.InstancedMesh: the packed cubes mesh
//   - error: error if the side is negative or the material kind is unknown
func buildCubes(cfg config.Config, rnd instance.RandomSource) (instanced_mesh.InstancedMesh, error) {
	kind, err := material.ParseKind(cfg.Material.Kind)
	if err != nil {
		return nil, err
	}
	records, err := instance.Generate(cfg.Grid.Side, rnd)
	if err != nil {
		return nil, fmt.Errorf("generate instances: %w", err)
	}

	size := cfg.Grid.CubeSize
	opts := []instanced_mesh.InstancedMeshBuilderOption{
		instanced_mesh.WithName("cubes"),
		instanced_mesh.WithChunkSize(cfg.Grid.ChunkSize),
	}
	if cfg.Grid.PackWorkers > 0 {
		opts = append(opts, instanced_mesh.WithPackWorkers(cfg.Grid.PackWorkers))
	}
	return instanced_mesh.NewInstancedMesh(
		model.NewBoxModel(size, size, size),
		records,
		material.NewMaterial(kind),
		opts...,
	), nil
}

// buildCamera creates the perspective camera and its orbit controller. Every controller move
// notifies trig with trigger.ReasonControlChange.
//
// Parameters:
//   - cfg: the camera settings
//   - aspect: the initial width/height ratio
//   - trig: the render trigger
//
// Returns:
//   - camera.Camera: the camera with its controller attached
func buildCamera(cfg config.CameraConfig, aspect float32, trig trigger.RenderTrigger) camera.Camera {
	ctrl := camera.NewCameraController(
		camera.WithTarget(cfg.Target[0], cfg.Target[1], cfg.Target[2]),
		camera.WithPosition(cfg.Position[0], cfg.Position[1], cfg.Position[2]),
		camera.WithRadiusBounds(cfg.MinRadius, cfg.MaxRadius),
		camera.WithChangeTrigger(trig),
	)
	return camera.NewCamera(
		camera.WithFovDegrees(cfg.FovDegrees),
		camera.WithAspect(aspect),
		camera.WithNear(cfg.Near),
		camera.WithFar(cfg.Far),
		camera.WithController(ctrl),
	)
}

// buildControls creates the map controls for the camera with the configured input speeds.
func buildControls(cfg config.CameraConfig, cam camera.Camera) camera.MapControls {
	return camera.NewMapControls(cam,
		camera.WithRotateSpeed(cfg.RotateSpeed),
		camera.WithPanSpeed(cfg.PanSpeed),
		camera.WithKeyPanSpeed(cfg.KeyPanSpeed),
	)
}

// buildLights creates the hemisphere fill light and the directional key light.
func buildLights(cfg config.LightsConfig) []light.Light {
	hemi := cfg.Hemisphere
	dir := cfg.Directional
	return []light.Light{
		light.NewHemisphereLight(mgl32.Vec3(hemi.Sky), mgl32.Vec3(hemi.Ground), hemi.Intensity),
		light.NewDirectionalLight(mgl32.Vec3(dir.Color), dir.Intensity, mgl32.Vec3(dir.Position)),
	}
}

// buildScene assembles the full demo scene: cubes, optional axes helper, lights and camera.
//
// Parameters:
//   - cfg: the validated configuration
//   - aspect: the initial width/height ratio
//   - rnd: random source for the instance generator
//   - trig: the render trigger the camera controller notifies
//
// Returns:
//   - scene.Scene: the assembled scene
//   - error: error if the cubes cannot be built
func buildScene(cfg config.Config, aspect float32, rnd instance.RandomSource, trig trigger.RenderTrigger) (scene.Scene, error) {
	cubes, err := buildCubes(cfg, rnd)
	if err != nil {
		return nil, err
	}
	meshes := []instanced_mesh.InstancedMesh{cubes}
	if cfg.Axes.Enabled && cfg.Axes.Size > 0 {
		meshes = append(meshes, scene.NewAxesHelper(cfg.Axes.Size))
	}

	return scene.NewScene(sceneName,
		buildCamera(cfg.Camera, aspect, trig),
		scene.WithLights(buildLights(cfg.Lights)...),
		scene.WithMeshes(meshes...),
	), nil
}

// windowOptions maps the window settings onto window builder options.
func windowOptions(cfg config.WindowConfig) []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(cfg.Title),
		window.WithWidth(cfg.Width),
		window.WithHeight(cfg.Height),
		window.WithMinSize(cfg.MinWidth, cfg.MinHeight),
	}
}

// rendererOptions maps the renderer settings onto renderer builder options.
func rendererOptions(cfg config.RendererConfig) []renderer.RendererBuilderOption {
	mode := renderer.PresentModeVSync
	if !cfg.VSync {
		mode = renderer.PresentModeUncapped
	}
	msaa := renderer.MSAA4x
	if cfg.MSAA == int(renderer.MSAAOff) {
		msaa = renderer.MSAAOff
	}
	c := cfg.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(msaa),
		renderer.WithClearColor(renderer.ClearColor{R: c[0], G: c[1], B: c[2], A: c[3]}),
		renderer.WithForceSoftwareRenderer(cfg.ForceSoftware),
	}
}
