package main

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/config"
	"github.com/Carmen-Shannon/oxy-cubes/engine/instance"
	"github.com/Carmen-Shannon/oxy-cubes/engine/light"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-cubes/engine/trigger"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Grid.Side = 4
	cfg.Grid.PackWorkers = 1
	return cfg
}

func TestBuildScene_Defaults(t *testing.T) {
	sc, err := buildScene(smallConfig(), 16.0/9.0, rand.New(rand.NewSource(1)), trigger.NewRenderTrigger())
	require.NoError(t, err)

	meshes := sc.Meshes()
	require.Len(t, meshes, 2)
	assert.Equal(t, "cubes", meshes[0].Name())
	assert.Equal(t, 16, meshes[0].InstanceCount())
	assert.Equal(t, material.KindLambert, meshes[0].Material().Kind())
	assert.Equal(t, "axes_helper", meshes[1].Name())
	assert.Equal(t, 1, meshes[1].InstanceCount())

	lights := sc.Lights()
	require.Len(t, lights, 2)
	assert.Equal(t, light.LightTypeHemisphere, lights[0].Type())
	assert.Equal(t, light.LightTypeDirectional, lights[1].Type())
	assert.Equal(t, float32(3), lights[1].Intensity())
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, lights[1].Position())

	cam := sc.Camera()
	assert.InDelta(t, mgl32.DegToRad(55), cam.Fov(), 1e-6)
	assert.InDelta(t, 16.0/9.0, cam.Aspect(), 1e-6)
	assert.Equal(t, float32(0.1), cam.Near())
	assert.Equal(t, float32(1000), cam.Far())
	assert.True(t, cam.Position().ApproxEqualThreshold(mgl32.Vec3{2, 2, 10}, 1e-4))
}

func TestBuildScene_ControlsNotifyTrigger(t *testing.T) {
	trig := trigger.NewRenderTrigger()
	sc, err := buildScene(smallConfig(), 1, rand.New(rand.NewSource(1)), trig)
	require.NoError(t, err)

	sc.Camera().Controller().Dolly(0.95)
	assert.Equal(t, uint64(1), trig.Count(trigger.ReasonControlChange))
}

func TestBuildControls_UsesConfiguredSpeeds(t *testing.T) {
	cfg := smallConfig()
	cfg.Camera.KeyPanSpeed = 14
	sc, err := buildScene(cfg, 1, rand.New(rand.NewSource(1)), trigger.NewRenderTrigger())
	require.NoError(t, err)

	ctrl := sc.Camera().Controller()
	before := ctrl.Target()
	mc := buildControls(cfg.Camera, sc.Camera())
	mc.SetViewportHeight(100)
	mc.KeyDown(common.KeyUp)
	doubled := ctrl.Target().Sub(before).Len()

	before = ctrl.Target()
	mc = buildControls(config.Default().Camera, sc.Camera())
	mc.SetViewportHeight(100)
	mc.KeyDown(common.KeyUp)
	single := ctrl.Target().Sub(before).Len()

	require.Greater(t, single, float32(0))
	assert.InDelta(t, 2*single, doubled, 1e-3)
}

func TestBuildScene_MatchesGenerator(t *testing.T) {
	cfg := smallConfig()
	sc, err := buildScene(cfg, 1, rand.New(rand.NewSource(7)), trigger.NewRenderTrigger())
	require.NoError(t, err)

	want, err := instance.Generate(cfg.Grid.Side, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, want, sc.Meshes()[0].Records())
}

func TestBuildScene_Options(t *testing.T) {
	cfg := smallConfig()
	cfg.Axes.Enabled = false
	cfg.Material.Kind = "basic"
	cfg.Grid.Side = 0

	sc, err := buildScene(cfg, 1, rand.New(rand.NewSource(1)), trigger.NewRenderTrigger())
	require.NoError(t, err)

	require.Len(t, sc.Meshes(), 1)
	assert.Zero(t, sc.Meshes()[0].InstanceCount())
	assert.Equal(t, material.KindBasic, sc.Meshes()[0].Material().Kind())
}

func TestBuildScene_Errors(t *testing.T) {
	cfg := smallConfig()
	cfg.Grid.Side = -3
	_, err := buildScene(cfg, 1, rand.New(rand.NewSource(1)), trigger.NewRenderTrigger())
	assert.ErrorIs(t, err, instance.ErrNegativeSide)

	cfg = smallConfig()
	cfg.Material.Kind = "toon"
	_, err = buildScene(cfg, 1, rand.New(rand.NewSource(1)), trigger.NewRenderTrigger())
	assert.ErrorIs(t, err, material.ErrUnknownKind)
}

func TestOptionBuilders(t *testing.T) {
	cfg := config.Default()
	assert.Len(t, windowOptions(cfg.Window), 4)
	assert.Len(t, rendererOptions(cfg.Renderer), 4)
}
