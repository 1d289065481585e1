package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/trigger"
	"github.com/Carmen-Shannon/oxy-cubes/engine/window"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-4), "want %v, got %v", want, got)
}

func TestControllerWithPositionReproducesEye(t *testing.T) {
	ctrl := NewCameraController(WithPosition(2, 2, 10))

	assertVec3(t, mgl32.Vec3{2, 2, 10}, ctrl.Position())
	assertVec3(t, mgl32.Vec3{}, ctrl.Target())
	assert.InDelta(t, math32.Sqrt(108), ctrl.Radius(), 1e-4)
}

func TestControllerDefaults(t *testing.T) {
	ctrl := NewCameraController()

	assertVec3(t, mgl32.Vec3{0, 0, 10}, ctrl.Position())
	assert.Equal(t, float32(0.1), ctrl.MinRadius())
	assert.Equal(t, float32(1000), ctrl.MaxRadius())
	assert.Less(t, ctrl.MaxElevation(), float32(math32.Pi/2))
	assert.Greater(t, ctrl.MinElevation(), float32(-math32.Pi/2))
}

func TestControllerNotifiesControlChange(t *testing.T) {
	tr := trigger.NewRenderTrigger()
	ctrl := NewCameraController(WithPosition(2, 2, 10), WithChangeTrigger(tr))

	var seen []mgl32.Vec3
	tr.Subscribe(func(reason trigger.Reason) {
		// reading the controller inside the callback must not deadlock
		seen = append(seen, ctrl.Position())
	})

	ctrl.Rotate(0.1, 0)
	ctrl.Pan(1, 0)
	ctrl.Dolly(0.5)

	require.Len(t, seen, 3)
	assert.Equal(t, uint64(3), tr.Count(trigger.ReasonControlChange))
	assertVec3(t, ctrl.Position(), seen[2])
}

func TestControllerConstructionDoesNotNotify(t *testing.T) {
	tr := trigger.NewRenderTrigger()
	NewCameraController(WithPosition(1, 2, 3), WithChangeTrigger(tr))
	assert.Zero(t, tr.Count(trigger.ReasonControlChange))
}

func TestControllerElevationClamp(t *testing.T) {
	ctrl := NewCameraController()

	ctrl.Rotate(0, 10)
	assert.Equal(t, ctrl.MaxElevation(), ctrl.Elevation())

	ctrl.Rotate(0, -20)
	assert.Equal(t, ctrl.MinElevation(), ctrl.Elevation())

	// position never reaches the pole
	p := ctrl.Position()
	assert.Greater(t, math32.Abs(p.X())+math32.Abs(p.Z()), float32(0))
}

func TestControllerDollyClampAndIgnore(t *testing.T) {
	tr := trigger.NewRenderTrigger()
	ctrl := NewCameraController(WithRadiusBounds(1, 20), WithChangeTrigger(tr))

	ctrl.Dolly(100)
	assert.Equal(t, float32(20), ctrl.Radius())

	ctrl.Dolly(0.001)
	assert.Equal(t, float32(1), ctrl.Radius())

	ctrl.Dolly(0)
	ctrl.Dolly(-1)
	assert.Equal(t, float32(1), ctrl.Radius())
	assert.Equal(t, uint64(2), tr.Count(trigger.ReasonControlChange))
}

func TestControllerPanKeepsOffset(t *testing.T) {
	ctrl := NewCameraController(WithPosition(2, 2, 10))
	before := ctrl.Position().Sub(ctrl.Target())

	ctrl.Pan(3, -4)

	after := ctrl.Position().Sub(ctrl.Target())
	assertVec3(t, before, after)
	assert.InDelta(t, 0, ctrl.Target().Y(), 1e-6)
	assert.InDelta(t, 5, ctrl.Target().Len(), 1e-4)
}

func TestGroundAxes(t *testing.T) {
	ctrl := NewCameraController()
	right, forward := ctrl.GroundAxes()
	assertVec3(t, mgl32.Vec3{1, 0, 0}, right)
	assertVec3(t, mgl32.Vec3{0, 0, -1}, forward)

	ctrl.Rotate(math32.Pi/2, 0)
	right, forward = ctrl.GroundAxes()
	assertVec3(t, mgl32.Vec3{0, 0, -1}, right)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, forward)
}

func TestSetTargetMovesEye(t *testing.T) {
	ctrl := NewCameraController()
	ctrl.SetTarget(1, 0, 0)
	assertVec3(t, mgl32.Vec3{1, 0, 10}, ctrl.Position())

	ctrl.SetPosition(1, 0, 5)
	assert.InDelta(t, 5, ctrl.Radius(), 1e-5)
}

func TestCameraProjectsTargetToCenter(t *testing.T) {
	ctrl := NewCameraController(WithPosition(2, 2, 10))
	cam := NewCamera(WithFovDegrees(55), WithAspect(16.0/9.0), WithController(ctrl))

	clip := cam.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())

	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)
	assert.Greater(t, ndc.Z(), float32(0))
	assert.Less(t, ndc.Z(), float32(1))
	assertVec3(t, mgl32.Vec3{2, 2, 10}, cam.Position())
}

func TestCameraSetAspectUpdatesProjection(t *testing.T) {
	cam := NewCamera(WithFovDegrees(55), WithAspect(1))
	cam.SetAspect(2)

	want := common.Perspective(mgl32.DegToRad(55), 2, 0.1, 1000)
	assert.Equal(t, want, cam.ProjectionMatrix())
	assert.Equal(t, float32(2), cam.Aspect())
}

func TestCameraUpdateFollowsController(t *testing.T) {
	ctrl := NewCameraController(WithPosition(2, 2, 10))
	cam := NewCamera(WithController(ctrl))

	ctrl.Pan(1, 0)
	assertVec3(t, mgl32.Vec3{2, 2, 10}, cam.Position())

	cam.Update()
	assertVec3(t, ctrl.Position(), cam.Position())
	assertVec3(t, ctrl.Position(), cam.Uniform().Position)
}

func TestCameraUniformMarshal(t *testing.T) {
	cam := NewCamera()
	u := cam.Uniform()
	assert.Equal(t, GPUCameraUniformSize, u.Size())
	assert.Len(t, u.Marshal(), GPUCameraUniformSize)
	assert.Contains(t, GPUCameraUniformSource, "struct CameraUniform")
}

func newTestControls(t *testing.T) (MapControls, CameraController) {
	t.Helper()
	ctrl := NewCameraController(WithPosition(0, 0, 10))
	cam := NewCamera(WithFovDegrees(90), WithController(ctrl))
	mc := NewMapControls(cam)
	mc.SetViewportHeight(100)
	return mc, ctrl
}

func TestMapControlsWheel(t *testing.T) {
	mc, ctrl := newTestControls(t)

	mc.Wheel(1)
	assert.InDelta(t, 9.5, ctrl.Radius(), 1e-4)

	mc.Wheel(-1)
	assert.InDelta(t, 10, ctrl.Radius(), 1e-4)

	mc.Wheel(0)
	assert.InDelta(t, 10, ctrl.Radius(), 1e-4)
}

func TestMapControlsRightDragRotates(t *testing.T) {
	mc, ctrl := newTestControls(t)

	mc.PointerDown(window.MouseButtonRight, 10, 10)
	mc.PointerMove(35, 10)
	mc.PointerUp(window.MouseButtonRight, 35, 10)

	// a quarter viewport height turns by a quarter of 2π
	assert.InDelta(t, -math32.Pi/2, ctrl.Azimuth(), 1e-4)
	assert.InDelta(t, 0, ctrl.Elevation(), 1e-6)

	mc.PointerMove(80, 80)
	assert.InDelta(t, -math32.Pi/2, ctrl.Azimuth(), 1e-4)
}

func TestMapControlsLeftDragPansGround(t *testing.T) {
	mc, ctrl := newTestControls(t)

	mc.PointerDown(window.MouseButtonLeft, 50, 50)
	mc.PointerMove(60, 50)

	// fov 90 gives targetDistance == radius, so 10px of 100px pans 2 units
	target := ctrl.Target()
	assert.InDelta(t, -2, target.X(), 1e-4)
	assert.InDelta(t, 0, target.Y(), 1e-6)

	mc.PointerMove(60, 60)
	assert.InDelta(t, -2, ctrl.Target().Z(), 1e-4)
}

func TestMapControlsMiddleDragDollies(t *testing.T) {
	mc, ctrl := newTestControls(t)

	mc.PointerDown(window.MouseButtonMiddle, 0, 0)
	mc.PointerMove(0, 5)
	assert.InDelta(t, 10/0.95, ctrl.Radius(), 1e-3)

	mc.PointerMove(0, 0)
	assert.InDelta(t, 10, ctrl.Radius(), 1e-3)
}

func TestMapControlsIgnoresOtherButtonRelease(t *testing.T) {
	mc, ctrl := newTestControls(t)

	mc.PointerDown(window.MouseButtonRight, 0, 0)
	mc.PointerDown(window.MouseButtonLeft, 0, 0)
	mc.PointerUp(window.MouseButtonLeft, 0, 0)
	mc.PointerMove(25, 0)

	assert.InDelta(t, -math32.Pi/2, ctrl.Azimuth(), 1e-4)
	assertVec3(t, mgl32.Vec3{}, ctrl.Target())
}

func TestMapControlsArrowKeys(t *testing.T) {
	mc, ctrl := newTestControls(t)

	mc.KeyDown(common.KeyUp)
	assert.InDelta(t, -1.4, ctrl.Target().Z(), 1e-4)

	mc.KeyDown(common.KeyDown)
	assert.InDelta(t, 0, ctrl.Target().Z(), 1e-4)

	mc.KeyDown(common.KeyLeft)
	assert.InDelta(t, -1.4, ctrl.Target().X(), 1e-4)

	mc.KeyDown(common.KeyRight)
	mc.KeyDown(common.KeyW)
	assertVec3(t, mgl32.Vec3{}, ctrl.Target())
}

func TestMapControlsDisabled(t *testing.T) {
	tr := trigger.NewRenderTrigger()
	ctrl := NewCameraController(WithChangeTrigger(tr))
	mc := NewMapControls(NewCamera(WithController(ctrl)))

	mc.SetEnabled(false)
	mc.Wheel(1)
	mc.KeyDown(common.KeyUp)
	mc.PointerDown(window.MouseButtonLeft, 0, 0)
	mc.PointerMove(10, 10)

	assert.False(t, mc.Enabled())
	assert.Zero(t, tr.Count(trigger.ReasonControlChange))
}

// hidpiWindow reports a framebuffer twice as tall as the window, as on a 2x display.
type hidpiWindow struct {
	window.Window
	mouseDown func(window.MouseButton, int32, int32)
	mouseMove func(x, y int32)
}

func (w *hidpiWindow) SetMouseDownCallback(cb func(window.MouseButton, int32, int32)) {
	w.mouseDown = cb
}
func (w *hidpiWindow) SetMouseUpCallback(func(window.MouseButton, int32, int32)) {}
func (w *hidpiWindow) SetMouseMoveCallback(cb func(x, y int32)) { w.mouseMove = cb }
func (w *hidpiWindow) SetScrollCallback(func(delta float32)) {}
func (w *hidpiWindow) SetKeyDownCallback(func(keyCode uint32)) {}
func (w *hidpiWindow) Height() int { return 1200 }
func (w *hidpiWindow) ScreenHeight() int { return 600 }

func TestMapControlsDragUsesScreenHeight(t *testing.T) {
	ctrl := NewCameraController(WithPosition(0, 0, 10))
	mc := NewMapControls(NewCamera(WithFovDegrees(90), WithController(ctrl)))
	win := &hidpiWindow{}
	mc.Attach(win)

	win.mouseDown(window.MouseButtonRight, 0, 0)
	win.mouseMove(150, 0)

	// 150 cursor units is a quarter of the 600 unit tall window
	assert.InDelta(t, -math32.Pi/2, ctrl.Azimuth(), 1e-4)
}

func TestMapControlsSpeedOptions(t *testing.T) {
	ctrl := NewCameraController(WithPosition(0, 0, 10))
	mc := NewMapControls(
		NewCamera(WithFovDegrees(90), WithController(ctrl)),
		WithRotateSpeed(2),
		WithPanSpeed(0.5),
		WithKeyPanSpeed(14),
	)
	mc.SetViewportHeight(100)

	mc.PointerDown(window.MouseButtonRight, 0, 0)
	mc.PointerMove(25, 0)
	mc.PointerUp(window.MouseButtonRight, 25, 0)
	require.InDelta(t, -math32.Pi, ctrl.Azimuth(), 1e-4)

	ctrl.Rotate(math32.Pi, 0)
	mc.KeyDown(common.KeyLeft)
	assert.InDelta(t, -1.4, ctrl.Target().X(), 1e-4)

	mc.PointerDown(window.MouseButtonLeft, 50, 50)
	mc.PointerMove(60, 50)
	assert.InDelta(t, -2.4, ctrl.Target().X(), 1e-4)
}
