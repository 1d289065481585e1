package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/camera"
	"github.com/Carmen-Shannon/oxy-cubes/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cubes/engine/scene"
	"github.com/Carmen-Shannon/oxy-cubes/engine/trigger"
	"github.com/Carmen-Shannon/oxy-cubes/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubWindow records callbacks and runs loop from ProcessMessages.
type stubWindow struct {
	width, height int

	resize    func(width, height int)
	keyDown   func(keyCode uint32)
	scroll    func(delta float32)
	mouseDown func(button window.MouseButton, x, y int32)
	mouseUp   func(button window.MouseButton, x, y int32)
	mouseMove func(x, y int32)

	loop          func()
	processed     int
	closeRequests int
	closed        int
}

var _ window.Window = &stubWindow{}

func (w *stubWindow) SetResizeCallback(cb func(width, height int)) { w.resize = cb }
func (w *stubWindow) SetScrollCallback(cb func(delta float32)) { w.scroll = cb }
func (w *stubWindow) SetKeyDownCallback(cb func(keyCode uint32)) { w.keyDown = cb }
func (w *stubWindow) SetKeyUpCallback(func(keyCode uint32)) {}
func (w *stubWindow) SetMouseDownCallback(cb func(window.MouseButton, int32, int32)) { w.mouseDown = cb }
func (w *stubWindow) SetMouseUpCallback(cb func(window.MouseButton, int32, int32)) { w.mouseUp = cb }
func (w *stubWindow) SetMouseMoveCallback(cb func(x, y int32)) { w.mouseMove = cb }
func (w *stubWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *stubWindow) IsRunning() bool { return w.closeRequests == 0 }
func (w *stubWindow) RequestClose() { w.closeRequests++ }
func (w *stubWindow) Width() int { return w.width }
func (w *stubWindow) Height() int { return w.height }
func (w *stubWindow) ScreenHeight() int { return w.height }

func (w *stubWindow) Close() error {
	w.closed++
	return nil
}

func (w *stubWindow) ProcessMessages() {
	w.processed++
	if w.loop != nil {
		w.loop()
	}
}

// stubTarget implements FrameTarget and records the frame lifecycle.
type stubTarget struct {
	calls    []string
	width    int
	height   int
	beginErr error
	released int

	// surfaceHeld follows the swapchain texture from BeginFrame to Present or DiscardFrame.
	surfaceHeld bool
}

func (t *stubTarget) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}

func (t *stubTarget) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]uint64) error {
	return nil
}

func (t *stubTarget) WriteBuffers([]bind_group_provider.BufferWrite) {}

func (t *stubTarget) RegisterPipelines(...pipeline.Pipeline) error { return nil }

func (t *stubTarget) Pipeline(string) pipeline.Pipeline { return nil }

func (t *stubTarget) DrawCall(string, bind_group_provider.BindGroupProvider, uint32, []bind_group_provider.BindGroupProvider) error {
	return nil
}

func (t *stubTarget) Resize(width, height int) {
	t.width, t.height = width, height
	t.calls = append(t.calls, "resize")
}

func (t *stubTarget) BeginFrame() error {
	if t.beginErr != nil {
		return t.beginErr
	}
	if t.surfaceHeld {
		return errors.New("previous frame surface not yet presented")
	}
	t.surfaceHeld = true
	t.calls = append(t.calls, "begin")
	return nil
}

func (t *stubTarget) EndFrame() error {
	t.calls = append(t.calls, "end")
	return nil
}

func (t *stubTarget) Present() {
	t.surfaceHeld = false
	t.calls = append(t.calls, "present")
}

func (t *stubTarget) DiscardFrame() {
	t.surfaceHeld = false
	t.calls = append(t.calls, "discard")
}

func (t *stubTarget) Release() {
	t.released++
}

// stubScene implements Drawable around a real camera.
type stubScene struct {
	cam      camera.Camera
	inits    int
	draws    int
	drawErr  error
	released int
}

func (s *stubScene) Camera() camera.Camera { return s.cam }

func (s *stubScene) Init(scene.Renderer) error {
	s.inits++
	return nil
}

func (s *stubScene) DrawCalls(scene.Renderer) error {
	s.draws++
	return s.drawErr
}

func (s *stubScene) Release() {
	s.released++
}

type fixture struct {
	win     *stubWindow
	target  *stubTarget
	scene   *stubScene
	trigger trigger.RenderTrigger
	ctrl    camera.CameraController
	engine  Engine
}

func newFixture(t *testing.T, options ...EngineBuilderOption) *fixture {
	t.Helper()
	trig := trigger.NewRenderTrigger()
	ctrl := camera.NewCameraController(camera.WithPosition(2, 2, 10), camera.WithChangeTrigger(trig))
	cam := camera.NewCamera(camera.WithFovDegrees(55), camera.WithController(ctrl))
	f := &fixture{
		win:     &stubWindow{width: 800, height: 600},
		target:  &stubTarget{},
		scene:   &stubScene{cam: cam},
		trigger: trig,
		ctrl:    ctrl,
	}
	opts := []EngineBuilderOption{
		WithWindow(f.win),
		WithFrameTarget(f.target),
		WithScene(f.scene),
		WithTrigger(trig),
	}
	f.engine = NewEngine(append(opts, options...)...)
	return f
}

func TestNewEngine_RequiresParts(t *testing.T) {
	assert.Panics(t, func() { NewEngine() })
	assert.Panics(t, func() { NewEngine(WithWindow(&stubWindow{})) })
}

func TestNewEngine_RegistersCallbacks(t *testing.T) {
	f := newFixture(t)
	assert.NotNil(t, f.win.resize)
	assert.NotNil(t, f.win.keyDown)
	assert.Same(t, f.trigger, f.engine.Trigger())
	assert.Same(t, f.win, f.engine.Window())
}

func TestEngine_RunDrawsLoadFrame(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.engine.Run())

	assert.Equal(t, 1, f.scene.inits)
	assert.Equal(t, 1, f.win.processed)
	assert.Equal(t, uint64(1), f.engine.Frames())
	assert.Equal(t, uint64(1), f.trigger.Count(trigger.ReasonLoad))
	assert.Equal(t, []string{"begin", "end", "present"}, f.target.calls)
}

func TestEngine_NoFramesWithoutEvents(t *testing.T) {
	f := newFixture(t)
	f.win.loop = func() {
		// An idle event loop produces nothing beyond the load frame.
		assert.Equal(t, uint64(1), f.engine.Frames())
	}

	require.NoError(t, f.engine.Run())
	assert.Equal(t, uint64(1), f.engine.Frames())
}

func TestEngine_RenderBeforeRun(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.engine.Render(), scene.ErrNotInitialized)
	assert.Empty(t, f.target.calls)
}

func TestEngine_HandleResize(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Run())
	before := f.engine.Frames()

	f.win.resize(1024, 512)

	assert.InDelta(t, 2.0, f.scene.cam.Aspect(), 1e-6)
	assert.Equal(t, 1024, f.target.width)
	assert.Equal(t, 512, f.target.height)
	assert.Equal(t, before+1, f.engine.Frames())
	assert.Equal(t, uint64(1), f.trigger.Count(trigger.ReasonResize))
}

func TestEngine_HandleResizeIgnoresEmptyFramebuffer(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"minimized", 0, 0},
		{"zero width", 0, 600},
		{"zero height", 800, 0},
		{"negative", -1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.engine.Run())
			aspect := f.scene.cam.Aspect()

			f.engine.HandleResize(tt.width, tt.height)

			assert.Equal(t, aspect, f.scene.cam.Aspect())
			assert.NotContains(t, f.target.calls, "resize")
			assert.Equal(t, uint64(1), f.engine.Frames())
		})
	}
}

func TestEngine_ControlChangeRedraws(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Run())
	before := f.engine.Frames()

	f.ctrl.Rotate(0.1, 0)
	f.ctrl.Dolly(0.95)

	assert.Equal(t, before+2, f.engine.Frames())
	assert.Equal(t, uint64(2), f.trigger.Count(trigger.ReasonControlChange))
}

func TestEngine_FrameErrorsAreNotFatal(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Run())

	f.target.beginErr = errors.New("surface lost")
	f.engine.HandleResize(640, 480)
	assert.Equal(t, uint64(1), f.engine.Frames())
	assert.ErrorContains(t, f.engine.Render(), "surface lost")

	f.target.beginErr = nil
	f.engine.HandleResize(640, 480)
	assert.Equal(t, uint64(2), f.engine.Frames())
}

func TestEngine_DrawErrorDiscardsFrame(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Run())
	f.target.calls = nil

	drawErr := errors.New("no pipeline")
	f.scene.drawErr = drawErr
	err := f.engine.Render()

	assert.ErrorIs(t, err, drawErr)
	assert.Equal(t, []string{"begin", "discard"}, f.target.calls)
	assert.False(t, f.target.surfaceHeld)
	assert.Equal(t, uint64(1), f.engine.Frames())

	// The next event draws normally once the scene recovers.
	f.scene.drawErr = nil
	f.target.calls = nil
	f.ctrl.Rotate(0.1, 0)

	assert.Equal(t, []string{"begin", "end", "present"}, f.target.calls)
	assert.Equal(t, uint64(2), f.engine.Frames())
}

func TestEngine_EscapeQuits(t *testing.T) {
	f := newFixture(t)

	f.win.keyDown(common.KeyEsc)
	f.engine.Quit()

	assert.Equal(t, 1, f.win.closeRequests)
}

func TestEngine_KeysReachControls(t *testing.T) {
	trig := trigger.NewRenderTrigger()
	ctrl := camera.NewCameraController(camera.WithPosition(2, 2, 10), camera.WithChangeTrigger(trig))
	cam := camera.NewCamera(camera.WithFovDegrees(55), camera.WithController(ctrl))
	win := &stubWindow{width: 800, height: 600}
	e := NewEngine(
		WithWindow(win),
		WithFrameTarget(&stubTarget{}),
		WithScene(&stubScene{cam: cam}),
		WithTrigger(trig),
		WithControls(camera.NewMapControls(cam)),
	)
	require.NoError(t, e.Run())
	before := e.Frames()
	target := ctrl.Target()

	win.keyDown(common.KeyUp)

	assert.NotEqual(t, target, ctrl.Target())
	assert.Greater(t, e.Frames(), before)
	assert.NotNil(t, win.mouseMove)
	assert.NotNil(t, win.scroll)
	assert.Zero(t, win.closeRequests)
}

func TestEngine_ProfilerRecordsReasons(t *testing.T) {
	var lines []string
	p := profiler.NewProfiler(
		profiler.WithUpdateInterval(time.Hour),
		profiler.WithLogger(func(format string, v ...any) { lines = append(lines, format) }),
	)
	f := newFixture(t, WithProfiler(p), WithProfiling(true))

	require.NoError(t, f.engine.Run())
	f.engine.HandleResize(300, 300)
	f.ctrl.Rotate(0.2, 0)

	assert.Same(t, p, f.engine.Profiler())
	assert.Equal(t, uint64(1), p.Redraws(trigger.ReasonLoad))
	assert.Equal(t, uint64(1), p.Redraws(trigger.ReasonResize))
	assert.Equal(t, uint64(1), p.Redraws(trigger.ReasonControlChange))
	assert.Empty(t, lines)

	f.engine.DisableProfiler()
	f.ctrl.Rotate(0.2, 0)
	assert.Equal(t, uint64(3), p.Frames())
}

func TestEngine_Release(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.engine.Run())

	require.NoError(t, f.engine.Release())
	require.NoError(t, f.engine.Release())

	assert.Equal(t, 1, f.scene.released)
	assert.Equal(t, 1, f.target.released)
	assert.Equal(t, 1, f.win.closed)

	// Unsubscribed: further notifications no longer draw.
	f.trigger.Notify(trigger.ReasonControlChange)
	assert.Equal(t, uint64(1), f.engine.Frames())
}
