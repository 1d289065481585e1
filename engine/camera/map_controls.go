package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/window"
	"github.com/chewxy/math32"
)

// dollyStep is the radius multiplier applied per wheel notch or middle-drag event.
const dollyStep = 0.95

// defaultKeyPanSpeed is the pixel distance an arrow key press pans by.
const defaultKeyPanSpeed = 7

// MapControls translates pointer, wheel and keyboard input into camera controller moves
// with map-style semantics: left drag pans across the ground plane, right drag orbits,
// middle drag and the wheel dolly, and arrow keys pan.
//
// All moves go through the camera's CameraController, so redraw notification follows
// whatever change trigger that controller was built with.
type MapControls interface {
	// Attach registers input callbacks on the window and uses its screen height as the viewport
	// height, so drags are measured in the same unit as cursor positions.
	//
	// Parameters:
	//   - win: the window to receive input from
	Attach(win window.Window)

	// PointerDown starts a drag with the given button. Ignored while another drag is active.
	//
	// Parameters:
	//   - button: the pressed mouse button
	//   - x, y: cursor position in pixels
	PointerDown(button window.MouseButton, x, y int32)

	// PointerUp ends the drag started by the given button.
	//
	// Parameters:
	//   - button: the released mouse button
	//   - x, y: cursor position in pixels
	PointerUp(button window.MouseButton, x, y int32)

	// PointerMove applies the active drag for the cursor delta since the previous event.
	//
	// Parameters:
	//   - x, y: cursor position in pixels
	PointerMove(x, y int32)

	// Wheel dollies in for positive deltas and out for negative ones.
	//
	// Parameters:
	//   - delta: vertical scroll offset
	Wheel(delta float32)

	// KeyDown pans for arrow keys. Other keys are ignored.
	//
	// Parameters:
	//   - keyCode: the pressed key
	KeyDown(keyCode uint32)

	// SetViewportHeight sets the pixel height used to scale drags when no window is attached.
	//
	// Parameters:
	//   - height: viewport height in pixels
	SetViewportHeight(height int)

	// Enabled reports whether input is applied.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled toggles input handling. Disabling cancels any active drag.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

type mapControlsImpl struct {
	mu *sync.Mutex

	camera Camera
	win    window.Window

	enabled        bool
	viewportHeight int

	rotateSpeed float32
	panSpeed    float32
	keyPanSpeed float32

	dragging   bool
	dragButton window.MouseButton
	lastX      int32
	lastY      int32
}

var _ MapControls = &mapControlsImpl{}

// MapControlsOption configures a MapControls instance during construction.
type MapControlsOption func(*mapControlsImpl)

// WithRotateSpeed scales orbit drags.
//
// Parameters:
//   - speed: rotation multiplier, 1 by default
//
// Returns:
//   - MapControlsOption: functional option to set the rotate speed
func WithRotateSpeed(speed float32) MapControlsOption {
	return func(m *mapControlsImpl) {
		m.rotateSpeed = speed
	}
}

// WithPanSpeed scales pan drags and key pans.
//
// Parameters:
//   - speed: pan multiplier, 1 by default
//
// Returns:
//   - MapControlsOption: functional option to set the pan speed
func WithPanSpeed(speed float32) MapControlsOption {
	return func(m *mapControlsImpl) {
		m.panSpeed = speed
	}
}

// WithKeyPanSpeed sets the pixel distance one arrow key press pans by.
//
// Parameters:
//   - pixels: pan distance in pixels, 7 by default
//
// Returns:
//   - MapControlsOption: functional option to set the key pan speed
func WithKeyPanSpeed(pixels float32) MapControlsOption {
	return func(m *mapControlsImpl) {
		m.keyPanSpeed = pixels
	}
}

// NewMapControls creates map controls driving the camera's controller.
// The camera must have a controller attached before input arrives; input is dropped otherwise.
//
// Parameters:
//   - cam: the camera to move
//   - options: functional options
//
// Returns:
//   - MapControls: the controls
func NewMapControls(cam Camera, options ...MapControlsOption) MapControls {
	m := &mapControlsImpl{
		mu:             &sync.Mutex{},
		camera:         cam,
		enabled:        true,
		viewportHeight: 1,
		rotateSpeed:    1,
		panSpeed:       1,
		keyPanSpeed:    defaultKeyPanSpeed,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *mapControlsImpl) Attach(win window.Window) {
	m.mu.Lock()
	m.win = win
	m.mu.Unlock()

	win.SetMouseDownCallback(m.PointerDown)
	win.SetMouseUpCallback(m.PointerUp)
	win.SetMouseMoveCallback(m.PointerMove)
	win.SetScrollCallback(m.Wheel)
	win.SetKeyDownCallback(m.KeyDown)
}

func (m *mapControlsImpl) PointerDown(button window.MouseButton, x, y int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled || m.dragging {
		return
	}
	m.dragging = true
	m.dragButton = button
	m.lastX, m.lastY = x, y
}

func (m *mapControlsImpl) PointerUp(button window.MouseButton, x, y int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dragging && m.dragButton == button {
		m.dragging = false
	}
}

func (m *mapControlsImpl) PointerMove(x, y int32) {
	m.mu.Lock()
	if !m.enabled || !m.dragging {
		m.mu.Unlock()
		return
	}
	dx := float32(x - m.lastX)
	dy := float32(y - m.lastY)
	m.lastX, m.lastY = x, y
	button := m.dragButton
	m.mu.Unlock()

	if dx == 0 && dy == 0 {
		return
	}

	switch button {
	case window.MouseButtonLeft:
		m.pan(dx, dy)
	case window.MouseButtonRight:
		m.rotate(dx, dy)
	case window.MouseButtonMiddle:
		if dy > 0 {
			m.dolly(1 / dollyStep)
		} else if dy < 0 {
			m.dolly(dollyStep)
		}
	}
}

func (m *mapControlsImpl) Wheel(delta float32) {
	if !m.Enabled() {
		return
	}
	switch {
	case delta > 0:
		m.dolly(dollyStep)
	case delta < 0:
		m.dolly(1 / dollyStep)
	}
}

func (m *mapControlsImpl) KeyDown(keyCode uint32) {
	if !m.Enabled() {
		return
	}
	m.mu.Lock()
	step := m.keyPanSpeed
	m.mu.Unlock()

	switch keyCode {
	case common.KeyUp:
		m.pan(0, step)
	case common.KeyDown:
		m.pan(0, -step)
	case common.KeyLeft:
		m.pan(step, 0)
	case common.KeyRight:
		m.pan(-step, 0)
	}
}

func (m *mapControlsImpl) SetViewportHeight(height int) {
	m.mu.Lock()
	m.viewportHeight = height
	m.mu.Unlock()
}

func (m *mapControlsImpl) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

func (m *mapControlsImpl) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	if !enabled {
		m.dragging = false
	}
	m.mu.Unlock()
}

// height returns the current viewport height in screen coordinates, never below 1.
func (m *mapControlsImpl) height() float32 {
	m.mu.Lock()
	win, h := m.win, m.viewportHeight
	m.mu.Unlock()
	if win != nil {
		h = win.ScreenHeight()
	}
	if h < 1 {
		h = 1
	}
	return float32(h)
}

// pan moves the view by a pixel delta, scaled so the ground under the target tracks the cursor.
// A positive dx drags the scene right, which moves the camera left.
func (m *mapControlsImpl) pan(dx, dy float32) {
	ctrl := m.camera.Controller()
	if ctrl == nil {
		return
	}
	h := m.height()
	targetDistance := ctrl.Radius() * math32.Tan(m.camera.Fov()/2)
	ctrl.Pan(-2*dx*targetDistance/h*m.panSpeed, 2*dy*targetDistance/h*m.panSpeed)
}

// rotate orbits by a pixel delta; a full viewport height of drag turns by 2π.
func (m *mapControlsImpl) rotate(dx, dy float32) {
	ctrl := m.camera.Controller()
	if ctrl == nil {
		return
	}
	h := m.height()
	ctrl.Rotate(-2*math32.Pi*dx/h*m.rotateSpeed, 2*math32.Pi*dy/h*m.rotateSpeed)
}

func (m *mapControlsImpl) dolly(scale float32) {
	if ctrl := m.camera.Controller(); ctrl != nil {
		ctrl.Dolly(scale)
	}
}
