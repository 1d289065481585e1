package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-cubes/engine/trigger"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// position is computed from target + spherical coords
	position mgl32.Vec3
	target   mgl32.Vec3

	// spherical coordinates (offset from target)
	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	// initialPosition is applied after all options so it is relative to the final target
	initialPosition *mgl32.Vec3

	changeTrigger trigger.RenderTrigger
}

// elevationLimit keeps the camera off the poles, where the look-at basis degenerates.
const elevationLimit = math32.Pi/2 - 0.001

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller. Defaults: target at the origin,
// radius 10 along +Z, radius bounds [0.1, 1000], elevation bounds just inside ±π/2.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:           &sync.Mutex{},
		radius:       10,
		minRadius:    0.1,
		maxRadius:    1000,
		minElevation: -elevationLimit,
		maxElevation: elevationLimit,
	}

	for _, option := range options {
		option(cc)
	}

	if cc.initialPosition != nil {
		cc.placeAt(*cc.initialPosition)
	}
	cc.clamp()
	cc.updatePosition()
	return cc
}

// --- internal helpers ---

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sinElev, cosElev := math32.Sincos(cc.elevation)
	sinAzim, cosAzim := math32.Sincos(cc.azimuth)

	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

// placeAt derives spherical coordinates for a world-space eye position relative to the target.
// A position on top of the target keeps the current angles. Caller must hold the mutex.
func (cc *cameraControllerImpl) placeAt(p mgl32.Vec3) {
	offset := p.Sub(cc.target)
	r := offset.Len()
	if r < 1e-6 {
		return
	}
	cc.radius = r
	cc.azimuth = math32.Atan2(offset.X(), offset.Z())
	cc.elevation = math32.Asin(offset.Y() / r)
}

// clamp enforces the radius and elevation bounds. Caller must hold the mutex.
func (cc *cameraControllerImpl) clamp() {
	cc.radius = mgl32.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = mgl32.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
}

// groundAxes returns the horizontal right and forward axes for the current azimuth.
// These match the look-at basis projected onto the XZ plane. Caller must hold the mutex.
func (cc *cameraControllerImpl) groundAxes() (right, forward mgl32.Vec3) {
	sinAzim, cosAzim := math32.Sincos(cc.azimuth)
	right = mgl32.Vec3{cosAzim, 0, -sinAzim}
	forward = mgl32.Vec3{-sinAzim, 0, -cosAzim}
	return right, forward
}

// changed notifies the change trigger. Must be called without holding the mutex since
// subscribers typically read the controller while redrawing.
func (cc *cameraControllerImpl) changed() {
	if cc.changeTrigger != nil {
		cc.changeTrigger.Notify(trigger.ReasonControlChange)
	}
}

// --- CameraController shared methods ---

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	cc.placeAt(mgl32.Vec3{x, y, z})
	cc.clamp()
	cc.updatePosition()
	cc.mu.Unlock()
	cc.changed()
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	cc.target = mgl32.Vec3{x, y, z}
	cc.updatePosition()
	cc.mu.Unlock()
	cc.changed()
}

// --- orbitCameraController implementation ---

func (cc *cameraControllerImpl) Rotate(dAzimuth, dElevation float32) {
	cc.mu.Lock()
	cc.azimuth += dAzimuth
	cc.elevation += dElevation
	cc.clamp()
	cc.updatePosition()
	cc.mu.Unlock()
	cc.changed()
}

func (cc *cameraControllerImpl) Dolly(scale float32) {
	if scale <= 0 {
		return
	}
	cc.mu.Lock()
	cc.radius *= scale
	cc.clamp()
	cc.updatePosition()
	cc.mu.Unlock()
	cc.changed()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	cc.radius = radius
	cc.clamp()
	cc.updatePosition()
	cc.mu.Unlock()
	cc.changed()
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) MinElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation
}

func (cc *cameraControllerImpl) MaxElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxElevation
}

// --- planarCameraController implementation ---

func (cc *cameraControllerImpl) Pan(right, forward float32) {
	cc.mu.Lock()
	rightAxis, forwardAxis := cc.groundAxes()
	offset := rightAxis.Mul(right).Add(forwardAxis.Mul(forward))
	cc.target = cc.target.Add(offset)
	cc.position = cc.position.Add(offset)
	cc.mu.Unlock()
	cc.changed()
}

func (cc *cameraControllerImpl) GroundAxes() (right, forward mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.groundAxes()
}
