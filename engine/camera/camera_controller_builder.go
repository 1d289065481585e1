package camera

import (
	"github.com/Carmen-Shannon/oxy-cubes/engine/trigger"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial orbit radius (distance from target).
//
// Parameters:
//   - radius: initial distance from target
//
// Returns:
//   - CameraControllerOption: functional option to set radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle in radians.
//
// Parameters:
//   - azimuth: initial horizontal angle in radians
//
// Returns:
//   - CameraControllerOption: functional option to set azimuth
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle in radians.
//
// Parameters:
//   - elevation: initial vertical angle in radians
//
// Returns:
//   - CameraControllerOption: functional option to set elevation
func WithElevation(elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.elevation = elevation
	}
}

// WithTarget sets the initial look-at/pivot point.
//
// Parameters:
//   - x, y, z: world-space target coordinates
//
// Returns:
//   - CameraControllerOption: functional option to set target
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = mgl32.Vec3{x, y, z}
	}
}

// WithPosition sets the initial eye position. Radius, azimuth and elevation are derived
// from it relative to the target once all options have been applied, overriding
// WithRadius, WithAzimuth and WithElevation.
//
// Parameters:
//   - x, y, z: world-space eye coordinates
//
// Returns:
//   - CameraControllerOption: functional option to set the eye position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		p := mgl32.Vec3{x, y, z}
		cc.initialPosition = &p
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius.
//
// Parameters:
//   - min: minimum distance from target
//   - max: maximum distance from target
//
// Returns:
//   - CameraControllerOption: functional option to set radius bounds
func WithRadiusBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithElevationBounds sets the minimum and maximum elevation angles in radians.
//
// Parameters:
//   - min: minimum elevation in radians
//   - max: maximum elevation in radians
//
// Returns:
//   - CameraControllerOption: functional option to set elevation bounds
func WithElevationBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation = min
		cc.maxElevation = max
	}
}

// WithChangeTrigger sets the render trigger notified after every mutation.
//
// Parameters:
//   - t: the trigger to notify with trigger.ReasonControlChange
//
// Returns:
//   - CameraControllerOption: functional option to set the change trigger
func WithChangeTrigger(t trigger.RenderTrigger) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.changeTrigger = t
	}
}
