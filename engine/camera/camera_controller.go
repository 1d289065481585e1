package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController defines the union interface for camera control systems.
// Controllers own positional state (position, target). Camera reads from the controller
// and computes view/projection matrices. Embeds orbitCameraController and
// planarCameraController so rotation, dolly and ground-plane panning all work from a
// single controller instance.
//
// Every mutating method notifies the attached render trigger (if any) with
// trigger.ReasonControlChange after the new state is in place.
type CameraController interface {
	orbitCameraController
	planarCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget moves the look-at point and recomputes position from the spherical coordinates.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// SetPosition places the camera at a world-space position, deriving radius, azimuth
	// and elevation relative to the current target. Elevation and radius are clamped.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)
}

// orbitCameraController defines orbit-specific control methods.
// Provides orbit controls using spherical coordinates (radius, azimuth, elevation)
// relative to the target/pivot point.
type orbitCameraController interface {
	// Rotate orbits the camera around the target.
	//
	// Parameters:
	//   - dAzimuth: change in horizontal angle in radians
	//   - dElevation: change in vertical angle in radians, the result is clamped
	Rotate(dAzimuth, dElevation float32)

	// Dolly scales the distance to the target. Values below 1 move closer.
	// Non-positive scales are ignored.
	//
	// Parameters:
	//   - scale: multiplier applied to the radius, the result is clamped
	Dolly(scale float32)

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// MinRadius returns the minimum allowed orbit radius.
	//
	// Returns:
	//   - float32: minimum distance
	MinRadius() float32

	// MaxRadius returns the maximum allowed orbit radius.
	//
	// Returns:
	//   - float32: maximum distance
	MaxRadius() float32

	// Azimuth returns the current horizontal angle around the Y axis, measured from +Z toward +X.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// MinElevation returns the minimum allowed elevation angle.
	//
	// Returns:
	//   - float32: minimum elevation in radians
	MinElevation() float32

	// MaxElevation returns the maximum allowed elevation angle.
	//
	// Returns:
	//   - float32: maximum elevation in radians
	MaxElevation() float32
}

// planarCameraController defines ground-plane translation.
// Panning shifts both position and target by the same offset, preserving the orbit relationship.
type planarCameraController interface {
	// Pan translates the camera parallel to the ground plane.
	//
	// Parameters:
	//   - right: distance along the camera's horizontal right axis
	//   - forward: distance along the camera's view direction projected onto the ground
	Pan(right, forward float32)

	// GroundAxes returns the horizontal right and forward unit vectors used by Pan.
	//
	// Returns:
	//   - right: the horizontal right axis
	//   - forward: the horizontal forward axis
	GroundAxes() (right, forward mgl32.Vec3)
}
