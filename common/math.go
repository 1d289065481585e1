package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// Perspective creates a right-handed perspective projection matrix that maps view-space
// depth into WebGPU's [0, 1] clip range. mgl32.Perspective targets OpenGL's [-1, 1] range,
// which would clip the front half of the frustum under WebGPU.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// LookAt creates a view matrix that positions and orients the camera.
// A degenerate eye/center pair yields the identity matrix instead of NaNs.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
//
// Returns:
//   - mgl32.Mat4: the column-major view matrix
func LookAt(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	if eye.Sub(center).Len() == 0 {
		return mgl32.Ident4()
	}
	return mgl32.LookAtV(eye, center, up)
}

// ComposeTRS builds a model matrix from a translation, a rotation quaternion and a
// per-axis scale. The result applies scale first, then rotation, then translation.
//
// Parameters:
//   - position: translation in world space
//   - orientation: unit rotation quaternion
//   - scale: scale factors along each local axis
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix T * R * S
func ComposeTRS(position mgl32.Vec3, orientation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(orientation.Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// PutFloat32s writes the given values into buf as consecutive little-endian float32s.
//
// Parameters:
//   - buf: destination buffer (must hold at least 4*len(values) bytes)
//   - values: the values to encode
//
// Returns:
//   - int: the number of bytes written
func PutFloat32s(buf []byte, values ...float32) int {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return len(values) * 4
}

// PutMat4 writes a column-major 4x4 matrix into buf as 16 little-endian float32s,
// matching the WGSL mat4x4<f32> memory layout.
//
// Parameters:
//   - buf: destination buffer (must hold at least 64 bytes)
//   - m: the matrix to encode
//
// Returns:
//   - int: the number of bytes written (always 64)
func PutMat4(buf []byte, m mgl32.Mat4) int {
	return PutFloat32s(buf, m[:]...)
}
