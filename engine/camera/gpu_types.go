package camera

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSize is the byte size of the marshaled GPUCameraUniform.
const GPUCameraUniformSize = 80

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (80 bytes, uniform aligned).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
type GPUCameraUniform struct {
	ViewProj mgl32.Mat4 // offset  0: combined view-projection matrix (mat4x4<f32>)
	Position mgl32.Vec3 // offset 64: world-space camera position (vec3<f32>)
	_pad     float32    // offset 76: padding to 80 bytes
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return GPUCameraUniformSize
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, GPUCameraUniformSize)
	off := common.PutMat4(buf, g.ViewProj)
	off += common.PutFloat32s(buf[off:], g.Position[:]...)
	common.PutFloat32s(buf[off:], 0)
	return buf
}
