package model

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/instance"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct.
// Matches GPUVertex layout exactly (40 bytes, tightly packed vertex attributes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUInstanceSource is the canonical WGSL definition of the InstanceData struct read from
// the per-instance storage buffer. Matches GPUInstance layout exactly (80 bytes).
//
//go:embed assets/instance.wgsl
var GPUInstanceSource string

const (
	// GPUVertexSize is the byte size of one marshaled GPUVertex.
	GPUVertexSize = 40

	// GPUInstanceSize is the byte size of one marshaled GPUInstance, which is also the
	// array stride of array<InstanceData> in a storage buffer.
	GPUInstanceSize = 80
)

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	Color    [4]float32 // offset 24: per-vertex RGBA color, multiplied with the instance color (16 bytes)
}

// Size returns the size of the marshaled GPUVertex in bytes.
//
// Returns:
//   - int: the size in bytes
func (g *GPUVertex) Size() int {
	return GPUVertexSize
}

// Marshal serializes the GPUVertex into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 40-byte buffer ready for GPU upload
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, GPUVertexSize)
	g.MarshalTo(buf)
	return buf
}

// MarshalTo serializes the GPUVertex into buf without allocating.
//
// Parameters:
//   - buf: destination buffer (must hold at least 40 bytes)
func (g *GPUVertex) MarshalTo(buf []byte) {
	off := common.PutFloat32s(buf, g.Position[:]...)
	off += common.PutFloat32s(buf[off:], g.Normal[:]...)
	common.PutFloat32s(buf[off:], g.Color[:]...)
}

// GPUInstance is the GPU-aligned representation of one drawn instance.
// Matches the WGSL InstanceData struct layout exactly (see GPUInstanceSource).
type GPUInstance struct {
	Model mgl32.Mat4 // offset  0: column-major T * R * S model matrix (64 bytes)
	Color [4]float32 // offset 64: RGBA tint, alpha is always 1 (16 bytes)
}

// NewGPUInstance converts a placement record into its GPU representation.
//
// Parameters:
//   - r: the record to convert
//
// Returns:
//   - GPUInstance: the GPU-aligned instance
func NewGPUInstance(r instance.Record) GPUInstance {
	return GPUInstance{
		Model: r.ModelMatrix(),
		Color: [4]float32{r.Color[0], r.Color[1], r.Color[2], 1},
	}
}

// Size returns the size of the marshaled GPUInstance in bytes.
//
// Returns:
//   - int: the size in bytes
func (g *GPUInstance) Size() int {
	return GPUInstanceSize
}

// Marshal serializes the GPUInstance into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload
func (g *GPUInstance) Marshal() []byte {
	buf := make([]byte, GPUInstanceSize)
	g.MarshalTo(buf)
	return buf
}

// MarshalTo serializes the GPUInstance into buf without allocating. Large instance sets
// are packed into one shared slice, so this avoids a per-instance allocation.
//
// Parameters:
//   - buf: destination buffer (must hold at least 80 bytes)
func (g *GPUInstance) MarshalTo(buf []byte) {
	off := common.PutMat4(buf, g.Model)
	common.PutFloat32s(buf[off:], g.Color[:]...)
}
