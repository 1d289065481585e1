package light

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-cubes/common"
)

// MaxLights is the number of lights the LightBlock uniform holds. Enabled lights beyond
// this budget are rejected by MarshalBlock.
const MaxLights = 8

const (
	// GPULightSize is the byte size of one marshaled GPULight.
	GPULightSize = 48

	// GPULightBlockSize is the byte size of the marshaled LightBlock uniform: a 16-byte
	// header followed by MaxLights lights.
	GPULightBlockSize = 16 + MaxLights*GPULightSize
)

// ErrTooManyLights is returned when more than MaxLights enabled lights are marshaled.
var ErrTooManyLights = errors.New("too many enabled lights")

// GPULightSource is the canonical WGSL definition of the Light struct.
// Matches GPULight layout exactly (48 bytes, uniform aligned).
//
//go:embed assets/light.wgsl
var GPULightSource string

// GPULightBlockSource is the canonical WGSL definition of the LightBlock uniform struct.
// Must be included after GPULightSource since it declares array<Light, 8>.
//
//go:embed assets/light_block.wgsl
var GPULightBlockSource string

// GPULight is the GPU-aligned representation of a single light source.
// Matches the WGSL Light struct layout exactly (see GPULightSource).
type GPULight struct {
	Direction   [3]float32 // offset  0: normalized direction toward the light (directional) or up (hemisphere)
	LightType   uint32     // offset 12: 0 = directional, 1 = hemisphere
	Color       [3]float32 // offset 16: RGB color, sky color for hemisphere
	Intensity   float32    // offset 28: scalar multiplier
	GroundColor [3]float32 // offset 32: hemisphere ground color, unused for directional
	_pad        float32    // offset 44: padding to 48 bytes
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULight) Size() int {
	return GPULightSize
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, GPULightSize)
	g.MarshalTo(buf)
	return buf
}

// MarshalTo serializes the GPULight into buf, which must hold at least 48 bytes.
//
// Parameters:
//   - buf: destination buffer
func (g *GPULight) MarshalTo(buf []byte) {
	common.PutFloat32s(buf[0:12], g.Direction[:]...)
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	common.PutFloat32s(buf[16:28], g.Color[:]...)
	common.PutFloat32s(buf[28:32], g.Intensity)
	common.PutFloat32s(buf[32:44], g.GroundColor[:]...)
	common.PutFloat32s(buf[44:48], 0)
}

// MarshalBlock packs the enabled lights into a LightBlock uniform buffer. Unused slots
// are zeroed; the header count tells the shader how many slots are live.
//
// Parameters:
//   - lights: the scene lights, disabled ones are skipped
//
// Returns:
//   - []byte: GPULightBlockSize bytes ready for GPU upload
//   - error: ErrTooManyLights if more than MaxLights lights are enabled
func MarshalBlock(lights []Light) ([]byte, error) {
	buf := make([]byte, GPULightBlockSize)
	count := 0
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		if count == MaxLights {
			return nil, fmt.Errorf("marshal light block: %w (max %d)", ErrTooManyLights, MaxLights)
		}
		g := l.GPU()
		g.MarshalTo(buf[16+count*GPULightSize:])
		count++
	}
	binary.LittleEndian.PutUint32(buf[0:4], uint32(count))
	return buf, nil
}
