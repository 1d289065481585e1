package light

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a distant light shining from its position toward its
	// target. Only the direction matters; there is no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypeHemisphere represents a sky/ground ambient term. Fragments whose normal
	// faces the up direction receive the sky color, fragments facing away receive the
	// ground color, blended by the normal's alignment with up.
	LightTypeHemisphere
)

// String returns the lowercase name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypeHemisphere:
		return "hemisphere"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	lightType   LightType
	position    mgl32.Vec3
	target      mgl32.Vec3
	color       mgl32.Vec3
	groundColor mgl32.Vec3
	intensity   float32
	enabled     bool
}

// Light defines the interface for a light source in the scene.
//
// Directional and hemisphere lights share this interface. For a hemisphere light the
// position is the up direction (three.js places it at (0, 1, 0)) and the target is unused
// beyond defining that direction from the origin.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Target returns the point the light shines toward.
	//
	// Returns:
	//   - mgl32.Vec3: the target
	Target() mgl32.Vec3

	// Direction returns the normalized vector pointing from the target toward the light,
	// which is the direction a lit surface normal must face to receive full intensity.
	// Returns +Y when position and target coincide.
	//
	// Returns:
	//   - mgl32.Vec3: the normalized direction
	Direction() mgl32.Vec3

	// Color returns the RGB color of the light. For hemisphere lights this is the sky color.
	//
	// Returns:
	//   - mgl32.Vec3: the color
	Color() mgl32.Vec3

	// GroundColor returns the ground color of a hemisphere light, zero for other types.
	//
	// Returns:
	//   - mgl32.Vec3: the ground color
	GroundColor() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are skipped when the light block is marshaled.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetTarget sets the point the light shines toward.
	//
	// Parameters:
	//   - x, y, z: target components
	SetTarget(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// GPU returns the GPU representation of the light.
	//
	// Returns:
	//   - GPULight: the marshalable light
	GPU() GPULight
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with white color, intensity 1,
// positioned at (0, 1, 0) and targeting the origin, then applies any options.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:        &sync.Mutex{},
		lightType: lightType,
		position:  mgl32.Vec3{0, 1, 0},
		color:     mgl32.Vec3{1, 1, 1},
		intensity: 1,
		enabled:   true,
	}
	if lightType == LightTypeHemisphere {
		l.groundColor = mgl32.Vec3{1, 1, 1}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewHemisphereLight creates a hemisphere light with the given sky and ground colors.
//
// Parameters:
//   - sky: color received by surfaces facing up
//   - ground: color received by surfaces facing down
//   - intensity: scalar intensity multiplier
//
// Returns:
//   - Light: the hemisphere light
func NewHemisphereLight(sky, ground mgl32.Vec3, intensity float32) Light {
	return NewLight(LightTypeHemisphere,
		WithColor(sky[0], sky[1], sky[2]),
		WithGroundColor(ground[0], ground[1], ground[2]),
		WithIntensity(intensity),
	)
}

// NewDirectionalLight creates a directional light at position shining toward the origin.
//
// Parameters:
//   - color: the light color
//   - intensity: scalar intensity multiplier
//   - position: world-space position of the light
//
// Returns:
//   - Light: the directional light
func NewDirectionalLight(color mgl32.Vec3, intensity float32, position mgl32.Vec3) Light {
	return NewLight(LightTypeDirectional,
		WithColor(color[0], color[1], color[2]),
		WithIntensity(intensity),
		WithPosition(position[0], position[1], position[2]),
	)
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Target() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction()
}

func (l *lightImpl) direction() mgl32.Vec3 {
	d := l.position.Sub(l.target)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return d.Normalize()
}

func (l *lightImpl) Color() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) GroundColor() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.groundColor
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.mu.Lock()
	l.position = mgl32.Vec3{x, y, z}
	l.mu.Unlock()
}

func (l *lightImpl) SetTarget(x, y, z float32) {
	l.mu.Lock()
	l.target = mgl32.Vec3{x, y, z}
	l.mu.Unlock()
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.mu.Lock()
	l.color = mgl32.Vec3{r, g, b}
	l.mu.Unlock()
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	l.intensity = intensity
	l.mu.Unlock()
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	l.enabled = enabled
	l.mu.Unlock()
}

func (l *lightImpl) GPU() GPULight {
	l.mu.Lock()
	defer l.mu.Unlock()
	return GPULight{
		Direction:   l.direction(),
		LightType:   uint32(l.lightType),
		Color:       l.color,
		Intensity:   l.intensity,
		GroundColor: l.groundColor,
	}
}
