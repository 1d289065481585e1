// Package instance generates the per-cube placement records for the instanced grid.
//
// Placement is a pure function of the grid cell. Scale and color are drawn from an
// injected RandomSource so callers (and tests) control determinism.
package instance

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MinScale is the inclusive lower bound of each randomized scale component.
	MinScale = 0.2
	// MaxScale is the upper bound of each randomized scale component.
	MaxScale = 0.8
	// MinColor is the lower bound of each randomized color channel.
	MinColor = 0.0
	// MaxColor is the upper bound of each randomized color channel.
	MaxColor = 1.0
)

var (
	// ErrNegativeSide is returned by Generate when the grid side length is negative.
	ErrNegativeSide = errors.New("instance: grid side must not be negative")

	// ErrNilRandomSource is returned by Generate when no random source is supplied.
	ErrNilRandomSource = errors.New("instance: random source must not be nil")
)

// RandomSource supplies uniformly distributed values in [0, 1).
// *math/rand.Rand satisfies this interface.
type RandomSource interface {
	Float64() float64
}

// Record is the immutable placement of one instance: where it sits, how it is turned,
// how big it is along each local axis, and its RGB tint.
type Record struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Scale       mgl32.Vec3
	Color       mgl32.Vec3
}

// ModelMatrix returns the record's transform as a column-major T * R * S matrix.
//
// Returns:
//   - mgl32.Mat4: the model matrix for this record
func (r Record) ModelMatrix() mgl32.Mat4 {
	return common.ComposeTRS(r.Position, r.Orientation, r.Scale)
}

// Identity returns a record at the origin with no rotation, unit scale and a white tint.
//
// Returns:
//   - Record: the identity record
func Identity() Record {
	return Record{
		Orientation: mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{1, 1, 1},
		Color:       mgl32.Vec3{1, 1, 1},
	}
}

// Placement computes the deterministic position and orientation of grid cell (x, y) in a
// grid of the given side length.
//
// The position is (x - side/2, sin(x+y), y - side/2) using real division, and the
// orientation is the quaternion of Euler angles (x, y, x+y) radians applied in XYZ order.
//
// Parameters:
//   - x: the cell column in [0, side)
//   - y: the cell row in [0, side)
//   - side: the grid side length
//
// Returns:
//   - mgl32.Vec3: the cell position
//   - mgl32.Quat: the cell orientation
func Placement(x, y, side int) (mgl32.Vec3, mgl32.Quat) {
	half := float64(side) / 2
	pos := mgl32.Vec3{
		float32(float64(x) - half),
		float32(math.Sin(float64(x + y))),
		float32(float64(y) - half),
	}
	rot := mgl32.AnglesToQuat(float32(x), float32(y), float32(x+y), mgl32.XYZ)
	return pos, rot
}

// RandRange draws a value uniformly from [min, max) using rnd.
//
// Parameters:
//   - rnd: the random source
//   - min: the inclusive lower bound
//   - max: the exclusive upper bound
//
// Returns:
//   - float32: the drawn value
func RandRange(rnd RandomSource, min, max float64) float32 {
	return float32(min + rnd.Float64()*(max-min))
}

// Generate produces side*side records in row-major order (x outer, y inner).
// Scale components are drawn from [MinScale, MaxScale) and color channels from
// [MinColor, MaxColor); for each record the three scale draws precede the three color draws.
//
// Parameters:
//   - side: the grid side length; zero yields no records
//   - rnd: the random source for scale and color
//
// Returns:
//   - []Record: the generated records
//   - error: ErrNegativeSide if side < 0, ErrNilRandomSource if rnd is nil
func Generate(side int, rnd RandomSource) ([]Record, error) {
	if side < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeSide, side)
	}
	if rnd == nil {
		return nil, ErrNilRandomSource
	}

	records := make([]Record, 0, side*side)
	for x := range side {
		for y := range side {
			pos, rot := Placement(x, y, side)
			records = append(records, Record{
				Position:    pos,
				Orientation: rot,
				Scale: mgl32.Vec3{
					RandRange(rnd, MinScale, MaxScale),
					RandRange(rnd, MinScale, MaxScale),
					RandRange(rnd, MinScale, MaxScale),
				},
				Color: mgl32.Vec3{
					RandRange(rnd, MinColor, MaxColor),
					RandRange(rnd, MinColor, MaxColor),
					RandRange(rnd, MinColor, MaxColor),
				},
			})
		}
	}
	return records, nil
}

// NewRandomSource returns a seeded RandomSource. A zero seed picks a time-based seed so
// every run looks different.
//
// Parameters:
//   - seed: the seed to use, or 0 for a time-based seed
//
// Returns:
//   - *rand.Rand: the random source
func NewRandomSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
