package material

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects the shading model of a material.
type Kind int

const (
	// KindLambert shades with hemisphere and directional diffuse lighting, tone mapped.
	KindLambert Kind = iota

	// KindBasic draws the unlit instance color, tone mapped.
	KindBasic

	// KindNormal visualizes world-space normals.
	KindNormal

	// KindLine draws unlit vertex-colored line lists.
	KindLine
)

// ErrUnknownKind is returned by ParseKind for names that match no material kind.
var ErrUnknownKind = errors.New("unknown material kind")

// String returns the lowercase config name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLambert:
		return "lambert"
	case KindBasic:
		return "basic"
	case KindNormal:
		return "normal"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// Lit reports whether the kind reads the scene light block.
func (k Kind) Lit() bool {
	return k == KindLambert
}

// ToneMapped reports whether the kind applies ACES filmic tone mapping to its output.
func (k Kind) ToneMapped() bool {
	return k == KindLambert || k == KindBasic
}

// ParseKind maps a case-insensitive config name to a Kind.
//
// Parameters:
//   - name: "lambert", "basic", "normal" or "line"
//
// Returns:
//   - Kind: the matching kind
//   - error: ErrUnknownKind wrapped with the name if nothing matches
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lambert":
		return KindLambert, nil
	case "basic":
		return KindBasic, nil
	case "normal":
		return KindNormal, nil
	case "line":
		return KindLine, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// material is the implementation of the Material interface.
type material struct {
	name        string
	kind        Kind
	pipelineKey string
}

// Material describes how an instanced mesh is shaded. Meshes sharing a pipeline key share
// one render pipeline.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Kind retrieves the shading model.
	//
	// Returns:
	//   - Kind: the material kind
	Kind() Kind

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key to associate with this material
	SetPipelineKey(key string)
}

var _ Material = &material{}

// NewMaterial creates a Material of the given kind. The name defaults to the kind name and the
// pipeline key to "material_<kind>", so every material of one kind shares a pipeline.
//
// Parameters:
//   - kind: the shading model
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(kind Kind, options ...MaterialBuilderOption) Material {
	m := &material{
		name:        kind.String(),
		kind:        kind,
		pipelineKey: "material_" + kind.String(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Kind() Kind {
	return m.kind
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) SetPipelineKey(key string) {
	m.pipelineKey = key
}
