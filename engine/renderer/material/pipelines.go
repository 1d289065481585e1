package material

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/mesh.vert.wgsl
var meshVertexSource string

//go:embed assets/line.vert.wgsl
var lineVertexSource string

//go:embed assets/lambert.frag.wgsl
var lambertFragmentSource string

//go:embed assets/basic.frag.wgsl
var basicFragmentSource string

//go:embed assets/normal.frag.wgsl
var normalFragmentSource string

//go:embed assets/line.frag.wgsl
var lineFragmentSource string

//go:embed assets/aces.wgsl
var acesSource string

// ShaderSources returns the raw vertex and fragment WGSL for a kind. Tone-mapped kinds have
// the ACES helpers appended to the fragment source.
//
// Parameters:
//   - kind: the material kind
//
// Returns:
//   - vertex: the vertex shader source
//   - fragment: the fragment shader source
//   - err: ErrUnknownKind for an unrecognized kind
func ShaderSources(kind Kind) (vertex, fragment string, err error) {
	switch kind {
	case KindLambert:
		vertex, fragment = meshVertexSource, lambertFragmentSource
	case KindBasic:
		vertex, fragment = meshVertexSource, basicFragmentSource
	case KindNormal:
		vertex, fragment = meshVertexSource, normalFragmentSource
	case KindLine:
		vertex, fragment = lineVertexSource, lineFragmentSource
	default:
		return "", "", fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	if kind.ToneMapped() {
		fragment = fragment + "\n" + acesSource
	}
	return vertex, fragment, nil
}

// BuildPipeline parses the shaders of a material and configures a render pipeline for it under
// the material's pipeline key. Surfaces cull back faces; lines draw as line lists without culling.
// The returned pipeline still has to be registered with a renderer.
//
// Parameters:
//   - m: the material to build a pipeline for
//
// Returns:
//   - pipeline.Pipeline: the configured pipeline
//   - error: if the kind is unknown or a shader fails to parse
func BuildPipeline(m Material) (pipeline.Pipeline, error) {
	vertexSource, fragmentSource, err := ShaderSources(m.Kind())
	if err != nil {
		return nil, err
	}

	key := m.PipelineKey()
	vs, err := shader.NewShader(key+"_vs", shader.ShaderTypeVertex, vertexSource)
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", m.Name(), err)
	}
	fs, err := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", m.Name(), err)
	}

	opts := []pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	}
	if m.Kind() == KindLine {
		opts = append(opts,
			pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
			pipeline.WithCullMode(wgpu.CullModeNone),
		)
	} else {
		opts = append(opts, pipeline.WithCullMode(wgpu.CullModeBack))
	}

	return pipeline.NewPipeline(key, opts...), nil
}
