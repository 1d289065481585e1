package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `//@oxy:include camera
//@oxy:include vertex
//@oxy:include instance
//@oxy:group 0 0 storage_uniform camera camera
//@oxy:group 1 0 storage_read instances array<instance>

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@vertex
fn vs_main(in: VertexInput, @builtin(instance_index) idx: u32) -> VertexOutput {
    var out: VertexOutput;
    let inst = instances[idx];
    out.clip_position = camera.view_proj * inst.model * vec4<f32>(in.position, 1.0);
    out.color = in.color * inst.color;
    return out;
}
`

const testFragmentSource = `//@oxy:include light
//@oxy:include light_block
//@oxy:group 2 0 storage_uniform lights light_block

@fragment
fn fs_main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color * f32(lights.count);
}
`

func TestPreProcessorExpandsAnnotations(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process(testVertexSource)
	require.NoError(t, err)

	assert.Contains(t, out, "struct CameraUniform {")
	assert.Contains(t, out, "struct VertexInput {")
	assert.Contains(t, out, "struct InstanceData {")
	assert.Contains(t, out, "@group(0) @binding(0) var<uniform> camera: CameraUniform;")
	assert.Contains(t, out, "@group(1) @binding(0) var<storage, read> instances: array<InstanceData>;")
	assert.NotContains(t, out, "@oxy:")

	decls := pp.Declarations()
	require.Len(t, decls, 2)
	st, isArray := decls[0].StructType()
	assert.Equal(t, AnnotationArgCamera, st)
	assert.False(t, isArray)
	st, isArray = decls[1].StructType()
	assert.Equal(t, AnnotationArgInstance, st)
	assert.True(t, isArray)
	assert.Equal(t, 1, *decls[1].Group)
}

func TestPreProcessorResetsDeclarations(t *testing.T) {
	pp := NewPreProcessor()
	_, err := pp.Process(testVertexSource)
	require.NoError(t, err)
	_, err = pp.Process("fn main() {}")
	require.NoError(t, err)
	assert.Empty(t, pp.Declarations())
}

func TestParseAnnotationErrors(t *testing.T) {
	cases := map[string]string{
		"empty":            "//@oxy:",
		"unknown type":     "//@oxy:texture 0 0",
		"include arity":    "//@oxy:include camera vertex",
		"unknown include":  "//@oxy:include shadow",
		"group arity":      "//@oxy:group 0 0 storage_uniform camera",
		"bad group":        "//@oxy:group a 0 storage_uniform camera camera",
		"bad binding":      "//@oxy:group 0 b storage_uniform camera camera",
		"bad address":      "//@oxy:group 0 0 private camera camera",
		"bad struct":       "//@oxy:group 0 0 storage_uniform camera material",
		"bad element type": "//@oxy:group 0 0 storage_read xs array<material>",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			a, err := parseAnnotation(line, 3)
			assert.Nil(t, a)
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "line 3:"), err.Error())
		})
	}

	a, err := parseAnnotation("let x = 1; // plain comment", 1)
	assert.NoError(t, err)
	assert.Nil(t, a)
}

func TestNewShaderVertex(t *testing.T) {
	s, err := NewShader("test_vs", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	assert.Equal(t, "test_vs", s.Key())
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	require.NotNil(t, s.Module())
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	layout := s.VertexLayout(0)
	require.Len(t, layout, 1)
	assert.Equal(t, uint64(40), layout[0].ArrayStride)
	require.Len(t, layout[0].Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout[0].Attributes[1].Format)
	assert.Equal(t, uint64(12), layout[0].Attributes[1].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x4, layout[0].Attributes[2].Format)
	assert.Equal(t, uint64(24), layout[0].Attributes[2].Offset)

	cam := s.BindGroupLayoutDescriptor(0)
	require.Len(t, cam.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cam.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(80), cam.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, cam.Entries[0].Visibility)

	inst := s.BindGroupLayoutDescriptor(1)
	require.Len(t, inst.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, inst.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(80), inst.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, "instances", s.BindGroupVarName(1, 0))
	assert.Empty(t, s.BindGroupVarName(5, 0))
}

func TestNewShaderFragment(t *testing.T) {
	s, err := NewShader("test_fs", ShaderTypeFragment, testFragmentSource)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())

	lights := s.BindGroupLayoutDescriptor(2)
	require.Len(t, lights.Entries, 1)
	assert.Equal(t, uint64(400), lights.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageFragment, lights.Entries[0].Visibility)
	require.Len(t, s.Declarations(), 1)
}

func TestNewShaderErrors(t *testing.T) {
	_, err := NewShader("empty", ShaderTypeVertex, "")
	assert.Error(t, err)

	_, err = NewShader("no_entry", ShaderTypeFragment, testVertexSource)
	assert.ErrorContains(t, err, "entry point")

	_, err = NewShader("bad", ShaderTypeVertex, "//@oxy:include nope\n@vertex fn vs() {}")
	assert.ErrorContains(t, err, "unknown struct type")
}

func TestComputeStructSizes(t *testing.T) {
	structs := parseStructBlocks(stripComments(`
struct Light { direction: vec3<f32>, light_type: u32, color: vec3<f32>, intensity: f32, ground_color: vec3<f32>, _pad: f32, }
struct LightBlock { count: u32, _pad0: u32, _pad1: u32, _pad2: u32, lights: array<Light, 8>, }
struct Odd { a: f32, b: vec3<f32>, }
`))
	sizes := computeStructSizes(structs)

	assert.Equal(t, uint64(48), sizes["Light"].size)
	assert.Equal(t, uint64(400), sizes["LightBlock"].size)
	assert.Equal(t, uint64(32), sizes["Odd"].size)
	assert.Equal(t, uint64(16), sizes["Odd"].align)
}

func TestStripBlockCommentsNested(t *testing.T) {
	assert.Equal(t, "a  b", stripBlockComments("a /* x /* y */ z */ b"))
}
