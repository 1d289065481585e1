package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records the calls the renderer forwards to it.
type fakeBackend struct {
	configured   [][2]int
	presentMode  PresentMode
	clearColor   ClearColor
	registered   []string
	registerErr  error
	beginErr     error
	draws        []uint32
	frames       int
	presents     int
	writes       int
	released     bool
	bindGroupErr error
	discards     int

	// surfaceHeld mirrors the wgpu backend: the swapchain texture stays acquired from
	// BeginFrame until Present or DiscardFrame.
	surfaceHeld bool
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.configured = append(f.configured, [2]int{width, height})
}
func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }
func (f *fakeBackend) SetClearColor(color ClearColor) { f.clearColor = color }
func (f *fakeBackend) SurfaceFormat() wgpu.TextureFormat { return wgpu.TextureFormatBGRA8UnormSrgb }
func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}
func (f *fakeBackend) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}
func (f *fakeBackend) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]uint64) error {
	return f.bindGroupErr
}
func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) { f.writes += len(writes) }
func (f *fakeBackend) BeginFrame() error {
	if f.beginErr != nil {
		return f.beginErr
	}
	if f.surfaceHeld {
		return errors.New("previous frame surface not yet presented")
	}
	f.surfaceHeld = true
	return nil
}
func (f *fakeBackend) DrawCall(_ pipeline.Pipeline, _ bind_group_provider.BindGroupProvider, instanceCount uint32, _ []bind_group_provider.BindGroupProvider) {
	f.draws = append(f.draws, instanceCount)
}
func (f *fakeBackend) EndFrame() error { f.frames++; return nil }
func (f *fakeBackend) Present() {
	f.presents++
	f.surfaceHeld = false
}
func (f *fakeBackend) DiscardFrame() {
	f.discards++
	f.surfaceHeld = false
}
func (f *fakeBackend) Release() { f.released = true }

const testVertex = `//@oxy:include camera
//@oxy:include vertex
//@oxy:include instance
//@oxy:group 0 0 storage_uniform camera camera
//@oxy:group 1 0 storage_read instances array<instance>

@vertex
fn vs_main(in: VertexInput, @builtin(instance_index) idx: u32) -> @builtin(position) vec4<f32> {
    return camera.view_proj * instances[idx].model * vec4<f32>(in.position, 1.0);
}
`

const testFragment = `@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

const sparseVertex = `//@oxy:include camera
//@oxy:include vertex
//@oxy:group 0 0 storage_uniform camera camera
//@oxy:group 2 0 storage_uniform other camera

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return camera.view_proj * other.view_proj * vec4<f32>(in.position, 1.0);
}
`

func newTestRenderer(t *testing.T, options ...RendererBuilderOption) (*renderer, *fakeBackend) {
	t.Helper()
	fake := &fakeBackend{}
	r := newRenderer(BackendTypeWGPU, append([]RendererBuilderOption{withBackend(fake)}, options...)...)
	r.start(800, 600)
	return r, fake
}

func newPipeline(t *testing.T, key, vertexSource string) pipeline.Pipeline {
	t.Helper()
	vs, err := shader.NewShader(key+"_vs", shader.ShaderTypeVertex, vertexSource)
	require.NoError(t, err)
	fs, err := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, testFragment)
	require.NoError(t, err)
	return pipeline.NewPipeline(key, pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(fs))
}

func TestNewRendererConfiguresBackend(t *testing.T) {
	r, fake := newTestRenderer(t, WithPresentMode(PresentModeUncapped), WithClearColor(ClearColor{R: 0.2, A: 1}))

	assert.Equal(t, [][2]int{{800, 600}}, fake.configured)
	assert.Equal(t, PresentModeUncapped, fake.presentMode)
	assert.Equal(t, ClearColor{R: 0.2, A: 1}, fake.clearColor)
	assert.Equal(t, MSAA4x, r.msaa)
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, r.SurfaceFormat())

	w, h := r.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestResizeIgnoresEmptyFramebuffer(t *testing.T) {
	r, fake := newTestRenderer(t)

	r.Resize(1024, 768)
	r.Resize(0, 768)
	r.Resize(1024, 0)

	assert.Equal(t, [][2]int{{800, 600}, {1024, 768}}, fake.configured)
	w, h := r.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestRegisterPipelinesCachesOnce(t *testing.T) {
	r, fake := newTestRenderer(t)
	p := newPipeline(t, "mesh", testVertex)

	require.NoError(t, r.RegisterPipelines(p, p))
	require.NoError(t, r.RegisterPipelines(p))

	assert.Equal(t, []string{"mesh"}, fake.registered)
	assert.Same(t, p, r.Pipeline("mesh"))
	assert.Len(t, r.Pipelines(), 1)
	assert.Nil(t, r.Pipeline("missing"))
}

func TestRegisterPipelinesRejectsSparseGroups(t *testing.T) {
	r, fake := newTestRenderer(t)

	err := r.RegisterPipelines(newPipeline(t, "sparse", sparseVertex))
	assert.ErrorIs(t, err, ErrSparseBindGroups)
	assert.Empty(t, fake.registered)
	assert.Nil(t, r.Pipeline("sparse"))
}

func TestRegisterPipelinesWrapsBackendError(t *testing.T) {
	r, fake := newTestRenderer(t)
	fake.registerErr = errors.New("device lost")

	err := r.RegisterPipelines(newPipeline(t, "mesh", testVertex))
	assert.ErrorIs(t, err, fake.registerErr)
	assert.Nil(t, r.Pipeline("mesh"))
}

func TestFrameLifecycle(t *testing.T) {
	r, fake := newTestRenderer(t)
	require.NoError(t, r.RegisterPipelines(newPipeline(t, "mesh", testVertex)))
	mesh := bind_group_provider.NewBindGroupProvider("mesh")

	assert.ErrorIs(t, r.DrawCall("mesh", mesh, 1, nil), ErrFrameNotStarted)
	assert.ErrorIs(t, r.EndFrame(), ErrFrameNotStarted)

	require.NoError(t, r.BeginFrame())
	assert.ErrorIs(t, r.BeginFrame(), ErrFrameInProgress)
	require.NoError(t, r.DrawCall("mesh", mesh, 250000, nil))
	assert.Error(t, r.DrawCall("missing", mesh, 1, nil))
	require.NoError(t, r.EndFrame())
	r.Present()

	assert.Equal(t, []uint32{250000}, fake.draws)
	assert.Equal(t, 1, fake.frames)
	assert.Equal(t, 1, fake.presents)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.EndFrame())
	assert.Equal(t, 2, fake.frames)
}

func TestDiscardFrameReleasesSurface(t *testing.T) {
	tests := []struct {
		name string
		end  bool
	}{
		{"open pass", false},
		{"ended pass", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fake := newTestRenderer(t)
			require.NoError(t, r.BeginFrame())
			if tt.end {
				require.NoError(t, r.EndFrame())
			}

			r.DiscardFrame()

			assert.Equal(t, 1, fake.discards)
			assert.Zero(t, fake.presents)
			assert.False(t, fake.surfaceHeld)
			require.NoError(t, r.BeginFrame())
			require.NoError(t, r.EndFrame())
			r.Present()
			assert.Equal(t, 1, fake.presents)
		})
	}
}

func TestDiscardFrameWithoutFrame(t *testing.T) {
	r, fake := newTestRenderer(t)
	r.DiscardFrame()
	assert.Equal(t, 1, fake.discards)
	assert.NoError(t, r.BeginFrame())
}

func TestBeginFrameErrorLeavesFrameClosed(t *testing.T) {
	r, fake := newTestRenderer(t)
	fake.beginErr = errors.New("surface outdated")

	assert.ErrorIs(t, r.BeginFrame(), fake.beginErr)
	assert.ErrorIs(t, r.EndFrame(), ErrFrameNotStarted)

	fake.beginErr = nil
	assert.NoError(t, r.BeginFrame())
}

func TestReleaseClearsCache(t *testing.T) {
	r, fake := newTestRenderer(t)
	require.NoError(t, r.RegisterPipelines(newPipeline(t, "mesh", testVertex)))

	r.Release()
	assert.True(t, fake.released)
	assert.Empty(t, r.Pipelines())
}

func TestChooseSurfaceFormatPrefersSRGB(t *testing.T) {
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb,
		chooseSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb}))
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb,
		chooseSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb}))
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm,
		chooseSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm}))
}
