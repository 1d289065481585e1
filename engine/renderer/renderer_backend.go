package renderer

import (
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	// This is the default: frames are only produced on demand, so latency is not a concern.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// ClearColor is the linear RGBA color the main render pass clears to.
type ClearColor struct {
	R, G, B, A float64
}

// RendererBackend is the GPU API the Renderer delegates to. The renderer owns the pipeline
// cache and surface bookkeeping; the backend owns every GPU object.
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and its MSAA and depth attachments.
	ConfigureSurface(width, height int)

	// SetPresentMode takes effect on the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the next frames clear to.
	SetClearColor(color ClearColor)

	// SurfaceFormat returns the color format chosen by the last ConfigureSurface.
	SurfaceFormat() wgpu.TextureFormat

	// RegisterRenderPipeline creates the GPU render pipeline for p and stores it on p.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index data into new GPU buffers on provider.
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates any missing buffers for descriptor and a bind group over them.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers queues the writes to their target buffers.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and opens the main render pass.
	BeginFrame() error

	// DrawCall encodes one indexed, instanced draw into the open render pass.
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider)

	// EndFrame closes the render pass and submits the frame's commands.
	EndFrame() error

	// Present shows the acquired swapchain texture and releases it.
	Present()

	// DiscardFrame drops an open or submitted-but-unpresented frame without presenting it,
	// releasing the swapchain texture so the next BeginFrame can acquire a new one.
	DiscardFrame()

	// Release frees the device, surface and attachments.
	Release()
}
