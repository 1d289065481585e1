package instanced_mesh

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-cubes/engine/instance"
	"github.com/Carmen-Shannon/oxy-cubes/engine/model"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultChunkSize is the number of records one packing task marshals.
const DefaultChunkSize = 16384

// ErrNoInstanceBinding is returned by InitGPU when the layout has no storage buffer entry
// to hold the instance array.
var ErrNoInstanceBinding = errors.New("layout has no storage binding for instance data")

// meshCount is an atomic counter used to name meshes created without WithName.
var meshCount atomic.Uint64

// GPUAllocator creates and fills the GPU resources an InstancedMesh needs.
// renderer.Renderer satisfies it.
type GPUAllocator interface {
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)
}

type instancedMesh struct {
	mu *sync.Mutex

	name     string
	base     model.Model
	mat      material.Material
	records  []instance.Record
	data     []byte
	provider bind_group_provider.BindGroupProvider

	chunkSize int
	workers   int

	initialized bool
}

// InstancedMesh draws one base model many times with a single instanced draw call.
//
// The record list is fixed at construction and packed once into the GPUInstance layout
// (model matrix plus color, 80 bytes per record). InitGPU uploads the base mesh and the
// packed data exactly once; drawing never re-uploads instance data.
type InstancedMesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Model retrieves the shared base shape.
	//
	// Returns:
	//   - model.Model: the base model
	Model() model.Model

	// Material retrieves the material the mesh is drawn with.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// Records returns the placement records. The slice must not be modified.
	//
	// Returns:
	//   - []instance.Record: the records in draw order
	Records() []instance.Record

	// InstanceCount reports how many instances a draw call renders.
	//
	// Returns:
	//   - int: the number of records
	InstanceCount() int

	// InstanceData returns the packed per-instance bytes, InstanceCount()*80 long.
	//
	// Returns:
	//   - []byte: the packed instance data
	InstanceData() []byte

	// InstanceBufferSize returns the byte size of the GPU instance buffer. An empty mesh
	// still gets room for one record since zero-sized bindings are invalid.
	//
	// Returns:
	//   - uint64: max(InstanceCount, 1) * 80
	InstanceBufferSize() uint64

	// InstanceProvider retrieves the BindGroupProvider holding the instance storage buffer.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the instance provider
	InstanceProvider() bind_group_provider.BindGroupProvider

	// InitGPU allocates the base mesh buffers (unless the model already owns them), the
	// instance storage buffer and its bind group, then uploads the packed data. Calls after
	// the first successful one do nothing.
	//
	// Parameters:
	//   - alloc: the allocator creating GPU resources
	//   - layout: the bind group layout of the group declaring the instance array
	//
	// Returns:
	//   - error: ErrNoInstanceBinding, or an allocation error
	InitGPU(alloc GPUAllocator, layout wgpu.BindGroupLayoutDescriptor) error

	// Initialized reports whether InitGPU has completed.
	//
	// Returns:
	//   - bool: true once GPU resources exist
	Initialized() bool

	// Release frees the instance buffer and bind group. The base model is left alone since
	// other meshes may share it.
	Release()
}

var _ InstancedMesh = &instancedMesh{}

// NewInstancedMesh creates an InstancedMesh over the records and packs their GPU data.
// Large record sets are packed in parallel on a worker pool.
//
// Parameters:
//   - base: the model every instance draws
//   - records: the instance placements, possibly empty
//   - mat: the material used to draw the mesh
//   - options: variadic list of InstancedMeshBuilderOption functions
//
// Returns:
//   - InstancedMesh: the new mesh
func NewInstancedMesh(base model.Model, records []instance.Record, mat material.Material, options ...InstancedMeshBuilderOption) InstancedMesh {
	m := &instancedMesh{
		mu:        &sync.Mutex{},
		base:      base,
		mat:       mat,
		records:   records,
		chunkSize: DefaultChunkSize,
		workers:   max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.name == "" {
		m.name = "instanced_mesh_" + strconv.FormatUint(meshCount.Add(1)-1, 10)
	}
	if m.provider == nil {
		m.provider = bind_group_provider.NewBindGroupProvider(m.name + "_instances")
	}
	m.data = packInstances(m.records, m.chunkSize, m.workers)
	return m
}

func (m *instancedMesh) Name() string {
	return m.name
}

func (m *instancedMesh) Model() model.Model {
	return m.base
}

func (m *instancedMesh) Material() material.Material {
	return m.mat
}

func (m *instancedMesh) Records() []instance.Record {
	return m.records
}

func (m *instancedMesh) InstanceCount() int {
	return len(m.records)
}

func (m *instancedMesh) InstanceData() []byte {
	return m.data
}

func (m *instancedMesh) InstanceBufferSize() uint64 {
	return uint64(max(len(m.records), 1)) * model.GPUInstanceSize
}

func (m *instancedMesh) InstanceProvider() bind_group_provider.BindGroupProvider {
	return m.provider
}

func (m *instancedMesh) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

func (m *instancedMesh) InitGPU(alloc GPUAllocator, layout wgpu.BindGroupLayoutDescriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	binding, ok := storageBinding(layout)
	if !ok {
		return fmt.Errorf("init %s: %w", m.name, ErrNoInstanceBinding)
	}

	mesh := m.base.MeshProvider()
	if mesh.VertexBuffer() == nil {
		if err := alloc.InitMeshBuffers(mesh, m.base.VertexData(), m.base.IndexData(), m.base.IndexCount()); err != nil {
			return fmt.Errorf("init %s mesh buffers: %w", m.name, err)
		}
	}

	if err := alloc.InitBindGroup(m.provider, layout, map[int]uint64{binding: m.InstanceBufferSize()}); err != nil {
		return fmt.Errorf("init %s instance bind group: %w", m.name, err)
	}

	if len(m.data) > 0 {
		alloc.WriteBuffers([]bind_group_provider.BufferWrite{{
			Provider: m.provider,
			Binding:  binding,
			Offset:   0,
			Data:     m.data,
		}})
	}

	m.initialized = true
	return nil
}

func (m *instancedMesh) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.provider.Release()
	m.initialized = false
}

// storageBinding returns the binding index of the first storage buffer entry in layout.
func storageBinding(layout wgpu.BindGroupLayoutDescriptor) (int, bool) {
	for _, entry := range layout.Entries {
		switch entry.Buffer.Type {
		case wgpu.BufferBindingTypeReadOnlyStorage, wgpu.BufferBindingTypeStorage:
			return int(entry.Binding), true
		}
	}
	return 0, false
}
