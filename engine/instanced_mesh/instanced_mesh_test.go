package instanced_mesh

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-cubes/engine/instance"
	"github.com/Carmen-Shannon/oxy-cubes/engine/model"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAllocator records allocation requests without touching a GPU.
type stubAllocator struct {
	meshInits      int
	bindGroupInits int
	sizeOverrides  map[int]uint64
	writes         []bind_group_provider.BufferWrite
	bindGroupErr   error
}

func (s *stubAllocator) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	s.meshInits++
	return nil
}

func (s *stubAllocator) InitBindGroup(_ bind_group_provider.BindGroupProvider, _ wgpu.BindGroupLayoutDescriptor, sizes map[int]uint64) error {
	if s.bindGroupErr != nil {
		return s.bindGroupErr
	}
	s.bindGroupInits++
	s.sizeOverrides = sizes
	return nil
}

func (s *stubAllocator) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	s.writes = append(s.writes, writes...)
}

var instanceLayout = wgpu.BindGroupLayoutDescriptor{
	Entries: []wgpu.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeReadOnlyStorage,
			MinBindingSize: model.GPUInstanceSize,
		},
	}},
}

func generate(t *testing.T, side int) []instance.Record {
	t.Helper()
	records, err := instance.Generate(side, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	return records
}

func TestInstanceCount(t *testing.T) {
	tests := []struct {
		name string
		side int
		want int
	}{
		{"empty", 0, 0},
		{"single", 1, 1},
		{"grid", 12, 144},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewInstancedMesh(model.NewBoxModel(1, 1, 1), generate(t, tt.side), material.NewMaterial(material.KindLambert))
			assert.Equal(t, tt.want, m.InstanceCount())
			assert.Len(t, m.InstanceData(), tt.want*model.GPUInstanceSize)
			assert.Equal(t, uint64(max(tt.want, 1)*model.GPUInstanceSize), m.InstanceBufferSize())
		})
	}
}

func TestPackedDataMatchesRecords(t *testing.T) {
	records := generate(t, 9)
	m := NewInstancedMesh(model.NewBoxModel(1, 1, 1), records, material.NewMaterial(material.KindBasic),
		WithChunkSize(10), WithPackWorkers(4))

	data := m.InstanceData()
	for i, r := range records {
		g := model.NewGPUInstance(r)
		assert.Equal(t, g.Marshal(), data[i*model.GPUInstanceSize:(i+1)*model.GPUInstanceSize], "record %d", i)
	}
}

func TestParallelPackingMatchesSerial(t *testing.T) {
	records := generate(t, 40)
	serial := packInstances(records, len(records), 1)
	parallel := packInstances(records, 97, 3)
	assert.Equal(t, serial, parallel)
}

func TestSupportsLargeGrid(t *testing.T) {
	if testing.Short() {
		t.Skip("packs 250k instances")
	}
	records := generate(t, 500)
	m := NewInstancedMesh(model.NewBoxModel(1, 1, 1), records, material.NewMaterial(material.KindLambert))

	require.Equal(t, 250000, m.InstanceCount())
	require.Len(t, m.InstanceData(), 250000*model.GPUInstanceSize)

	last := model.NewGPUInstance(records[len(records)-1])
	assert.Equal(t, last.Marshal(), m.InstanceData()[249999*model.GPUInstanceSize:])
}

func TestInitGPUAllocatesOnce(t *testing.T) {
	alloc := &stubAllocator{}
	m := NewInstancedMesh(model.NewBoxModel(1, 1, 1), generate(t, 3), material.NewMaterial(material.KindLambert), WithName("cubes"))

	require.NoError(t, m.InitGPU(alloc, instanceLayout))
	require.NoError(t, m.InitGPU(alloc, instanceLayout))

	assert.True(t, m.Initialized())
	assert.Equal(t, 1, alloc.meshInits)
	assert.Equal(t, 1, alloc.bindGroupInits)
	assert.Equal(t, map[int]uint64{0: 9 * model.GPUInstanceSize}, alloc.sizeOverrides)
	require.Len(t, alloc.writes, 1)
	assert.Same(t, m.InstanceProvider(), alloc.writes[0].Provider)
	assert.Equal(t, m.InstanceData(), alloc.writes[0].Data)
	assert.Equal(t, "cubes", m.Name())
	assert.Equal(t, "cubes_instances", m.InstanceProvider().Label())
}

func TestInitGPUEmptyMeshAllocatesMinimalBuffer(t *testing.T) {
	alloc := &stubAllocator{}
	m := NewInstancedMesh(model.NewBoxModel(1, 1, 1), nil, material.NewMaterial(material.KindLambert))

	require.NoError(t, m.InitGPU(alloc, instanceLayout))
	assert.Equal(t, map[int]uint64{0: model.GPUInstanceSize}, alloc.sizeOverrides)
	assert.Empty(t, alloc.writes)
	assert.Equal(t, 0, m.InstanceCount())
}

func TestInitGPUErrors(t *testing.T) {
	m := NewInstancedMesh(model.NewBoxModel(1, 1, 1), generate(t, 2), material.NewMaterial(material.KindLambert))

	err := m.InitGPU(&stubAllocator{}, wgpu.BindGroupLayoutDescriptor{})
	assert.ErrorIs(t, err, ErrNoInstanceBinding)

	failing := &stubAllocator{bindGroupErr: errors.New("out of memory")}
	err = m.InitGPU(failing, instanceLayout)
	assert.ErrorIs(t, err, failing.bindGroupErr)
	assert.False(t, m.Initialized())

	ok := &stubAllocator{}
	require.NoError(t, m.InitGPU(ok, instanceLayout))
	assert.True(t, m.Initialized())
}

func TestDefaultNamesAreUnique(t *testing.T) {
	box := model.NewBoxModel(1, 1, 1)
	a := NewInstancedMesh(box, nil, material.NewMaterial(material.KindBasic))
	b := NewInstancedMesh(box, nil, material.NewMaterial(material.KindBasic))
	assert.NotEqual(t, a.Name(), b.Name())
	assert.Same(t, box, a.Model())
	assert.Equal(t, material.KindBasic, b.Material().Kind())
}
