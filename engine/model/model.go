package model

import (
	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
)

// Topology describes how a model's indices are assembled into primitives.
type Topology int

const (
	// TopologyTriangles assembles every three indices into a triangle.
	TopologyTriangles Topology = iota
	// TopologyLines assembles every two indices into a line segment.
	TopologyLines
)

// model is the implementation of the Model interface.
type model struct {
	name         string
	topology     Topology
	vertices     []GPUVertex
	indices      []uint32
	meshProvider bind_group_provider.BindGroupProvider

	boundingRadius        float32
	vertexData, indexData []byte
}

// Model is a GPU-ready base mesh: vertex and index data staged for upload, plus the
// BindGroupProvider that receives the vertex and index buffers once uploaded.
// A Model is shared by every instance drawn from it.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Topology returns how the index data is assembled into primitives.
	//
	// Returns:
	//   - Topology: the primitive topology
	Topology() Topology

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// Vertices returns the vertices of the mesh.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// VertexData returns the marshaled vertex data for this model's mesh.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the marshaled uint32 index data for this model's mesh.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the model's mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the distance from the model origin to its farthest vertex.
	//
	// Returns:
	//   - float32: the bounding sphere radius
	BoundingRadius() float32

	// Release releases the GPU mesh resources.
	Release()
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options. Vertex and index data are
// marshaled once here so repeated uploads and draws reuse the same bytes.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions to configure the model
//
// Returns:
//   - Model: the newly created model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	if m.meshProvider == nil {
		m.meshProvider = bind_group_provider.NewBindGroupProvider(m.name + "_mesh")
	}

	m.vertexData = make([]byte, len(m.vertices)*GPUVertexSize)
	for i := range m.vertices {
		m.vertices[i].MarshalTo(m.vertexData[i*GPUVertexSize:])
		if r := vertexDistance(m.vertices[i]); r > m.boundingRadius {
			m.boundingRadius = r
		}
	}
	m.indexData = common.SliceToBytes(m.indices)
	return m
}

func vertexDistance(v GPUVertex) float32 {
	return math32.Sqrt(v.Position[0]*v.Position[0] + v.Position[1]*v.Position[1] + v.Position[2]*v.Position[2])
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Topology() Topology {
	return m.topology
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) Release() {
	if m.meshProvider != nil {
		m.meshProvider.Release()
	}
}
