package instanced_mesh

import "github.com/Carmen-Shannon/oxy-cubes/engine/renderer/bind_group_provider"

// InstancedMeshBuilderOption is a function that configures an instancedMesh during construction.
type InstancedMeshBuilderOption func(*instancedMesh)

// WithName is an option builder that sets the mesh name, also used to label its GPU resources.
//
// Parameters:
//   - name: the mesh identifier
//
// Returns:
//   - InstancedMeshBuilderOption: a function that applies the name option to an instancedMesh
func WithName(name string) InstancedMeshBuilderOption {
	return func(m *instancedMesh) {
		m.name = name
	}
}

// WithChunkSize is an option builder that sets how many records one packing task marshals.
// Values below 1 are ignored.
//
// Parameters:
//   - n: records per chunk
//
// Returns:
//   - InstancedMeshBuilderOption: a function that applies the chunk size option to an instancedMesh
func WithChunkSize(n int) InstancedMeshBuilderOption {
	return func(m *instancedMesh) {
		if n > 0 {
			m.chunkSize = n
		}
	}
}

// WithPackWorkers is an option builder that caps the packing worker pool. Defaults to
// runtime.NumCPU()-1. One worker packs on the calling goroutine.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - InstancedMeshBuilderOption: a function that applies the worker option to an instancedMesh
func WithPackWorkers(n int) InstancedMeshBuilderOption {
	return func(m *instancedMesh) {
		m.workers = max(n, 1)
	}
}

// WithInstanceProvider is an option builder that supplies the BindGroupProvider receiving
// the instance storage buffer.
//
// Parameters:
//   - provider: the provider to use
//
// Returns:
//   - InstancedMeshBuilderOption: a function that applies the provider option to an instancedMesh
func WithInstanceProvider(provider bind_group_provider.BindGroupProvider) InstancedMeshBuilderOption {
	return func(m *instancedMesh) {
		m.provider = provider
	}
}
