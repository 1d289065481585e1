package scene

import (
	"log"

	"github.com/Carmen-Shannon/oxy-cubes/engine/instanced_mesh"
	"github.com/Carmen-Shannon/oxy-cubes/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLights adds initial lights to the scene. Lights beyond light.MaxLights are dropped
// with a log line.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		for _, l := range lights {
			if err := s.addLight(l); err != nil {
				log.Printf("[Scene] dropping light: %v", err)
			}
		}
	}
}

// WithMeshes adds initial meshes to the scene, drawn in the given order.
//
// Parameters:
//   - meshes: the meshes to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMeshes(meshes ...instanced_mesh.InstancedMesh) SceneBuilderOption {
	return func(s *scene) {
		s.meshes = append(s.meshes, meshes...)
	}
}
