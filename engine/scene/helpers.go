package scene

import (
	"github.com/Carmen-Shannon/oxy-cubes/engine/instance"
	"github.com/Carmen-Shannon/oxy-cubes/engine/instanced_mesh"
	"github.com/Carmen-Shannon/oxy-cubes/engine/model"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/material"
)

// NewAxesHelper creates the X (red), Y (green) and Z (blue) axis indicator: a single
// identity instance of model.NewAxesModel drawn with the unlit line material.
//
// Parameters:
//   - size: the length of each axis line
//
// Returns:
//   - instanced_mesh.InstancedMesh: the axes mesh
func NewAxesHelper(size float32) instanced_mesh.InstancedMesh {
	return instanced_mesh.NewInstancedMesh(
		model.NewAxesModel(size),
		[]instance.Record{instance.Identity()},
		material.NewMaterial(material.KindLine, material.WithName("axes")),
		instanced_mesh.WithName("axes_helper"),
	)
}
