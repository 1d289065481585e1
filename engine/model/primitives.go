package model

// boxFaces lists the four corners of each face of a unit box centered on the origin,
// wound counter-clockwise when viewed from outside, with the outward face normal.
var boxFaces = [6]struct {
	corners [4][3]float32
	normal  [3]float32
}{
	{corners: [4][3]float32{{0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}, {0.5, -0.5, 0.5}}, normal: [3]float32{1, 0, 0}},
	{corners: [4][3]float32{{-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}, {-0.5, -0.5, -0.5}}, normal: [3]float32{-1, 0, 0}},
	{corners: [4][3]float32{{-0.5, 0.5, -0.5}, {-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}}, normal: [3]float32{0, 1, 0}},
	{corners: [4][3]float32{{-0.5, -0.5, 0.5}, {-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}}, normal: [3]float32{0, -1, 0}},
	{corners: [4][3]float32{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}}, normal: [3]float32{0, 0, 1}},
	{corners: [4][3]float32{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}, normal: [3]float32{0, 0, -1}},
}

// NewBoxModel builds an axis-aligned box centered on the origin with 24 vertices
// (four per face, so each face carries its own flat normal) and 36 indices.
// Vertex colors are white so the per-instance color is used unchanged.
//
// Parameters:
//   - width: extent along X
//   - height: extent along Y
//   - depth: extent along Z
//
// Returns:
//   - Model: the box model
func NewBoxModel(width, height, depth float32) Model {
	white := [4]float32{1, 1, 1, 1}

	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for fi, face := range boxFaces {
		for _, c := range face.corners {
			vertices = append(vertices, GPUVertex{
				Position: [3]float32{c[0] * width, c[1] * height, c[2] * depth},
				Normal:   face.normal,
				Color:    white,
			})
		}
		base := uint32(fi * 4)
		indices = append(indices,
			base+0, base+1, base+2,
			base+0, base+2, base+3,
		)
	}

	return NewModel(
		WithName("box"),
		WithTopology(TopologyTriangles),
		WithVertices(vertices),
		WithIndices(indices),
	)
}

// NewAxesModel builds three line segments from the origin along +X (red), +Y (green)
// and +Z (blue), each of the given length.
//
// Parameters:
//   - size: length of each axis line
//
// Returns:
//   - Model: the axes line model
func NewAxesModel(size float32) Model {
	red := [4]float32{1, 0, 0, 1}
	green := [4]float32{0, 1, 0, 1}
	blue := [4]float32{0, 0, 1, 1}

	vertices := []GPUVertex{
		{Position: [3]float32{0, 0, 0}, Color: red},
		{Position: [3]float32{size, 0, 0}, Color: red},
		{Position: [3]float32{0, 0, 0}, Color: green},
		{Position: [3]float32{0, size, 0}, Color: green},
		{Position: [3]float32{0, 0, 0}, Color: blue},
		{Position: [3]float32{0, 0, size}, Color: blue},
	}

	return NewModel(
		WithName("axes"),
		WithTopology(TopologyLines),
		WithVertices(vertices),
		WithIndices([]uint32{0, 1, 2, 3, 4, 5}),
	)
}
