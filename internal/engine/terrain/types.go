// Package terrain builds colored wireframe meshes from FDF height grids.
package terrain

// Mesh holds the wireframe of a height grid ready for GPU upload.
// Positions and Colors are parallel; Indices holds one pair per edge.
type Mesh struct {
	Positions [][3]float32
	Colors    [][3]float32
	Indices   []uint32
	Bounds    Bounds
	Framing   Framing
	MaxHeight float32
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// EdgeCount returns the number of line segments in the mesh.
func (m *Mesh) EdgeCount() int {
	return len(m.Indices) / 2
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Framing is the camera pose that shows the whole terrain.
type Framing struct {
	LookFrom [3]float32
	LookAt   [3]float32
}

// Options controls how a grid is turned into a mesh.
type Options struct {
	Spacing         float32 // distance between neighbouring columns and rows
	Gradient        Gradient
	GradientEnabled bool
	FlatColor       RGB
	HalfFOV         float64 // vertical half field of view, radians
}
