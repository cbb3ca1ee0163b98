// Package debug provides viewport overlays and screenshot capture.
package debug

import (
	"github.com/Faultbox/fdf-viewer/internal/engine/terrain"
)

// BoundsMesh returns the 12 edges of an axis-aligned box as a line mesh.
// padding grows the box on every side.
func BoundsMesh(b terrain.Bounds, padding float32, color terrain.RGB) *terrain.Mesh {
	lo := [3]float32{b.Min[0] - padding, b.Min[1] - padding, b.Min[2] - padding}
	hi := [3]float32{b.Max[0] + padding, b.Max[1] + padding, b.Max[2] + padding}

	// Corner k takes hi on axis a when bit a of k is set.
	positions := make([][3]float32, 8)
	for k := range 8 {
		for a := range 3 {
			if k&(1<<a) != 0 {
				positions[k][a] = hi[a]
			} else {
				positions[k][a] = lo[a]
			}
		}
	}

	// Every pair of corners that differ in exactly one bit is an edge.
	var indices []uint32
	for k := range 8 {
		for a := range 3 {
			if k&(1<<a) == 0 {
				indices = append(indices, uint32(k), uint32(k|1<<a))
			}
		}
	}

	return &terrain.Mesh{
		Positions: positions,
		Colors:    fill(8, color),
		Indices:   indices,
		Bounds:    terrain.Bounds{Min: lo, Max: hi},
	}
}

// AxesMesh returns three lines from the origin along +X (red), +Y (green)
// and +Z (blue), marking the pivot the camera orbits.
func AxesMesh(length float32) *terrain.Mesh {
	return &terrain.Mesh{
		Positions: [][3]float32{
			{0, 0, 0}, {length, 0, 0},
			{0, 0, 0}, {0, length, 0},
			{0, 0, 0}, {0, 0, length},
		},
		Colors: [][3]float32{
			{1, 0, 0}, {1, 0, 0},
			{0, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {0, 0, 1},
		},
		Indices: []uint32{0, 1, 2, 3, 4, 5},
		Bounds:  terrain.Bounds{Max: [3]float32{length, length, length}},
	}
}

func fill(n int, c terrain.RGB) [][3]float32 {
	out := make([][3]float32, n)
	for i := range out {
		out[i] = c.Array()
	}
	return out
}
