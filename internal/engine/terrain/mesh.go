package terrain

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/fdf-viewer/pkg/fdf"
)

// Mesh building errors.
var (
	ErrInvalidGrid    = errors.New("invalid grid")
	ErrInvalidSpacing = errors.New("spacing must be positive")
)

// BuildWireframe creates a line mesh from a height grid.
//
// Cell (i, j) becomes vertex i*W+j at (j*s, (H-1-i)*s, grid[i][j]) so that
// the first row of the document is the far edge of the terrain. Every
// vertex is joined to its right and lower neighbour; there are no
// diagonals.
func BuildWireframe(grid *fdf.Grid, opts Options) (*Mesh, error) {
	width, height := grid.Width(), grid.Height()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGrid, width, height)
	}
	if uint64(width)*uint64(height) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %dx%d exceeds 32-bit vertex indices", ErrInvalidGrid, width, height)
	}
	for i, row := range grid.Rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrInvalidGrid, i, len(row), width)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.Abs(v) > math.MaxFloat32 {
				return nil, fmt.Errorf("%w: value %v at row %d col %d", ErrInvalidGrid, v, i, j)
			}
		}
	}
	s := opts.Spacing
	if !(s > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpacing, s)
	}

	maxHeight := float32(grid.Max())
	useGradient := opts.GradientEnabled && !opts.Gradient.IsFlat()

	count := width * height
	mesh := &Mesh{
		Positions: make([][3]float32, 0, count),
		Colors:    make([][3]float32, 0, count),
		Indices:   make([]uint32, 0, 2*(height*(width-1)+(height-1)*width)),
		MaxHeight: maxHeight,
	}

	bounds := Bounds{
		Min: [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}

	for i := range height {
		for j := range width {
			h := float32(grid.At(i, j))
			p := [3]float32{float32(j) * s, float32(height-1-i) * s, h}
			mesh.Positions = append(mesh.Positions, p)
			updateBounds(&bounds, p)

			c := opts.FlatColor
			if useGradient {
				c = opts.Gradient.ColorAt(Normalize(h, maxHeight))
			}
			mesh.Colors = append(mesh.Colors, c.Array())

			idx := uint32(i*width + j)
			if j < width-1 {
				mesh.Indices = append(mesh.Indices, idx, idx+1)
			}
			if i < height-1 {
				mesh.Indices = append(mesh.Indices, idx, idx+uint32(width))
			}
		}
	}

	mesh.Bounds = bounds
	mesh.Framing = Frame(width, height, s, maxHeight, opts.HalfFOV)
	return mesh, nil
}

// Frame computes the camera pose that fits a width x height grid in view.
//
// The camera looks at the center of the terrain's bounding box from an
// equal offset along +Y and +Z, far enough back that the larger
// horizontal extent fits in the vertical field of view.
func Frame(width, height int, spacing, maxHeight float32, halfFOV float64) Framing {
	center := [3]float32{
		float32(width-1) * spacing / 2,
		float32(height-1) * spacing / 2,
		maxHeight / 2,
	}
	extent := math.Max(float64(width)*float64(spacing), float64(height)*float64(spacing))
	distance := float32(extent / (2 * math.Tan(halfFOV)))

	return Framing{
		LookFrom: [3]float32{center[0], center[1] + distance, center[2] + distance},
		LookAt:   center,
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for k := range 3 {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
}
