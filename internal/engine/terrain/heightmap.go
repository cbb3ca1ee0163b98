package terrain

import (
	"math"

	"github.com/Faultbox/fdf-viewer/pkg/fdf"
)

// HeightAt returns the terrain height under world position (x, y) using
// bilinear interpolation between the four surrounding grid cells.
// ok is false when the position lies outside the terrain.
func HeightAt(grid *fdf.Grid, spacing, x, y float32) (h float32, ok bool) {
	width, height := grid.Width(), grid.Height()
	if width == 0 || height == 0 || !(spacing > 0) {
		return 0, false
	}

	// World Y grows toward the first row.
	fx := float64(x / spacing)
	fy := float64(height-1) - float64(y/spacing)
	if fx < 0 || fy < 0 || fx > float64(width-1) || fy > float64(height-1) {
		return 0, false
	}

	col := min(int(math.Floor(fx)), max(width-2, 0))
	row := min(int(math.Floor(fy)), max(height-2, 0))
	fracX := clampf(float32(fx)-float32(col), 0, 1)
	fracY := clampf(float32(fy)-float32(row), 0, 1)

	at := func(i, j int) float32 {
		i = min(i, height-1)
		j = min(j, width-1)
		return float32(grid.At(i, j))
	}

	top := at(row, col)*(1-fracX) + at(row, col+1)*fracX
	bottom := at(row+1, col)*(1-fracX) + at(row+1, col+1)*fracX
	return top*(1-fracY) + bottom*fracY, true
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
