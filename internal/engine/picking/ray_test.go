package picking

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/fdf-viewer/internal/engine/terrain"
	"github.com/Faultbox/fdf-viewer/pkg/fdf"
)

func peakGrid() (*fdf.Grid, terrain.Bounds) {
	g := &fdf.Grid{Rows: [][]float64{
		{0, 0, 0},
		{0, 4, 0},
		{0, 0, 0},
	}}
	return g, terrain.Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{2, 2, 4}}
}

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-2
}

func TestPickTerrain(t *testing.T) {
	grid, bounds := peakGrid()
	down := mgl32.Vec3{0, 0, -1}

	tests := []struct {
		name     string
		ray      Ray
		hit      bool
		row, col int
		height   float32
	}{
		{"peak", Ray{mgl32.Vec3{1, 1, 10}, down}, true, 1, 1, 4},
		{"corner", Ray{mgl32.Vec3{0, 0, 10}, down}, true, 2, 0, 0},
		{"far corner", Ray{mgl32.Vec3{2, 2, 10}, down}, true, 0, 2, 0},
		{"slope", Ray{mgl32.Vec3{0.5, 1, 10}, down}, true, 1, 1, 2},
		{"beside", Ray{mgl32.Vec3{5, 1, 10}, down}, false, 0, 0, 0},
		{"looking up", Ray{mgl32.Vec3{1, 1, 10}, mgl32.Vec3{0, 0, 1}}, false, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := PickTerrain(tt.ray, grid, bounds, 1)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if !ok {
				return
			}
			if hit.Row != tt.row || hit.Col != tt.col {
				t.Errorf("cell = (%d, %d), want (%d, %d)", hit.Row, hit.Col, tt.row, tt.col)
			}
			if !near(hit.Height, tt.height) || !near(hit.Point.Z(), tt.height) {
				t.Errorf("height = %v at %v, want %v", hit.Height, hit.Point, tt.height)
			}
		})
	}
}

func TestPickTerrain_Grazing(t *testing.T) {
	grid, bounds := peakGrid()
	// Horizontal ray at z=2 along the middle row meets the slope halfway up.
	r := Ray{mgl32.Vec3{-5, 1, 2}, mgl32.Vec3{1, 0, 0}}
	hit, ok := PickTerrain(r, grid, bounds, 1)
	if !ok {
		t.Fatal("expected a hit")
	}
	if !near(hit.Point.X(), 0.5) || !near(hit.Height, 2) {
		t.Errorf("hit at %v height %v, want x=0.5 height 2", hit.Point, hit.Height)
	}
}

func TestPickTerrain_Spacing(t *testing.T) {
	grid, _ := peakGrid()
	bounds := terrain.Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{4, 4, 4}}
	hit, ok := PickTerrain(Ray{mgl32.Vec3{2, 2, 10}, mgl32.Vec3{0, 0, -1}}, grid, bounds, 2)
	if !ok || hit.Row != 1 || hit.Col != 1 || !near(hit.Height, 4) {
		t.Errorf("PickTerrain = %+v, %v", hit, ok)
	}
}

func TestPickTerrain_NoGrid(t *testing.T) {
	_, bounds := peakGrid()
	if _, ok := PickTerrain(Ray{mgl32.Vec3{1, 1, 10}, mgl32.Vec3{0, 0, -1}}, nil, bounds, 1); ok {
		t.Error("hit without a grid")
	}
}

func TestIntersectBounds(t *testing.T) {
	_, bounds := peakGrid()

	dist, ok := Ray{mgl32.Vec3{1, 1, 10}, mgl32.Vec3{0, 0, -1}}.IntersectBounds(bounds)
	if !ok || !near(dist, 6) {
		t.Errorf("from above: %v, %v", dist, ok)
	}

	dist, ok = Ray{mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 0, 0}}.IntersectBounds(bounds)
	if !ok || !near(dist, 1) {
		t.Errorf("from inside: %v, %v; want exit at 1", dist, ok)
	}

	if _, ok := (Ray{mgl32.Vec3{5, 5, 5}, mgl32.Vec3{1, 0, 0}}).IntersectBounds(bounds); ok {
		t.Error("parallel ray outside the box hit it")
	}
}

func TestScreenToRay(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 10}
	view := mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)
	inv := proj.Mul4(view).Inv()

	center := ScreenToRay(50, 50, 100, 100, inv)
	if !center.Direction.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Errorf("center direction = %v", center.Direction)
	}
	if !center.Origin.ApproxEqualThreshold(mgl32.Vec3{0, 0, 9.9}, 1e-3) {
		t.Errorf("center origin = %v, want on the near plane", center.Origin)
	}

	left := ScreenToRay(0, 50, 100, 100, inv)
	if left.Direction.X() >= 0 || !near(left.Direction.Y(), 0) {
		t.Errorf("left edge direction = %v", left.Direction)
	}
	top := ScreenToRay(50, 0, 100, 100, inv)
	if top.Direction.Y() <= 0 {
		t.Errorf("top edge should point up, got %v", top.Direction)
	}
}
