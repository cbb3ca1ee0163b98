// Package picking provides ray casting against the terrain.
package picking

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/fdf-viewer/internal/engine/terrain"
	"github.com/Faultbox/fdf-viewer/pkg/fdf"
)

// bisectSteps refines a surface crossing found by marching.
const bisectSteps = 8

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // normalized
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay converts viewport pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // flip Y

	near := unproject(invViewProj, ndcX, ndcY, -1)
	far := unproject(invViewProj, ndcX, ndcY, 1)

	dir := far.Sub(near)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near, Direction: dir}
}

func unproject(m mgl32.Mat4, x, y, z float32) mgl32.Vec3 {
	v := m.Mul4x1(mgl32.Vec4{x, y, z, 1})
	if v.W() != 0 {
		return v.Vec3().Mul(1 / v.W())
	}
	return v.Vec3()
}

// IntersectBounds tests the ray against an axis-aligned box using the slab
// method. If the ray starts inside the box the exit distance is returned.
func (r Ray) IntersectBounds(b terrain.Bounds) (t float32, hit bool) {
	tmin, tmax, ok := r.slab(b)
	if !ok {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// slab returns the entry and exit distances of the ray through b.
func (r Ray) slab(b terrain.Bounds) (tmin, tmax float32, ok bool) {
	tmin = float32(-gomath.MaxFloat32)
	tmax = float32(gomath.MaxFloat32)

	for axis := range 3 {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < b.Min[axis] || o > b.Max[axis] {
				return 0, 0, false
			}
			continue
		}
		t1 := (b.Min[axis] - o) / d
		t2 := (b.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// Hit is a point on the terrain surface.
type Hit struct {
	Point  mgl32.Vec3
	Row    int // grid row of the nearest vertex
	Col    int // grid column of the nearest vertex
	Height float32
}

// PickTerrain returns the first point where the ray crosses the height
// surface of grid, built with the given spacing and bounds.
func PickTerrain(r Ray, grid *fdf.Grid, bounds terrain.Bounds, spacing float32) (Hit, bool) {
	if grid == nil || grid.Width() == 0 || !(spacing > 0) {
		return Hit{}, false
	}
	tmin, tmax, ok := r.slab(bounds)
	if !ok {
		return Hit{}, false
	}

	s := surface{grid: grid, bounds: bounds, spacing: spacing}
	above := func(t float32) bool {
		p := r.At(t)
		return p.Z() > s.height(p)
	}

	// A ray entering from outside below the surface hits it at the entry point.
	start := max(tmin, 0)
	startAbove := above(start)
	if tmin >= 0 && !startAbove {
		return s.hit(r.At(start)), true
	}

	step := spacing / 4
	prev := start
	for t := start + step; ; t += step {
		t = min(t, tmax)
		if above(t) != startAbove {
			return s.hit(r.At(refine(above, prev, t, startAbove))), true
		}
		if t >= tmax {
			return Hit{}, false
		}
		prev = t
	}
}

// refine bisects [lo, hi] where the ray changes side of the surface.
func refine(above func(float32) bool, lo, hi float32, loAbove bool) float32 {
	for range bisectSteps {
		mid := (lo + hi) / 2
		if above(mid) == loAbove {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}

// surface samples the terrain, clamping lookups to its footprint.
type surface struct {
	grid    *fdf.Grid
	bounds  terrain.Bounds
	spacing float32
}

func (s surface) height(p mgl32.Vec3) float32 {
	x := min(max(p.X(), s.bounds.Min[0]), s.bounds.Max[0])
	y := min(max(p.Y(), s.bounds.Min[1]), s.bounds.Max[1])
	h, _ := terrain.HeightAt(s.grid, s.spacing, x, y)
	return h
}

func (s surface) hit(p mgl32.Vec3) Hit {
	h := s.height(p)
	col := int(gomath.Round(float64(p.X() / s.spacing)))
	row := s.grid.Height() - 1 - int(gomath.Round(float64(p.Y()/s.spacing)))
	return Hit{
		Point:  mgl32.Vec3{p.X(), p.Y(), h},
		Row:    min(max(row, 0), s.grid.Height()-1),
		Col:    min(max(col, 0), s.grid.Width()-1),
		Height: h,
	}
}
