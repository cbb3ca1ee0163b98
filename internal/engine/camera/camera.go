// Package camera provides the free-fly camera and the pivot rig it rides on.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// FlyCamera is a free-flying camera with a position and an orientation.
// It looks down its local -Z axis with +Y up.
type FlyCamera struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat

	// Projection
	FOV  float32 // vertical field of view, degrees
	Near float32
	Far  float32

	// Motion
	MoveSpeed       float32 // world units per second
	RollSpeed       float32 // radians per second
	DragSensitivity float32 // radians per pixel
}

// NewFlyCamera creates a fly camera with default settings.
func NewFlyCamera() *FlyCamera {
	return &FlyCamera{
		Orientation:     mgl32.QuatIdent(),
		FOV:             75,
		Near:            0.1,
		Far:             5000,
		MoveSpeed:       10,
		RollSpeed:       gomath.Pi / 24,
		DragSensitivity: 0.003,
	}
}

// HalfFOV returns half of the vertical field of view in radians.
func (c *FlyCamera) HalfFOV() float64 {
	return float64(mgl32.DegToRad(c.FOV)) / 2
}

// LookAt places the camera at eye and points it at center.
func (c *FlyCamera) LookAt(eye, center [3]float32) {
	e := mgl32.Vec3(eye)
	t := mgl32.Vec3(center)

	up := mgl32.Vec3{0, 1, 0}
	dir := t.Sub(e)
	if dir.Len() == 0 {
		c.Position = e
		return
	}
	// Looking straight along +-Y would make the basis degenerate.
	if gomath.Abs(float64(dir.Normalize().Dot(up))) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(e, t, up)
	c.Position = e
	c.Orientation = mgl32.Mat4ToQuat(view).Conjugate().Normalize()
}

// Forward returns the direction the camera is looking.
func (c *FlyCamera) Forward() mgl32.Vec3 {
	return c.Orientation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Right returns the camera's local +X axis in world space.
func (c *FlyCamera) Right() mgl32.Vec3 {
	return c.Orientation.Rotate(mgl32.Vec3{1, 0, 0})
}

// Up returns the camera's local +Y axis in world space.
func (c *FlyCamera) Up() mgl32.Vec3 {
	return c.Orientation.Rotate(mgl32.Vec3{0, 1, 0})
}

// Move translates the camera along its local axes. Each axis value is
// typically -1, 0 or 1 and is scaled by MoveSpeed and dt.
func (c *FlyCamera) Move(forward, right, up, dt float32) {
	step := c.MoveSpeed * dt
	delta := c.Forward().Mul(forward * step).
		Add(c.Right().Mul(right * step)).
		Add(c.Up().Mul(up * step))
	c.Position = c.Position.Add(delta)
}

// Turn rotates the camera about its local axes. Each axis value is
// typically -1, 0 or 1 and is scaled by RollSpeed and dt.
func (c *FlyCamera) Turn(pitch, yaw, roll, dt float32) {
	step := c.RollSpeed * dt
	c.rotateLocal(pitch*step, yaw*step, roll*step)
}

// HandleDrag turns the camera from a mouse drag delta in pixels.
func (c *FlyCamera) HandleDrag(deltaX, deltaY float32) {
	c.rotateLocal(-deltaY*c.DragSensitivity, -deltaX*c.DragSensitivity, 0)
}

func (c *FlyCamera) rotateLocal(pitch, yaw, roll float32) {
	q := c.Orientation
	if pitch != 0 {
		q = q.Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0}))
	}
	if yaw != 0 {
		q = q.Mul(mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}))
	}
	if roll != 0 {
		q = q.Mul(mgl32.QuatRotate(roll, mgl32.Vec3{0, 0, 1}))
	}
	c.Orientation = q.Normalize()
}

// ViewMatrix returns the world-to-camera transform.
func (c *FlyCamera) ViewMatrix() mgl32.Mat4 {
	rot := c.Orientation.Conjugate().Mat4()
	return rot.Mul4(mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z()))
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *FlyCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}
