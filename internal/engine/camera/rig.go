package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Rig is a pivot at the world origin that the camera is parented to.
// Spinning the rig swings the camera around the scene while the camera
// keeps its own local pose.
type Rig struct {
	Camera   *FlyCamera
	Rotation mgl32.Vec3 // accumulated Euler angles, radians, applied X then Y then Z
}

// NewRig creates a rig carrying the given camera.
func NewRig(cam *FlyCamera) *Rig {
	return &Rig{Camera: cam}
}

// Advance adds one tick of rotation rates to the accumulated angles.
func (r *Rig) Advance(rates [3]float32) {
	r.Rotation = r.Rotation.Add(mgl32.Vec3(rates))
}

// Reset clears the accumulated rotation.
func (r *Rig) Reset() {
	r.Rotation = mgl32.Vec3{}
}

// Matrix returns the pivot's local-to-world transform.
func (r *Rig) Matrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(r.Rotation.X()).
		Mul4(mgl32.HomogRotate3DY(r.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(r.Rotation.Z()))
}

// ViewMatrix returns the world-to-camera transform for the camera riding on the pivot.
func (r *Rig) ViewMatrix() mgl32.Mat4 {
	// The pivot is a pure rotation so its inverse is its transpose.
	return r.Camera.ViewMatrix().Mul4(r.Matrix().Transpose())
}

// WorldPosition returns the camera position in world space.
func (r *Rig) WorldPosition() mgl32.Vec3 {
	return r.Matrix().Mul4x1(r.Camera.Position.Vec4(1)).Vec3()
}
