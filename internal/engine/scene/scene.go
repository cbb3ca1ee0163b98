// Package scene renders the terrain wireframe and its overlays with OpenGL.
package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/fdf-viewer/internal/engine/camera"
	"github.com/Faultbox/fdf-viewer/internal/engine/debug"
	"github.com/Faultbox/fdf-viewer/internal/engine/framebuffer"
	"github.com/Faultbox/fdf-viewer/internal/engine/terrain"
	"github.com/Faultbox/fdf-viewer/internal/logger"
)

// Scene holds the displayed terrain mesh and the camera rig that views it.
type Scene struct {
	Rig        *camera.Rig
	Background terrain.RGB

	ShowBounds bool
	ShowAxes   bool

	terrain *WireframeRenderer
	bounds  *WireframeRenderer
	axes    *WireframeRenderer

	target *framebuffer.Target

	vertices int
	edges    int

	log *zap.Logger
}

// New creates a scene. A GL context must be current.
func New(rig *camera.Rig) (*Scene, error) {
	s := &Scene{
		Rig:        rig,
		Background: terrain.Black,
		log:        logger.Named("scene"),
	}

	var err error
	if s.terrain, err = NewWireframeRenderer(); err != nil {
		return nil, fmt.Errorf("terrain renderer: %w", err)
	}
	if s.bounds, err = NewWireframeRenderer(); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("bounds renderer: %w", err)
	}
	if s.axes, err = NewWireframeRenderer(); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("axes renderer: %w", err)
	}
	return s, nil
}

// ReplaceMesh uploads a freshly built terrain mesh and releases the previous one.
func (s *Scene) ReplaceMesh(m *terrain.Mesh) error {
	if m == nil || m.VertexCount() == 0 {
		return fmt.Errorf("%w: empty mesh", terrain.ErrInvalidGrid)
	}
	s.terrain.Replace(m)
	s.bounds.Replace(debug.BoundsMesh(m.Bounds, 0, terrain.RGB{R: 0.35, G: 0.35, B: 0.35}))

	extent := max(m.Bounds.Max[0]-m.Bounds.Min[0], m.Bounds.Max[1]-m.Bounds.Min[1], 1)
	s.axes.Replace(debug.AxesMesh(extent / 4))

	s.vertices, s.edges = m.VertexCount(), m.EdgeCount()
	s.log.Debug("mesh uploaded", zap.Int("vertices", s.vertices), zap.Int("edges", s.edges))
	return nil
}

// ApplyFraming moves the camera to the given pose on its pivot.
func (s *Scene) ApplyFraming(f terrain.Framing) {
	s.Rig.Camera.LookAt(f.LookFrom, f.LookAt)
}

// Stats returns the size of the displayed mesh.
func (s *Scene) Stats() (vertices, edges int) {
	return s.vertices, s.edges
}

// ViewProjection returns the world-to-clip transform. The mesh stays in
// world space; only the camera rides the pivot.
func (s *Scene) ViewProjection(aspect float32) mgl32.Mat4 {
	return s.Rig.Camera.ProjectionMatrix(aspect).Mul4(s.Rig.ViewMatrix())
}

// Draw renders into the currently bound framebuffer.
func (s *Scene) Draw(aspect float32) {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	viewProj := s.ViewProjection(aspect)

	s.terrain.Render(viewProj)
	if s.ShowBounds {
		s.bounds.Render(viewProj)
	}
	if s.ShowAxes {
		s.axes.Render(viewProj)
	}
}

// RenderOffscreen renders to an offscreen target of the given size and
// returns its color texture for display in the UI.
func (s *Scene) RenderOffscreen(width, height int32) (uint32, error) {
	if s.target == nil {
		t, err := framebuffer.New(width, height)
		if err != nil {
			return 0, err
		}
		s.target = t
	}
	s.target.EnsureSize(width, height)

	restore := s.target.Begin(s.Background.R, s.Background.G, s.Background.B)
	defer restore()

	s.Draw(s.target.Aspect())
	return s.target.Texture(), nil
}

// Capture reads back the last offscreen frame as bottom-up RGBA rows.
func (s *Scene) Capture() (pixels []byte, width, height int, ok bool) {
	if s.target == nil {
		return nil, 0, 0, false
	}
	w, h := s.target.Size()
	return s.target.ReadPixels(), int(w), int(h), true
}

// Destroy releases all GL resources.
func (s *Scene) Destroy() {
	for _, r := range []*WireframeRenderer{s.terrain, s.bounds, s.axes} {
		if r != nil {
			r.Destroy()
		}
	}
	if s.target != nil {
		s.target.Destroy()
		s.target = nil
	}
}
