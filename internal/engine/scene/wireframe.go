package scene

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/fdf-viewer/internal/engine/shader"
	"github.com/Faultbox/fdf-viewer/internal/engine/terrain"
)

// gpuMesh is one uploaded wireframe: positions and colors in separate
// buffers, edges as index pairs.
type gpuMesh struct {
	vao        uint32
	positions  uint32
	colors     uint32
	ebo        uint32
	indexCount int32
	vertCount  int32
}

func uploadMesh(m *terrain.Mesh) *gpuMesh {
	g := &gpuMesh{
		indexCount: int32(len(m.Indices)),
		vertCount:  int32(len(m.Positions)),
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	vec3Size := int(unsafe.Sizeof([3]float32{}))

	gl.GenBuffers(1, &g.positions)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.positions)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Positions)*vec3Size, unsafe.Pointer(&m.Positions[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vec3Size), 0)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &g.colors)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.colors)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Colors)*vec3Size, unsafe.Pointer(&m.Colors[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vec3Size), 0)
	gl.EnableVertexAttribArray(1)

	if len(m.Indices) > 0 {
		gl.GenBuffers(1, &g.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	return g
}

func (g *gpuMesh) release() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		g.vao = 0
	}
	for _, buf := range []*uint32{&g.positions, &g.colors, &g.ebo} {
		if *buf != 0 {
			gl.DeleteBuffers(1, buf)
			*buf = 0
		}
	}
}

// WireframeRenderer draws the current terrain wireframe.
type WireframeRenderer struct {
	program *shader.Program
	current *gpuMesh
}

// NewWireframeRenderer compiles the line shader.
func NewWireframeRenderer() (*WireframeRenderer, error) {
	program, err := shader.Compile("wireframe", wireVertexShader, wireFragmentShader)
	if err != nil {
		return nil, err
	}
	return &WireframeRenderer{program: program}, nil
}

// Replace uploads m and then releases the previously displayed mesh, so
// there is never a frame with a partially built mesh.
func (w *WireframeRenderer) Replace(m *terrain.Mesh) {
	next := uploadMesh(m)
	prev := w.current
	w.current = next
	if prev != nil {
		prev.release()
	}
}

// Clear releases the displayed mesh.
func (w *WireframeRenderer) Clear() {
	if w.current != nil {
		w.current.release()
		w.current = nil
	}
}

// HasMesh reports whether a mesh is uploaded.
func (w *WireframeRenderer) HasMesh() bool {
	return w.current != nil
}

// Render draws the mesh with the given model-view-projection matrix.
func (w *WireframeRenderer) Render(mvp mgl32.Mat4) {
	if w.current == nil {
		return
	}

	w.program.Use()
	w.program.SetMat4("uMVP", mvp)
	w.program.SetFloat("uPointSize", 3)

	gl.BindVertexArray(w.current.vao)
	if w.current.indexCount > 0 {
		gl.DrawElements(gl.LINES, w.current.indexCount, gl.UNSIGNED_INT, nil)
	} else {
		// A single-cell grid has no edges.
		gl.DrawArrays(gl.POINTS, 0, w.current.vertCount)
	}
	gl.BindVertexArray(0)
}

// Destroy releases all resources.
func (w *WireframeRenderer) Destroy() {
	w.Clear()
	if w.program != nil {
		w.program.Delete()
	}
}
