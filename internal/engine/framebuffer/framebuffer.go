// Package framebuffer provides the offscreen render target behind the 3D viewport.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Target is an offscreen color + depth render target whose color texture
// is drawn by the UI. It follows the viewport size on demand.
type Target struct {
	fbo      uint32
	color    uint32
	depthRBO uint32
	width    int32
	height   int32
}

// New creates a render target with the given size. Sizes below 1 are raised to 1.
func New(width, height int32) (*Target, error) {
	t := &Target{width: max(width, 1), height: max(height, 1)}

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	gl.GenTextures(1, &t.color)
	gl.BindTexture(gl.TEXTURE_2D, t.color)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenRenderbuffers(1, &t.depthRBO)
	t.allocate()

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.color, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depthRBO)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Destroy()
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return t, nil
}

func (t *Target) allocate() {
	gl.BindTexture(gl.TEXTURE_2D, t.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, t.width, t.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, t.width, t.height)
}

// EnsureSize reallocates the attachments when the requested size differs.
func (t *Target) EnsureSize(width, height int32) {
	width, height = max(width, 1), max(height, 1)
	if width == t.width && height == t.height {
		return
	}
	t.width, t.height = width, height
	t.allocate()
}

// Begin binds the target, sets the viewport and clears it.
// The returned function restores the previous framebuffer and viewport.
func (t *Target) Begin(r, g, b float32) (restore func()) {
	var prevFBO int32
	var prevViewport [4]int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, t.width, t.height)
	gl.ClearColor(r, g, b, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	return func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
		gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
	}
}

// Texture returns the color attachment.
func (t *Target) Texture() uint32 {
	return t.color
}

// Size returns the target dimensions.
func (t *Target) Size() (width, height int32) {
	return t.width, t.height
}

// Aspect returns width / height.
func (t *Target) Aspect() float32 {
	return float32(t.width) / float32(t.height)
}

// ReadPixels returns the color attachment as bottom-up RGBA rows.
func (t *Target) ReadPixels() []byte {
	pixels := make([]byte, int(t.width)*int(t.height)*4)

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.ReadPixels(0, 0, t.width, t.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))

	return pixels
}

// Destroy releases the GL objects.
func (t *Target) Destroy() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.color != 0 {
		gl.DeleteTextures(1, &t.color)
		t.color = 0
	}
	if t.depthRBO != 0 {
		gl.DeleteRenderbuffers(1, &t.depthRBO)
		t.depthRBO = 0
	}
}
