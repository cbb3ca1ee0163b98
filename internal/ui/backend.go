// Package ui provides the ImGui front-end of the viewer.
package ui

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/fdf-viewer/internal/config"
	"github.com/Faultbox/fdf-viewer/internal/logger"
)

// fontPaths are tried in order; the ImGui default font is used when none exists.
var fontPaths = []string{
	"/System/Library/Fonts/Supplemental/Arial.ttf",        // macOS
	"C:\\Windows\\Fonts\\segoeui.ttf",                     // Windows
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",     // Debian, Ubuntu
	"/usr/share/fonts/dejavu-sans-fonts/DejaVuSans.ttf",   // Fedora
	"/usr/share/fonts/TTF/DejaVuSans.ttf",                 // Arch
	"/usr/share/fonts/truetype/noto/NotoSans-Regular.ttf", // Linux alt
}

// Backend wraps the ImGui SDL backend.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	width   int32
	height  int32
}

// NewBackend creates the window, the ImGui context and the GL bindings.
func NewBackend(cfg config.WindowConfig) (*Backend, error) {
	b := &Backend{
		width:  int32(cfg.Width),
		height: int32(cfg.Height),
	}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	// Fonts must be added before the first frame builds the atlas.
	b.backend.SetAfterCreateContextHook(b.loadFont)

	bg := cfg.Background
	b.backend.SetBgColor(imgui.NewVec4(bg.R, bg.G, bg.B, 1.0))
	b.backend.CreateWindow(cfg.Title, cfg.Width, cfg.Height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	return b, nil
}

func (b *Backend) loadFont() {
	var fontPath string
	for _, path := range fontPaths {
		if _, err := os.Stat(path); err == nil {
			fontPath = path
			break
		}
	}
	if fontPath == "" {
		logger.Debug("no system font found, using the ImGui default")
		return
	}

	fontCfg := imgui.NewFontConfig()
	defer fontCfg.Destroy()

	fonts := imgui.CurrentIO().Fonts()
	if fonts.AddFontFromFileTTFV(fontPath, 16.0, fontCfg, nil) == nil {
		logger.Warn("failed to load font", zap.String("path", fontPath))
		return
	}
	logger.Debug("font loaded", zap.String("path", fontPath))
}

// Run starts the main render loop.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// SetShouldClose asks the render loop to stop after the current frame.
func (b *Backend) SetShouldClose() {
	b.backend.SetShouldClose(true)
}

// GetViewport returns the main viewport work area.
func (b *Backend) GetViewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

// IsKeyDown checks if a key is currently held down.
func IsKeyDown(key imgui.Key) bool {
	return imgui.IsKeyDown(key)
}
