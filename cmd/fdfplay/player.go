package main

import (
	"context"
	"errors"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/fdf-viewer/internal/config"
	"github.com/Faultbox/fdf-viewer/internal/engine/camera"
	"github.com/Faultbox/fdf-viewer/internal/engine/debug"
	"github.com/Faultbox/fdf-viewer/internal/engine/input"
	"github.com/Faultbox/fdf-viewer/internal/engine/picking"
	"github.com/Faultbox/fdf-viewer/internal/engine/renderer"
	"github.com/Faultbox/fdf-viewer/internal/engine/scene"
	"github.com/Faultbox/fdf-viewer/internal/engine/window"
	"github.com/Faultbox/fdf-viewer/internal/logger"
	"github.com/Faultbox/fdf-viewer/internal/mappack"
	"github.com/Faultbox/fdf-viewer/internal/viewer"
)

const (
	spacingStep  = 0.25
	minSpacing   = 0.5
	maxSpacing   = 5
	spinRate     = 0.005
	speedStep    = 10
	minMoveSpeed = 10
	maxMoveSpeed = 100
)

// player runs the hotkey viewer on a plain SDL window.
type player struct {
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	scene    *scene.Scene
	rig      *camera.Rig
	ctrl     *viewer.Controller
	shots    *debug.ScreenshotCapture

	presets []string
	picked  chan string
	ctx     context.Context
	cancel  context.CancelFunc

	title   string
	shownAs string
	running bool
	log     *zap.Logger
}

func newPlayer(cfg *config.Config, source mappack.Source) (*player, error) {
	win, err := window.New(cfg.Window)
	if err != nil {
		return nil, err
	}
	w, h := win.GetSize()
	rend, err := renderer.New(renderer.Config{Width: w, Height: h})
	if err != nil {
		win.Close()
		return nil, err
	}

	cam := camera.NewFlyCamera()
	cam.FOV = cfg.Camera.FOV
	cam.Near = cfg.Camera.Near
	cam.Far = cfg.Camera.Far
	cam.MoveSpeed = cfg.Camera.MoveSpeed
	cam.RollSpeed = cfg.Camera.RollSpeed
	rig := camera.NewRig(cam)

	sc, err := scene.New(rig)
	if err != nil {
		win.Close()
		return nil, err
	}
	sc.Background = cfg.Window.Background
	sc.ShowBounds = cfg.Terrain.ShowBounds
	sc.ShowAxes = cfg.Terrain.ShowAxes

	ctx, cancel := context.WithCancel(context.Background())
	return &player{
		window:   win,
		renderer: rend,
		input:    input.New(),
		scene:    sc,
		rig:      rig,
		ctrl:     viewer.New(sc, source, viewer.SettingsFromConfig(cfg)),
		shots:    debug.NewScreenshotCapture(cfg.Maps.ScreenshotDir, "fdfplay"),
		presets:  mappack.EmbeddedNames(),
		picked:   make(chan string, 1),
		ctx:      ctx,
		cancel:   cancel,
		title:    cfg.Window.Title,
		log:      logger.Named("player"),
	}, nil
}

// Run drives the frame loop until the window closes or Escape is pressed.
func (p *player) Run() {
	p.running = true
	lastTime := time.Now()

	p.log.Info("starting frame loop")
	for p.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if p.input.Update() {
			break
		}
		shot := p.handleEvents()

		select {
		case path := <-p.picked:
			p.ctrl.Open(p.ctx, path)
		default:
		}
		p.ctrl.Poll()
		p.ctrl.Tick(p.rig)
		p.updateTitle()

		cam := p.rig.Camera
		cam.MoveSpeed = p.ctrl.Settings().MoveSpeed
		p.input.FlyControls().Apply(cam, dt)
		if dx, dy := p.input.DragDelta(sdl.BUTTON_LEFT); dx != 0 || dy != 0 {
			cam.HandleDrag(dx, dy)
		}

		p.renderer.Frame(p.scene)
		if shot {
			p.screenshot()
		}
		p.window.SwapBuffers()
	}
}

// handleEvents applies this frame's hotkeys. It reports whether a
// screenshot was requested.
func (p *player) handleEvents() (shot bool) {
	for _, e := range p.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			p.renderer.Resize(e.Width, e.Height)
		case input.EventKeyDown:
			shot = p.handleKey(e.Key) || shot
		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_RIGHT {
				p.pick(e.MouseX, e.MouseY)
			}
		}
	}
	return shot
}

func (p *player) handleKey(key sdl.Scancode) (shot bool) {
	s := p.ctrl.Settings()
	var err error

	if i, ok := presetIndex(key); ok {
		if i < len(p.presets) {
			p.ctrl.LoadMap(p.ctx, p.presets[i])
		}
		return false
	}

	switch key {
	case sdl.SCANCODE_ESCAPE:
		p.running = false
	case sdl.SCANCODE_G:
		err = p.ctrl.SetGradientEnabled(!s.GradientEnabled)
	case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
		err = p.ctrl.SetSpacing(stepSpacing(s.Spacing, 1))
	case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
		err = p.ctrl.SetSpacing(stepSpacing(s.Spacing, -1))
	case sdl.SCANCODE_PAGEUP:
		p.ctrl.SetMoveSpeed(stepSpeed(s.MoveSpeed, 1))
	case sdl.SCANCODE_PAGEDOWN:
		p.ctrl.SetMoveSpeed(stepSpeed(s.MoveSpeed, -1))
	case sdl.SCANCODE_SPACE:
		p.ctrl.SetRotation(2, toggleSpin(s.Rotation[2]))
	case sdl.SCANCODE_B:
		p.scene.ShowBounds = !p.scene.ShowBounds
	case sdl.SCANCODE_X:
		p.scene.ShowAxes = !p.scene.ShowAxes
	case sdl.SCANCODE_HOME:
		p.rig.Reset()
		err = p.ctrl.Rebuild()
	case sdl.SCANCODE_O:
		p.openFileDialog()
	case sdl.SCANCODE_F12:
		shot = true
	}
	if err != nil {
		p.log.Warn("hotkey failed", zap.String("key", sdl.GetScancodeName(key)), zap.Error(err))
	}
	return shot
}

// pick logs the terrain vertex under a window position.
func (p *player) pick(x, y int) {
	mesh, grid := p.ctrl.Mesh(), p.ctrl.Grid()
	if mesh == nil {
		return
	}
	w, h := p.window.GetSize()
	inv := p.scene.ViewProjection(p.renderer.Aspect()).Inv()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)
	hit, ok := picking.PickTerrain(ray, grid, mesh.Bounds, p.ctrl.Settings().Spacing)
	if !ok {
		p.log.Info("pick missed the terrain")
		return
	}
	p.log.Info("picked vertex",
		zap.Int("row", hit.Row),
		zap.Int("col", hit.Col),
		zap.Float32("height", hit.Height))
}

func (p *player) openFileDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("FDF maps", "fdf").
			Filter("All Files", "*").
			Title("Open FDF map").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				p.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case p.picked <- filename:
		case <-p.ctx.Done():
		}
	}()
}

func (p *player) screenshot() {
	pixels, w, h := p.renderer.ReadPixels()
	path, err := p.shots.Save(pixels, w, h)
	if err != nil {
		p.log.Error("screenshot failed", zap.Error(err))
		return
	}
	p.log.Info("screenshot saved", zap.String("path", path))
}

func (p *player) updateTitle() {
	st := p.ctrl.Status()
	title := p.title
	switch {
	case st.Err != nil:
		title += " - " + st.Err.Error()
	case p.ctrl.MapName() != "":
		title += " - " + p.ctrl.MapName()
	}
	if title != p.shownAs {
		p.shownAs = title
		p.window.SetTitle(title)
	}
}

// Close stops pending loads and tears down GL and SDL.
func (p *player) Close() {
	p.cancel()
	p.ctrl.Close()
	p.scene.Destroy()
	p.window.Close()
}

// presetIndex maps the number row 1..9 to a preset index.
func presetIndex(key sdl.Scancode) (int, bool) {
	if key >= sdl.SCANCODE_1 && key <= sdl.SCANCODE_9 {
		return int(key - sdl.SCANCODE_1), true
	}
	return 0, false
}

func stepSpacing(cur float32, dir int) float32 {
	return min(max(cur+float32(dir)*spacingStep, minSpacing), maxSpacing)
}

func stepSpeed(cur float32, dir int) float32 {
	return min(max(cur+float32(dir)*speedStep, minMoveSpeed), maxMoveSpeed)
}

func toggleSpin(rate float32) float32 {
	if rate != 0 {
		return 0
	}
	return spinRate
}
