package ui

import (
	"context"
	"errors"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/fdf-viewer/internal/config"
	"github.com/Faultbox/fdf-viewer/internal/engine/camera"
	"github.com/Faultbox/fdf-viewer/internal/engine/debug"
	"github.com/Faultbox/fdf-viewer/internal/engine/picking"
	"github.com/Faultbox/fdf-viewer/internal/engine/scene"
	"github.com/Faultbox/fdf-viewer/internal/logger"
	"github.com/Faultbox/fdf-viewer/internal/mappack"
	"github.com/Faultbox/fdf-viewer/internal/viewer"
	"github.com/Faultbox/fdf-viewer/pkg/fdf"
)

const (
	panelWidth   = 320
	statusHeight = 34
	noticeTTL    = 4 * time.Second
)

// App is the interactive viewer: a controls panel beside a 3D viewport
// and a status bar.
type App struct {
	backend *Backend
	cfg     *config.Config

	ctrl  *viewer.Controller
	scene *scene.Scene
	rig   *camera.Rig

	presets []string
	shots   *debug.ScreenshotCapture
	editor  mapEditor

	// Paths picked in the file dialog, applied on the UI thread.
	picked chan string
	ctx    context.Context
	cancel context.CancelFunc

	shotRequested bool
	shownMap      string
	notice        string
	noticeTime    time.Time
	lastMouse     imgui.Vec2
	hover         picking.Hit
	hoverOK       bool

	log *zap.Logger
}

// NewApp creates the window and the scene and wires them to a controller
// that loads maps from source.
func NewApp(cfg *config.Config, source mappack.Source) (*App, error) {
	b, err := NewBackend(cfg.Window)
	if err != nil {
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
		return nil, err
	}
	sc.Background = cfg.Window.Background
	sc.ShowBounds = cfg.Terrain.ShowBounds
	sc.ShowAxes = cfg.Terrain.ShowAxes

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		backend: b,
		cfg:     cfg,
		ctrl:    viewer.New(sc, source, viewer.SettingsFromConfig(cfg)),
		scene:   sc,
		rig:     rig,
		presets: mappack.EmbeddedNames(),
		shots:   debug.NewScreenshotCapture(cfg.Maps.ScreenshotDir, "fdf"),
		picked:  make(chan string, 1),
		ctx:     ctx,
		cancel:  cancel,
		log:     logger.Named("ui"),
	}, nil
}

// Open starts loading a preset name or a file path.
func (a *App) Open(ref string) {
	a.ctrl.Open(a.ctx, ref)
}

// Run starts the main render loop and returns when the window closes.
func (a *App) Run() {
	a.backend.Run(a.render)
}

// Close stops pending loads and releases GL resources.
func (a *App) Close() {
	a.cancel()
	a.ctrl.Close()
	a.scene.Destroy()
}

func (a *App) render() {
	select {
	case path := <-a.picked:
		a.Open(path)
	default:
	}

	a.ctrl.Poll()
	a.ctrl.Tick(a.rig)
	s := a.ctrl.Settings()
	a.rig.Camera.MoveSpeed = s.MoveSpeed
	a.rig.Camera.FOV = s.FOV()

	if name := a.ctrl.MapName(); name != a.shownMap {
		a.shownMap = name
		a.backend.SetWindowTitle(a.cfg.Window.Title + " - " + name)
	}

	if IsKeyPressed(imgui.KeyF12) {
		a.shotRequested = true
	}

	x, y, w, h := a.backend.GetViewport()
	a.drawControls(x, y, panelWidth, h-statusHeight)
	a.drawViewport(x+panelWidth, y, w-panelWidth, h-statusHeight)
	a.drawStatus(x, y+h-statusHeight, w, statusHeight)
	a.drawEditor()
}

// openFileDialog shows a native file dialog. The dialog blocks, so it runs
// on its own goroutine and hands the path back through a.picked.
func (a *App) openFileDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("FDF maps", "fdf").
			Filter("All Files", "*").
			Title("Open FDF map").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				a.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case a.picked <- filename:
		case <-a.ctx.Done():
		}
	}()
}

func (a *App) openEditor() {
	var text string
	if g := a.ctrl.Grid(); g != nil {
		text = fdf.Format(g)
	}
	a.editor.show(a.ctrl.MapName(), text)
}

func (a *App) saveScreenshot() {
	pixels, w, h, ok := a.scene.Capture()
	if !ok {
		return
	}
	path, err := a.shots.Save(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		a.setNotice("screenshot failed: " + err.Error())
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
	a.setNotice("saved " + path)
}

func (a *App) saveSettings() {
	storeSettings(a.cfg, a.ctrl.Settings(), a.scene.ShowBounds, a.scene.ShowAxes)
	if err := a.cfg.Save(); err != nil {
		a.log.Error("saving config failed", zap.Error(err))
		a.setNotice("save failed: " + err.Error())
		return
	}
	a.setNotice("settings saved")
}

func (a *App) report(err error) {
	if err != nil {
		a.setNotice(err.Error())
	}
}

func (a *App) setNotice(msg string) {
	a.notice = msg
	a.noticeTime = time.Now()
}
