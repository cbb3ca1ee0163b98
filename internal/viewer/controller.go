// Package viewer owns the terrain state and keeps the displayed mesh in
// sync with the loaded grid and the user's parameters.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/fdf-viewer/internal/config"
	"github.com/Faultbox/fdf-viewer/internal/engine/terrain"
	"github.com/Faultbox/fdf-viewer/internal/logger"
	"github.com/Faultbox/fdf-viewer/internal/mappack"
	"github.com/Faultbox/fdf-viewer/pkg/fdf"
)

// Controller errors.
var (
	ErrStopIndex = errors.New("gradient stop index out of range")
	ErrNoSource  = errors.New("no map source configured")
	ErrFOV       = errors.New("field of view must be between 0 and 180 degrees")
)

// Display shows one terrain mesh at a time.
type Display interface {
	// ReplaceMesh makes m the displayed mesh and releases the previous one.
	ReplaceMesh(m *terrain.Mesh) error
	// ApplyFraming moves the camera to the pose that fits the mesh.
	ApplyFraming(f terrain.Framing)
}

// Rotator receives the per-tick rotation rates.
type Rotator interface {
	Advance(rates [3]float32)
}

// Settings are the user-tunable parameters.
type Settings struct {
	Spacing         float32
	Gradient        terrain.Gradient
	GradientEnabled bool
	FlatColor       terrain.RGB
	Rotation        [3]float32 // radians per tick about X, Y, Z
	MoveSpeed       float32
	HalfFOV         float64 // radians
}

// FOV returns the full vertical field of view in degrees.
func (s Settings) FOV() float32 {
	return float32(s.HalfFOV * 360 / math.Pi)
}

// DefaultSettings returns the settings a fresh viewer starts with.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.Default())
}

// SettingsFromConfig derives the initial settings from the configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Spacing:         cfg.Terrain.Spacing,
		Gradient:        cfg.Terrain.GradientValue(),
		GradientEnabled: cfg.Terrain.Gradient,
		FlatColor:       cfg.Terrain.FlatColor,
		Rotation:        cfg.Rotation.Rates(),
		MoveSpeed:       cfg.Camera.MoveSpeed,
		HalfFOV:         halfFOV(cfg.Camera.FOV),
	}
}

// Status describes the outcome of the last load or apply.
type Status struct {
	Map     string
	Message string
	Err     error
}

type loadResult struct {
	seq  uint64
	name string
	text string
	err  error
}

// Controller owns the grid, the parameters and the displayed mesh. It is
// not safe for concurrent use: every method except the fetch goroutines it
// starts itself must run on the UI thread.
type Controller struct {
	display  Display
	source   mappack.Source
	settings Settings

	grid    *fdf.Grid
	mesh    *terrain.Mesh
	mapName string
	status  Status

	results chan loadResult
	done    chan struct{}
	wg      sync.WaitGroup
	seq     uint64
	pending int

	log *zap.Logger
}

// New creates a controller drawing to display and loading maps from source.
func New(display Display, source mappack.Source, settings Settings) *Controller {
	return &Controller{
		display:  display,
		source:   source,
		settings: settings,
		results:  make(chan loadResult, 4),
		done:     make(chan struct{}),
		log:      logger.Named("controller"),
	}
}

// Settings returns the current parameters.
func (c *Controller) Settings() Settings {
	return c.settings
}

// Grid returns the loaded grid, or nil.
func (c *Controller) Grid() *fdf.Grid {
	return c.grid
}

// Mesh returns the displayed mesh, or nil.
func (c *Controller) Mesh() *terrain.Mesh {
	return c.mesh
}

// MapName returns the name of the loaded map.
func (c *Controller) MapName() string {
	return c.mapName
}

// Status returns the outcome of the last load or apply.
func (c *Controller) Status() Status {
	return c.status
}

// Loading reports whether a fetch is in flight.
func (c *Controller) Loading() bool {
	return c.pending > 0
}

// LoadGrid replaces the grid and rebuilds the mesh. On failure the
// previous grid and mesh stay in place.
func (c *Controller) LoadGrid(name string, grid *fdf.Grid) error {
	if err := c.build(grid); err != nil {
		c.fail(name, err)
		return err
	}
	c.mapName = name
	c.status = Status{Map: name, Message: fmt.Sprintf("%s: %dx%d", name, grid.Width(), grid.Height())}
	c.log.Info("map loaded",
		zap.String("map", name),
		zap.Int("width", grid.Width()),
		zap.Int("height", grid.Height()),
		zap.Int("edges", c.mesh.EdgeCount()))
	return nil
}

// ApplyText parses FDF text, as typed into the entry dialog or read from
// a file, and loads the resulting grid.
func (c *Controller) ApplyText(name, text string) error {
	grid, err := fdf.Parse(text)
	if err != nil {
		c.fail(name, err)
		return err
	}
	return c.LoadGrid(name, grid)
}

// LoadMap fetches a map from the configured source in the background.
// The result is applied by a later Poll.
func (c *Controller) LoadMap(ctx context.Context, name string) {
	c.LoadFrom(ctx, c.source, name)
}

// LoadFrom fetches a map from src in the background. Only the most
// recent request is applied; earlier ones still in flight are discarded.
func (c *Controller) LoadFrom(ctx context.Context, src mappack.Source, name string) {
	c.seq++
	seq := c.seq
	if src == nil {
		c.fail(name, ErrNoSource)
		return
	}

	c.pending++
	c.status = Status{Map: name, Message: "loading " + name + "..."}
	c.log.Debug("fetching map", zap.String("map", name), zap.Uint64("seq", seq))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		text, err := mappack.LoadText(ctx, src, name)
		select {
		case c.results <- loadResult{seq: seq, name: name, text: text, err: err}:
		case <-c.done:
		}
	}()
}

// Open loads ref from disk when it is a file path and by name otherwise.
func (c *Controller) Open(ctx context.Context, ref string) {
	if mappack.IsFilePath(ref) {
		c.LoadFrom(ctx, mappack.PathSource{}, ref)
		return
	}
	c.LoadMap(ctx, ref)
}

// Poll applies finished fetches. Call it once per frame on the UI thread.
// It returns true when the displayed mesh changed.
func (c *Controller) Poll() bool {
	changed := false
	for {
		select {
		case r := <-c.results:
			changed = c.apply(r) || changed
		default:
			return changed
		}
	}
}

// Wait blocks until every fetch in flight has finished and applies the
// results. It returns early once the controller is closed. Intended for
// tests and headless tools.
func (c *Controller) Wait() bool {
	changed := false
	for c.pending > 0 {
		select {
		case r := <-c.results:
			changed = c.apply(r) || changed
		case <-c.done:
			c.pending = 0
			return changed
		}
	}
	return changed
}

func (c *Controller) apply(r loadResult) bool {
	c.pending--
	if r.seq != c.seq {
		c.log.Debug("dropping stale map", zap.String("map", r.name))
		return false
	}
	if r.err != nil {
		c.fail(r.name, r.err)
		return false
	}
	return c.ApplyText(r.name, r.text) == nil
}

// Close abandons fetches in flight and waits for their goroutines.
func (c *Controller) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.wg.Wait()
}

// SetSpacing changes the distance between grid points.
func (c *Controller) SetSpacing(s float32) error {
	if !(s > 0) {
		return fmt.Errorf("%w: %v", terrain.ErrInvalidSpacing, s)
	}
	if s == c.settings.Spacing {
		return nil
	}
	c.settings.Spacing = s
	return c.rebuild()
}

// SetGradientEnabled switches between gradient and flat coloring.
func (c *Controller) SetGradientEnabled(on bool) error {
	if on == c.settings.GradientEnabled {
		return nil
	}
	c.settings.GradientEnabled = on
	return c.rebuild()
}

// SetGradient replaces all gradient stops.
func (c *Controller) SetGradient(g terrain.Gradient) error {
	c.settings.Gradient = g
	return c.rebuild()
}

// SetStopColor recolors one gradient stop.
func (c *Controller) SetStopColor(i int, col terrain.RGB) error {
	if i < 0 || i >= c.settings.Gradient.Len() {
		return fmt.Errorf("%w: %d", ErrStopIndex, i)
	}
	c.settings.Gradient = c.settings.Gradient.WithColor(i, col)
	return c.rebuild()
}

// SetFlatColor changes the color used when the gradient is off.
func (c *Controller) SetFlatColor(col terrain.RGB) error {
	if col == c.settings.FlatColor {
		return nil
	}
	c.settings.FlatColor = col
	return c.rebuild()
}

// SetRotation sets the spin rate about one axis (0 = X, 1 = Y, 2 = Z).
// Rotation is applied by Tick and needs no rebuild.
func (c *Controller) SetRotation(axis int, rate float32) {
	if axis < 0 || axis > 2 {
		return
	}
	c.settings.Rotation[axis] = rate
}

// SetMoveSpeed sets the camera travel speed. It needs no rebuild.
func (c *Controller) SetMoveSpeed(v float32) {
	if v < 0 {
		v = 0
	}
	c.settings.MoveSpeed = v
}

// SetFOV changes the vertical field of view, in degrees, used for framing
// and reframes.
func (c *Controller) SetFOV(degrees float32) error {
	if !(degrees > 0 && degrees < 180) {
		return fmt.Errorf("%w: %v", ErrFOV, degrees)
	}
	rad := halfFOV(degrees)
	if rad == c.settings.HalfFOV {
		return nil
	}
	c.settings.HalfFOV = rad
	return c.rebuild()
}

// Tick advances the pivot by one step of the rotation rates.
func (c *Controller) Tick(r Rotator) {
	r.Advance(c.settings.Rotation)
}

// Rebuild recomputes the mesh from the current grid and settings.
// With no grid loaded it does nothing.
func (c *Controller) Rebuild() error {
	return c.rebuild()
}

func (c *Controller) rebuild() error {
	if c.grid == nil {
		return nil
	}
	if err := c.build(c.grid); err != nil {
		c.fail(c.mapName, err)
		return err
	}
	return nil
}

// build makes a complete new mesh and only then hands it to the display.
func (c *Controller) build(grid *fdf.Grid) error {
	mesh, err := terrain.BuildWireframe(grid, c.options())
	if err != nil {
		if errors.Is(err, terrain.ErrInvalidGrid) {
			c.log.DPanic("grid rejected by mesh builder", zap.Error(err))
		}
		return err
	}
	if err := c.display.ReplaceMesh(mesh); err != nil {
		return fmt.Errorf("displaying mesh: %w", err)
	}
	c.display.ApplyFraming(mesh.Framing)

	c.grid = grid
	c.mesh = mesh
	return nil
}

func (c *Controller) options() terrain.Options {
	return terrain.Options{
		Spacing:         c.settings.Spacing,
		Gradient:        c.settings.Gradient,
		GradientEnabled: c.settings.GradientEnabled,
		FlatColor:       c.settings.FlatColor,
		HalfFOV:         c.settings.HalfFOV,
	}
}

func (c *Controller) fail(name string, err error) {
	c.status = Status{Map: name, Err: err, Message: err.Error()}

	var fe *mappack.FetchError
	var pe *fdf.ParseError
	switch {
	case errors.As(err, &fe):
		c.log.Warn("map fetch failed", zap.String("map", name), zap.Int("status", fe.Status), zap.Error(err))
	case errors.As(err, &pe):
		c.log.Warn("map parse failed", zap.String("map", name), zap.Int("line", pe.Line), zap.Error(err))
	default:
		c.log.Error("terrain update failed", zap.String("map", name), zap.Error(err))
	}
}

func halfFOV(degrees float32) float64 {
	return float64(degrees) * math.Pi / 360
}
