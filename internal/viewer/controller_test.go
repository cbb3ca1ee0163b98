package viewer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Faultbox/fdf-viewer/internal/engine/terrain"
	"github.com/Faultbox/fdf-viewer/internal/mappack"
	"github.com/Faultbox/fdf-viewer/pkg/fdf"
)

// fakeDisplay records what the controller hands to the renderer.
type fakeDisplay struct {
	meshes   []*terrain.Mesh
	framings []terrain.Framing
	fail     error
}

func (d *fakeDisplay) ReplaceMesh(m *terrain.Mesh) error {
	if d.fail != nil {
		return d.fail
	}
	d.meshes = append(d.meshes, m)
	return nil
}

func (d *fakeDisplay) ApplyFraming(f terrain.Framing) {
	d.framings = append(d.framings, f)
}

func (d *fakeDisplay) current() *terrain.Mesh {
	if len(d.meshes) == 0 {
		return nil
	}
	return d.meshes[len(d.meshes)-1]
}

type rotator struct{ total [3]float32 }

func (r *rotator) Advance(rates [3]float32) {
	for i := range r.total {
		r.total[i] += rates[i]
	}
}

func testSettings() Settings {
	return Settings{
		Spacing:         1,
		Gradient:        terrain.NewGradient(terrain.Stop{Position: 0, Color: terrain.Black}, terrain.Stop{Position: 1, Color: terrain.White}),
		GradientEnabled: true,
		FlatColor:       terrain.White,
		MoveSpeed:       10,
		HalfFOV:         math.Pi / 4,
	}
}

func testSource() mappack.Source {
	return mappack.FSSource{FS: fstest.MapFS{
		"hill.fdf":   {Data: []byte("0 0\n0 4\n")},
		"plain.fdf":  {Data: []byte("1 1 1\n1 1 1\n")},
		"broken.fdf": {Data: []byte("1 2\n3\n")},
	}}
}

func newTestController(t *testing.T) (*Controller, *fakeDisplay) {
	t.Helper()
	d := &fakeDisplay{}
	c := New(d, testSource(), testSettings())
	t.Cleanup(c.Close)
	return c, d
}

func TestApplyText_EndToEnd(t *testing.T) {
	c, d := newTestController(t)

	if err := c.ApplyText("manual", "0 0\n0 4"); err != nil {
		t.Fatalf("ApplyText failed: %v", err)
	}
	if len(d.meshes) != 1 || len(d.framings) != 1 {
		t.Fatalf("expected one mesh and one framing, got %d and %d", len(d.meshes), len(d.framings))
	}

	m := d.current()
	heights := []float32{0, 0, 0, 4}
	for k, h := range heights {
		if m.Positions[k][2] != h {
			t.Errorf("vertex %d height = %v, want %v", k, m.Positions[k][2], h)
		}
	}
	if m.Colors[3] != terrain.White.Array() || m.Colors[0] != terrain.Black.Array() {
		t.Errorf("unexpected colors %v", m.Colors)
	}
	if m.EdgeCount() != 4 {
		t.Errorf("expected 4 edges, got %d", m.EdgeCount())
	}
	if c.MapName() != "manual" || c.Grid().Width() != 2 {
		t.Errorf("controller state not updated: %q %v", c.MapName(), c.Grid())
	}
	if c.Status().Err != nil {
		t.Errorf("unexpected status error %v", c.Status().Err)
	}
}

func TestApplyText_ParseErrorKeepsMesh(t *testing.T) {
	c, d := newTestController(t)
	if err := c.ApplyText("good", "1 2\n3 4"); err != nil {
		t.Fatal(err)
	}
	before := c.Mesh()

	err := c.ApplyText("bad", "1 2\n3")
	if !errors.Is(err, fdf.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if c.Mesh() != before || len(d.meshes) != 1 {
		t.Error("parse failure replaced the displayed mesh")
	}
	if c.MapName() != "good" {
		t.Errorf("map name changed to %q", c.MapName())
	}
	if !errors.Is(c.Status().Err, fdf.ErrRaggedRows) {
		t.Errorf("status should carry the parse error, got %v", c.Status().Err)
	}
}

func TestLoadGrid_InvalidGrid(t *testing.T) {
	c, d := newTestController(t)
	err := c.LoadGrid("empty", &fdf.Grid{})
	if !errors.Is(err, terrain.ErrInvalidGrid) {
		t.Fatalf("expected ErrInvalidGrid, got %v", err)
	}
	if len(d.meshes) != 0 || c.Grid() != nil {
		t.Error("invalid grid reached the display")
	}
}

func TestLoadGrid_DisplayFailure(t *testing.T) {
	c, d := newTestController(t)
	d.fail = errors.New("gpu lost")
	if err := c.ApplyText("x", "1"); err == nil {
		t.Fatal("expected display error")
	}
	if c.Grid() != nil || c.Mesh() != nil {
		t.Error("controller committed a grid the display rejected")
	}
}

func TestSetters_Rebuild(t *testing.T) {
	c, d := newTestController(t)
	if err := c.ApplyText("hill", "0 0\n0 4"); err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"spacing", func() error { return c.SetSpacing(2) }},
		{"gradient off", func() error { return c.SetGradientEnabled(false) }},
		{"flat color", func() error { return c.SetFlatColor(terrain.Red) }},
		{"gradient on", func() error { return c.SetGradientEnabled(true) }},
		{"stop color", func() error { return c.SetStopColor(1, terrain.Blue) }},
		{"gradient", func() error {
			return c.SetGradient(terrain.NewGradient(terrain.Stop{Position: 0, Color: terrain.Red}, terrain.Stop{Position: 1, Color: terrain.Red}))
		}},
	}
	for i, s := range steps {
		if err := s.run(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		if len(d.meshes) != i+2 {
			t.Fatalf("%s: expected %d meshes, got %d", s.name, i+2, len(d.meshes))
		}
	}

	// Last mesh: spacing 2, all red.
	m := d.current()
	if m.Positions[1] != [3]float32{2, 2, 0} {
		t.Errorf("spacing not applied: %v", m.Positions[1])
	}
	for k, col := range m.Colors {
		if col != terrain.Red.Array() {
			t.Errorf("color %d = %v, want red", k, col)
		}
	}
}

func TestSetters_FlatAndStopColor(t *testing.T) {
	c, d := newTestController(t)
	if err := c.ApplyText("hill", "0 0\n0 4"); err != nil {
		t.Fatal(err)
	}

	if err := c.SetStopColor(1, terrain.Blue); err != nil {
		t.Fatal(err)
	}
	if got := d.current().Colors[3]; got != terrain.Blue.Array() {
		t.Errorf("top vertex color = %v, want blue", got)
	}

	if err := c.SetGradientEnabled(false); err != nil {
		t.Fatal(err)
	}
	for k, col := range d.current().Colors {
		if col != terrain.White.Array() {
			t.Errorf("flat color %d = %v, want white", k, col)
		}
	}

	if err := c.SetStopColor(7, terrain.Red); !errors.Is(err, ErrStopIndex) {
		t.Errorf("expected ErrStopIndex, got %v", err)
	}
}

func TestSetSpacing_Invalid(t *testing.T) {
	c, d := newTestController(t)
	if err := c.ApplyText("hill", "0 1"); err != nil {
		t.Fatal(err)
	}
	for _, s := range []float32{0, -1, float32(math.NaN())} {
		if err := c.SetSpacing(s); !errors.Is(err, terrain.ErrInvalidSpacing) {
			t.Errorf("SetSpacing(%v): expected ErrInvalidSpacing, got %v", s, err)
		}
	}
	if c.Settings().Spacing != 1 || len(d.meshes) != 1 {
		t.Error("invalid spacing changed state")
	}
}

func TestSetters_NoGridNoRebuild(t *testing.T) {
	c, d := newTestController(t)
	if err := c.SetSpacing(3); err != nil {
		t.Fatal(err)
	}
	if err := c.SetFlatColor(terrain.Red); err != nil {
		t.Fatal(err)
	}
	if len(d.meshes) != 0 {
		t.Errorf("rebuild without a grid produced %d meshes", len(d.meshes))
	}
	if c.Settings().Spacing != 3 {
		t.Error("setting not stored")
	}

	// Settings apply to the next grid.
	if err := c.ApplyText("x", "0 0"); err != nil {
		t.Fatal(err)
	}
	if got := d.current().Positions[1]; got != [3]float32{3, 0, 0} {
		t.Errorf("stored spacing not used: %v", got)
	}
}

func TestRotationAndMoveSpeed_NoRebuild(t *testing.T) {
	c, d := newTestController(t)
	if err := c.ApplyText("hill", "0 1"); err != nil {
		t.Fatal(err)
	}

	c.SetRotation(0, 0.01)
	c.SetRotation(2, 0.005)
	c.SetRotation(5, 1)
	c.SetMoveSpeed(55)

	if len(d.meshes) != 1 {
		t.Errorf("rotation or speed caused a rebuild")
	}
	if c.Settings().MoveSpeed != 55 {
		t.Errorf("move speed = %v", c.Settings().MoveSpeed)
	}

	r := &rotator{}
	for range 3 {
		c.Tick(r)
	}
	want := [3]float32{0.03, 0, 0.015}
	for i := range want {
		if math.Abs(float64(r.total[i]-want[i])) > 1e-6 {
			t.Errorf("rotation[%d] = %v, want %v", i, r.total[i], want[i])
		}
	}
}

func TestLoadMap(t *testing.T) {
	c, d := newTestController(t)
	c.LoadMap(context.Background(), "hill")
	if !c.Loading() {
		t.Error("expected a fetch in flight")
	}
	if !c.Wait() {
		t.Fatal("expected the mesh to change")
	}
	if c.Loading() {
		t.Error("fetch still marked in flight")
	}
	if c.MapName() != "hill" || d.current().MaxHeight != 4 {
		t.Errorf("map not applied: %q", c.MapName())
	}
}

func TestLoadMap_FailuresKeepMesh(t *testing.T) {
	c, d := newTestController(t)
	c.LoadMap(context.Background(), "plain")
	c.Wait()
	before := c.Mesh()

	tests := []struct {
		name   string
		target error
	}{
		{"nowhere", mappack.ErrNotFound},
		{"broken", fdf.ErrRaggedRows},
	}
	for _, tt := range tests {
		c.LoadMap(context.Background(), tt.name)
		if c.Wait() {
			t.Errorf("%s: mesh changed", tt.name)
		}
		if c.Mesh() != before || len(d.meshes) != 1 {
			t.Errorf("%s: previous mesh was replaced", tt.name)
		}
		if !errors.Is(c.Status().Err, tt.target) {
			t.Errorf("%s: status error = %v, want %v", tt.name, c.Status().Err, tt.target)
		}
	}
	if c.MapName() != "plain" {
		t.Errorf("map name = %q, want plain", c.MapName())
	}
}

func TestLoadMap_LatestWins(t *testing.T) {
	c, d := newTestController(t)
	c.LoadMap(context.Background(), "hill")
	c.LoadMap(context.Background(), "plain")
	c.Wait()

	if c.MapName() != "plain" {
		t.Errorf("map = %q, want the last requested", c.MapName())
	}
	if len(d.meshes) != 1 {
		t.Errorf("expected only the latest load to reach the display, got %d meshes", len(d.meshes))
	}
}

func TestLoadFrom_NoSource(t *testing.T) {
	d := &fakeDisplay{}
	c := New(d, nil, testSettings())
	defer c.Close()

	c.LoadMap(context.Background(), "hill")
	if c.Loading() {
		t.Error("no fetch should start without a source")
	}
	if !errors.Is(c.Status().Err, ErrNoSource) {
		t.Errorf("expected ErrNoSource, got %v", c.Status().Err)
	}
}

func TestPoll_Empty(t *testing.T) {
	c, _ := newTestController(t)
	if c.Poll() {
		t.Error("Poll with nothing pending reported a change")
	}
}

func TestSettingsFromDefaults(t *testing.T) {
	s := DefaultSettings()
	if s.Spacing != 1 || !s.GradientEnabled || s.Gradient.Len() != 5 {
		t.Errorf("unexpected defaults %+v", s)
	}
	// 75 degree field of view.
	if math.Abs(s.HalfFOV-75*math.Pi/360) > 1e-9 {
		t.Errorf("HalfFOV = %v", s.HalfFOV)
	}
}

func TestOpen_FilePath(t *testing.T) {
	c, d := newTestController(t)
	path := filepath.Join(t.TempDir(), "picked.fdf")
	if err := os.WriteFile(path, []byte("0 2\n2 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c.Open(context.Background(), path)
	c.Wait()
	if c.MapName() != path || d.current().MaxHeight != 2 {
		t.Errorf("file not loaded: %q", c.MapName())
	}

	c.Open(context.Background(), "hill")
	c.Wait()
	if c.MapName() != "hill" {
		t.Errorf("named map not loaded: %q", c.MapName())
	}
}

func TestSetFOV(t *testing.T) {
	c, d := newTestController(t)
	if err := c.ApplyText("hill", "0 0\n0 4"); err != nil {
		t.Fatal(err)
	}
	before := d.framings[len(d.framings)-1]

	if err := c.SetFOV(30); err != nil {
		t.Fatalf("SetFOV failed: %v", err)
	}
	if got := c.Settings().FOV(); math.Abs(float64(got)-30) > 1e-4 {
		t.Errorf("FOV() = %v, want 30", got)
	}
	if len(d.framings) != 2 {
		t.Fatalf("expected a reframe, got %d framings", len(d.framings))
	}
	// A narrower view must pull the camera further back.
	after := d.framings[1]
	if after.LookFrom[2] <= before.LookFrom[2] {
		t.Errorf("LookFrom z = %v, want more than %v", after.LookFrom[2], before.LookFrom[2])
	}

	for _, deg := range []float32{0, -10, 180, float32(math.NaN())} {
		if err := c.SetFOV(deg); !errors.Is(err, ErrFOV) {
			t.Errorf("SetFOV(%v): expected ErrFOV, got %v", deg, err)
		}
	}
	if len(d.framings) != 2 {
		t.Error("invalid field of view reframed")
	}
}

// blockingSource holds every fetch until its context is cancelled.
type blockingSource struct{}

func (blockingSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWait_AfterClose(t *testing.T) {
	c := New(&fakeDisplay{}, blockingSource{}, testSettings())
	ctx, cancel := context.WithCancel(context.Background())

	// More requests than the result buffer holds, so some goroutines
	// can only leave through Close.
	for i := range 8 {
		c.LoadMap(ctx, fmt.Sprintf("map%d", i))
	}
	cancel()
	c.Close()

	returned := make(chan struct{})
	go func() {
		c.Wait()
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait blocked after Close")
	}
	if c.Loading() {
		t.Error("still loading after Close and Wait")
	}
}
