package ui

import (
	"fmt"
	"strings"

	"github.com/Faultbox/fdf-viewer/internal/config"
	"github.com/Faultbox/fdf-viewer/internal/engine/picking"
	"github.com/Faultbox/fdf-viewer/internal/viewer"
)

// Slider ranges of the controls panel.
const (
	minSpacing   = 0.5
	maxSpacing   = 5
	maxRotation  = 0.01
	minMoveSpeed = 10
	maxMoveSpeed = 100
	minFOV       = 30
	maxFOV       = 120
)

var fiveStopLabels = [...]string{"Low Color", "Mid Low Color", "Mid Color", "Mid High Color", "High Color"}

// stopLabel names gradient stop i of n.
func stopLabel(i, n int) string {
	if n == len(fiveStopLabels) {
		return fiveStopLabels[i]
	}
	switch i {
	case 0:
		return "Low Color"
	case n - 1:
		return "High Color"
	}
	return fmt.Sprintf("Stop %d Color", i+1)
}

// storeSettings copies the live viewer state into cfg so it can be saved.
func storeSettings(cfg *config.Config, s viewer.Settings, showBounds, showAxes bool) {
	cfg.Terrain.Spacing = s.Spacing
	cfg.Terrain.Gradient = s.GradientEnabled
	cfg.Terrain.FlatColor = s.FlatColor
	cfg.Terrain.Stops = s.Gradient.Stops()
	cfg.Terrain.ShowBounds = showBounds
	cfg.Terrain.ShowAxes = showAxes
	cfg.Rotation = config.RotationConfig{X: s.Rotation[0], Y: s.Rotation[1], Z: s.Rotation[2]}
	cfg.Camera.MoveSpeed = s.MoveSpeed
	cfg.Camera.FOV = s.FOV()
}

// statusText summarizes the loaded map for the status bar.
func statusText(st viewer.Status, loading bool, vertices, edges int) string {
	var b strings.Builder
	switch {
	case loading:
		b.WriteString(st.Message)
	case st.Map == "":
		b.WriteString("no map loaded")
	default:
		b.WriteString(st.Map)
	}
	if vertices > 0 {
		fmt.Fprintf(&b, " | %d vertices, %d edges", vertices, edges)
	}
	return b.String()
}

// groundText reports the camera altitude over the terrain below it.
func groundText(ground float32, ok bool, cameraZ float32) string {
	if !ok {
		return "off terrain"
	}
	return fmt.Sprintf("ground %.2f, altitude %.2f", ground, cameraZ-ground)
}

// pickText describes the terrain vertex under the pointer.
func pickText(hit picking.Hit, ok bool) string {
	if !ok {
		return ""
	}
	return fmt.Sprintf("cursor row %d col %d, height %g", hit.Row, hit.Col, hit.Height)
}

// mapEditor holds the state of the "Enter map" window.
type mapEditor struct {
	open bool
	name string
	text string
}

// show opens the editor, prefilled with the given map text.
func (e *mapEditor) show(name, text string) {
	e.open = true
	e.name = name
	e.text = text
}

// submission returns the name and text to apply. Blank text is refused.
func (e *mapEditor) submission() (name, text string, ok bool) {
	if strings.TrimSpace(e.text) == "" {
		return "", "", false
	}
	name = strings.TrimSpace(e.name)
	if name == "" {
		name = "custom"
	}
	return name, e.text, true
}
