// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/fdf-viewer/internal/engine/terrain"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Camera   CameraConfig   `yaml:"camera"`
	Rotation RotationConfig `yaml:"rotation"`
	Maps     MapsConfig     `yaml:"maps"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string      `yaml:"title"`
	Width      int         `yaml:"width"`
	Height     int         `yaml:"height"`
	Fullscreen bool        `yaml:"fullscreen"`
	VSync      bool        `yaml:"vsync"`
	Background terrain.RGB `yaml:"background"`
}

// TerrainConfig holds the mesh parameters applied to every loaded map.
type TerrainConfig struct {
	Spacing    float32        `yaml:"spacing"`
	Gradient   bool           `yaml:"gradient"`
	FlatColor  terrain.RGB    `yaml:"flat_color"`
	Stops      []terrain.Stop `yaml:"stops"`
	ShowBounds bool           `yaml:"show_bounds"`
	ShowAxes   bool           `yaml:"show_axes"`
}

// CameraConfig holds projection and fly-control settings.
type CameraConfig struct {
	FOV       float32 `yaml:"fov"` // vertical, degrees
	Near      float32 `yaml:"near"`
	Far       float32 `yaml:"far"`
	MoveSpeed float32 `yaml:"move_speed"`
	RollSpeed float32 `yaml:"roll_speed"` // radians per second
}

// RotationConfig holds the initial pivot spin, radians per tick.
type RotationConfig struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// MapsConfig holds where maps are loaded from.
type MapsConfig struct {
	Dir           string `yaml:"dir"`      // extra directory of .fdf files
	BaseURL       string `yaml:"base_url"` // HTTP map pack, e.g. https://example.org/42_map_pack
	Default       string `yaml:"default"`  // map shown at startup
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	LogFile     string `yaml:"log_file"`
	Development bool   `yaml:"development"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "FDF Viewer",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Background: terrain.Black,
		},
		Terrain: TerrainConfig{
			Spacing:   1,
			Gradient:  true,
			FlatColor: terrain.White,
			Stops:     terrain.DefaultGradient().Stops(),
		},
		Camera: CameraConfig{
			FOV:       75,
			Near:      0.1,
			Far:       5000,
			MoveSpeed: 10,
			RollSpeed: 0.1309,
		},
		Maps: MapsConfig{
			Default:       "42",
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// GradientValue returns the configured height gradient.
func (t TerrainConfig) GradientValue() terrain.Gradient {
	return terrain.NewGradient(t.Stops...)
}

// Rates returns the rotation as an X, Y, Z array.
func (r RotationConfig) Rates() [3]float32 {
	return [3]float32{r.X, r.Y, r.Z}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case !(c.Terrain.Spacing > 0):
		return fmt.Errorf("%w: terrain spacing %v must be positive", ErrInvalidConfig, c.Terrain.Spacing)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: camera fov %v outside (0, 180)", ErrInvalidConfig, c.Camera.FOV)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera clip range %v..%v", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	case c.Camera.MoveSpeed < 0:
		return fmt.Errorf("%w: negative move speed", ErrInvalidConfig)
	}
	for i, s := range c.Terrain.Stops {
		if s.Position < 0 || s.Position > 1 {
			return fmt.Errorf("%w: stop %d position %v outside [0, 1]", ErrInvalidConfig, i, s.Position)
		}
	}
	return nil
}
