package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging and development checks")
	flagMap        = flag.String("map", "", "Map to show at startup (preset name or file path)")
	flagMapsDir    = flag.String("maps-dir", "", "Directory of .fdf maps")
	flagMapsURL    = flag.String("maps-url", "", "Base URL of an HTTP map pack")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}
	if *flagMap != "" {
		cfg.Maps.Default = *flagMap
	}
	if *flagMapsDir != "" {
		cfg.Maps.Dir = *flagMapsDir
	}
	if *flagMapsURL != "" {
		cfg.Maps.BaseURL = *flagMapsURL
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
