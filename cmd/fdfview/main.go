// Package main is the entry point for the FDF viewer with its controls panel.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/fdf-viewer/internal/config"
	"github.com/Faultbox/fdf-viewer/internal/logger"
	"github.com/Faultbox/fdf-viewer/internal/mappack"
	"github.com/Faultbox/fdf-viewer/internal/ui"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, cfg.Logging.Development); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== FDF Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	maps := mappack.Standard(cfg.Maps.Dir, cfg.Maps.BaseURL)

	app, err := ui.NewApp(cfg, maps)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	if cfg.Maps.Default != "" {
		app.Open(cfg.Maps.Default)
	}
	app.Run()

	logger.Info("viewer closed normally")
}
