// Package main is a minimal full-window FDF viewer driven by hotkeys.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/fdf-viewer/internal/config"
	"github.com/Faultbox/fdf-viewer/internal/logger"
	"github.com/Faultbox/fdf-viewer/internal/mappack"
)

func main() {
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

	logger.Info("=== FDF Player ===")

	p, err := newPlayer(cfg, mappack.Standard(cfg.Maps.Dir, cfg.Maps.BaseURL))
	if err != nil {
		logger.Error("failed to create player", zap.Error(err))
		os.Exit(1)
	}
	defer p.Close()

	if cfg.Maps.Default != "" {
		p.ctrl.Open(p.ctx, cfg.Maps.Default)
	}
	p.Run()

	logger.Info("player closed normally")
}
