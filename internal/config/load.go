package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appDir       = "fdf-viewer"
	localConfig  = "fdf-viewer.yaml"
	configEnvVar = "FDF_VIEWER_CONFIG"
)

// Load builds the configuration from defaults, then the first config file
// found, then command-line flags, and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if path := findConfigFile(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the config file to read, or "" to run on defaults.
// An explicit -config flag or $FDF_VIEWER_CONFIG is returned even when the
// file is missing, so the error surfaces instead of silently using defaults.
func findConfigFile() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(configEnvVar); p != "" {
		return p
	}
	for _, p := range []string{localConfig, filepath.Join(ConfigDir(), "config.yaml")} {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// ConfigDir returns the per-user directory holding config.yaml.
func ConfigDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, appDir)
	}
	// No home directory: keep settings next to the working directory.
	dir, _ := filepath.Abs("." + appDir)
	return dir
}

// loadFromFile decodes a YAML file over cfg. Keys missing from the file
// keep their current values; unknown keys are rejected.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
