package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// defaultConfigPath is read when -config is not given. A missing file is
// not an error.
const defaultConfigPath = "~/.config/fxinfo.toml"

// Config holds defaults for the command line flags.
type Config struct {
	// Root is the content root for container files.
	Root string `toml:"root"`
	// Backend names a device backend, "default" for the best available,
	// or empty to decode without native objects.
	Backend string `toml:"backend"`
	Verbose bool   `toml:"verbose"`
}

// loadConfig reads a TOML config. Paths may start with "~".
func loadConfig(path string, required bool) (*Config, error) {
	cfg := &Config{}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config path %s: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", expanded, err)
	}
	if cfg.Root != "" {
		if cfg.Root, err = homedir.Expand(cfg.Root); err != nil {
			return nil, fmt.Errorf("config root: %w", err)
		}
	}
	return cfg, nil
}
