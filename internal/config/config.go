// Package config loads the optional nvc.toml tool configuration, grounded
// on the teacher's surge.toml project-manifest loader.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// File is the on-disk shape of nvc.toml.
type File struct {
	Std        string   `toml:"std"`
	SearchPath []string `toml:"search_path"`
	Wave       string   `toml:"wave"`
	Color      string   `toml:"color"`
}

// Config is the resolved configuration after merging file defaults with
// CLI overrides (CLI flags always win, per §4.12).
type Config struct {
	Std        string
	SearchPath []string
	Wave       string
	Color      string
}

// Find locates nvc.toml by walking up from startDir, mirroring the
// teacher's findSurgeToml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, "nvc.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load reads and decodes nvc.toml. If it is absent, or leaves std or color
// unset, those default to "2008" and "auto".
func Load(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Config{Std: "2008", Color: "auto"}, nil
	}
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return Config{}, err
	}
	cfg := Config{Std: f.Std, SearchPath: f.SearchPath, Wave: f.Wave, Color: f.Color}
	if cfg.Std == "" {
		cfg.Std = "2008"
	}
	if cfg.Color == "" {
		cfg.Color = "auto"
	}
	return cfg, nil
}

// Merge overlays non-empty override fields onto base, implementing the
// "flags win" rule for Std, Wave and Color. A non-empty override
// SearchPath is appended after base's entries rather than replacing them.
func Merge(base Config, override Config) Config {
	out := base
	if override.Std != "" {
		out.Std = override.Std
	}
	if override.Wave != "" {
		out.Wave = override.Wave
	}
	if override.Color != "" {
		out.Color = override.Color
	}
	if len(override.SearchPath) > 0 {
		out.SearchPath = append(append([]string{}, base.SearchPath...), override.SearchPath...)
	}
	return out
}
