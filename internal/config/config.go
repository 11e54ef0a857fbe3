// Package config loads perry.toml, the project configuration file:
// project name/entry and build out_dir/opt_level.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Project is the [project] table.
type Project struct {
	Name  string `toml:"name"`
	Entry string `toml:"entry"`
}

// Build is the [build] table.
type Build struct {
	OutDir   string `toml:"out_dir"`
	OptLevel int    `toml:"opt_level"`
}

// Config is the full contents of perry.toml.
type Config struct {
	Project Project `toml:"project"`
	Build   Build   `toml:"build"`
}

// Default returns the configuration used when no perry.toml is present.
func Default() Config {
	return Config{
		Project: Project{Name: "perry-project", Entry: "index.ts"},
		Build:   Build{OutDir: "dist", OptLevel: 1},
	}
}

// Load reads and decodes perry.toml at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	cfg.Project.Entry = "" // a perry.toml must name its entry itself
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Project.Entry == "" {
		return Config{}, fmt.Errorf("config: %s: [project].entry is required", path)
	}
	return cfg, nil
}
