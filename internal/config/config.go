// Package config holds winnow's runtime configuration: defaults plus
// environment-variable overrides.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all winnow configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Prune    PruneConfig
}

type ServerConfig struct {
	Bind string `env:"WINNOW_BIND"`
	Port int    `env:"WINNOW_PORT"`
}

type DatabaseConfig struct {
	Path string `env:"WINNOW_DB"`
}

// PruneConfig configures the analysis engine's collaborators. The
// per-run scoring knobs live in the prune package; this is only the
// environment the prober operates in.
type PruneConfig struct {
	// WorkDir is the directory path and branch checks resolve against.
	// Empty means the process working directory.
	WorkDir string `env:"WINNOW_WORKDIR"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37711,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
	}
}

// Load returns the defaults with any WINNOW_* environment overrides
// applied.
func Load() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
