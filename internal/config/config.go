package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cspace-planner/internal/geometry"
	"cspace-planner/internal/logging"
	"cspace-planner/internal/planner"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the planner.yaml file
type Config struct {
	Planner PlannerConfig `yaml:"planner"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

type PlannerConfig struct {
	BlockMode      string `yaml:"block_mode"` // covered | interior
	SpatialIndex   bool   `yaml:"spatial_index"`
	PruneContained bool   `yaml:"prune_contained"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Planner: PlannerConfig{BlockMode: geometry.BlockCovered.String()},
		Server:  ServerConfig{Addr: ":8080", ShutdownTimeout: 5 * time.Second},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. A missing file at an empty path
// yields the defaults; JSON files parse too since YAML is a superset.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every enumerated and ranged value
func (c Config) Validate() error {
	var problems []string

	if _, err := geometry.ParseBlockMode(c.Planner.BlockMode); err != nil {
		problems = append(problems, "planner.block_mode: "+err.Error())
	}
	if c.Server.Addr == "" {
		problems = append(problems, "server.addr: must not be empty")
	}
	if c.Server.ShutdownTimeout < 0 {
		problems = append(problems, "server.shutdown_timeout: must not be negative")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, "log.level: "+err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// LogLevel returns the parsed log level, info when unset or unknown
func (c Config) LogLevel() slog.Level {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// PlannerOptions converts the planner section. The config must be valid.
func (c Config) PlannerOptions(logger *slog.Logger) []planner.Option {
	mode, _ := geometry.ParseBlockMode(c.Planner.BlockMode)
	return []planner.Option{
		planner.WithBlockMode(mode),
		planner.WithSpatialIndex(c.Planner.SpatialIndex),
		planner.WithPruneContained(c.Planner.PruneContained),
		planner.WithLogger(logger),
	}
}
