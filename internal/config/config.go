// Package config loads application-level settings for the sand viewers and
// tools from YAML, layered over embedded defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sandfall/internal/sims/sand"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds every configurable section.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Engine    EngineConfig    `yaml:"engine"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Stream    StreamConfig    `yaml:"stream"`
}

// WorldConfig describes the grid a run starts from.
type WorldConfig struct {
	Size      int    `yaml:"size"`
	Materials string `yaml:"materials"` // full or reduced
	Seed      int64  `yaml:"seed"`
	// Layout names an embedded layout or a path to a layout file. Empty
	// starts from an empty grid.
	Layout string `yaml:"layout"`
}

// EngineConfig tunes the rule pass.
type EngineConfig struct {
	CondenseThreshold float32 `yaml:"condense_threshold"`
	BandRows          int     `yaml:"band_rows"`
	ResetWorkers      int     `yaml:"reset_workers"`
}

// ViewerConfig controls the interactive front ends.
type ViewerConfig struct {
	Scale       int    `yaml:"scale"`
	TPS         int    `yaml:"tps"`
	MaxCatchUp  int    `yaml:"max_catch_up"`
	Brush       string `yaml:"brush"`
	BrushRadius int    `yaml:"brush_radius"`
}

// TelemetryConfig controls census output for headless runs.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"` // empty disables CSV output
	Every     int    `yaml:"every"`      // ticks between census rows
	Steps     int    `yaml:"steps"`      // ticks per headless run
}

// StreamConfig controls the websocket frame server.
type StreamConfig struct {
	Addr            string        `yaml:"addr"`
	TPS             int           `yaml:"tps"`
	PublishInterval time.Duration `yaml:"publish_interval"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the embedded defaults and overlays the file at path, if any.
// Fields missing from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteYAML saves the config to path, typically next to run output so a run
// can be reproduced.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks ranges that would otherwise surface as panics deeper in.
func (c *Config) Validate() error {
	if c.World.Size <= 0 {
		return fmt.Errorf("%w: world.size must be positive, got %d", ErrInvalid, c.World.Size)
	}
	if _, err := sand.ParseMaterialSet(c.World.Materials); err != nil {
		return fmt.Errorf("%w: world.materials: %v", ErrInvalid, err)
	}
	if c.Engine.CondenseThreshold < 0 || c.Engine.CondenseThreshold > 1 {
		return fmt.Errorf("%w: engine.condense_threshold must be in [0, 1], got %v", ErrInvalid, c.Engine.CondenseThreshold)
	}
	if c.Engine.BandRows < 0 || c.Engine.ResetWorkers < 0 {
		return fmt.Errorf("%w: engine.band_rows and engine.reset_workers must not be negative", ErrInvalid)
	}
	if c.Viewer.Scale <= 0 || c.Viewer.TPS <= 0 {
		return fmt.Errorf("%w: viewer.scale and viewer.tps must be positive", ErrInvalid)
	}
	if c.Viewer.MaxCatchUp < 1 {
		return fmt.Errorf("%w: viewer.max_catch_up must be at least 1, got %d", ErrInvalid, c.Viewer.MaxCatchUp)
	}
	if _, err := sand.ParseMaterial(c.Viewer.Brush); err != nil {
		return fmt.Errorf("%w: viewer.brush: %v", ErrInvalid, err)
	}
	if c.Viewer.BrushRadius < 0 {
		return fmt.Errorf("%w: viewer.brush_radius must not be negative", ErrInvalid)
	}
	if c.Telemetry.Every <= 0 || c.Telemetry.Steps < 0 {
		return fmt.Errorf("%w: telemetry.every must be positive and telemetry.steps not negative", ErrInvalid)
	}
	if c.Stream.TPS <= 0 || c.Stream.PublishInterval <= 0 {
		return fmt.Errorf("%w: stream.tps and stream.publish_interval must be positive", ErrInvalid)
	}
	return nil
}

// Sand builds the simulation config. A layout value naming an embedded
// layout wins over a file of the same name; embedded layouts also pick the
// material set.
func (c *Config) Sand() (sand.Config, error) {
	set, err := sand.ParseMaterialSet(c.World.Materials)
	if err != nil {
		return sand.Config{}, fmt.Errorf("world.materials: %w", err)
	}
	sc := sand.DefaultConfig()
	sc.Size = c.World.Size
	sc.Materials = set
	sc.Seed = c.World.Seed
	sc.CondenseThreshold = c.Engine.CondenseThreshold
	sc.BandRows = c.Engine.BandRows
	sc.ResetWorkers = c.Engine.ResetWorkers

	if c.World.Layout == "" {
		return sc, nil
	}
	layout, layoutSet, err := sand.EmbeddedLayout(c.World.Layout)
	switch {
	case err == nil:
		sc.Materials = layoutSet
	case errors.Is(err, sand.ErrUnknownLayout):
		layout, err = sand.ReadLayoutFile(c.World.Layout, sand.CodecFor(set))
		if err != nil {
			return sand.Config{}, fmt.Errorf("world.layout: %w", err)
		}
	default:
		return sand.Config{}, fmt.Errorf("world.layout: %w", err)
	}
	sc.Layout = layout
	return sc, nil
}

// Brush returns the configured starting brush material.
func (c *Config) Brush() sand.Material {
	m, err := sand.ParseMaterial(c.Viewer.Brush)
	if err != nil {
		return sand.Sand
	}
	return m
}
