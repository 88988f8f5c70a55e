package app

import (
	"fmt"

	"sandfall/internal/config"
	"sandfall/internal/sims/sand"
)

// NewWorld builds the world described by cfg.
func NewWorld(cfg *config.Config) (*sand.World, error) {
	sc, err := cfg.Sand()
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}
	if sc.Layout != nil {
		if err := sc.Layout.Fits(sc.Materials); err != nil {
			return nil, fmt.Errorf("building world: %w", err)
		}
	}
	return sand.NewWithConfig(sc), nil
}

// NewSessionFromConfig builds the world and wraps it for an interactive
// viewer.
func NewSessionFromConfig(cfg *config.Config) (*Session, error) {
	w, err := NewWorld(cfg)
	if err != nil {
		return nil, err
	}
	return NewSession(w, SessionOptions{
		TPS:         cfg.Viewer.TPS,
		MaxCatchUp:  cfg.Viewer.MaxCatchUp,
		Brush:       cfg.Brush(),
		BrushRadius: cfg.Viewer.BrushRadius,
		Seed:        cfg.World.Seed,
	}), nil
}
