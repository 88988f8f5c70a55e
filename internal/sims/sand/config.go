package sand

import "strconv"

// Config controls the sand world.
type Config struct {
	// Size is the side length of the square grid. A Layout overrides it.
	Size int
	// Materials selects the paintable material set and layout codec.
	Materials MaterialSet
	Seed      int64

	// CondenseThreshold is the draw a steam cell must exceed to condense.
	CondenseThreshold float32
	// BandRows, when positive, runs the rule pass as consecutive full-width
	// row bands of that height instead of one whole-grid block.
	BandRows int
	// ResetWorkers bounds the goroutines used to clear processed markers.
	// Zero means GOMAXPROCS, one forces a serial pass.
	ResetWorkers int

	// Layout, when set, is loaded on construction and on every Reset.
	Layout *Layout
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Size:              128,
		Materials:         FullSet,
		Seed:              42,
		CondenseThreshold: DefaultCondenseThreshold,
	}
}

// GridSize reports the side length the world will use.
func (c Config) GridSize() int {
	if c.Layout != nil {
		return c.Layout.Size()
	}
	return c.Size
}

// FromMap populates a Config from a string map (flag-style key/value pairs).
// Unparseable values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Size = parsed
		}
	}
	if v, ok := cfg["materials"]; ok {
		if parsed, err := ParseMaterialSet(v); err == nil {
			c.Materials = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["condense_threshold"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed >= 0 && parsed <= 1 {
			c.CondenseThreshold = float32(parsed)
		}
	}
	if v, ok := cfg["band_rows"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.BandRows = parsed
		}
	}
	if v, ok := cfg["reset_workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.ResetWorkers = parsed
		}
	}
	if v, ok := cfg["layout"]; ok {
		if layout, set, err := EmbeddedLayout(v); err == nil {
			c.Layout = layout
			c.Materials = set
		}
	}
	return c
}
