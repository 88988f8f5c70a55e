package app

import (
	"flag"
	"fmt"

	"sandfall/internal/config"
)

// Flags holds the command-line overrides shared by the viewers and tools.
// Only flags given explicitly replace values loaded from the config file.
type Flags struct {
	ConfigPath string
	Size       int
	Seed       int64
	Materials  string
	Layout     string
	Scale      int
	TPS        int
	BandRows   int
}

// NewFlags returns Flags populated from the embedded defaults so the usage
// text shows real values.
func NewFlags() *Flags {
	d := config.Default()
	return &Flags{
		Size:      d.World.Size,
		Seed:      d.World.Seed,
		Materials: d.World.Materials,
		Layout:    d.World.Layout,
		Scale:     d.Viewer.Scale,
		TPS:       d.Viewer.TPS,
		BandRows:  d.Engine.BandRows,
	}
}

// Bind attaches the flags to the provided FlagSet.
func (f *Flags) Bind(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", f.ConfigPath, "YAML config file layered over the defaults")
	fs.IntVar(&f.Size, "size", f.Size, "grid side length")
	fs.Int64Var(&f.Seed, "seed", f.Seed, "random seed")
	fs.StringVar(&f.Materials, "materials", f.Materials, "material set: full or reduced")
	fs.StringVar(&f.Layout, "layout", f.Layout, "embedded layout name or layout file path")
	fs.IntVar(&f.Scale, "scale", f.Scale, "pixel scale multiplier")
	fs.IntVar(&f.TPS, "tps", f.TPS, "ticks per second")
	fs.IntVar(&f.BandRows, "band-rows", f.BandRows, "rows per engine band, 0 for one pass")
}

// Load reads the config file named by -config and applies every flag that
// was set on fs. fs must already be parsed.
func (f *Flags) Load(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "size":
			cfg.World.Size = f.Size
		case "seed":
			cfg.World.Seed = f.Seed
		case "materials":
			cfg.World.Materials = f.Materials
		case "layout":
			cfg.World.Layout = f.Layout
		case "scale":
			cfg.Viewer.Scale = f.Scale
		case "tps":
			cfg.Viewer.TPS = f.TPS
			cfg.Stream.TPS = f.TPS
		case "band-rows":
			cfg.Engine.BandRows = f.BandRows
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
