// Package telemetry records per-tick material counts and tick timing for
// headless runs and sweeps.
package telemetry

import (
	"log/slog"

	"sandfall/internal/sims/sand"
)

// Census counts materials on the grid after a given tick.
type Census struct {
	Tick  uint32 `csv:"tick"`
	Empty int    `csv:"empty"`
	Wall  int    `csv:"wall"`
	Wood  int    `csv:"wood"`
	Sand  int    `csv:"sand"`
	Water int    `csv:"water"`
	Oil   int    `csv:"oil"`
	Steam int    `csv:"steam"`
}

// TakeCensus tallies g as it stands after tick.
func TakeCensus(tick uint32, g *sand.Grid) Census {
	counts := g.Counts()
	return Census{
		Tick:  tick,
		Empty: counts[sand.Empty],
		Wall:  counts[sand.Wall],
		Wood:  counts[sand.Wood],
		Sand:  counts[sand.Sand],
		Water: counts[sand.Water],
		Oil:   counts[sand.Oil],
		Steam: counts[sand.Steam],
	}
}

// Particles is the number of non-Empty cells.
func (c Census) Particles() int {
	return c.Wall + c.Wood + c.Sand + c.Water + c.Oil + c.Steam
}

// Fluid is the water and steam total, which condensation only moves between.
func (c Census) Fluid() int { return c.Water + c.Steam }

// LogValue implements slog.LogValuer for structured logging.
func (c Census) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", int(c.Tick)),
		slog.Int("sand", c.Sand),
		slog.Int("water", c.Water),
		slog.Int("oil", c.Oil),
		slog.Int("steam", c.Steam),
		slog.Int("solid", c.Wall+c.Wood),
		slog.Int("empty", c.Empty),
	)
}
