package telemetry

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// PerfCollector keeps a rolling window of tick durations.
type PerfCollector struct {
	windowSize  int
	samples     []float64 // seconds
	writeIndex  int
	sampleCount int
	tickStart   time.Time

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]float64, windowSize),
		now:        time.Now,
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() { p.tickStart = p.now() }

// EndTick records the time since the matching StartTick.
func (p *PerfCollector) EndTick() { p.Record(p.now().Sub(p.tickStart)) }

// Record adds a measured tick duration to the window.
func (p *PerfCollector) Record(d time.Duration) {
	p.samples[p.writeIndex] = d.Seconds()
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats summarises the window.
type PerfStats struct {
	Samples        int
	Mean           time.Duration
	StdDev         time.Duration
	Min            time.Duration
	Median         time.Duration
	P95            time.Duration
	Max            time.Duration
	TicksPerSecond float64
}

// Stats computes the summary. An empty window yields zero stats.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{}
	}
	xs := append([]float64(nil), p.samples[:p.sampleCount]...)
	sort.Float64s(xs)

	mean := stat.Mean(xs, nil)
	s := PerfStats{
		Samples: len(xs),
		Mean:    seconds(mean),
		Min:     seconds(xs[0]),
		Median:  seconds(stat.Quantile(0.5, stat.Empirical, xs, nil)),
		P95:     seconds(stat.Quantile(0.95, stat.Empirical, xs, nil)),
		Max:     seconds(xs[len(xs)-1]),
	}
	if len(xs) > 1 {
		s.StdDev = seconds(stat.StdDev(xs, nil))
	}
	if mean > 0 {
		s.TicksPerSecond = 1 / mean
	}
	return s
}

func seconds(v float64) time.Duration { return time.Duration(math.Round(v * float64(time.Second))) }

// PerfStatsCSV is the flattened row written to perf.csv.
type PerfStatsCSV struct {
	Tick           uint32  `csv:"tick"`
	Samples        int     `csv:"samples"`
	MeanUs         float64 `csv:"mean_us"`
	StdDevUs       float64 `csv:"stddev_us"`
	MedianUs       float64 `csv:"median_us"`
	P95Us          float64 `csv:"p95_us"`
	MaxUs          float64 `csv:"max_us"`
	TicksPerSecond float64 `csv:"ticks_per_sec"`
}

// ToCSV flattens the stats for the window ending at tick.
func (s PerfStats) ToCSV(tick uint32) PerfStatsCSV {
	us := func(d time.Duration) float64 { return float64(d) / float64(time.Microsecond) }
	return PerfStatsCSV{
		Tick:           tick,
		Samples:        s.Samples,
		MeanUs:         us(s.Mean),
		StdDevUs:       us(s.StdDev),
		MedianUs:       us(s.Median),
		P95Us:          us(s.P95),
		MaxUs:          us(s.Max),
		TicksPerSecond: s.TicksPerSecond,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("mean", s.Mean),
		slog.Duration("p95", s.P95),
		slog.Duration("max", s.Max),
		slog.Float64("tps", s.TicksPerSecond),
	)
}
