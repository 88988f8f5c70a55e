// Command sand-sweep runs a grid of seeds and engine settings in parallel
// and reports how quickly each scattered world settles.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gocarina/gocsv"

	"sandfall/internal/sims/sand"
	"sandfall/internal/telemetry"
)

type paramSet struct {
	seed              int64
	condenseThreshold float32
	bandRows          int
}

func (p paramSet) String() string {
	return fmt.Sprintf("seed=%d condense=%.4f bands=%d", p.seed, p.condenseThreshold, p.bandRows)
}

type scenarioResult struct {
	Seed              int64   `csv:"seed"`
	CondenseThreshold float32 `csv:"condense_threshold"`
	BandRows          int     `csv:"band_rows"`
	Steps             int     `csv:"steps"`
	SettledAt         int     `csv:"settled_at"`
	Water             int     `csv:"water"`
	Steam             int     `csv:"steam"`
	MeanTickUs        float64 `csv:"mean_tick_us"`
}

func (r scenarioResult) params() paramSet {
	return paramSet{seed: r.Seed, condenseThreshold: r.CondenseThreshold, bandRows: r.BandRows}
}

type sweepOptions struct {
	size     int
	fraction float64
	steps    int
	quiet    int
}

func main() {
	size := flag.Int("size", 64, "grid side length")
	fraction := flag.Float64("scatter", 0.3, "fraction of cells filled per scenario")
	steps := flag.Int("steps", 2000, "maximum ticks per scenario")
	quiet := flag.Int("quiet", 30, "ticks without change that count as settled")
	seeds := flag.Int("seeds", 4, "seeds per engine setting")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	csvPath := flag.String("csv", "", "write every result to this CSV file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	opts := sweepOptions{size: *size, fraction: *fraction, steps: *steps, quiet: *quiet}

	thresholdOptions := []float32{0.99, 0.995, sand.DefaultCondenseThreshold}
	bandOptions := []int{0, 8, 16}

	var sets []paramSet
	for seed := int64(1); seed <= int64(*seeds); seed++ {
		for _, threshold := range thresholdOptions {
			for _, bands := range bandOptions {
				sets = append(sets, paramSet{seed: seed, condenseThreshold: threshold, bandRows: bands})
			}
		}
	}

	fmt.Printf("Sweeping %d scenarios (%d workers, %d steps, %dx%d)\n", len(sets), *workers, *steps, *size, *size)

	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runScenario(opts, params)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		all = append(all, res)
		if res.SettledAt < 0 {
			log.Warn("scenario did not settle", "params", res.params().String(), "steps", res.Steps)
		}
	}

	sortResults(all)
	elapsed := time.Since(start)

	fmt.Printf("\nFastest settling (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < 5; i++ {
		res := all[i]
		fmt.Printf("%2d) settled=%d water=%d steam=%d tick=%.1fus %s\n",
			i+1, res.SettledAt, res.Water, res.Steam, res.MeanTickUs, res.params())
	}

	if *csvPath != "" {
		if err := writeResults(*csvPath, all); err != nil {
			log.Error("writing results", "err", err)
			os.Exit(1)
		}
		log.Info("results written", "path", *csvPath, "rows", len(all))
	}
}

func runScenario(opts sweepOptions, params paramSet) scenarioResult {
	cfg := sand.DefaultConfig()
	cfg.Size = opts.size
	cfg.Seed = params.seed
	cfg.CondenseThreshold = params.condenseThreshold
	cfg.BandRows = params.bandRows
	cfg.ResetWorkers = 1

	world := sand.NewWithConfig(cfg)
	world.Scatter(params.seed, opts.fraction)

	sum, err := telemetry.Run(context.Background(), world, telemetry.RunOptions{
		Steps: opts.steps,
		Every: opts.steps + 1,
		Quiet: opts.quiet,
	}, nil, nil)
	if err != nil {
		// A background context never ends, so Run only fails on output errors
		// and there is no recorder.
		panic(err)
	}
	return scenarioResult{
		Seed:              params.seed,
		CondenseThreshold: params.condenseThreshold,
		BandRows:          params.bandRows,
		Steps:             sum.Steps,
		SettledAt:         sum.SettledAt,
		Water:             sum.Final.Water,
		Steam:             sum.Final.Steam,
		MeanTickUs:        sum.Perf.ToCSV(0).MeanUs,
	}
}

// sortResults orders settled scenarios first, earliest settle first.
func sortResults(all []scenarioResult) {
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if (a.SettledAt < 0) != (b.SettledAt < 0) {
			return a.SettledAt >= 0
		}
		if a.SettledAt != b.SettledAt {
			return a.SettledAt < b.SettledAt
		}
		if a.Seed != b.Seed {
			return a.Seed < b.Seed
		}
		if a.CondenseThreshold != b.CondenseThreshold {
			return a.CondenseThreshold < b.CondenseThreshold
		}
		return a.BandRows < b.BandRows
	})
}

func writeResults(path string, all []scenarioResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(&all, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
