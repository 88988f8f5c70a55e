package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"sandfall/internal/config"
)

// Recorder writes census.csv and perf.csv into a run directory. A nil
// Recorder discards everything, so callers need not check whether output is
// enabled.
type Recorder struct {
	dir        string
	censusFile *os.File
	perfFile   *os.File

	censusHeaderWritten bool
	perfHeaderWritten   bool
}

// NewRecorder creates dir and opens the CSV files. It returns nil when dir
// is empty.
func NewRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	r := &Recorder{dir: dir}
	f, err := os.Create(filepath.Join(dir, "census.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating census.csv: %w", err)
	}
	r.censusFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		r.censusFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	r.perfFile = f
	return r, nil
}

// Dir returns the output directory.
func (r *Recorder) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// WriteConfig saves the run configuration as config.yaml.
func (r *Recorder) WriteConfig(cfg *config.Config) error {
	if r == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(r.dir, "config.yaml"))
}

// WriteCensus appends one census row.
func (r *Recorder) WriteCensus(c Census) error {
	if r == nil {
		return nil
	}
	records := []Census{c}
	if !r.censusHeaderWritten {
		if err := gocsv.Marshal(records, r.censusFile); err != nil {
			return fmt.Errorf("writing census: %w", err)
		}
		r.censusHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.censusFile); err != nil {
		return fmt.Errorf("writing census: %w", err)
	}
	return nil
}

// WritePerf appends one timing row for the window ending at tick.
func (r *Recorder) WritePerf(s PerfStats, tick uint32) error {
	if r == nil {
		return nil
	}
	records := []PerfStatsCSV{s.ToCSV(tick)}
	if !r.perfHeaderWritten {
		if err := gocsv.Marshal(records, r.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		r.perfHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.perfFile); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Close flushes and closes both files.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.censusFile.Close(), r.perfFile.Close())
}

// ReadCensus loads a census.csv written by a Recorder.
func ReadCensus(path string) ([]Census, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening census: %w", err)
	}
	defer f.Close()
	var rows []Census
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing census: %w", err)
	}
	return rows, nil
}
