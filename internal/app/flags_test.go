package app

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func parseFlags(t *testing.T, args ...string) (*Flags, *flag.FlagSet) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := NewFlags()
	f.Bind(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return f, fs
}

func TestFlagsOverrideDefaults(t *testing.T) {
	f, fs := parseFlags(t, "-size", "64", "-tps", "20", "-materials", "reduced")
	cfg, err := f.Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Size != 64 || cfg.Viewer.TPS != 20 || cfg.World.Materials != "reduced" {
		t.Fatalf("flags not applied: %+v %+v", cfg.World, cfg.Viewer)
	}
	if cfg.World.Seed != 42 {
		t.Fatalf("unset seed flag changed seed to %d", cfg.World.Seed)
	}
}

func TestFlagsOnlyOverrideWhatWasSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("world:\n  seed: 7\n  size: 32\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, fs := parseFlags(t, "-config", path, "-size", "48")
	cfg, err := f.Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Seed != 7 {
		t.Fatalf("seed = %d, want the file's 7", cfg.World.Seed)
	}
	if cfg.World.Size != 48 {
		t.Fatalf("size = %d, want the flag's 48", cfg.World.Size)
	}
}

func TestFlagsValidate(t *testing.T) {
	f, fs := parseFlags(t, "-size", "0")
	if _, err := f.Load(fs); err == nil {
		t.Fatal("expected validation error for zero size")
	}
}
