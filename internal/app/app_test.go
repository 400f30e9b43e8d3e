package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"hedgerisk/internal/config"
)

func testApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Risk.Paths = 200
	cfg.Export.Dir = t.TempDir()

	var out bytes.Buffer
	a := NewApp(cfg, zerolog.Nop())
	a.Out = &out
	return a, &out
}

func assertFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("%s not exported: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
}

func TestSimulateExportsRates(t *testing.T) {
	a, out := testApp(t)
	if err := a.Simulate(context.Background(), Overrides{}); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	assertFiles(t, a.Config.Export.Dir, "rates.csv", "rate_summary.csv")
	if _, err := os.Stat(filepath.Join(a.Config.Export.Dir, "mortgage_paths.png")); !os.IsNotExist(err) {
		t.Fatalf("png export should be off by default")
	}
	if !strings.Contains(out.String(), "Mortgage rate by scenario") {
		t.Fatalf("summary not printed: %q", out.String())
	}
}

func TestRunExportsEverything(t *testing.T) {
	a, out := testApp(t)
	dir := filepath.Join(a.Config.Export.Dir, "run")
	if err := a.Run(context.Background(), Overrides{OutDir: dir, PNG: true}); err != nil {
		t.Fatalf("run: %v", err)
	}
	assertFiles(t, dir,
		"rates.csv", "valuation.csv", "sweep.csv", "risk.csv",
		"mortgage_paths.png", "savings.png", "sensitivity.png",
	)
	for _, heading := range []string{"Swap valuation", "Savings by swap spread", "Savings value-at-risk"} {
		if !strings.Contains(out.String(), heading) {
			t.Fatalf("missing %q in output", heading)
		}
	}
}

func TestOverridesApply(t *testing.T) {
	a, _ := testApp(t)
	seed := uint64(7)
	if err := a.apply(Overrides{Seed: &seed, Paths: 50, Workers: 3, Method: "swapped-path"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	cfg := a.Config
	if cfg.Simulation.Seed != 7 || cfg.Risk.Seed != 7 || cfg.Risk.Paths != 50 || cfg.Risk.Workers != 3 {
		t.Fatalf("overrides not applied: %+v %+v", cfg.Simulation, cfg.Risk)
	}
	if cfg.Swap.Method != "swapped-path" {
		t.Fatalf("method %q", cfg.Swap.Method)
	}
}

func TestCompareRejectsUnknownMethod(t *testing.T) {
	a, _ := testApp(t)
	err := a.Compare(context.Background(), Overrides{Method: "barter"})
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVaRRequiresDatabaseWhenConfigured(t *testing.T) {
	a, _ := testApp(t)
	a.Config.Risk.HistorySource = "database"
	if err := a.VaR(context.Background(), Overrides{}); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for a missing DSN, got %v", err)
	}
}
