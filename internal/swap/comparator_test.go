package swap

import (
	"errors"
	"math"
	"testing"

	"hedgerisk/internal/config"
	"hedgerisk/internal/rates"
	"hedgerisk/internal/scenario"
	"hedgerisk/internal/valuation"
)

func testPaths(t *testing.T, term int) map[scenario.ID]scenario.Paths {
	t.Helper()
	set, err := scenario.Build(scenario.BaseParameters{
		Alpha:          0.2,
		Mu:             0.08,
		SigmaAnnual:    0.035,
		R0:             0.10,
		MortgageSpread: 0.035,
		FloorSpread:    0.05,
		Cap:            rates.DefaultCap,
		Floor:          rates.DefaultFloor,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	paths, err := set.Generate(42, term)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return paths
}

func testSpreads() map[scenario.ID]float64 {
	return map[scenario.ID]float64{
		scenario.Optimistic:  0.015,
		scenario.Base:        0.02,
		scenario.Pessimistic: 0.025,
	}
}

func newComparator(t *testing.T, method string) *Comparator {
	t.Helper()
	opts, err := Preset(method, 100_000_000, 180, 0.13, 0.10)
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	c, err := NewComparator(opts)
	if err != nil {
		t.Fatalf("comparator: %v", err)
	}
	return c
}

func TestCompareSignConvention(t *testing.T) {
	for _, method := range []string{"list-rate", "swapped-path"} {
		c := newComparator(t, method)
		results, err := c.Compare(testPaths(t, 180), testSpreads())
		if err != nil {
			t.Fatalf("%s: compare: %v", method, err)
		}
		if len(results) != 3 {
			t.Fatalf("%s: expected 3 results, got %d", method, len(results))
		}
		for i, res := range results {
			if res.Scenario != scenario.All()[i] {
				t.Fatalf("%s: results out of order", method)
			}
			if res.PVVariable >= 0 || res.PVHedged >= 0 {
				t.Fatalf("%s %s: outflow PVs should be negative: %+v", method, res.Scenario, res)
			}
			if math.Abs(res.Savings-(res.PVHedged-res.PVVariable)) > 1e-6 {
				t.Fatalf("%s %s: savings inconsistent", method, res.Scenario)
			}
			if math.Abs(res.SavingsPct-res.Savings/-res.PVVariable) > 1e-12 {
				t.Fatalf("%s %s: savings pct inconsistent", method, res.Scenario)
			}
		}
	}
}

func TestSwappedPathZeroSpreadHasNoSavings(t *testing.T) {
	c := newComparator(t, "swapped-path")
	zero := map[scenario.ID]float64{scenario.Optimistic: 0, scenario.Base: 0, scenario.Pessimistic: 0}
	results, err := c.Compare(testPaths(t, 180), zero)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, res := range results {
		if math.Abs(res.Savings) > 1e-4 {
			t.Fatalf("%s: identical legs should not save, got %v", res.Scenario, res.Savings)
		}
	}
}

func TestListRateConstantPaymentIndependentOfScenario(t *testing.T) {
	opts, _ := Preset("list-rate", 1_000_000, 12, 0.13, 0.10)
	opts.Discount = valuation.Flat
	c, err := NewComparator(opts)
	if err != nil {
		t.Fatalf("comparator: %v", err)
	}
	same := map[scenario.ID]float64{scenario.Optimistic: 0.02, scenario.Base: 0.02, scenario.Pessimistic: 0.02}
	results, err := c.Compare(testPaths(t, 12), same)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, res := range results[1:] {
		if math.Abs(res.PVHedged-results[0].PVHedged) > 1e-6 {
			t.Fatalf("fixed leg should not depend on the rate path: %v vs %v", res.PVHedged, results[0].PVHedged)
		}
	}
}

func TestSweepSavingsNonIncreasingInSpread(t *testing.T) {
	spreads, err := SpreadRange(150, 350, 50)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(spreads) != 5 || spreads[0] != 150 || spreads[4] != 350 {
		t.Fatalf("unexpected spread grid %v", spreads)
	}

	for _, method := range []string{"list-rate", "swapped-path"} {
		c := newComparator(t, method)
		rows, err := c.Sweep(testPaths(t, 180), spreads)
		if err != nil {
			t.Fatalf("%s: sweep: %v", method, err)
		}
		if len(rows) != 15 {
			t.Fatalf("%s: expected 15 rows, got %d", method, len(rows))
		}
		for i := 1; i < len(rows); i++ {
			if rows[i].Scenario != rows[i-1].Scenario {
				continue
			}
			if rows[i].Savings > rows[i-1].Savings {
				t.Fatalf("%s %s: savings rose from %v to %v between %vbp and %vbp", method,
					rows[i].Scenario, rows[i-1].Savings, rows[i].Savings, rows[i-1].SpreadBP, rows[i].SpreadBP)
			}
		}
	}
}

func TestSweepMatchesCompare(t *testing.T) {
	c := newComparator(t, "list-rate")
	paths := testPaths(t, 180)
	results, _ := c.Compare(paths, map[scenario.ID]float64{scenario.Optimistic: 0.02, scenario.Base: 0.02, scenario.Pessimistic: 0.02})
	rows, err := c.Sweep(paths, []float64{200})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	for i, row := range rows {
		if math.Abs(row.Savings-results[i].Savings) > 1e-6 {
			t.Fatalf("%s: sweep %v vs compare %v", row.Scenario, row.Savings, results[i].Savings)
		}
	}
}

func TestCompareConfigurationErrors(t *testing.T) {
	c := newComparator(t, "list-rate")
	if _, err := c.Compare(testPaths(t, 60), testSpreads()); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("short horizon: expected ErrInvalid, got %v", err)
	}
	missing := map[scenario.ID]float64{scenario.Base: 0.02}
	if _, err := c.Compare(testPaths(t, 180), missing); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("missing spread: expected ErrInvalid, got %v", err)
	}
	if _, err := Preset("bermudan", 1, 1, 0, 0); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("unknown method: expected ErrInvalid, got %v", err)
	}
	if _, err := NewComparator(Options{Principal: 1, Term: 0}); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("zero term: expected ErrInvalid, got %v", err)
	}
	if _, err := SpreadRange(350, 150, 50); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("inverted range: expected ErrInvalid, got %v", err)
	}
}
