package scenario

import (
	"errors"
	"math"
	"testing"

	"hedgerisk/internal/config"
	"hedgerisk/internal/rates"
)

func testBase() BaseParameters {
	return BaseParameters{
		Alpha:          0.2,
		Mu:             0.08,
		SigmaAnnual:    0.035,
		R0:             0.10,
		MortgageSpread: 0.03,
		FloorSpread:    0.05,
		Cap:            rates.DefaultCap,
		Floor:          rates.DefaultFloor,
	}
}

func TestBuildAppliesDeltas(t *testing.T) {
	set, err := Build(testBase())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := map[ID]struct{ sigma, mu float64 }{
		Optimistic:  {0.035 * 0.8, 0.07},
		Base:        {0.035, 0.08},
		Pessimistic: {0.035 * 1.2, 0.09},
	}
	for id, w := range want {
		p, ok := set.Parameters(id)
		if !ok {
			t.Fatalf("missing scenario %s", id)
		}
		if math.Abs(p.SigmaAnnual-w.sigma) > 1e-12 || math.Abs(p.Mu-w.mu) > 1e-12 {
			t.Fatalf("%s: got sigma=%v mu=%v", id, p.SigmaAnnual, p.Mu)
		}
		if math.Abs(p.SigmaMonthly-w.sigma/math.Sqrt(12)) > 1e-12 {
			t.Fatalf("%s: monthly sigma %v", id, p.SigmaMonthly)
		}
	}
}

func TestBuildRejectsNegativeInputs(t *testing.T) {
	b := testBase()
	b.SigmaAnnual = -0.01
	if _, err := Build(b); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestMortgagePathUsesGreaterSpread(t *testing.T) {
	short := rates.Path{0.05, 0.10}
	got := MortgagePath(short, 0.03, 0.05)
	if math.Abs(got[0]-0.10) > 1e-12 || math.Abs(got[1]-0.15) > 1e-12 {
		t.Fatalf("floor spread should dominate: %v", got)
	}
	got = MortgagePath(short, 0.07, 0.05)
	if math.Abs(got[0]-0.12) > 1e-12 {
		t.Fatalf("mortgage spread should dominate: %v", got)
	}
}

func TestGenerateReproducible(t *testing.T) {
	set, _ := Build(testBase())
	a, err := set.Generate(42, 180)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _ := set.Generate(42, 180)
	for _, id := range All() {
		pa, pb := a[id], b[id]
		if len(pa.Short) != 180 || len(pa.Mortgage) != 180 {
			t.Fatalf("%s: unexpected lengths", id)
		}
		for i := range pa.Short {
			if pa.Short[i] != pb.Short[i] {
				t.Fatalf("%s month %d not reproducible", id, i)
			}
			if pa.Mortgage[i] < pa.Short[i]+0.05-1e-12 {
				t.Fatalf("%s month %d: mortgage below floor spread", id, i)
			}
		}
	}
}

func TestParseID(t *testing.T) {
	for in, want := range map[string]ID{"Optimista": Optimistic, "base": Base, "PESSIMISTIC": Pessimistic} {
		got, err := ParseID(in)
		if err != nil || got != want {
			t.Fatalf("ParseID(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseID("stress"); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(rates.Path{0.1, 0.2, 0.3, 0.4, 0.5})
	if math.Abs(s.Mean-0.3) > 1e-12 {
		t.Fatalf("mean %v", s.Mean)
	}
	if !(s.P5 <= s.Mean && s.Mean <= s.P95) {
		t.Fatalf("percentiles out of order: %+v", s)
	}

	path := make(rates.Path, 20)
	for i := range path {
		path[i] = float64(19 - i)
	}
	s = Summarize(path)
	if math.Abs(s.P5-0.95) > 1e-12 || math.Abs(s.P95-18.05) > 1e-12 {
		t.Fatalf("p5=%v p95=%v, want 0.95 and 18.05", s.P5, s.P95)
	}
}
