package rates

import (
	"errors"
	"math"
	"testing"

	"hedgerisk/internal/config"
)

func colombiaModel() Model {
	return Model{
		Alpha:        0.2,
		Mu:           0.08,
		SigmaMonthly: 0.035 / math.Sqrt(12),
		Cap:          DefaultCap,
		Floor:        DefaultFloor,
	}
}

func TestSimulateRespectsFloorAndCap(t *testing.T) {
	m := colombiaModel()
	m.SigmaMonthly = 0.05 // large shocks so both bounds bind
	for seed := uint64(0); seed < 50; seed++ {
		path, err := Simulate(m, 0.02, 180, NewRand(seed, 0))
		if err != nil {
			t.Fatalf("simulate: %v", err)
		}
		prev := 0.02
		for i, r := range path {
			if r < m.Floor {
				t.Fatalf("seed %d month %d: rate %v below floor", seed, i, r)
			}
			if math.Abs(r-prev) > m.Cap+1e-12 {
				t.Fatalf("seed %d month %d: move %v exceeds cap", seed, i, r-prev)
			}
			prev = r
		}
	}
}

func TestSimulateDeterministic(t *testing.T) {
	m := colombiaModel()
	a, err := Simulate(m, 0.10, 12, NewRand(42, 0))
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	b, _ := Simulate(m, 0.10, 12, NewRand(42, 0))
	if len(a) != 12 {
		t.Fatalf("expected 12 months, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("month %d differs: %v vs %v", i, a[i], b[i])
		}
	}

	c, _ := Simulate(m, 0.10, 12, NewRand(42, 1))
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Fatal("different streams should produce different paths")
	}
}

func TestSimulateMoments(t *testing.T) {
	m := colombiaModel()
	var total float64
	const runs = 200
	for seed := uint64(0); seed < runs; seed++ {
		path, err := Simulate(m, 0.10, 12, NewRand(seed, 0))
		if err != nil {
			t.Fatalf("simulate: %v", err)
		}
		var sum float64
		for _, r := range path {
			if r < 0.01 {
				t.Fatalf("rate %v below 1%%", r)
			}
			sum += r
		}
		total += sum / float64(len(path))
	}
	mean := total / runs
	if mean < 0.07 || mean > 0.13 {
		t.Fatalf("average path mean %v outside [0.07, 0.13]", mean)
	}
}

func TestSimulateZeroVolatilityReverts(t *testing.T) {
	m := colombiaModel()
	m.SigmaMonthly = 0
	path, err := Simulate(m, 0.10, 24, NewRand(1, 0))
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	for i := 1; i < len(path); i++ {
		if path[i] >= path[i-1] {
			t.Fatalf("rate should decline toward mu: %v -> %v", path[i-1], path[i])
		}
		if path[i] < m.Mu {
			t.Fatalf("rate overshot mu: %v", path[i])
		}
	}
}

func TestSimulateRejectsInvalidInputs(t *testing.T) {
	cases := map[string]Model{
		"negative alpha": {Alpha: -1, SigmaMonthly: 0.01},
		"negative sigma": {Alpha: 0.2, SigmaMonthly: -0.01},
		"negative cap":   {Alpha: 0.2, SigmaMonthly: 0.01, Cap: -1},
	}
	for name, m := range cases {
		if _, err := Simulate(m, 0.1, 12, NewRand(0, 0)); !errors.Is(err, config.ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
	if _, err := Simulate(colombiaModel(), 0.1, 0, NewRand(0, 0)); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("zero steps: expected ErrInvalid, got %v", err)
	}
}

func TestBasisMonthly(t *testing.T) {
	if got := Effective.Monthly(0.13); math.Abs(math.Pow(1+got, 12)-1.13) > 1e-12 {
		t.Fatalf("effective conversion does not compound back: %v", got)
	}
	if got := Nominal.Monthly(0.13); math.Abs(got-0.13/12) > 1e-15 {
		t.Fatalf("nominal conversion: %v", got)
	}
	if got := Raw.Monthly(0.13); got != 0.13 {
		t.Fatalf("raw conversion: %v", got)
	}
	if _, err := ParseBasis("continuous"); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for unknown basis, got %v", err)
	}
	if b, err := ParseBasis("Nominal"); err != nil || b != Nominal {
		t.Fatalf("ParseBasis(Nominal) = %v, %v", b, err)
	}
}
