package valuation

import (
	"errors"
	"math"
	"testing"

	"hedgerisk/internal/config"
)

func TestCumulativePVZeroRatesIsSum(t *testing.T) {
	cfs := []float64{-1200, 350, -75, 4000, 12}
	pv, err := CumulativePV(cfs, make([]float64, len(cfs)))
	if err != nil {
		t.Fatalf("pv: %v", err)
	}
	if pv != 3087 {
		t.Fatalf("expected 3087, got %v", pv)
	}
}

func TestCumulativePVCompoundsEachMonth(t *testing.T) {
	pv, err := CumulativePV([]float64{100, 100}, []float64{0.01, 0.02})
	if err != nil {
		t.Fatalf("pv: %v", err)
	}
	want := 100/1.01 + 100/(1.01*1.02)
	if math.Abs(pv-want) > 1e-9 {
		t.Fatalf("pv %v, want %v", pv, want)
	}
}

func TestCumulativePVDimensionMismatch(t *testing.T) {
	_, err := CumulativePV([]float64{1, 2, 3}, []float64{0.01})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := PresentValue(Curve, []float64{1}, nil, 0); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("dispatch should surface mismatch, got %v", err)
	}
}

func TestFixedTenorPVMatchesAnnuity(t *testing.T) {
	for _, tc := range []struct {
		cf float64
		n  int
		r  float64
	}{
		{1000, 12, 0.0079741404},
		{1_265_242.17, 180, 0.13 / 12},
		{-5, 1, 0.5},
	} {
		cfs := make([]float64, tc.n)
		for i := range cfs {
			cfs[i] = tc.cf
		}
		got := FixedTenorPV(cfs, tc.r)
		want := tc.cf * (1 - math.Pow(1+tc.r, -float64(tc.n))) / tc.r
		if math.Abs(got-want)/math.Abs(want) > 1e-9 {
			t.Fatalf("n=%d r=%v: pv %v, want %v", tc.n, tc.r, got, want)
		}
	}
}

func TestFlatEqualsCurveOnConstantRate(t *testing.T) {
	cfs := []float64{10, 20, 30, 40}
	r := 0.0123
	curve, err := PresentValue(Curve, cfs, []float64{r, r, r, r}, 0)
	if err != nil {
		t.Fatalf("pv: %v", err)
	}
	flat, _ := PresentValue(Flat, cfs, nil, r)
	if math.Abs(curve-flat) > 1e-9 {
		t.Fatalf("curve %v vs flat %v", curve, flat)
	}
}

func TestParseConvention(t *testing.T) {
	if c, err := ParseConvention("fixed-tenor"); err != nil || c != Flat {
		t.Fatalf("ParseConvention = %v, %v", c, err)
	}
	if _, err := ParseConvention("libor"); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
