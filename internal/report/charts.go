package report

import (
	"io"
	"math"
	"os"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"hedgerisk/internal/risk"
	"hedgerisk/internal/scenario"
	"hedgerisk/internal/swap"
)

const (
	chartWidth  = 1280
	chartHeight = 720
)

func pctFormatter(v interface{}) string {
	return chart.FloatValueFormatterWithFormat(v, "%.2f")
}

func millionsFormatter(v interface{}) string {
	return chart.FloatValueFormatterWithFormat(v, "%.1f")
}

// RenderFile renders with render into a new file at path.
func RenderFile(path string, render func(io.Writer) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return render(file)
}

// MortgagePathsChart plots the simulated variable mortgage rate of every
// scenario in percent.
func MortgagePathsChart(w io.Writer, paths map[scenario.ID]scenario.Paths) error {
	var series []chart.Series
	for _, id := range scenario.All() {
		p, ok := paths[id]
		if !ok {
			continue
		}
		x := make([]float64, len(p.Mortgage))
		y := make([]float64, len(p.Mortgage))
		for i, r := range p.Mortgage {
			x[i] = float64(i + 1)
			y[i] = r * 100
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "Variable mortgage " + id.String(),
			XValues: x,
			YValues: y,
		})
	}

	graph := chart.Chart{
		Title:  "Simulated variable mortgage rate",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Month"},
		YAxis: chart.YAxis{
			Name:           "Annual effective rate (%)",
			ValueFormatter: pctFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// SavingsChart shows the hedge savings per scenario in millions.
func SavingsChart(w io.Writer, results []swap.Result) error {
	bars := make([]chart.Value, 0, len(results))
	for _, r := range results {
		bars = append(bars, chart.Value{Label: r.Scenario.String(), Value: r.Savings / 1e6})
	}
	graph := chart.BarChart{
		Title:    "Present value of swap savings (millions)",
		Width:    chartWidth / 2,
		Height:   chartHeight / 2,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			ValueFormatter: millionsFormatter,
			Range:          barRange(bars),
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}

// SensitivityChart draws savings against the swap spread, one line per
// scenario.
func SensitivityChart(w io.Writer, rows []swap.SweepRow) error {
	byScenario := make(map[scenario.ID]*chart.ContinuousSeries)
	for _, r := range rows {
		s, ok := byScenario[r.Scenario]
		if !ok {
			s = &chart.ContinuousSeries{Name: r.Scenario.String()}
			byScenario[r.Scenario] = s
		}
		s.XValues = append(s.XValues, r.SpreadBP)
		s.YValues = append(s.YValues, r.Savings/1e6)
	}

	var series []chart.Series
	for _, id := range scenario.All() {
		if s, ok := byScenario[id]; ok {
			series = append(series, *s)
		}
	}

	graph := chart.Chart{
		Title:  "Savings sensitivity to the swap spread",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Swap spread (bp)"},
		YAxis: chart.YAxis{
			Name:           "Savings (millions)",
			ValueFormatter: millionsFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// HistogramBins is the bucket count of SavingsHistogram.
const HistogramBins = 60

// SavingsHistogram plots the Monte Carlo savings distribution with a marker
// at the VaR.
func SavingsHistogram(w io.Writer, res risk.Result) error {
	centers, counts := histogram(res.Distribution, HistogramBins)
	var peak float64
	for i := range centers {
		centers[i] /= 1e6
		peak = math.Max(peak, counts[i])
	}
	varMM := res.VaRAbsolute / 1e6

	graph := chart.Chart{
		Title:  "Savings distribution " + res.Scenario.String(),
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:           "Savings (millions)",
			ValueFormatter: millionsFormatter,
		},
		YAxis: chart.YAxis{Name: "Frequency"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Paths",
				XValues: centers,
				YValues: counts,
				Style: chart.Style{
					FillColor:   chart.ColorBlue.WithAlpha(96),
					StrokeColor: chart.ColorBlue,
				},
			},
			chart.ContinuousSeries{
				Name:    "VaR",
				XValues: []float64{varMM, varMM},
				YValues: []float64{0, peak},
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// VaRChart compares the VaR across scenarios in millions.
func VaRChart(w io.Writer, rows []RiskRow) error {
	var bars []chart.Value
	for _, row := range rows {
		if row.Err != nil {
			continue
		}
		bars = append(bars, chart.Value{Label: row.Scenario.String(), Value: row.Result.VaRAbsolute / 1e6})
	}
	graph := chart.BarChart{
		Title:    "Savings VaR by scenario (millions)",
		Width:    chartWidth / 2,
		Height:   chartHeight / 2,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			ValueFormatter: millionsFormatter,
			Range:          barRange(bars),
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}

// barRange spans every bar and zero; go-chart rejects an empty range.
func barRange(bars []chart.Value) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	if hi == lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// histogram buckets values into bins of equal width and returns the bin
// centres and counts.
func histogram(values []float64, bins int) ([]float64, []float64) {
	if len(values) == 0 || bins <= 0 {
		return nil, nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		hi = lo + 1
	}
	dividers := floats.Span(make([]float64, bins+1), lo, math.Nextafter(hi, math.Inf(1)))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	centers := make([]float64, bins)
	for i := range centers {
		centers[i] = (dividers[i] + dividers[i+1]) / 2
	}
	return centers, counts
}
