package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"hedgerisk/internal/risk"
	"hedgerisk/internal/scenario"
	"hedgerisk/internal/swap"
)

// Table is a report that can be printed and written as CSV.
type Table interface {
	Header() []string
	Records() [][]string
}

// WriteCSV writes t to path, creating parent directories.
func WriteCSV(path string, t Table) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := EncodeCSV(file, t); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// EncodeCSV writes t as CSV to w.
func EncodeCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header()); err != nil {
		return err
	}
	for _, record := range t.Records() {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Print renders t as an aligned text table.
func Print(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	writeRow(tw, t.Header())
	for _, record := range t.Records() {
		writeRow(tw, record)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

// RateTable lists short and mortgage rates per month and scenario.
type RateTable struct {
	Paths map[scenario.ID]scenario.Paths
}

func (t RateTable) scenarios() []scenario.ID {
	var ids []scenario.ID
	for _, id := range scenario.All() {
		if _, ok := t.Paths[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (t RateTable) Header() []string {
	header := []string{"month"}
	for _, id := range t.scenarios() {
		header = append(header, "short_"+id.Key(), "mortgage_"+id.Key())
	}
	return header
}

func (t RateTable) Records() [][]string {
	ids := t.scenarios()
	if len(ids) == 0 {
		return nil
	}
	months := len(t.Paths[ids[0]].Short)
	records := make([][]string, 0, months)
	for m := 0; m < months; m++ {
		record := []string{strconv.Itoa(m + 1)}
		for _, id := range ids {
			p := t.Paths[id]
			record = append(record, rate(p.Short[m]), rate(p.Mortgage[m]))
		}
		records = append(records, record)
	}
	return records
}

// SummaryTable gives mean and percentile bands of each mortgage path.
type SummaryTable struct {
	Paths map[scenario.ID]scenario.Paths
}

func (t SummaryTable) Header() []string {
	return []string{"scenario", "mortgage_mean_pct", "mortgage_p5_pct", "mortgage_p95_pct"}
}

func (t SummaryTable) Records() [][]string {
	var records [][]string
	for _, id := range scenario.All() {
		p, ok := t.Paths[id]
		if !ok {
			continue
		}
		s := scenario.Summarize(p.Mortgage)
		records = append(records, []string{id.String(), percent(s.Mean), percent(s.P5), percent(s.P95)})
	}
	return records
}

// ValuationTable lists the fixed-vs-variable comparison per scenario.
type ValuationTable struct {
	Results []swap.Result
}

func (t ValuationTable) Header() []string {
	return []string{"scenario", "swap_spread_bp", "pv_variable", "pv_hedged", "savings", "savings_pct"}
}

func (t ValuationTable) Records() [][]string {
	records := make([][]string, 0, len(t.Results))
	for _, r := range t.Results {
		records = append(records, []string{
			r.Scenario.String(),
			strconv.FormatFloat(r.Spread*1e4, 'f', 0, 64),
			money(r.PVVariable),
			money(r.PVHedged),
			money(r.Savings),
			percent(r.SavingsPct),
		})
	}
	return records
}

// SweepTable is the scenario × spread savings grid in long form.
type SweepTable struct {
	Rows []swap.SweepRow
}

func (t SweepTable) Header() []string {
	return []string{"scenario", "spread_bp", "savings"}
}

func (t SweepTable) Records() [][]string {
	records := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		records = append(records, []string{
			r.Scenario.String(),
			strconv.FormatFloat(r.SpreadBP, 'f', -1, 64),
			money(r.Savings),
		})
	}
	return records
}

// SweepGrid pivots the sweep to one row per spread and one column per
// scenario, in millions, for console display.
type SweepGrid struct {
	Rows []swap.SweepRow
}

func (g SweepGrid) spreads() []float64 {
	var out []float64
	seen := make(map[float64]bool)
	for _, r := range g.Rows {
		if !seen[r.SpreadBP] {
			seen[r.SpreadBP] = true
			out = append(out, r.SpreadBP)
		}
	}
	return out
}

func (g SweepGrid) Header() []string {
	header := []string{"spread_bp"}
	for _, id := range scenario.All() {
		header = append(header, id.String()+" (MM)")
	}
	return header
}

func (g SweepGrid) Records() [][]string {
	cells := make(map[scenario.ID]map[float64]float64)
	for _, r := range g.Rows {
		if cells[r.Scenario] == nil {
			cells[r.Scenario] = make(map[float64]float64)
		}
		cells[r.Scenario][r.SpreadBP] = r.Savings
	}
	var records [][]string
	for _, bp := range g.spreads() {
		record := []string{strconv.FormatFloat(bp, 'f', -1, 64)}
		for _, id := range scenario.All() {
			v, ok := cells[id][bp]
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(v/1e6, 'f', 2, 64))
		}
		records = append(records, record)
	}
	return records
}

// RiskRow is the VaR outcome of one scenario, or why it could not be
// computed.
type RiskRow struct {
	Scenario scenario.ID
	Result   risk.Result
	Err      error
}

// RiskTable lists the Monte Carlo risk measures.
type RiskTable struct {
	Rows []RiskRow
}

func (t RiskTable) Header() []string {
	return []string{"scenario", "mean_savings", "var_abs", "var_pct", "median", "parametric_var", "kappa", "mu", "sigma", "status"}
}

func (t RiskTable) Records() [][]string {
	records := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row.Err != nil {
			records = append(records, []string{row.Scenario.String(), "", "", "", "", "", "", "", "", row.Err.Error()})
			continue
		}
		r := row.Result
		records = append(records, []string{
			row.Scenario.String(),
			money(r.MeanSavings),
			money(r.VaRAbsolute),
			percent(r.VaRPct),
			money(r.Median),
			money(r.ParametricVaR),
			rate(r.Calibration.Kappa),
			rate(r.Calibration.Mu),
			rate(r.Calibration.Sigma),
			"ok",
		})
	}
	return records
}
