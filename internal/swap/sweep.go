package swap

import (
	"fmt"

	"hedgerisk/internal/config"
	"hedgerisk/internal/scenario"
)

// SweepRow is one cell of the scenario × spread sensitivity grid.
type SweepRow struct {
	Scenario scenario.ID
	SpreadBP float64
	Savings  float64
}

// SpreadRange lists spreads from fromBP to toBP inclusive in stepBP steps.
func SpreadRange(fromBP, toBP, stepBP float64) ([]float64, error) {
	if stepBP <= 0 {
		return nil, config.Invalid("swap.sweep.step_bp", "must be positive, got %v", stepBP)
	}
	if toBP < fromBP {
		return nil, config.Invalid("swap.sweep.to_bp", "must not be below from_bp (%v < %v)", toBP, fromBP)
	}
	var out []float64
	for i := 0; ; i++ {
		bp := fromBP + float64(i)*stepBP
		if bp > toBP+1e-9 {
			break
		}
		out = append(out, bp)
	}
	return out, nil
}

// Sweep recomputes the hedged leg for every spread (in basis points) while
// the variable leg of each scenario is valued once and held fixed.
func (c *Comparator) Sweep(paths map[scenario.ID]scenario.Paths, spreadsBP []float64) ([]SweepRow, error) {
	rows := make([]SweepRow, 0, len(paths)*len(spreadsBP))
	for _, id := range scenario.All() {
		p, ok := paths[id]
		if !ok {
			continue
		}
		leg, err := c.variableLeg(p)
		if err != nil {
			return nil, fmt.Errorf("%s variable leg: %w", id, err)
		}
		for _, bp := range spreadsBP {
			res, err := c.value(id, p, leg, bp/1e4)
			if err != nil {
				return nil, fmt.Errorf("%s at %vbp: %w", id, bp, err)
			}
			rows = append(rows, SweepRow{Scenario: id, SpreadBP: bp, Savings: res.Savings})
		}
	}
	return rows, nil
}
