// Package amortization turns a monthly rate path and a principal into the
// borrower's payment schedule.
package amortization

import (
	"math"
	"strings"

	"hedgerisk/internal/config"
)

// Mode selects the amortization convention.
type Mode int

const (
	// EqualPrincipal repays principal/term every month; interest accrues on
	// the opening balance at that month's rate.
	EqualPrincipal Mode = iota
	// Levelized recomputes the annuity payment each month from the current
	// rate, remaining balance and remaining term.
	Levelized
)

func (m Mode) String() string {
	switch m {
	case EqualPrincipal:
		return "equal-principal"
	case Levelized:
		return "levelized"
	default:
		return "unknown"
	}
}

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equal-principal", "equal_principal", "linear":
		return EqualPrincipal, nil
	case "levelized", "annuity", "pmt":
		return Levelized, nil
	}
	return 0, config.Invalid("amortization", "unknown mode %q", s)
}

// Schedule is the month-by-month payment breakdown. All amounts are positive
// borrower costs; Balance is the balance after each payment.
type Schedule struct {
	Payments  []float64
	Interest  []float64
	Principal []float64
	Balance   []float64
}

// Len is the number of months in the schedule.
func (s Schedule) Len() int {
	return len(s.Payments)
}

// Outflows returns the payments as negative cash flows.
func (s Schedule) Outflows() []float64 {
	out := make([]float64, len(s.Payments))
	for i, p := range s.Payments {
		out[i] = -p
	}
	return out
}

// TotalPrincipal sums the principal repaid.
func (s Schedule) TotalPrincipal() float64 {
	var total float64
	for _, p := range s.Principal {
		total += p
	}
	return total
}

// Amortize builds the schedule over len(monthlyRates) months.
func Amortize(mode Mode, monthlyRates []float64, principal float64) (Schedule, error) {
	if len(monthlyRates) == 0 {
		return Schedule{}, config.Invalid("term", "rate path is empty")
	}
	if principal <= 0 || math.IsNaN(principal) {
		return Schedule{}, config.Invalid("principal", "must be positive, got %v", principal)
	}

	switch mode {
	case EqualPrincipal:
		return equalPrincipal(monthlyRates, principal), nil
	case Levelized:
		return levelized(monthlyRates, principal), nil
	}
	return Schedule{}, config.Invalid("amortization", "unsupported mode %d", int(mode))
}

func newSchedule(n int) Schedule {
	return Schedule{
		Payments:  make([]float64, n),
		Interest:  make([]float64, n),
		Principal: make([]float64, n),
		Balance:   make([]float64, n),
	}
}

func equalPrincipal(monthlyRates []float64, principal float64) Schedule {
	n := len(monthlyRates)
	s := newSchedule(n)
	installment := principal / float64(n)
	balance := principal
	for t, r := range monthlyRates {
		interest := balance * r
		balance -= installment
		s.Interest[t] = interest
		s.Principal[t] = installment
		s.Payments[t] = interest + installment
		s.Balance[t] = balance
	}
	return s
}

func levelized(monthlyRates []float64, principal float64) Schedule {
	n := len(monthlyRates)
	s := newSchedule(n)
	balance := principal
	for t, r := range monthlyRates {
		payment := PMT(r, n-t, balance)
		interest := balance * r
		amort := payment - interest
		balance -= amort
		s.Interest[t] = interest
		s.Principal[t] = amort
		s.Payments[t] = payment
		s.Balance[t] = balance
	}
	return s
}

// PMT is the level payment that amortizes pv over n periods at rate r.
func PMT(r float64, n int, pv float64) float64 {
	if r == 0 {
		return pv / float64(n)
	}
	return r * pv / (1 - math.Pow(1+r, -float64(n)))
}

// FixedPayments is a constant annuity of n payments at rate r on pv.
func FixedPayments(r float64, n int, pv float64) []float64 {
	payment := PMT(r, n, pv)
	out := make([]float64, n)
	for i := range out {
		out[i] = payment
	}
	return out
}
