// Package fine converts overdue days into currency amounts.
package fine

import (
	"github.com/erazemk/knjiznica/internal/clock"
	"github.com/erazemk/knjiznica/internal/model"
)

// Default fine rates in currency units per overdue day.
const (
	DefaultBookRate = 10
	DefaultCDRate   = 20
)

// Strategy computes the fine for a number of overdue days. Implementations
// must return 0 for zero or negative overdue days.
type Strategy interface {
	Calculate(overdueDays int) int
}

// PerDay is a linear fine strategy: overdue days times a fixed daily rate.
type PerDay struct {
	Rate int
}

// Calculate returns overdueDays * Rate, or 0 if the loan is not overdue.
func (s PerDay) Calculate(overdueDays int) int {
	if overdueDays <= 0 {
		return 0
	}
	return overdueDays * s.Rate
}

// Calculator computes a loan's current fine by combining a strategy with a
// clock. For a returned loan the result is fixed by the return date, so
// recomputing later always yields the same amount.
type Calculator struct {
	strategy Strategy
	clock    clock.Clock
}

// NewCalculator panics if either collaborator is nil; that is a wiring fault,
// not a runtime condition.
func NewCalculator(strategy Strategy, clk clock.Clock) *Calculator {
	if strategy == nil {
		panic("fine: nil strategy")
	}
	if clk == nil {
		panic("fine: nil clock")
	}
	return &Calculator{strategy: strategy, clock: clk}
}

// ForLoan returns the fine owed on the loan as of today.
func (c *Calculator) ForLoan(loan *model.Loan) int {
	return c.strategy.Calculate(loan.OverdueDays(c.clock.Today()))
}
