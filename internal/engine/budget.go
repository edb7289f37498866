package engine

import (
	"errors"
	"fmt"
)

// CycleBudget caps the number of cycles a reasoner may run.
//
// Derived tasks keep feeding the intake buffer, so a reasoner with beliefs
// never runs out of work on its own; the budget is what ends a batch run.
type CycleBudget struct {
	limit int64
	used  int64
}

// NewCycleBudget creates a budget of limit cycles.
func NewCycleBudget(limit int64) *CycleBudget {
	return &CycleBudget{limit: limit}
}

// Check spends one cycle. It returns a BudgetExhaustedError once the limit
// has been used up; the cycle must then not run.
func (b *CycleBudget) Check(reasoner string) error {
	if b.used >= b.limit {
		return &BudgetExhaustedError{Reasoner: reasoner, Cycles: b.used, Limit: b.limit}
	}
	b.used++
	return nil
}

// Used returns the number of cycles spent.
func (b *CycleBudget) Used() int64 {
	return b.used
}

// Limit returns the cycle limit.
func (b *CycleBudget) Limit() int64 {
	return b.limit
}

// Remaining returns the cycles left.
func (b *CycleBudget) Remaining() int64 {
	return b.limit - b.used
}

// BudgetExhaustedError is returned by Step once the cycle budget is spent.
// Run treats it as normal termination.
type BudgetExhaustedError struct {
	Reasoner string
	Cycles   int64
	Limit    int64
}

// Error implements the error interface.
func (e *BudgetExhaustedError) Error() string {
	return fmt.Sprintf("reasoner %s exhausted its cycle budget: %d of %d cycles run",
		e.Reasoner, e.Cycles, e.Limit)
}

// IsBudgetExhausted reports whether err is (or wraps) a BudgetExhaustedError.
func IsBudgetExhausted(err error) bool {
	var be *BudgetExhaustedError
	return errors.As(err, &be)
}
