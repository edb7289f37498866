package inference

import (
	"github.com/roach88/nars/internal/calculus"
	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/term"
)

// admit decides whether a conclusion may enter memory.
//
// Two checks keep derivation chains from running in circles or trickling on
// forever:
//   - repetition: the conclusion's term already appears among the premise
//     chain within DerivationDepth generations (A → B → A)
//   - exhaustion: the budget summary fell below BudgetThreshold
//
// Stamp overlap, the third circularity check, happens before any rule runs.
func (e *Engine) admit(task *ir.Task, belief *ir.Sentence, id term.ID, b ir.Budget) bool {
	if belief != nil && belief.Term == id {
		return false
	}
	if task.HasAncestorTerm(id, e.cfg.DerivationDepth) {
		return false
	}
	return calculus.AboveThreshold(b, e.cfg.BudgetThreshold)
}
