package inference

import (
	"github.com/roach88/nars/internal/calculus"
	"github.com/roach88/nars/internal/ir"
)

// Revise combines a task with a stored sentence of the same term and type
// (two judgments, or two goals). It reports false when the two are not
// revisable: different terms or types, questions, or overlapping evidence.
func Revise(task *ir.Task, belief *ir.Sentence, cycle int64) (*ir.Task, bool) {
	punct := task.Sentence.Punctuation
	if !punct.HasTruth() || belief.Punctuation != punct {
		return nil, false
	}
	if task.Term() != belief.Term || task.Sentence.Stamp.Overlaps(belief.Stamp) {
		return nil, false
	}
	tt, bt := task.Sentence.TruthValue(), belief.TruthValue()
	t := calculus.Revision(tt, bt)
	return &ir.Task{
		Sentence: ir.Sentence{
			Term:        task.Term(),
			Punctuation: punct,
			Truth:       &t,
			Stamp:       ir.MergeStamps(task.Sentence.Stamp, belief.Stamp, cycle),
		},
		Budget:       calculus.Revise(tt, bt, t, task.Budget),
		Parent:       task,
		ParentBelief: belief,
	}, true
}

// BetterAnswer reports whether candidate answers a question better than the
// current best (which may be nil).
func BetterAnswer(best, candidate *ir.Sentence) bool {
	if candidate == nil || candidate.Punctuation != ir.Judgment {
		return false
	}
	if best == nil {
		return true
	}
	return calculus.SolutionQuality(candidate.TruthValue()) > calculus.SolutionQuality(best.TruthValue())
}

func (e *Engine) admitRevision(t *ir.Task) bool {
	return calculus.AboveThreshold(t.Budget, e.cfg.BudgetThreshold)
}
