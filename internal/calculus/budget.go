package calculus

import (
	"math"

	"github.com/roach88/nars/internal/ir"
)

// Parents carries the budgets of the links that selected the premises.
// Link is nil for single-premise inference.
type Parents struct {
	Task ir.Budget
	Link *ir.Budget
}

func budget(p, d, q float64) ir.Budget {
	return ir.Budget{Priority: unit(p), Durability: unit(d), Quality: unit(q)}
}

// TruthToQuality maps a truth value to the quality of the sentence carrying
// it. Strongly negative judgments still carry some quality.
func TruthToQuality(t ir.Truth) float64 {
	e := t.Expectation()
	return math.Max(e, (1-e)*0.75)
}

// SolutionQuality scores a belief as an answer to a question. Without
// variables every candidate answers the same question, so confidence
// decides.
func SolutionQuality(answer ir.Truth) float64 {
	return answer.Confidence
}

// Merge combines two budgets for the same item with a per-field saturating
// or. The result is never lower than either input in any field.
func Merge(a, b ir.Budget) ir.Budget {
	return budget(
		or(a.Priority, b.Priority),
		or(a.Durability, b.Durability),
		or(a.Quality, b.Quality),
	)
}

// Activate raises a concept's budget on task arrival: priority by
// saturating or, durability towards the incoming value, quality unchanged.
func Activate(concept, incoming ir.Budget) ir.Budget {
	return budget(
		or(concept.Priority, incoming.Priority),
		(concept.Durability+incoming.Durability)/2,
		concept.Quality,
	)
}

// Forget decays priority by rate scaled by how little the item is meant to
// last: priority *= 1 - rate*(1-durability). With rate 1 this is
// priority *= durability.
func Forget(b ir.Budget, rate float64) ir.Budget {
	return budget(b.Priority*(1-rate*(1-b.Durability)), b.Durability, b.Quality)
}

// Distribute splits a budget over n links so that a task with many
// components does not flood memory.
func Distribute(b ir.Budget, n int) ir.Budget {
	if n <= 1 {
		return b
	}
	return budget(b.Priority/math.Sqrt(float64(n)), b.Durability, b.Quality)
}

// Revise is the budget of a revised judgment. The gain in confidence over
// the stronger premise drives its priority.
func Revise(task, belief, revised ir.Truth, b ir.Budget) ir.Budget {
	dif := revised.Confidence - math.Max(task.Confidence, belief.Confidence)
	dif = unit(dif)
	return budget(or(dif, b.Priority), (dif+b.Durability)/2, TruthToQuality(revised))
}

// Forward is the budget of a judgment or goal derived by a syllogism.
func Forward(t ir.Truth, p Parents) ir.Budget {
	return inference(TruthToQuality(t), 1, p)
}

// Backward is the budget of a question derived from a question and a belief.
func Backward(belief ir.Truth, p Parents) ir.Budget {
	return inference(TruthToQuality(belief), 1, p)
}

// BackwardWeak discounts Backward by one unit of evidence.
func BackwardWeak(belief ir.Truth, p Parents) ir.Budget {
	return inference(W2C(1)*TruthToQuality(belief), 1, p)
}

// CompoundForward is Forward for a conclusion whose term was composed; the
// result is scaled down by the new term's complexity.
func CompoundForward(t ir.Truth, complexity int, p Parents) ir.Budget {
	return inference(TruthToQuality(t), complexity, p)
}

// CompoundBackward is the budget of a question with a composed term.
func CompoundBackward(complexity int, p Parents) ir.Budget {
	return inference(1, complexity, p)
}

// AboveThreshold reports whether the budget is worth keeping.
func AboveThreshold(b ir.Budget, threshold float64) bool {
	return b.Summary() >= threshold
}

func inference(quality float64, complexity int, p Parents) ir.Budget {
	if complexity < 1 {
		complexity = 1
	}
	priority := p.Task.Priority
	durability := p.Task.Durability / float64(complexity)
	quality = quality / float64(complexity)
	if p.Link != nil {
		priority = or(priority, p.Link.Priority)
		durability = and(durability, p.Link.Durability)
	}
	return budget(priority, durability, quality)
}
