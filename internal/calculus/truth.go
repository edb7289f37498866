package calculus

import (
	"math"

	"github.com/roach88/nars/internal/ir"
)

// Horizon is the evidential horizon k.
const Horizon = 1.0

// TruthFunc maps the truth of two premises to the truth of a conclusion.
type TruthFunc func(a, b ir.Truth) ir.Truth

// W2C converts evidence weight to confidence.
func W2C(w float64) float64 {
	return w / (w + Horizon)
}

// C2W converts confidence to evidence weight.
func C2W(c float64) float64 {
	return Horizon * c / (1 - c)
}

func and(xs ...float64) float64 {
	r := 1.0
	for _, x := range xs {
		r *= x
	}
	return r
}

func or(xs ...float64) float64 {
	r := 1.0
	for _, x := range xs {
		r *= 1 - x
	}
	return 1 - r
}

func unit(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func truth(f, c float64) ir.Truth {
	c = unit(c)
	if c > ir.MaxConfidence {
		c = ir.MaxConfidence
	}
	return ir.Truth{Frequency: unit(f), Confidence: c}
}

func fromWeight(f, w float64) ir.Truth {
	return truth(f, W2C(w))
}

// Revision pools the evidence of two judgments on disjoint evidence.
func Revision(a, b ir.Truth) ir.Truth {
	w1, w2 := C2W(a.Confidence), C2W(b.Confidence)
	w := w1 + w2
	if w == 0 {
		return truth((a.Frequency+b.Frequency)/2, 0)
	}
	return truth((w1*a.Frequency+w2*b.Frequency)/w, W2C(w))
}

// Deduction: {M --> P, S --> M} ⊢ S --> P.
func Deduction(a, b ir.Truth) ir.Truth {
	f := and(a.Frequency, b.Frequency)
	return truth(f, and(f, a.Confidence, b.Confidence))
}

// Analogy: {M --> P, S <-> M} ⊢ S --> P. b is the symmetric premise.
func Analogy(a, b ir.Truth) ir.Truth {
	return truth(and(a.Frequency, b.Frequency), and(b.Frequency, a.Confidence, b.Confidence))
}

// Resemblance: {M <-> P, S <-> M} ⊢ S <-> P.
func Resemblance(a, b ir.Truth) ir.Truth {
	return truth(and(a.Frequency, b.Frequency), and(or(a.Frequency, b.Frequency), a.Confidence, b.Confidence))
}

// Abduction: {P --> M, S --> M} ⊢ S --> P.
func Abduction(a, b ir.Truth) ir.Truth {
	return fromWeight(a.Frequency, and(b.Frequency, a.Confidence, b.Confidence))
}

// Induction: {M --> P, M --> S} ⊢ S --> P. Abduction with the roles swapped.
func Induction(a, b ir.Truth) ir.Truth {
	return Abduction(b, a)
}

// Exemplification: {P --> M, M --> S} ⊢ S --> P.
func Exemplification(a, b ir.Truth) ir.Truth {
	return fromWeight(1, and(a.Frequency, b.Frequency, a.Confidence, b.Confidence))
}

// Comparison: {M --> P, M --> S} ⊢ S <-> P.
func Comparison(a, b ir.Truth) ir.Truth {
	f0 := or(a.Frequency, b.Frequency)
	f := 0.0
	if f0 > 0 {
		f = and(a.Frequency, b.Frequency) / f0
	}
	return fromWeight(f, and(f0, a.Confidence, b.Confidence))
}

// Intersection: both components hold.
func Intersection(a, b ir.Truth) ir.Truth {
	return truth(and(a.Frequency, b.Frequency), and(a.Confidence, b.Confidence))
}

// Union: either component holds.
func Union(a, b ir.Truth) ir.Truth {
	return truth(or(a.Frequency, b.Frequency), and(a.Confidence, b.Confidence))
}

// Difference: a holds and b does not.
func Difference(a, b ir.Truth) ir.Truth {
	return truth(and(a.Frequency, 1-b.Frequency), and(a.Confidence, b.Confidence))
}

// Conversion: S --> P ⊢ P --> S.
func Conversion(a ir.Truth) ir.Truth {
	return fromWeight(1, and(a.Frequency, a.Confidence))
}

// Contraposition: S ==> P ⊢ (--,P) ==> (--,S).
func Contraposition(a ir.Truth) ir.Truth {
	return fromWeight(0, and(1-a.Frequency, a.Confidence))
}

// Negation: S ⊢ (--,S).
func Negation(a ir.Truth) ir.Truth {
	return truth(1-a.Frequency, a.Confidence)
}

// StructuralTransform discounts a single-premise structural rewrite by
// reliance.
func StructuralTransform(a ir.Truth, reliance float64) ir.Truth {
	return truth(a.Frequency, and(a.Confidence, reliance))
}

// DesireStrong derives a goal from a goal and a belief.
func DesireStrong(a, b ir.Truth) ir.Truth {
	return truth(and(a.Frequency, b.Frequency), and(a.Confidence, b.Confidence, b.Frequency))
}

// DesireWeak is DesireStrong discounted by one unit of evidence.
func DesireWeak(a, b ir.Truth) ir.Truth {
	return truth(and(a.Frequency, b.Frequency), and(a.Confidence, b.Confidence, b.Frequency, W2C(1)))
}
