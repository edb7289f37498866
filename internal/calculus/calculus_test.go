package calculus

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nars/internal/ir"
)

var strong = ir.Truth{Frequency: 1, Confidence: 0.9}

func TestRevision_PoolsEvidence(t *testing.T) {
	got := Revision(strong, strong)
	assert.InDelta(t, 1.0, got.Frequency, 1e-9)
	assert.InDelta(t, 18.0/19.0, got.Confidence, 1e-9)
	assert.InDelta(t, 0.947, got.Confidence, 1e-3)

	mixed := Revision(ir.Truth{Frequency: 1, Confidence: 0.9}, ir.Truth{Frequency: 0, Confidence: 0.9})
	assert.InDelta(t, 0.5, mixed.Frequency, 1e-9)
}

func TestDeduction(t *testing.T) {
	got := Deduction(strong, strong)
	assert.InDelta(t, 1.0, got.Frequency, 1e-9)
	assert.InDelta(t, 0.81, got.Confidence, 1e-9)
}

func TestWeakRules(t *testing.T) {
	w := 0.81
	c := w / (w + 1)

	abd := Abduction(strong, strong)
	assert.InDelta(t, 1.0, abd.Frequency, 1e-9)
	assert.InDelta(t, c, abd.Confidence, 1e-9)

	ind := Induction(ir.Truth{Frequency: 0.2, Confidence: 0.9}, strong)
	assert.InDelta(t, 1.0, ind.Frequency, 1e-9, "induction takes the second frequency")
	assert.InDelta(t, W2C(0.2*0.81), ind.Confidence, 1e-9)

	ex := Exemplification(strong, strong)
	assert.Equal(t, 1.0, ex.Frequency)
	assert.InDelta(t, c, ex.Confidence, 1e-9)

	cmp := Comparison(strong, strong)
	assert.InDelta(t, 1.0, cmp.Frequency, 1e-9)
	assert.InDelta(t, c, cmp.Confidence, 1e-9)
}

func TestAnalogyResemblance(t *testing.T) {
	half := ir.Truth{Frequency: 0.5, Confidence: 0.9}
	an := Analogy(strong, half)
	assert.InDelta(t, 0.5, an.Frequency, 1e-9)
	assert.InDelta(t, 0.5*0.81, an.Confidence, 1e-9)

	re := Resemblance(strong, half)
	assert.InDelta(t, 0.5, re.Frequency, 1e-9)
	assert.InDelta(t, 0.81, re.Confidence, 1e-9)
}

func TestCompositional(t *testing.T) {
	a := ir.Truth{Frequency: 0.8, Confidence: 0.9}
	b := ir.Truth{Frequency: 0.5, Confidence: 0.8}

	assert.InDelta(t, 0.4, Intersection(a, b).Frequency, 1e-9)
	assert.InDelta(t, 0.9, Union(a, b).Frequency, 1e-9)
	assert.InDelta(t, 0.4, Difference(a, b).Frequency, 1e-9)
	assert.InDelta(t, 0.72, Intersection(a, b).Confidence, 1e-9)
}

func TestStructural(t *testing.T) {
	conv := Conversion(strong)
	assert.Equal(t, 1.0, conv.Frequency)
	assert.InDelta(t, W2C(0.9), conv.Confidence, 1e-9)

	contra := Contraposition(ir.Truth{Frequency: 0.2, Confidence: 0.9})
	assert.Equal(t, 0.0, contra.Frequency)
	assert.InDelta(t, W2C(0.72), contra.Confidence, 1e-9)

	neg := Negation(ir.Truth{Frequency: 0.3, Confidence: 0.6})
	assert.InDelta(t, 0.7, neg.Frequency, 1e-9)

	st := StructuralTransform(strong, 0.9)
	assert.InDelta(t, 0.81, st.Confidence, 1e-9)
}

func TestTruthFunctions_StayInRange(t *testing.T) {
	fns := map[string]TruthFunc{
		"revision":        Revision,
		"deduction":       Deduction,
		"analogy":         Analogy,
		"resemblance":     Resemblance,
		"abduction":       Abduction,
		"induction":       Induction,
		"exemplification": Exemplification,
		"comparison":      Comparison,
		"intersection":    Intersection,
		"union":           Union,
		"difference":      Difference,
		"desire strong":   DesireStrong,
		"desire weak":     DesireWeak,
	}
	rng := rand.New(rand.NewPCG(1, 2))
	edges := []float64{0, ir.MaxConfidence, 0.5}
	for name, fn := range fns {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 500; i++ {
				a := ir.Truth{Frequency: rng.Float64(), Confidence: rng.Float64() * ir.MaxConfidence}
				b := ir.Truth{Frequency: rng.Float64(), Confidence: rng.Float64() * ir.MaxConfidence}
				if i < len(edges) {
					a.Confidence, b.Confidence = edges[i], edges[i]
				}
				require.NoError(t, fn(a, b).Validate(), "inputs %v %v", a, b)
			}
		})
	}
}

func TestRevision_NeverReachesOne(t *testing.T) {
	got := Revision(ir.Truth{Frequency: 1, Confidence: ir.MaxConfidence}, ir.Truth{Frequency: 1, Confidence: ir.MaxConfidence})
	assert.LessOrEqual(t, got.Confidence, ir.MaxConfidence)
	assert.NoError(t, got.Validate())
}

func TestMerge_Monotone(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		a := ir.Budget{Priority: rng.Float64(), Durability: rng.Float64(), Quality: rng.Float64()}
		b := ir.Budget{Priority: rng.Float64(), Durability: rng.Float64(), Quality: rng.Float64()}
		m := Merge(a, b)
		require.NoError(t, m.Validate())
		assert.GreaterOrEqual(t, m.Priority, max(a.Priority, b.Priority)-1e-12)
		assert.GreaterOrEqual(t, m.Durability, max(a.Durability, b.Durability)-1e-12)
		assert.GreaterOrEqual(t, m.Quality, max(a.Quality, b.Quality)-1e-12)
	}
}

func TestForget(t *testing.T) {
	b := ir.Budget{Priority: 0.8, Durability: 0.5, Quality: 0.3}

	full := Forget(b, 1)
	assert.InDelta(t, 0.4, full.Priority, 1e-9)
	assert.Equal(t, b.Durability, full.Durability)
	assert.Equal(t, b.Quality, full.Quality)

	half := Forget(b, 0.5)
	assert.InDelta(t, 0.6, half.Priority, 1e-9)

	durable := Forget(ir.Budget{Priority: 0.8, Durability: 1, Quality: 0}, 1)
	assert.Equal(t, 0.8, durable.Priority)
}

func TestActivate(t *testing.T) {
	c := ir.Budget{Priority: 0.5, Durability: 0.4, Quality: 0.3}
	in := ir.Budget{Priority: 0.5, Durability: 0.8, Quality: 0.9}
	got := Activate(c, in)
	assert.InDelta(t, 0.75, got.Priority, 1e-9)
	assert.InDelta(t, 0.6, got.Durability, 1e-9)
	assert.Equal(t, 0.3, got.Quality)
}

func TestForward_UsesLinks(t *testing.T) {
	link := ir.Budget{Priority: 0.5, Durability: 0.5, Quality: 0.5}
	p := Parents{Task: ir.Budget{Priority: 0.5, Durability: 0.8, Quality: 0.9}, Link: &link}

	got := Forward(ir.Truth{Frequency: 1, Confidence: 0.81}, p)
	assert.InDelta(t, 0.75, got.Priority, 1e-9)
	assert.InDelta(t, 0.4, got.Durability, 1e-9)
	assert.InDelta(t, 0.905, got.Quality, 1e-9)

	compound := CompoundForward(ir.Truth{Frequency: 1, Confidence: 0.81}, 5, p)
	assert.InDelta(t, 0.905/5, compound.Quality, 1e-9)
	assert.Less(t, compound.Durability, got.Durability)
}

func TestTruthToQuality(t *testing.T) {
	assert.InDelta(t, 0.95, TruthToQuality(strong), 1e-9)
	negative := TruthToQuality(ir.Truth{Frequency: 0, Confidence: 0.9})
	assert.InDelta(t, 0.95*0.75, negative, 1e-9)
}

func TestAboveThreshold(t *testing.T) {
	assert.True(t, AboveThreshold(ir.Budget{Priority: 0.5, Durability: 0.5, Quality: 0.5}, 0.3))
	assert.False(t, AboveThreshold(ir.Budget{Priority: 0.001, Durability: 0.5, Quality: 0.5}, 0.3))
}

func TestDistribute(t *testing.T) {
	b := ir.Budget{Priority: 0.8, Durability: 0.5, Quality: 0.5}
	assert.Equal(t, b, Distribute(b, 1))
	assert.InDelta(t, 0.4, Distribute(b, 4).Priority, 1e-9)
}
