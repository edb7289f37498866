package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAtom(t *testing.T, tbl *Table, name string) ID {
	t.Helper()
	id, err := tbl.Atom(name)
	require.NoError(t, err)
	return id
}

func TestTable_InterningIsIdentity(t *testing.T) {
	tbl := NewTable()
	raven := mustAtom(t, tbl, "raven")
	bird := mustAtom(t, tbl, "bird")

	s1, err := tbl.Statement(raven, Inheritance, bird)
	require.NoError(t, err)
	s2, err := tbl.Statement(mustAtom(t, tbl, "raven"), Inheritance, mustAtom(t, tbl, "bird"))
	require.NoError(t, err)

	assert.Equal(t, s1, s2)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, "<raven --> bird>", tbl.Key(s1))
	assert.Equal(t, raven, tbl.Subject(s1))
	assert.Equal(t, bird, tbl.Predicate(s1))
	assert.Equal(t, 3, tbl.Complexity(s1))
}

func TestTable_AtomNFC(t *testing.T) {
	tbl := NewTable()
	composed := mustAtom(t, tbl, "caf\u00e9")
	decomposed := mustAtom(t, tbl, "cafe\u0301")
	assert.Equal(t, composed, decomposed)
}

func TestTable_AtomRejectsSyntax(t *testing.T) {
	tbl := NewTable()
	for _, name := range []string{"", "a b", "a,b", "<a", "_"} {
		_, err := tbl.Atom(name)
		assert.True(t, IsInvalid(err), "name %q", name)
	}
}

func TestTable_CommutativeCanonical(t *testing.T) {
	tbl := NewTable()
	a, b := mustAtom(t, tbl, "a"), mustAtom(t, tbl, "b")

	ab, err := tbl.Compound(IntersectionExt, a, b)
	require.NoError(t, err)
	ba, err := tbl.Compound(IntersectionExt, b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
	assert.Equal(t, "(&,a,b)", tbl.Key(ab))

	sim1, err := tbl.Statement(b, Similarity, a)
	require.NoError(t, err)
	sim2, err := tbl.Statement(a, Similarity, b)
	require.NoError(t, err)
	assert.Equal(t, sim1, sim2)
	assert.Equal(t, "<a <-> b>", tbl.Key(sim1))

	set, err := tbl.Compound(SetExt, b, a, b)
	require.NoError(t, err)
	assert.Equal(t, "{a,b}", tbl.Key(set))
	assert.Len(t, tbl.Components(set), 2)
}

func TestTable_NonCommutativeKeepsOrder(t *testing.T) {
	tbl := NewTable()
	a, b := mustAtom(t, tbl, "a"), mustAtom(t, tbl, "b")

	ab, err := tbl.Compound(Product, a, b)
	require.NoError(t, err)
	ba, err := tbl.Compound(Product, b, a)
	require.NoError(t, err)
	assert.NotEqual(t, ab, ba)

	d, err := tbl.Compound(DifferenceExt, b, a)
	require.NoError(t, err)
	assert.Equal(t, "(-,b,a)", tbl.Key(d))
}

func TestTable_SingletonIntersectionReduces(t *testing.T) {
	tbl := NewTable()
	a := mustAtom(t, tbl, "a")
	id, err := tbl.Compound(Conjunction, a, a)
	require.NoError(t, err)
	assert.Equal(t, a, id)
}

func TestTable_Rejections(t *testing.T) {
	tbl := NewTable()
	a, b := mustAtom(t, tbl, "a"), mustAtom(t, tbl, "b")

	tests := []struct {
		name string
		fn   func() (ID, error)
	}{
		{"reflexive", func() (ID, error) { return tbl.Statement(a, Inheritance, a) }},
		{"negation arity", func() (ID, error) { return tbl.Compound(Negation, a, b) }},
		{"difference arity", func() (ID, error) { return tbl.Compound(DifferenceInt, a) }},
		{"difference self", func() (ID, error) { return tbl.Compound(DifferenceExt, a, a) }},
		{"copula as compound", func() (ID, error) { return tbl.Compound(Inheritance, a, b) }},
		{"image without index", func() (ID, error) { return tbl.Compound(ImageExt, a, b) }},
		{"image index", func() (ID, error) { return tbl.Image(ImageExt, 3, a, b) }},
		{"higher order on atoms", func() (ID, error) { return tbl.Statement(a, Implication, b) }},
		{"no components", func() (ID, error) { return tbl.Compound(Product) }},
		{"unknown component", func() (ID, error) { return tbl.Compound(Product, ID(99)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			require.Error(t, err)
			assert.True(t, IsInvalid(err))
		})
	}
}

func TestTable_ImageKey(t *testing.T) {
	tbl := NewTable()
	r, b := mustAtom(t, tbl, "likes"), mustAtom(t, tbl, "b")

	first, err := tbl.Image(ImageExt, 1, r, b)
	require.NoError(t, err)
	assert.Equal(t, "(/,likes,_,b)", tbl.Key(first))
	assert.Equal(t, 1, tbl.ImageIndex(first))

	last, err := tbl.Image(ImageInt, 2, r, b)
	require.NoError(t, err)
	assert.Equal(t, `(\,likes,b,_)`, tbl.Key(last))
}

func TestTable_Contains(t *testing.T) {
	tbl := NewTable()
	a, b, c := mustAtom(t, tbl, "a"), mustAtom(t, tbl, "b"), mustAtom(t, tbl, "c")
	p, err := tbl.Compound(Product, a, b)
	require.NoError(t, err)
	s, err := tbl.Statement(p, Inheritance, c)
	require.NoError(t, err)

	assert.True(t, tbl.Contains(s, a))
	assert.True(t, tbl.Contains(s, p))
	assert.False(t, tbl.Contains(p, c))
}

func TestTable_EntriesRestore(t *testing.T) {
	src := NewTable()
	a, b, c := mustAtom(t, src, "a"), mustAtom(t, src, "b"), mustAtom(t, src, "c")
	p, err := src.Compound(Product, a, b)
	require.NoError(t, err)
	img, err := src.Image(ImageExt, 1, c, b)
	require.NoError(t, err)
	s, err := src.Statement(p, Inheritance, c)
	require.NoError(t, err)
	_, err = src.Statement(a, Inheritance, img)
	require.NoError(t, err)

	dst := NewTable()
	require.NoError(t, dst.Restore(src.Entries()))
	assert.Equal(t, src.Len(), dst.Len())
	assert.Equal(t, src.Key(s), dst.Key(s))
	assert.Equal(t, src.Key(img), dst.Key(img))

	assert.Error(t, dst.Restore(src.Entries()), "restore into non-empty table")
}
