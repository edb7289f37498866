package term

// Kind distinguishes the three structural term forms.
type Kind uint8

const (
	KindAtom Kind = iota + 1
	KindCompound
	KindStatement
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindCompound:
		return "compound"
	case KindStatement:
		return "statement"
	default:
		return "invalid"
	}
}

// Op is either a copula (for statements) or a compound operator.
// OpNone is used for atoms.
type Op uint8

const (
	OpNone Op = iota

	// Copulas.
	Inheritance
	Similarity
	Implication
	Equivalence

	// Compound operators.
	SetExt
	SetInt
	IntersectionExt
	IntersectionInt
	DifferenceExt
	DifferenceInt
	Product
	ImageExt
	ImageInt
	Negation
	Conjunction
	Disjunction
)

var opSymbols = map[Op]string{
	Inheritance:     "-->",
	Similarity:      "<->",
	Implication:     "==>",
	Equivalence:     "<=>",
	SetExt:          "{}",
	SetInt:          "[]",
	IntersectionExt: "&",
	IntersectionInt: "|",
	DifferenceExt:   "-",
	DifferenceInt:   "~",
	Product:         "*",
	ImageExt:        "/",
	ImageInt:        `\`,
	Negation:        "--",
	Conjunction:     "&&",
	Disjunction:     "||",
}

var symbolOps = func() map[string]Op {
	m := make(map[string]Op, len(opSymbols))
	for op, sym := range opSymbols {
		m[sym] = op
	}
	return m
}()

// String returns the Narsese symbol for the operator.
func (o Op) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return ""
}

// ParseOp resolves a Narsese symbol to its operator.
func ParseOp(symbol string) (Op, bool) {
	op, ok := symbolOps[symbol]
	return op, ok
}

// IsCopula reports whether o joins a subject and predicate into a statement.
func (o Op) IsCopula() bool {
	return o >= Inheritance && o <= Equivalence
}

// IsSymmetric reports whether the copula is order-independent.
func (o Op) IsSymmetric() bool {
	return o == Similarity || o == Equivalence
}

// IsHigherOrder reports whether the copula relates statements.
func (o Op) IsHigherOrder() bool {
	return o == Implication || o == Equivalence
}

// IsCommutative reports whether component order is irrelevant.
func (o Op) IsCommutative() bool {
	switch o {
	case Similarity, Equivalence, SetExt, SetInt,
		IntersectionExt, IntersectionInt, Conjunction, Disjunction:
		return true
	}
	return false
}

// IsImage reports whether o carries a placeholder position.
func (o Op) IsImage() bool {
	return o == ImageExt || o == ImageInt
}

// isSet reports whether duplicate components collapse.
func (o Op) isSet() bool {
	switch o {
	case SetExt, SetInt, IntersectionExt, IntersectionInt, Conjunction, Disjunction:
		return true
	}
	return false
}

// reducesSingleton reports whether a one-component compound is its component.
func (o Op) reducesSingleton() bool {
	switch o {
	case IntersectionExt, IntersectionInt, Conjunction, Disjunction:
		return true
	}
	return false
}
