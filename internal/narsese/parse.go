package narsese

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/roach88/nars/internal/calculus"
	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/term"
)

// Default values applied when the text omits them.
const (
	DefaultFrequency  = 1.0
	DefaultConfidence = 0.9
)

// StampSource allocates the stamp of a new input sentence.
type StampSource interface {
	NewStamp() ir.Stamp
}

// Parser turns text into tasks whose terms are interned into one table.
type Parser struct {
	terms  *term.Table
	stamps StampSource
}

// NewParser creates a parser. stamps may be nil when only ParseTerm is used.
func NewParser(terms *term.Table, stamps StampSource) *Parser {
	return &Parser{terms: terms, stamps: stamps}
}

// DefaultBudget returns the budget given to an input sentence that carries
// none.
func DefaultBudget(punct ir.Punctuation, t ir.Truth) ir.Budget {
	switch punct {
	case ir.Judgment:
		return ir.Budget{Priority: 0.8, Durability: 0.5, Quality: calculus.TruthToQuality(t)}
	case ir.Goal:
		return ir.Budget{Priority: 0.9, Durability: 0.9, Quality: calculus.TruthToQuality(t)}
	default:
		return ir.Budget{Priority: 0.9, Durability: 0.9, Quality: 1}
	}
}

// ParseTask parses one input line. Every failure is an
// *ir.MalformedInputError. The line is checked against a scratch table
// first, so a rejected line interns no terms.
func (p *Parser) ParseTask(line string) (*ir.Task, error) {
	text := strings.TrimSpace(line)
	if text == "" {
		return nil, &ir.MalformedInputError{Input: text, Reason: "empty input"}
	}
	if p.stamps == nil {
		return nil, &ir.MalformedInputError{Input: text, Reason: "parser has no stamp source"}
	}
	scratch := &Parser{terms: term.NewTable()}
	if _, err := scratch.task(text); err != nil {
		return nil, err
	}
	task, err := p.task(text)
	if err != nil {
		return nil, err
	}
	// Stamp last so that rejected lines use no evidence ids.
	task.Sentence.Stamp = p.stamps.NewStamp()
	return task, nil
}

// task parses a trimmed line into an unstamped task.
func (p *Parser) task(text string) (*ir.Task, error) {
	fail := func(reason string, err error) error {
		return &ir.MalformedInputError{Input: text, Reason: reason, Err: err}
	}
	s := &scanner{src: text}

	var budget *ir.Budget
	if s.peek() == '$' {
		b, err := s.budget()
		if err != nil {
			return nil, fail("budget", err)
		}
		budget = &b
	}

	id, err := p.term(s)
	if err != nil {
		return nil, fail("term", err)
	}

	s.skipSpace()
	punct := ir.Punctuation(string(s.peek()))
	if !punct.Valid() {
		return nil, fail("missing punctuation", nil)
	}
	s.pos++

	var truth *ir.Truth
	s.skipSpace()
	if s.peek() == '%' {
		if !punct.HasTruth() {
			return nil, fail("questions carry no truth value", nil)
		}
		t, err := s.truth()
		if err != nil {
			return nil, fail("truth", err)
		}
		truth = &t
	} else if punct.HasTruth() {
		truth = &ir.Truth{Frequency: DefaultFrequency, Confidence: DefaultConfidence}
	}
	s.skipSpace()
	if !s.done() {
		return nil, fail(fmt.Sprintf("unexpected %q", s.rest()), nil)
	}

	if budget == nil {
		var tv ir.Truth
		if truth != nil {
			tv = *truth
		}
		b := DefaultBudget(punct, tv)
		budget = &b
	}
	return &ir.Task{
		Sentence: ir.Sentence{Term: id, Punctuation: punct, Truth: truth},
		Budget:   *budget,
		Input:    true,
	}, nil
}

// ParseTerm parses a single term.
func (p *Parser) ParseTerm(text string) (term.ID, error) {
	text = strings.TrimSpace(text)
	s := &scanner{src: text}
	id, err := p.term(s)
	if err != nil {
		return term.Nil, &ir.MalformedInputError{Input: text, Reason: "term", Err: err}
	}
	s.skipSpace()
	if !s.done() {
		return term.Nil, &ir.MalformedInputError{Input: text, Reason: fmt.Sprintf("unexpected %q", s.rest())}
	}
	return id, nil
}

// Canonical returns the identity key of a term without interning it
// anywhere, for looking terms up with term.Table.Lookup.
func Canonical(text string) (string, error) {
	scratch := term.NewTable()
	id, err := NewParser(scratch, nil).ParseTerm(text)
	if err != nil {
		return "", err
	}
	return scratch.Key(id), nil
}

func (p *Parser) term(s *scanner) (term.ID, error) {
	s.skipSpace()
	switch s.peek() {
	case '<':
		s.pos++
		return p.statement(s)
	case '{':
		s.pos++
		return p.list(s, term.SetExt, '}')
	case '[':
		s.pos++
		return p.list(s, term.SetInt, ']')
	case '(':
		s.pos++
		return p.compound(s)
	case 0:
		return term.Nil, fmt.Errorf("unexpected end of input")
	}
	name := s.atom()
	if name == "" {
		return term.Nil, fmt.Errorf("unexpected %q at %d", s.peek(), s.pos)
	}
	return p.terms.Atom(name)
}

func (p *Parser) statement(s *scanner) (term.ID, error) {
	subject, err := p.term(s)
	if err != nil {
		return term.Nil, err
	}
	s.skipSpace()
	copula, ok := s.copula()
	if !ok {
		return term.Nil, fmt.Errorf("expected copula at %d", s.pos)
	}
	predicate, err := p.term(s)
	if err != nil {
		return term.Nil, err
	}
	if err := s.expect('>'); err != nil {
		return term.Nil, err
	}
	return p.terms.Statement(subject, copula, predicate)
}

func (p *Parser) list(s *scanner, op term.Op, closing byte) (term.ID, error) {
	comps, _, err := p.components(s, closing, false)
	if err != nil {
		return term.Nil, err
	}
	return p.terms.Compound(op, comps...)
}

func (p *Parser) compound(s *scanner) (term.ID, error) {
	s.skipSpace()
	sym := s.operator()
	op, ok := term.ParseOp(sym)
	if !ok || op.IsCopula() {
		return term.Nil, fmt.Errorf("unknown operator %q", sym)
	}
	if err := s.expect(','); err != nil {
		return term.Nil, err
	}
	comps, index, err := p.components(s, ')', op.IsImage())
	if err != nil {
		return term.Nil, err
	}
	if op.IsImage() {
		if index == 0 {
			return term.Nil, fmt.Errorf("image without placeholder")
		}
		return p.terms.Image(op, index, comps...)
	}
	return p.terms.Compound(op, comps...)
}

// components reads a comma separated list up to closing. With image set,
// one "_" is allowed after the relation and its position is returned.
func (p *Parser) components(s *scanner, closing byte, image bool) ([]term.ID, int, error) {
	var comps []term.ID
	index := 0
	for {
		s.skipSpace()
		if image && s.peek() == '_' && s.placeholder() {
			if index != 0 || len(comps) == 0 {
				return nil, 0, fmt.Errorf("misplaced placeholder at %d", s.pos)
			}
			s.pos++
			index = len(comps)
		} else {
			id, err := p.term(s)
			if err != nil {
				return nil, 0, err
			}
			comps = append(comps, id)
		}
		s.skipSpace()
		switch s.peek() {
		case ',':
			s.pos++
		case closing:
			s.pos++
			return comps, index, nil
		default:
			return nil, 0, fmt.Errorf("expected ',' or %q at %d", closing, s.pos)
		}
	}
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) done() bool { return s.pos >= len(s.src) }

func (s *scanner) rest() string { return s.src[s.pos:] }

func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) skipSpace() {
	for !s.done() && unicode.IsSpace(rune(s.src[s.pos])) {
		s.pos++
	}
}

func (s *scanner) expect(c byte) error {
	s.skipSpace()
	if s.peek() != c {
		return fmt.Errorf("expected %q at %d", c, s.pos)
	}
	s.pos++
	return nil
}

var copulas = []string{"-->", "<->", "==>", "<=>"}

func (s *scanner) copula() (term.Op, bool) {
	for _, c := range copulas {
		if strings.HasPrefix(s.rest(), c) {
			s.pos += len(c)
			op, _ := term.ParseOp(c)
			return op, true
		}
	}
	return term.OpNone, false
}

// operator reads the operator symbol of a prefix compound.
func (s *scanner) operator() string {
	start := s.pos
	for !s.done() && strings.IndexByte("&|-~*/\\", s.src[s.pos]) >= 0 {
		s.pos++
	}
	return s.src[start:s.pos]
}

// placeholder reports whether the "_" at the cursor stands alone.
func (s *scanner) placeholder() bool {
	next := s.pos + 1
	if next >= len(s.src) {
		return true
	}
	c := s.src[next]
	return c == ',' || c == ')' || unicode.IsSpace(rune(c))
}

// atom reads a name up to syntax, a copula, or sentence punctuation at the
// end of the text.
func (s *scanner) atom() string {
	start := s.pos
	for !s.done() {
		c := s.src[s.pos]
		if strings.IndexByte(" \t\r\n,()<>{}[]%;\"'", c) >= 0 {
			break
		}
		rest := s.rest()
		if strings.HasPrefix(rest, "-->") || strings.HasPrefix(rest, "==>") {
			break
		}
		if (c == '.' || c == '?' || c == '!') && s.endsSentence() {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

// endsSentence reports whether the byte at the cursor is followed only by
// an optional truth value.
func (s *scanner) endsSentence() bool {
	rest := strings.TrimSpace(s.src[s.pos+1:])
	return rest == "" || rest[0] == '%'
}

func (s *scanner) truth() (ir.Truth, error) {
	vals, err := s.numbers('%', 2)
	if err != nil {
		return ir.Truth{}, err
	}
	t := ir.Truth{Frequency: vals[0], Confidence: DefaultConfidence}
	if len(vals) > 1 {
		t.Confidence = vals[1]
	}
	return t, t.Validate()
}

func (s *scanner) budget() (ir.Budget, error) {
	vals, err := s.numbers('$', 3)
	if err != nil {
		return ir.Budget{}, err
	}
	b := ir.Budget{Priority: vals[0], Durability: 0.5, Quality: 0.5}
	if len(vals) > 1 {
		b.Durability = vals[1]
	}
	if len(vals) > 2 {
		b.Quality = vals[2]
	}
	return b, b.Validate()
}

// numbers reads delim n1;n2;... delim with one to limit values.
func (s *scanner) numbers(delim byte, limit int) ([]float64, error) {
	s.pos++
	end := strings.IndexByte(s.rest(), delim)
	if end < 0 {
		return nil, fmt.Errorf("unterminated %q", delim)
	}
	body := s.rest()[:end]
	s.pos += end + 1

	parts := strings.Split(body, ";")
	if len(parts) > limit {
		return nil, fmt.Errorf("expected at most %d values, got %d", limit, len(parts))
	}
	vals := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", part, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}
