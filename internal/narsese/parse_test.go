package narsese

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nars/internal/calculus"
	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/term"
)

type counter struct{ next int64 }

func (c *counter) NewStamp() ir.Stamp {
	c.next++
	return ir.NewStamp(c.next, 0)
}

func newParser() (*Parser, *term.Table, *counter) {
	terms := term.NewTable()
	stamps := &counter{}
	return NewParser(terms, stamps), terms, stamps
}

func TestParseTask_JudgmentWithTruth(t *testing.T) {
	p, terms, _ := newParser()

	task, err := p.ParseTask("<raven --> bird>. %0.8;0.7%")
	require.NoError(t, err)

	assert.Equal(t, "<raven --> bird>", terms.Key(task.Term()))
	assert.Equal(t, ir.Judgment, task.Sentence.Punctuation)
	require.NotNil(t, task.Sentence.Truth)
	assert.InDelta(t, 0.8, task.Sentence.Truth.Frequency, 1e-9)
	assert.InDelta(t, 0.7, task.Sentence.Truth.Confidence, 1e-9)
	assert.Equal(t, []int64{1}, task.Sentence.Stamp.Evidence)
	assert.True(t, task.Input)
}

func TestParseTask_Defaults(t *testing.T) {
	p, _, _ := newParser()

	judgment, err := p.ParseTask("<a --> b>.")
	require.NoError(t, err)
	assert.Equal(t, ir.Truth{Frequency: 1, Confidence: 0.9}, *judgment.Sentence.Truth)
	assert.Equal(t, 0.8, judgment.Budget.Priority)
	assert.Equal(t, 0.5, judgment.Budget.Durability)
	assert.InDelta(t, calculus.TruthToQuality(*judgment.Sentence.Truth), judgment.Budget.Quality, 1e-9)

	question, err := p.ParseTask("<a --> b>?")
	require.NoError(t, err)
	assert.Nil(t, question.Sentence.Truth)
	assert.Equal(t, ir.Budget{Priority: 0.9, Durability: 0.9, Quality: 1}, question.Budget)

	goal, err := p.ParseTask("<a --> b>! %0.6%")
	require.NoError(t, err)
	assert.Equal(t, ir.Truth{Frequency: 0.6, Confidence: 0.9}, *goal.Sentence.Truth)
}

func TestParseTask_BudgetPrefix(t *testing.T) {
	p, _, _ := newParser()

	task, err := p.ParseTask("$0.3;0.4;0.5$ <a --> b>.")
	require.NoError(t, err)
	assert.Equal(t, ir.Budget{Priority: 0.3, Durability: 0.4, Quality: 0.5}, task.Budget)
}

func TestParseTask_TermForms(t *testing.T) {
	tests := []struct {
		input string
		key   string
	}{
		{"<a-->b>.", "<a --> b>"},
		{"<b <-> a>.", "<a <-> b>"},
		{"<{tweety} --> [yellow]>.", "<{tweety} --> [yellow]>"},
		{"<(&,bird,swimmer) --> animal>.", "<(&,bird,swimmer) --> animal>"},
		{"<(*,acid,base) --> reaction>.", "<(*,acid,base) --> reaction>"},
		{"<acid --> (/,reaction,_,base)>.", "<acid --> (/,reaction,_,base)>"},
		{"<<a --> b> ==> <c --> d>>.", "<<a --> b> ==> <c --> d>>"},
		{"(--,<a --> b>).", "(--,<a --> b>)"},
		{"<$x --> b>.", "<$x --> b>"},
		{"<{b, a, a} --> c>.", "<{a,b} --> c>"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, terms, _ := newParser()
			task, err := p.ParseTask(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.key, terms.Key(task.Term()))
		})
	}
}

func TestParseTask_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", "   "},
		{"no punctuation", "<a --> b>"},
		{"frequency out of range", "<a --> b>. %1.5;0.9%"},
		{"confidence one", "<a --> b>. %1;1%"},
		{"question with truth", "<a --> b>? %1;0.9%"},
		{"reflexive", "<a --> a>."},
		{"unclosed statement", "<a --> b."},
		{"missing copula", "<a b>."},
		{"unknown operator", "(^,a,b)."},
		{"image without placeholder", "(/,r,a)."},
		{"trailing text", "<a --> b>. %1;0.9% extra"},
		{"bad budget", "$2;0.5;0.5$ <a --> b>."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, terms, stamps := newParser()
			_, err := p.ParseTask(tt.input)
			require.Error(t, err)
			assert.True(t, ir.IsMalformed(err), "got %T: %v", err, err)
			assert.Zero(t, stamps.next, "rejected input must not use evidence ids")
			assert.Zero(t, terms.Len(), "rejected input must not intern terms")
		})
	}
}

func TestParseTask_RejectedLineKeepsTable(t *testing.T) {
	p, terms, _ := newParser()
	_, err := p.ParseTask("<a --> b>.")
	require.NoError(t, err)
	before := terms.Len()

	_, err = p.ParseTask("<(&,x,y) --> z> %0.5;0.9%")
	require.Error(t, err)
	assert.Equal(t, before, terms.Len())
	_, ok := terms.Lookup("x")
	assert.False(t, ok)
}

func TestParseTask_RangeErrorIsWrapped(t *testing.T) {
	p, _, _ := newParser()
	_, err := p.ParseTask("<a --> b>. %1.5;0.9%")
	assert.True(t, ir.IsRangeError(err))
}

func TestParseTerm(t *testing.T) {
	p, terms, _ := newParser()

	id, err := p.ParseTerm(" <raven --> animal> ")
	require.NoError(t, err)
	assert.Equal(t, "<raven --> animal>", terms.Key(id))

	_, err = p.ParseTerm("<raven --> animal> junk")
	assert.True(t, ir.IsMalformed(err))
}

func TestCanonical(t *testing.T) {
	key, err := Canonical("<{b,a}-->c>")
	require.NoError(t, err)
	assert.Equal(t, "<{a,b} --> c>", key)

	p, terms, _ := newParser()
	id, err := p.ParseTerm("<{a,b} --> c>")
	require.NoError(t, err)
	found, ok := terms.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, id, found)

	_, err = Canonical("<a -->")
	assert.True(t, ir.IsMalformed(err))
}

func TestFormat_RoundTrip(t *testing.T) {
	p, terms, _ := newParser()

	task, err := p.ParseTask("$0.80;0.50;0.95$ <(&,a,b) --> c>. %0.50;0.81%")
	require.NoError(t, err)
	assert.Equal(t, "<(&,a,b) --> c>. %0.50;0.81%", Format(terms, task.Sentence))
	assert.Equal(t, "<(&,a,b) --> c>. %0.50;0.81% {1}", FormatStamped(terms, task.Sentence))

	again, err := p.ParseTask(FormatTask(terms, task))
	require.NoError(t, err)
	assert.Equal(t, task.Term(), again.Term())
	assert.Equal(t, task.Budget, again.Budget)
	assert.True(t, task.Sentence.Truth.Equal(*again.Sentence.Truth))
}

func TestFormat_Question(t *testing.T) {
	p, terms, _ := newParser()
	task, err := p.ParseTask("<a --> b>?")
	require.NoError(t, err)
	assert.Equal(t, "<a --> b>?", Format(terms, task.Sentence))
}
