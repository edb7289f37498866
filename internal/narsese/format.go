package narsese

import (
	"strings"

	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/term"
)

// Format renders a sentence without its stamp, e.g. <a --> b>. %1.00;0.90%.
func Format(terms *term.Table, s ir.Sentence) string {
	var b strings.Builder
	b.WriteString(terms.Key(s.Term))
	b.WriteString(string(s.Punctuation))
	if s.Truth != nil {
		b.WriteByte(' ')
		b.WriteString(s.Truth.String())
	}
	return b.String()
}

// FormatStamped renders a sentence followed by its evidence, e.g.
// <a --> c>. %1.00;0.81% {1 2}.
func FormatStamped(terms *term.Table, s ir.Sentence) string {
	return Format(terms, s) + " " + s.Stamp.String()
}

// FormatTask renders a task with its budget prefix so that ParseTask reads
// it back to the same term, truth and budget (to two decimals).
func FormatTask(terms *term.Table, t *ir.Task) string {
	return t.Budget.String() + " " + Format(terms, t.Sentence)
}
