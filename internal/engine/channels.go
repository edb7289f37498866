package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/roach88/nars/internal/ir"
)

// Event kinds reported to output channels.
const (
	KindAnswer   = "answer"
	KindDerived  = "derived"
	KindRejected = "rejected"
)

// Event is one line of reasoner output, already rendered as text.
type Event struct {
	Kind     string    `json:"kind"`
	Cycle    int64     `json:"cycle"`
	Sentence string    `json:"sentence,omitempty"`
	Truth    *ir.Truth `json:"truth,omitempty"`
	Evidence []int64   `json:"evidence,omitempty"`
	// Question is the question an answer responds to.
	Question string `json:"question,omitempty"`
	// Input and Error describe a rejected input line.
	Input string `json:"input,omitempty"`
	Error string `json:"error,omitempty"`
}

// InputChannel is a source of Narsese lines.
//
// Poll is called once at the start of every cycle, from the cycle owner.
// It returns the lines to take in before that cycle runs, and done once the
// channel will produce nothing more.
type InputChannel interface {
	Poll(cycle int64) (lines []string, done bool)
}

// OutputChannel receives events at the end of every cycle, from the cycle
// owner. An error is logged and does not stop the reasoner.
type OutputChannel interface {
	Emit(ev Event) error
}

// waiter is implemented by inputs that can wake an idle reasoner.
type waiter interface {
	Wait() <-chan struct{}
}

// TextInput is an input channel fed from other goroutines.
//
// Thread-safety: Push and Close are safe from any goroutine.
type TextInput struct {
	mu     sync.Mutex
	lines  []string
	closed bool
	signal chan struct{} // buffered, size 1; closed by Close
}

// NewTextInput creates an open, empty input.
func NewTextInput() *TextInput {
	return &TextInput{signal: make(chan struct{}, 1)}
}

// Push queues lines for the next cycle. It returns false once the input is
// closed.
func (in *TextInput) Push(lines ...string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return false
	}
	in.lines = append(in.lines, lines...)

	// Non-blocking: the buffer of one coalesces signals.
	select {
	case in.signal <- struct{}{}:
	default:
	}
	return true
}

// Close marks the input finished. Queued lines are still delivered.
func (in *TextInput) Close() {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return
	}
	in.closed = true
	close(in.signal)
}

// Poll implements InputChannel.
func (in *TextInput) Poll(int64) ([]string, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	lines := in.lines
	in.lines = nil
	return lines, in.closed
}

// Wait returns a channel that signals when lines may be available.
func (in *TextInput) Wait() <-chan struct{} {
	return in.signal
}

// ReaderInput reads Narsese lines from a reader, such as a batch file.
//
// Blank lines and lines starting with "//", "'" or "*" are ignored. A line
// holding only a number N delivers nothing for the next N cycles, so a batch
// can let the reasoner work before asking more.
type ReaderInput struct {
	scanner   *bufio.Scanner
	waitUntil int64
	done      bool
	err       error
}

// NewReaderInput wraps r.
func NewReaderInput(r io.Reader) *ReaderInput {
	return &ReaderInput{scanner: bufio.NewScanner(r)}
}

// Poll implements InputChannel.
func (in *ReaderInput) Poll(cycle int64) ([]string, bool) {
	if in.done || cycle < in.waitUntil {
		return nil, in.done
	}
	var lines []string
	for in.scanner.Scan() {
		line := strings.TrimSpace(in.scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "'") || strings.HasPrefix(line, "*") {
			continue
		}
		if n, err := strconv.ParseInt(line, 10, 64); err == nil && n >= 0 {
			in.waitUntil = cycle + n
			return lines, false
		}
		lines = append(lines, line)
	}
	in.err = in.scanner.Err()
	in.done = true
	return lines, true
}

// Err returns the read error that ended the input, if any.
func (in *ReaderInput) Err() error {
	return in.err
}

// WriterOutput writes events to w, as text lines or as JSON lines.
type WriterOutput struct {
	w    io.Writer
	json bool
}

// NewWriterOutput creates an output. format is "text" or "json".
func NewWriterOutput(w io.Writer, format string) *WriterOutput {
	return &WriterOutput{w: w, json: format == "json"}
}

// Emit implements OutputChannel.
func (o *WriterOutput) Emit(ev Event) error {
	if o.json {
		enc := json.NewEncoder(o.w)
		enc.SetEscapeHTML(false)
		return enc.Encode(ev)
	}
	_, err := fmt.Fprintln(o.w, FormatEvent(ev))
	return err
}

// FormatEvent renders an event as one text line.
func FormatEvent(ev Event) string {
	switch ev.Kind {
	case KindRejected:
		return fmt.Sprintf("[%d] rejected %q: %s", ev.Cycle, ev.Input, ev.Error)
	case KindAnswer:
		return fmt.Sprintf("[%d] answer %s %s for %s", ev.Cycle, ev.Sentence, evidence(ev.Evidence), ev.Question)
	default:
		return fmt.Sprintf("[%d] %s %s %s", ev.Cycle, ev.Kind, ev.Sentence, evidence(ev.Evidence))
	}
}

func evidence(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Collector keeps every event in memory for later reading.
//
// Thread-safety: all methods are safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	events []Event
	limit  int
	offset int // events discarded from the front
}

// NewCollector creates a collector that keeps at most limit events; zero
// means no limit.
func NewCollector(limit int) *Collector {
	return &Collector{limit: limit}
}

// Emit implements OutputChannel.
func (c *Collector) Emit(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, ev)
	if c.limit > 0 && len(c.events) > c.limit {
		drop := len(c.events) - c.limit
		c.events = append([]Event(nil), c.events[drop:]...)
		c.offset += drop
	}
	return nil
}

// Events returns a copy of the retained events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// Since returns the events after position after (a value previously
// returned as next, or 0) and the position to pass next time. Positions
// keep counting when old events are discarded.
func (c *Collector) Since(after int) (events []Event, next int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := after - c.offset
	if start < 0 {
		start = 0
	}
	if start < len(c.events) {
		events = append(events, c.events[start:]...)
	}
	return events, c.offset + len(c.events)
}
