package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/roach88/nars/internal/engine"
	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/memory"
	"github.com/roach88/nars/internal/narsese"
)

// maxInputBytes bounds one POST /api/input body.
const maxInputBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var cycle int64
	var concepts int
	s.reasoner.Inspect(func(m *memory.Memory) {
		cycle = m.Cycle()
		concepts = m.ConceptCount()
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"reasoner": s.reasoner.ID(),
		"cycle":    cycle,
		"concepts": concepts,
		"uptime":   time.Since(s.started).Seconds(),
	})
}

type rejectedLine struct {
	Input string `json:"input"`
	Error string `json:"error"`
}

// handleInput takes narsese either as a text body with one sentence per
// line or as JSON {"lines": [...]}. Valid lines are accepted even when
// others are rejected; any rejection makes the response a 400.
func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxInputBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body failed")
		return
	}

	var lines []string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req struct {
			Lines []string `json:"lines"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		lines = req.Lines
	} else {
		lines = strings.Split(string(body), "\n")
	}

	accepted := 0
	rejected := []rejectedLine{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := s.reasoner.Input(line); err != nil {
			rejected = append(rejected, rejectedLine{Input: line, Error: err.Error()})
			continue
		}
		accepted++
	}

	if accepted == 0 && len(rejected) == 0 {
		writeError(w, http.StatusBadRequest, "no input lines")
		return
	}
	status := http.StatusAccepted
	if len(rejected) > 0 {
		s.logger.Warn("input rejected", zap.Int("rejected", len(rejected)), zap.Int("accepted", accepted))
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{
		"accepted": accepted,
		"rejected": rejected,
	})
}

func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	after := 0
	if v := r.URL.Query().Get("after"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "after must be a non-negative integer")
			return
		}
		after = n
	}

	events, next := s.output.Since(after)
	if events == nil {
		events = []engine.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"next":   next,
	})
}

type linkView struct {
	Target   string          `json:"target"`
	Type     memory.LinkType `json:"type"`
	Priority float64         `json:"priority"`
}

type conceptView struct {
	Term      string     `json:"term"`
	Budget    ir.Budget  `json:"budget"`
	Beliefs   []string   `json:"beliefs"`
	Desires   []string   `json:"desires,omitempty"`
	Questions []string   `json:"questions,omitempty"`
	TermLinks []linkView `json:"term_links,omitempty"`
	TaskLinks int        `json:"task_links"`
}

func (s *Server) handleConcept(w http.ResponseWriter, r *http.Request) {
	text, err := url.PathUnescape(chi.URLParam(r, "term"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid term encoding")
		return
	}
	key, err := narsese.Canonical(text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var view *conceptView
	s.reasoner.Inspect(func(m *memory.Memory) {
		id, ok := m.Terms().Lookup(key)
		if !ok {
			return
		}
		if c := m.ConceptFor(id); c != nil {
			view = describe(m, c)
		}
	})
	if view == nil {
		writeError(w, http.StatusNotFound, "no concept for "+key)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func describe(m *memory.Memory, c *memory.Concept) *conceptView {
	terms := m.Terms()
	v := &conceptView{
		Term:      terms.Key(c.Term()),
		Budget:    c.Budget(),
		Beliefs:   []string{},
		TaskLinks: len(c.TaskLinks()),
	}
	for _, b := range c.Beliefs() {
		v.Beliefs = append(v.Beliefs, narsese.FormatStamped(terms, b))
	}
	for _, d := range c.Desires() {
		v.Desires = append(v.Desires, narsese.FormatStamped(terms, d))
	}
	for _, q := range c.Questions() {
		v.Questions = append(v.Questions, narsese.Format(terms, q.Sentence))
	}
	for _, l := range c.TermLinks() {
		v.TermLinks = append(v.TermLinks, linkView{
			Target:   terms.Key(l.Target),
			Type:     l.Type,
			Priority: l.Budget().Priority,
		})
	}
	return v
}
