package memory

import (
	"math/rand/v2"

	"github.com/roach88/nars/internal/bag"
	"github.com/roach88/nars/internal/inference"
	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/term"
)

// Concept is everything memory knows about one term: its beliefs, goals,
// open questions, and links to related terms and tasks.
//
// There is at most one Concept per term; Memory's concept bag is the
// identity index.
type Concept struct {
	term      term.ID
	budget    ir.Budget
	beliefs   *rankedTable
	desires   *rankedTable
	questions []*ir.Task
	maxTasks  int
	termLinks *bag.Bag[TermLinkKey, *TermLink]
	taskLinks *bag.Bag[string, *TaskLink]
}

func newConcept(id term.ID, b ir.Budget, cfg Config, rng *rand.Rand) *Concept {
	return &Concept{
		term:     id,
		budget:   b,
		beliefs:  newRankedTable(cfg.BeliefCapacity),
		desires:  newRankedTable(cfg.BeliefCapacity),
		maxTasks: cfg.TaskCapacity,
		termLinks: bag.New[TermLinkKey, *TermLink](bag.Config{
			Capacity:   cfg.TermLinkCapacity,
			Levels:     cfg.Levels,
			ForgetRate: cfg.ForgetRate,
		}, rng),
		taskLinks: bag.New[string, *TaskLink](bag.Config{
			Capacity:   cfg.TaskLinkCapacity,
			Levels:     cfg.Levels,
			ForgetRate: cfg.ForgetRate,
		}, rng),
	}
}

func (c *Concept) Key() term.ID { return c.term }

func (c *Concept) Budget() ir.Budget { return c.budget }

func (c *Concept) SetBudget(b ir.Budget) { c.budget = b }

// Term returns the concept's term.
func (c *Concept) Term() term.ID { return c.term }

// Beliefs returns the belief table, best first.
func (c *Concept) Beliefs() []ir.Sentence { return c.beliefs.list() }

// Desires returns the goal table, best first.
func (c *Concept) Desires() []ir.Sentence { return c.desires.list() }

// Questions returns the pending questions, oldest first.
func (c *Concept) Questions() []*ir.Task { return append([]*ir.Task(nil), c.questions...) }

// TermLinks returns the term links in bag order.
func (c *Concept) TermLinks() []*TermLink { return c.termLinks.Items() }

// TaskLinks returns the task links in bag order.
func (c *Concept) TaskLinks() []*TaskLink { return c.taskLinks.Items() }

// BestBelief returns the top-ranked belief, or nil.
func (c *Concept) BestBelief() *ir.Sentence { return c.beliefs.best() }

// BeliefFor picks the belief to pair with task: the best one that shares
// no evidence with it, or the best one overall.
func (c *Concept) BeliefFor(task *ir.Task) *ir.Sentence {
	return c.beliefs.disjointFrom(task.Sentence.Stamp)
}

// LinkTo registers a term link, merging budgets with an existing link of
// the same target and type.
func (c *Concept) LinkTo(target term.ID, typ LinkType, b ir.Budget) {
	c.termLinks.Put(&TermLink{Target: target, Type: typ, budget: b})
}

// Answer records that Belief is the new best answer to Question.
type Answer struct {
	Question *ir.Task
	Belief   ir.Sentence
}

// Outcome reports what AddTask did.
type Outcome struct {
	// Duplicate is set when an equivalent sentence was already stored.
	Duplicate bool
	// Revised is the revision result when the task was merged with a
	// stored sentence instead of being inserted.
	Revised *ir.Task
	Answers []Answer
	// Evicted counts sentences pushed out of a full table or queue.
	Evicted int
}

// AddTask routes a task by punctuation and applies the local rules.
func (c *Concept) AddTask(t *ir.Task, cycle int64) Outcome {
	switch t.Sentence.Punctuation {
	case ir.Judgment:
		out := c.addTruth(c.beliefs, t, cycle)
		if !out.Duplicate {
			stored := t.Sentence
			if out.Revised != nil {
				stored = out.Revised.Sentence
			}
			out.Answers = c.answerQuestions(stored)
		}
		return out
	case ir.Goal:
		return c.addTruth(c.desires, t, cycle)
	default:
		return c.addQuestion(t)
	}
}

// AddBelief stores a judgment directly. See AddTask.
func (c *Concept) AddBelief(s ir.Sentence, cycle int64) Outcome {
	return c.AddTask(&ir.Task{Sentence: s}, cycle)
}

// addTruth revises t with the first stored sentence on disjoint evidence,
// replacing that sentence, or inserts t as a ranked entry when nothing is
// revisable. Equivalent sentences are dropped.
func (c *Concept) addTruth(table *rankedTable, t *ir.Task, cycle int64) Outcome {
	if table.contains(t.Sentence) {
		return Outcome{Duplicate: true}
	}
	for i := range table.items {
		stored := table.items[i]
		revised, ok := inference.Revise(t, &stored, cycle)
		if !ok {
			continue
		}
		table.removeAt(i)
		var out Outcome
		if _, ev := table.insert(revised.Sentence); ev {
			out.Evicted++
		}
		out.Revised = revised
		return out
	}
	var out Outcome
	if _, ev := table.insert(t.Sentence); ev {
		out.Evicted++
	}
	return out
}

func (c *Concept) addQuestion(t *ir.Task) Outcome {
	for _, q := range c.questions {
		if q.Sentence.Equivalent(t.Sentence) {
			return Outcome{Duplicate: true}
		}
	}
	var out Outcome
	c.questions = append(c.questions, t)
	if len(c.questions) > c.maxTasks {
		c.questions[0] = nil
		c.questions = c.questions[1:]
		out.Evicted++
	}
	if best := c.beliefs.best(); best != nil && inference.BetterAnswer(t.BestAnswer, best) {
		t.BestAnswer = best
		out.Answers = append(out.Answers, Answer{Question: t, Belief: *best})
	}
	return out
}

// answerQuestions offers a new belief to every pending question.
func (c *Concept) answerQuestions(s ir.Sentence) []Answer {
	var out []Answer
	for _, q := range c.questions {
		if inference.BetterAnswer(q.BestAnswer, &s) {
			a := s
			q.BestAnswer = &a
			out = append(out, Answer{Question: q, Belief: s})
		}
	}
	return out
}
