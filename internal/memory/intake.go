package memory

import (
	"sync"

	"github.com/roach88/nars/internal/ir"
)

// intakeQueue is the bounded FIFO buffer between producers and the cycle.
//
// Input channels and the dispatch step both push; only the cycle pops. When
// the queue is full the oldest task is dropped so fresh work is never
// refused.
type intakeQueue struct {
	mu       sync.Mutex
	tasks    []*ir.Task
	capacity int
	dropped  int64
}

func newIntakeQueue(capacity int) *intakeQueue {
	return &intakeQueue{
		tasks:    make([]*ir.Task, 0, min(capacity, 64)),
		capacity: capacity,
	}
}

// push appends t, dropping the oldest task if the queue is full.
// It reports whether a task was dropped.
func (q *intakeQueue) push(t *ir.Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	dropped := false
	if len(q.tasks) >= q.capacity {
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.dropped++
		dropped = true
	}
	q.tasks = append(q.tasks, t)
	return dropped
}

// pop removes and returns the oldest task.
func (q *intakeQueue) pop() (*ir.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, false
	}
	t := q.tasks[0]

	// Nil out the slot so the backing array does not pin the task.
	q.tasks[0] = nil
	if len(q.tasks) == 1 {
		q.tasks = q.tasks[:0]
	} else {
		q.tasks = q.tasks[1:]
	}
	return t, true
}

// snapshot copies the queued tasks in order without removing them.
func (q *intakeQueue) snapshot() []*ir.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*ir.Task(nil), q.tasks...)
}

func (q *intakeQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *intakeQueue) droppedCount() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
