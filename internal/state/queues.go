package state

import "github.com/atomicstack/sqs-admin-tui/internal/sqs"

// QueueRegistry holds the ordered queue listing and the selected index.
type QueueRegistry interface {
	Queues() []sqs.Queue
	Len() int
	Replace([]sqs.Queue)
	SelectedIndex() int
	Selected() (sqs.Queue, bool)
	Select(index int) bool
	Disabled() bool
	Generation() uint64
}

type queueRegistry struct {
	queues     []sqs.Queue
	selected   int
	generation uint64
}

// NewQueueRegistry returns an empty registry with queue-scoped actions disabled.
func NewQueueRegistry() QueueRegistry {
	return &queueRegistry{}
}

func (r *queueRegistry) Queues() []sqs.Queue {
	return sqs.CloneQueues(r.queues)
}

func (r *queueRegistry) Len() int {
	return len(r.queues)
}

// Replace swaps in a new listing and selects the last queue. The previous
// selection is not preserved.
func (r *queueRegistry) Replace(queues []sqs.Queue) {
	r.queues = sqs.CloneQueues(queues)
	r.selected = 0
	if n := len(r.queues); n > 0 {
		r.selected = n - 1
	}
	r.generation++
}

func (r *queueRegistry) SelectedIndex() int {
	return r.selected
}

func (r *queueRegistry) Selected() (sqs.Queue, bool) {
	if r.selected < 0 || r.selected >= len(r.queues) {
		return sqs.Queue{}, false
	}
	q := r.queues[r.selected]
	if q.QueueUrl == "" {
		return sqs.Queue{}, false
	}
	return q, true
}

// Select moves the selection to index. Out of range indexes are ignored.
// It reports whether the selection changed.
func (r *queueRegistry) Select(index int) bool {
	if index < 0 || index >= len(r.queues) {
		return false
	}
	if index == r.selected {
		return false
	}
	r.selected = index
	return true
}

func (r *queueRegistry) Disabled() bool {
	return len(r.queues) == 0
}

// Generation increments on every Replace, so callers can detect a new
// listing even when its contents are unchanged.
func (r *queueRegistry) Generation() uint64 {
	return r.generation
}
