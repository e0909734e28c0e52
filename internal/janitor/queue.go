package janitor

import (
	"errors"
	"slices"
)

// ErrEmptyQueue is returned by Queue.PeekHead and Queue.PopHead on an empty
// queue. Seeing it from Engine.Run means the queue contract was misused.
var ErrEmptyQueue = errors.New("work queue is empty")

// Queue is the FIFO of function identifiers still to clean in the current
// cycle.
//
// Queue is not safe for concurrent use; the Engine serializes access.
type Queue struct {
	functions []string
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// IsEmpty reports whether no function is pending.
func (q *Queue) IsEmpty() bool {
	return len(q.functions) == 0
}

// Len returns the number of pending functions.
func (q *Queue) Len() int {
	return len(q.functions)
}

// Populate replaces the queue contents with a copy of functions.
func (q *Queue) Populate(functions []string) {
	q.functions = slices.Clone(functions)
}

// PeekHead returns the function at the head of the queue.
func (q *Queue) PeekHead() (string, error) {
	if len(q.functions) == 0 {
		return "", ErrEmptyQueue
	}
	return q.functions[0], nil
}

// PopHead removes the function at the head of the queue.
func (q *Queue) PopHead() error {
	if len(q.functions) == 0 {
		return ErrEmptyQueue
	}
	q.functions[0] = ""
	q.functions = q.functions[1:]
	return nil
}

// Snapshot returns a copy of the pending functions, head first.
func (q *Queue) Snapshot() []string {
	return slices.Clone(q.functions)
}
