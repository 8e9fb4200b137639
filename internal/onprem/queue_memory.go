package onprem

import (
	"context"
	"sync"
)

// MemoryQueue keeps directives in process. Used by dry runs and tests.
type MemoryQueue struct {
	mu    sync.Mutex
	items []Directive
}

// NewMemoryQueue returns an empty queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Enqueue implements Queue.
func (q *MemoryQueue) Enqueue(_ context.Context, d Directive) error {
	if err := d.validate(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, d)

	return nil
}

// Directives returns everything enqueued so far, in order.
func (q *MemoryQueue) Directives() []Directive {
	q.mu.Lock()
	defer q.mu.Unlock()

	return append([]Directive(nil), q.items...)
}

// Close implements Queue.
func (q *MemoryQueue) Close() error {
	return nil
}
