// Package coalesce provides a latest-wins job queue: at most one job waits
// for the consumer, and enqueuing replaces a job that has not started yet.
package coalesce

import (
	"context"
	"sync"
	"sync/atomic"
)

// Job is a unit of work run by the queue's consumer.
type Job func(ctx context.Context)

// Queue is a capacity-1, drop-oldest queue with a single consumer.
type Queue struct {
	mu      sync.Mutex
	slot    chan Job
	closed  bool
	dropped atomic.Uint64
}

// New returns an empty open queue.
func New() *Queue {
	return &Queue{slot: make(chan Job, 1)}
}

// TryEnqueue stores job, replacing any job still waiting. It returns false
// only once the queue is closed.
func (q *Queue) TryEnqueue(job Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	select {
	case <-q.slot:
		q.dropped.Add(1)
	default:
	}
	q.slot <- job
	return true
}

// Run executes queued jobs one at a time until ctx is cancelled or the queue
// is closed and drained. It must be called from a single goroutine.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.slot:
			if !ok {
				return
			}
			job(ctx)
		}
	}
}

// Close stops accepting jobs. A job already waiting still runs.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.slot)
}

// Dropped returns how many waiting jobs were replaced before they ran.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
