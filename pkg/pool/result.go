package pool

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ResultHandle is the one-shot, cross-thread handoff of a single task's
// opaque Value (spec §4.A). It is accessed by exactly two goroutines: the
// worker that calls publish, and the submitter that calls Get; it does not
// participate in the pool's queue mutex.
//
// The readiness signal is modeled with a counting semaphore initialized to
// resource count 0 (golang.org/x/sync/semaphore.Weighted with capacity 1,
// immediately acquired down to 0 at construction): publish releases it,
// Get acquires-then-releases it so repeated Get calls after delivery never
// block (spec §4.A: "get() ... may be called zero or more times").
type ResultHandle struct {
	task  *Task
	sem   *semaphore.Weighted
	valid bool

	mu        sync.Mutex
	published bool
	value     Value
}

// newResultHandle creates a Result Channel bound to task and pre-arms its
// readiness semaphore to 0 (not ready). valid is immutable after
// construction (spec §4.A).
func newResultHandle(task *Task, valid bool) *ResultHandle {
	sem := semaphore.NewWeighted(1)
	// Drain the one permit so the semaphore starts at resource count 0.
	_ = sem.Acquire(context.Background(), 1)

	r := &ResultHandle{
		task:  task,
		sem:   sem,
		valid: valid,
	}
	task.bind(r)

	if !valid {
		// An overflowed submission never runs; arm the semaphore so Get
		// returns the zero Value immediately without blocking, and never
		// route a real publish through this channel (spec §9: "publish
		// on an invalid channel [must] be a no-op or ... unreachable").
		r.published = true
		r.sem.Release(1)
	}

	return r
}

// publish is called exactly once, by the worker that ran the associated
// task. It is a no-op on an invalid Result Channel (spec §9).
func (r *ResultHandle) publish(value Value) {
	if !r.valid {
		return
	}

	r.mu.Lock()
	r.value = value
	r.published = true
	r.mu.Unlock()

	r.sem.Release(1)
}

// Get blocks until publish has occurred, then returns the stored value. If
// the channel was created invalid (queue-overflow submission), Get returns
// the zero Value immediately without blocking.
func (r *ResultHandle) Get() Value {
	_ = r.sem.Acquire(context.Background(), 1)
	r.mu.Lock()
	value := r.value
	r.mu.Unlock()
	// Re-release so a second Get (idempotent per spec §4.A) doesn't block.
	r.sem.Release(1)
	return value
}

// Valid reports whether this Result Channel will ever receive a published
// value. A ResultHandle returned for an overflowed submission is invalid.
func (r *ResultHandle) Valid() bool {
	return r.valid
}
