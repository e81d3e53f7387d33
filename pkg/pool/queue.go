package pool

import (
	"sync"
	"sync/atomic"
	"time"
)

// boundedQueue is the single consistency domain spec §5 calls for: one
// mutex guards the FIFO task queue, the worker registry, running, and the
// worker-count bookkeeping. Co-locating all of it behind one lock avoids a
// second lock-order axis (spec §4.E).
type boundedQueue struct {
	mu sync.Mutex

	notFull  *broadcastCond // signalled after a dequeue
	notEmpty *broadcastCond // signalled after an enqueue and on shutdown
	drained  *broadcastCond // signalled when a worker erases itself

	items    []*Task
	capacity int

	running        bool
	workers        map[uint64]*worker
	currentWorkers int
	idleWorkers    int

	// obs is set once in Pool.Start, before any worker goroutine is
	// spawned, and only read afterwards — no synchronization needed.
	obs Observer

	// Debug mirrors, read without the mutex by internal/metrics (spec §5:
	// "Atomics are used only for counters read without the mutex for
	// logging/debug purposes; decisions that affect correctness are made
	// under the mutex").
	currentWorkersDebug atomic.Int64
	idleWorkersDebug    atomic.Int64
	queueLenDebug       atomic.Int64
}

func newBoundedQueue(capacity int) *boundedQueue {
	return &boundedQueue{
		notFull:  newBroadcastCond(),
		notEmpty: newBroadcastCond(),
		drained:  newBroadcastCond(),
		capacity: capacity,
		workers:  make(map[uint64]*worker),
	}
}

// tryEnqueue waits up to timeout for not_full; on success it appends task,
// signals not_empty, and returns true. On timeout it returns false without
// appending (spec §4.C).
func (q *boundedQueue) tryEnqueue(task *Task, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	q.mu.Lock()
	for len(q.items) >= q.capacity {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			q.mu.Unlock()
			return false
		}
		ch := q.notFull.watch()
		q.mu.Unlock()
		waitTimeout(ch, remaining)
		q.mu.Lock()
	}

	q.items = append(q.items, task)
	q.queueLenDebug.Store(int64(len(q.items)))
	q.notEmpty.broadcast()
	q.mu.Unlock()
	return true
}

// dequeueOutcome is returned by dequeueBlocking to tell the worker what
// happened.
type dequeueOutcome int

const (
	dequeueGotTask dequeueOutcome = iota
	dequeueShutdown
	dequeueRetire
)

// dequeueBlocking implements the worker's wait-for-work step (spec §4.D,
// steps 1-4). w carries the worker's id and last-active bookkeeping so
// idle-retire decisions can be made without a second data structure.
func (q *boundedQueue) dequeueBlocking(mode Mode, initialWorkers int, idleLimit time.Duration, w *worker) (*Task, dequeueOutcome) {
	q.mu.Lock()
	for len(q.items) == 0 {
		if !q.running {
			q.eraseWorkerLocked(w.id)
			q.drained.broadcast()
			q.mu.Unlock()
			return nil, dequeueShutdown
		}

		if mode == Cached {
			ch := q.notEmpty.watch()
			q.mu.Unlock()
			timedOut := waitTimeout(ch, 1*time.Second)
			q.mu.Lock()

			if timedOut && len(q.items) == 0 {
				if time.Since(w.lastActive) >= idleLimit && q.currentWorkers > initialWorkers {
					q.eraseWorkerLocked(w.id)
					q.currentWorkers--
					q.idleWorkers--
					q.currentWorkersDebug.Store(int64(q.currentWorkers))
					q.idleWorkersDebug.Store(int64(q.idleWorkers))
					q.mu.Unlock()
					q.obs.workerRetired()
					return nil, dequeueRetire
				}
			}
			continue
		}

		// Fixed mode: untimed wait.
		ch := q.notEmpty.watch()
		q.mu.Unlock()
		waitTimeout(ch, 0)
		q.mu.Lock()
	}

	q.idleWorkers--
	q.idleWorkersDebug.Store(int64(q.idleWorkers))

	task := q.items[0]
	q.items = q.items[1:]
	q.queueLenDebug.Store(int64(len(q.items)))

	if len(q.items) > 0 {
		q.notEmpty.broadcast()
	}
	q.notFull.broadcast()

	q.mu.Unlock()
	return task, dequeueGotTask
}

// len reports the current queue length under the lock. Used by tests.
func (q *boundedQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
