// ============================================================================
// Worker Pool - Concurrency Engine
// ============================================================================
//
// Package: pkg/pool
// Purpose: Bounded, mutex+condvar based worker pool with fixed and cached
//          worker-population modes.
//
// Design Pattern:
//   A single lock domain guards the FIFO task queue, the worker registry,
//   and the pool's running/worker-count bookkeeping. Three condition
//   predicates share that lock:
//     - notFull:  size < capacity       (submitters wait here)
//     - notEmpty: size > 0 || shutdown  (workers wait here)
//     - drained:  registry is empty     (Shutdown waits here)
//
// Architecture Components:
//   ┌────────────┐
//   │  Submit()  │ --enqueue--> boundedQueue
//   └────────────┘
//         │ binds
//         ▼
//   ResultHandle  <--publish-- Task.exec() <--dequeue-- Worker loop
//
// Modes:
//   fixed  - worker count is constant from Start to Shutdown.
//   cached - worker count grows on backlog (bounded by MaxWorkers) and
//            shrinks back to InitialWorkers when a worker sits idle past
//            IdleLimit.
//
// Lifetime:
//   New() -> SetMode/SetQueueCapacity/SetMaxWorkers/SetIdleLimit (no-ops
//   once running) -> Start(initialWorkers) -> Submit(...) * -> Shutdown().
//
// The package has no I/O of its own: no logging sink, no network listener,
// no config file. Those are the embedding program's concern (see
// internal/cli, internal/metrics, internal/config).
//
// ============================================================================

package pool
