package pool

import (
	"log/slog"
	"time"
)

// worker is a long-running execution context that drains tasks from a
// boundedQueue. Its states (spec §4.D): idle_waiting -> running_task on a
// successful dequeue, running_task -> idle_waiting on completion,
// idle_waiting -> retiring on idle-timeout-with-surplus (cached) or on
// shutdown observation, retiring -> exited after deregistration.
type worker struct {
	id         uint64
	lastActive time.Time
}

func newWorker(id uint64) *worker {
	return &worker{id: id, lastActive: time.Now()}
}

// run is the worker's main loop (spec §4.D). It returns when the worker
// retires (cached-mode idle-timeout-with-surplus) or observes shutdown.
func (w *worker) run(q *boundedQueue, mode Mode, initialWorkers int, idleLimit time.Duration) {
	for {
		task, outcome := q.dequeueBlocking(mode, initialWorkers, idleLimit, w)

		switch outcome {
		case dequeueShutdown:
			slog.Default().Debug("pool: worker exiting on shutdown", slog.Uint64("worker_id", w.id))
			return

		case dequeueRetire:
			slog.Default().Debug("pool: worker retiring on idle timeout", slog.Uint64("worker_id", w.id))
			return

		case dequeueGotTask:
			task.exec()
			q.obs.completed(time.Since(task.submittedAt))

			q.mu.Lock()
			q.idleWorkers++
			q.idleWorkersDebug.Store(int64(q.idleWorkers))
			w.lastActive = time.Now()
			q.mu.Unlock()
		}
	}
}
