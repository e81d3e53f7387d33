package pool

// The Worker Registry (spec §4.E) is the map half of boundedQueue: a
// mapping from stable worker id to worker handle, mutated only under
// q.mu so that registry.size() is always consistent with currentWorkers
// at the points spec §3 names ("entry to and exit from the task-wait
// block under the queue mutex").

// insertWorkerLocked adds w to the registry. Caller must hold q.mu.
func (q *boundedQueue) insertWorkerLocked(w *worker) {
	q.workers[w.id] = w
}

// eraseWorkerLocked removes the worker with the given id from the
// registry. Caller must hold q.mu.
func (q *boundedQueue) eraseWorkerLocked(id uint64) {
	delete(q.workers, id)
}

// registrySizeLocked returns the number of live workers. Caller must hold
// q.mu.
func (q *boundedQueue) registrySizeLocked() int {
	return len(q.workers)
}
