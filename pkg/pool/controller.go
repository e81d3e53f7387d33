package pool

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Mode selects the pool's worker-population policy.
type Mode int

const (
	// Fixed keeps a constant worker count from Start to Shutdown.
	Fixed Mode = iota
	// Cached grows the worker count up to MaxWorkers under backlog and
	// shrinks it back to InitialWorkers once surplus workers idle past
	// IdleLimit.
	Cached
)

const (
	defaultQueueCapacity = 1024
	defaultMaxWorkers    = 100
	defaultSubmitTimeout = 1 * time.Second
	defaultIdleLimit     = 60 * time.Second
)

// Pool is the public submission surface: mode configuration, start-up,
// dynamic spawning under cached mode, and shutdown coordination (spec
// §4.F). It is non-copyable and non-movable once started; embed or pass a
// *Pool, never a Pool value.
type Pool struct {
	mu sync.Mutex // guards the configuration fields below, only before Start

	mode          Mode
	queueCapacity int
	maxWorkers    int
	idleLimit     time.Duration
	submitTimeout time.Duration

	initialWorkers int
	started        bool

	observer Observer

	nextWorkerID atomic.Uint64

	q *boundedQueue
}

// New constructs a Pool with default configuration: Fixed mode, queue
// capacity 1024, max workers 100 (effective only in Cached mode), a 1s
// submit timeout, and a 60s idle limit.
func New() *Pool {
	return &Pool{
		mode:          Fixed,
		queueCapacity: defaultQueueCapacity,
		maxWorkers:    defaultMaxWorkers,
		idleLimit:     defaultIdleLimit,
		submitTimeout: defaultSubmitTimeout,
	}
}

// SetMode selects Fixed or Cached. No-op once the pool has started.
func (p *Pool) SetMode(mode Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.mode = mode
}

// SetQueueCapacity sets the bounded task queue's capacity. n must be
// positive. No-op once the pool has started.
func (p *Pool) SetQueueCapacity(n int) error {
	if n <= 0 {
		return ErrInvalidConfig
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	p.queueCapacity = n
	return nil
}

// SetMaxWorkers sets the cached-mode worker-count ceiling. n must be
// positive. No-op once the pool has started.
func (p *Pool) SetMaxWorkers(n int) error {
	if n <= 0 {
		return ErrInvalidConfig
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	p.maxWorkers = n
	return nil
}

// SetIdleLimit sets how long a surplus cached-mode worker may sit idle
// before retiring. d must be positive. No-op once the pool has started.
func (p *Pool) SetIdleLimit(d time.Duration) error {
	if d <= 0 {
		return ErrInvalidConfig
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	p.idleLimit = d
	return nil
}

// SetSubmitTimeout sets how long Submit waits for queue capacity to free
// up before returning an invalid ResultHandle. d must be positive. No-op
// once the pool has started.
func (p *Pool) SetSubmitTimeout(d time.Duration) error {
	if d <= 0 {
		return ErrInvalidConfig
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	p.submitTimeout = d
	return nil
}

// SetObserver installs hooks invoked on task submit, completion, overflow,
// and cached-mode worker spawn/retire — the attachment point for
// internal/metrics. No-op once the pool has started.
func (p *Pool) SetObserver(obs Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.observer = obs
}

// Start spawns initialWorkers workers and begins accepting submissions.
// It returns ErrAlreadyStarted if called more than once.
func (p *Pool) Start(initialWorkers int) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	if initialWorkers <= 0 {
		p.mu.Unlock()
		return ErrInvalidConfig
	}

	p.started = true
	p.initialWorkers = initialWorkers
	mode, idleLimit := p.mode, p.idleLimit
	q := newBoundedQueue(p.queueCapacity)
	q.obs = p.observer
	p.q = q
	p.mu.Unlock()

	q.mu.Lock()
	q.running = true
	q.currentWorkers = initialWorkers
	q.idleWorkers = initialWorkers
	q.currentWorkersDebug.Store(int64(initialWorkers))
	q.idleWorkersDebug.Store(int64(initialWorkers))
	workers := make([]*worker, 0, initialWorkers)
	for i := 0; i < initialWorkers; i++ {
		w := newWorker(p.nextWorkerID.Add(1))
		q.insertWorkerLocked(w)
		workers = append(workers, w)
	}
	q.mu.Unlock()

	for _, w := range workers {
		go w.run(q, mode, initialWorkers, idleLimit)
	}

	slog.Default().Debug("pool: started",
		slog.Int("initial_workers", initialWorkers),
		slog.String("mode", modeName(mode)),
	)
	return nil
}

// Submit hands task to the pool. It binds a fresh Result Channel, waits up
// to the configured submit timeout for queue capacity, and — in Cached
// mode — may spawn a worker to absorb backlog (spec §4.F).
func (p *Pool) Submit(task *Task) (*ResultHandle, error) {
	p.mu.Lock()
	started := p.started
	mode := p.mode
	initialWorkers := p.initialWorkers
	maxWorkers := p.maxWorkers
	idleLimit := p.idleLimit
	submitTimeout := p.submitTimeout
	q := p.q
	p.mu.Unlock()

	if !started {
		return nil, ErrNotRunning
	}

	q.mu.Lock()
	running := q.running
	q.mu.Unlock()
	if !running {
		return nil, ErrNotRunning
	}

	result := newResultHandle(task, true)
	task.submittedAt = time.Now()

	if !q.tryEnqueue(task, submitTimeout) {
		q.obs.overflowed()
		return newResultHandle(task, false), nil
	}
	q.obs.submitted()

	if mode == Cached {
		p.maybeGrow(q, mode, initialWorkers, maxWorkers, idleLimit)
	}

	return result, nil
}

// maybeGrow spawns one worker if the backlog exceeds the idle worker
// count and the pool has room under maxWorkers (spec §4.F step 3). The
// decision and the registry/count mutation happen under the same lock the
// enqueue used, so the snapshot it acts on is never stale.
func (p *Pool) maybeGrow(q *boundedQueue, mode Mode, initialWorkers, maxWorkers int, idleLimit time.Duration) {
	q.mu.Lock()
	pending := len(q.items)
	grow := pending > q.idleWorkers && q.currentWorkers < maxWorkers
	var w *worker
	if grow {
		w = newWorker(p.nextWorkerID.Add(1))
		q.insertWorkerLocked(w)
		q.currentWorkers++
		q.idleWorkers++
		q.currentWorkersDebug.Store(int64(q.currentWorkers))
		q.idleWorkersDebug.Store(int64(q.idleWorkers))
	}
	q.mu.Unlock()

	if grow {
		q.obs.workerSpawned()
		slog.Default().Debug("pool: spawned worker for backlog", slog.Uint64("worker_id", w.id))
		go w.run(q, mode, initialWorkers, idleLimit)
	}
}

// Shutdown runs the graceful-shutdown protocol (spec §4.F): it flips
// running to false and wakes every idle worker under the same lock (so no
// worker can miss the transition between reading running and entering its
// wait), then blocks until the Worker Registry drains. Queued-but-not-yet-
// dequeued tasks still run to completion — workers only check running
// when the queue is empty (the drain policy, spec §9).
func (p *Pool) Shutdown() {
	p.mu.Lock()
	q := p.q
	started := p.started
	p.mu.Unlock()

	if !started {
		return
	}

	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.notEmpty.broadcast()

	for q.registrySizeLocked() > 0 {
		ch := q.drained.watch()
		q.mu.Unlock()
		waitTimeout(ch, 0)
		q.mu.Lock()
	}
	q.mu.Unlock()

	slog.Default().Debug("pool: shutdown complete")
}

// CurrentWorkers reports the live worker count, read without the queue
// mutex (spec §5: debug/metrics counters only).
func (p *Pool) CurrentWorkers() int {
	if p.q == nil {
		return 0
	}
	return int(p.q.currentWorkersDebug.Load())
}

// IdleWorkers reports the idle worker count, read without the queue mutex.
func (p *Pool) IdleWorkers() int {
	if p.q == nil {
		return 0
	}
	return int(p.q.idleWorkersDebug.Load())
}

// QueueLen reports the current queue length, read without the queue mutex.
func (p *Pool) QueueLen() int {
	if p.q == nil {
		return 0
	}
	return int(p.q.queueLenDebug.Load())
}

func modeName(m Mode) string {
	if m == Cached {
		return "cached"
	}
	return "fixed"
}
