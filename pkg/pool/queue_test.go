package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedQueueFIFOOrder(t *testing.T) {
	q := newBoundedQueue(4)
	q.running = true

	tasks := make([]*Task, 3)
	for i := 0; i < 3; i++ {
		task := NewTask(func() Value { return Int64Value(0) })
		tasks[i] = task
		require.True(t, q.tryEnqueue(task, time.Second))
	}
	assert.Equal(t, 3, q.len())

	w := newWorker(1)
	first, outcome := q.dequeueBlocking(Fixed, 1, 0, w)
	require.Equal(t, dequeueGotTask, outcome)
	require.NotNil(t, first)
	assert.Same(t, tasks[0], first)
	assert.Equal(t, 2, q.len())
}

func TestBoundedQueueCapacityEnforced(t *testing.T) {
	q := newBoundedQueue(1)
	q.running = true

	require.True(t, q.tryEnqueue(NewTask(func() Value { return Value{} }), time.Second))

	start := time.Now()
	ok := q.tryEnqueue(NewTask(func() Value { return Value{} }), 100*time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
}

func TestBoundedQueueUnblocksOnCapacityFree(t *testing.T) {
	q := newBoundedQueue(1)
	q.running = true
	require.True(t, q.tryEnqueue(NewTask(func() Value { return Value{} }), time.Second))

	done := make(chan bool, 1)
	go func() {
		done <- q.tryEnqueue(NewTask(func() Value { return Value{} }), time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	w := newWorker(1)
	_, outcome := q.dequeueBlocking(Fixed, 1, 0, w)
	require.Equal(t, dequeueGotTask, outcome)

	select {
	case ok := <-done:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("tryEnqueue should have unblocked after capacity freed")
	}
}

func TestBoundedQueueDequeueShutdown(t *testing.T) {
	q := newBoundedQueue(4)
	q.running = true
	q.insertWorkerLocked(newWorker(1))

	w := newWorker(1)
	done := make(chan dequeueOutcome, 1)
	go func() {
		_, outcome := q.dequeueBlocking(Fixed, 1, 0, w)
		done <- outcome
	}()

	time.Sleep(20 * time.Millisecond)
	q.mu.Lock()
	q.running = false
	q.notEmpty.broadcast()
	q.mu.Unlock()

	select {
	case outcome := <-done:
		assert.Equal(t, dequeueShutdown, outcome)
	case <-time.After(time.Second):
		t.Fatal("dequeueBlocking should observe shutdown")
	}
	assert.Equal(t, 0, q.registrySizeLocked())
}

func TestBoundedQueueIdleRetireCachedMode(t *testing.T) {
	q := newBoundedQueue(4)
	q.running = true
	q.currentWorkers = 2
	q.idleWorkers = 2

	w := newWorker(1)
	w.lastActive = time.Now().Add(-2 * time.Second)
	q.insertWorkerLocked(w)

	// A second worker keeps currentWorkers above initialWorkers so the
	// idle one is a genuine surplus.
	q.insertWorkerLocked(newWorker(2))

	_, outcome := q.dequeueBlocking(Cached, 1, 500*time.Millisecond, w)
	assert.Equal(t, dequeueRetire, outcome)
	assert.Equal(t, 1, q.currentWorkers)
	assert.Equal(t, 1, q.idleWorkers)
}

func TestBoundedQueueNoRetireAtInitialWorkers(t *testing.T) {
	q := newBoundedQueue(4)
	q.running = true
	q.currentWorkers = 1
	q.idleWorkers = 1

	w := newWorker(1)
	w.lastActive = time.Now().Add(-2 * time.Second)
	q.insertWorkerLocked(w)

	task := NewTask(func() Value { return Int64Value(1) })
	go func() {
		time.Sleep(1200 * time.Millisecond)
		q.tryEnqueue(task, time.Second)
	}()

	got, outcome := q.dequeueBlocking(Cached, 1, 500*time.Millisecond, w)
	assert.Equal(t, dequeueGotTask, outcome)
	assert.Same(t, task, got)
	assert.Equal(t, 1, q.currentWorkers)
}
