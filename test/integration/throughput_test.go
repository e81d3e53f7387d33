// ============================================================================
// Worker Pool Throughput Test Suite
// ============================================================================
//
// Package: test/integration
// File: throughput_test.go
// Functionality: System-level throughput benchmark and load test.
//
// Test Environment:
//   - 8 fixed workers
//   - simulated task execution latency: 1-4ms
//
// TestSystemThroughput:
//   submit 2000 tasks against an 8-worker fixed pool, wait for all results,
//   and verify a minimum throughput floor.
//
// ============================================================================

package integration

import (
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ChuLiYu/workerpool/pkg/pool"
	"github.com/stretchr/testify/require"
)

func BenchmarkThroughput(b *testing.B) {
	p := pool.New()
	require.NoError(b, p.Start(8))
	defer p.Shutdown()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := p.Submit(pool.NewTask(func() pool.Value {
			return pool.Int64Value(1)
		}))
		require.NoError(b, err)
		h.Get()
	}
	b.StopTimer()
}

func TestSystemThroughput(t *testing.T) {
	if testing.Short() {
		t.Skip("throughput test skipped in -short mode")
	}

	p := pool.New()
	p.SetMode(pool.Fixed)
	require.NoError(t, p.Start(8))
	defer p.Shutdown()

	const taskCount = 2000
	var completed atomic.Int64

	start := time.Now()
	handles := make([]*pool.ResultHandle, taskCount)
	for i := 0; i < taskCount; i++ {
		handles[i], _ = p.Submit(pool.NewTask(func() pool.Value {
			time.Sleep(time.Duration(1+rand.Intn(4)) * time.Millisecond)
			completed.Add(1)
			return pool.BoolValue(true)
		}))
	}

	for _, h := range handles {
		h.Get()
	}
	elapsed := time.Since(start)

	require.Equal(t, int64(taskCount), completed.Load())

	throughput := float64(taskCount) / elapsed.Seconds()
	t.Logf("throughput: %.1f tasks/sec over %s", throughput, elapsed)
	require.GreaterOrEqual(t, throughput, 50.0, "throughput fell below the floor")
}

func TestConcurrentLoadAcrossCachedPool(t *testing.T) {
	if testing.Short() {
		t.Skip("load test skipped in -short mode")
	}

	p := pool.New()
	p.SetMode(pool.Cached)
	require.NoError(t, p.SetMaxWorkers(16))
	require.NoError(t, p.Start(4))
	defer p.Shutdown()

	const taskCount = 500
	handles := make([]*pool.ResultHandle, taskCount)
	for i := 0; i < taskCount; i++ {
		handles[i], _ = p.Submit(pool.NewTask(func() pool.Value {
			time.Sleep(5 * time.Millisecond)
			return pool.Int64Value(1)
		}))
	}

	var sum int64
	for _, h := range handles {
		if h == nil || !h.Valid() {
			continue
		}
		n, err := h.Get().Int64()
		require.NoError(t, err)
		sum += n
	}
	require.Greater(t, sum, int64(0))
}
