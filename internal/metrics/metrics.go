// ============================================================================
// Worker Pool - Prometheus Metrics
// ============================================================================
//
// Package: internal/metrics
// Purpose: Collect and expose pool metrics for Prometheus monitoring.
//
// Metric Categories:
//
//   1. Task Counters - Cumulative, monotonically increasing:
//      - pool_tasks_submitted_total: Total tasks accepted into the queue
//      - pool_tasks_completed_total: Total tasks that finished executing
//      - pool_tasks_overflowed_total: Total submissions rejected by back-pressure
//      - pool_worker_spawned_total: Total cached-mode worker spawns
//      - pool_worker_retired_total: Total cached-mode worker retirements
//
//   2. Performance Metrics (Histogram):
//      - pool_task_latency_seconds: Task latency from submit to completion
//        (queue wait plus execution)
//
//   3. Status Metrics (Gauge) - Instantaneous values:
//      - pool_current_workers: Current live worker count
//      - pool_idle_workers: Current idle worker count
//      - pool_queue_length: Current queued task count
//
// HTTP Endpoint:
//   Exposed via /metrics, scraped by Prometheus.
//
// ============================================================================

package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector collects Prometheus metrics for a worker pool.
type Collector struct {
	tasksSubmitted  prometheus.Counter
	tasksCompleted  prometheus.Counter
	tasksOverflowed prometheus.Counter
	workerSpawned   prometheus.Counter
	workerRetired   prometheus.Counter

	taskLatency prometheus.Histogram

	currentWorkers prometheus.Gauge
	idleWorkers    prometheus.Gauge
	queueLength    prometheus.Gauge
}

// NewCollector creates and registers a new metrics collector.
func NewCollector() *Collector {
	c := &Collector{
		tasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_tasks_submitted_total",
			Help: "Total number of tasks accepted into the queue",
		}),
		tasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_tasks_completed_total",
			Help: "Total number of tasks that finished executing",
		}),
		tasksOverflowed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_tasks_overflowed_total",
			Help: "Total number of submissions rejected by back-pressure",
		}),
		workerSpawned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_worker_spawned_total",
			Help: "Total number of cached-mode worker spawns",
		}),
		workerRetired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pool_worker_retired_total",
			Help: "Total number of cached-mode worker retirements",
		}),
		taskLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pool_task_latency_seconds",
			Help:    "Task latency from submit to completion in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		currentWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pool_current_workers",
			Help: "Current number of live workers",
		}),
		idleWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pool_idle_workers",
			Help: "Current number of idle workers",
		}),
		queueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pool_queue_length",
			Help: "Current number of queued tasks",
		}),
	}

	prometheus.MustRegister(
		c.tasksSubmitted,
		c.tasksCompleted,
		c.tasksOverflowed,
		c.workerSpawned,
		c.workerRetired,
		c.taskLatency,
		c.currentWorkers,
		c.idleWorkers,
		c.queueLength,
	)

	return c
}

// RecordSubmitted records a task accepted into the queue.
func (c *Collector) RecordSubmitted() {
	c.tasksSubmitted.Inc()
}

// RecordCompleted records a task completion with its latency in seconds.
func (c *Collector) RecordCompleted(latencySeconds float64) {
	c.tasksCompleted.Inc()
	c.taskLatency.Observe(latencySeconds)
}

// RecordOverflowed records a submission rejected by back-pressure.
func (c *Collector) RecordOverflowed() {
	c.tasksOverflowed.Inc()
}

// RecordWorkerSpawned records a cached-mode worker spawn.
func (c *Collector) RecordWorkerSpawned() {
	c.workerSpawned.Inc()
}

// RecordWorkerRetired records a cached-mode worker retirement.
func (c *Collector) RecordWorkerRetired() {
	c.workerRetired.Inc()
}

// UpdatePoolStats updates the instantaneous gauges from the pool's debug
// counters (spec §5: read without the pool mutex).
func (c *Collector) UpdatePoolStats(currentWorkers, idleWorkers, queueLength int) {
	c.currentWorkers.Set(float64(currentWorkers))
	c.idleWorkers.Set(float64(idleWorkers))
	c.queueLength.Set(float64(queueLength))
}

// StartServer starts the Prometheus metrics HTTP server on port. It blocks
// until the server exits.
func StartServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, mux)
}
