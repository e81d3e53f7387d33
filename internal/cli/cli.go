// ============================================================================
// Worker Pool - Command Line Interface
// ============================================================================
//
// Package: internal/cli
// File: cli.go
// Purpose: Cobra-based CLI for the poolctl embedding program.
//
// Command Structure:
//   poolctl                      # Root command
//   ├── run                      # Start a pool and block until signaled
//   │   └── --config, -c         # Specify config file
//   ├── submit                   # Submit a batch of synthetic tasks
//   │   ├── --config, -c
//   │   └── --file, -f           # JSON file of task specs
//   └── status                   # Print the resolved configuration
//
// poolctl is a demonstration host for pkg/pool: each invocation owns its
// own in-process Pool. There is no daemon or network protocol between
// commands; "run" and "submit" each start and tear down their own pool.
//
// ============================================================================

package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChuLiYu/workerpool/internal/config"
	"github.com/ChuLiYu/workerpool/internal/metrics"
	"github.com/ChuLiYu/workerpool/pkg/pool"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var configFile string

// BuildCLI assembles the poolctl root command and its subcommands.
func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "poolctl",
		Short:   "poolctl: a worker pool embedding program",
		Long:    "poolctl starts and exercises a bounded-queue worker pool (fixed or cached mode).",
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "configs/default.yaml", "config file path")

	rootCmd.AddCommand(buildRunCommand())
	rootCmd.AddCommand(buildSubmitCommand())
	rootCmd.AddCommand(buildStatusCommand())

	return rootCmd
}

func buildRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start a pool and block until SIGINT/SIGTERM",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPool()
		},
	}
	return cmd
}

func runPool() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	p := newPoolFromConfig(cfg)

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = attachObserver(p)
	}

	if err := p.Start(cfg.Pool.InitialWorkers); err != nil {
		return fmt.Errorf("failed to start pool: %w", err)
	}

	if collector != nil {
		go func() {
			slog.Info("starting metrics server", slog.Int("port", cfg.Metrics.Port))
			if err := metrics.StartServer(cfg.Metrics.Port); err != nil {
				slog.Error("metrics server stopped", slog.Any("error", err))
			}
		}()
		stop := pollStats(p, collector)
		defer stop()
	}

	slog.Info("pool started", slog.String("mode", cfg.Pool.Mode), slog.Int("initial_workers", cfg.Pool.InitialWorkers))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("received shutdown signal, draining")
	p.Shutdown()
	slog.Info("pool stopped")
	return nil
}

// attachObserver wires a fresh metrics collector to p's lifecycle events.
// Must be called before p.Start: Pool.SetObserver is a no-op afterwards.
func attachObserver(p *pool.Pool) *metrics.Collector {
	collector := metrics.NewCollector()
	p.SetObserver(pool.Observer{
		OnSubmitted:     collector.RecordSubmitted,
		OnCompleted:     func(latency time.Duration) { collector.RecordCompleted(latency.Seconds()) },
		OnOverflowed:    collector.RecordOverflowed,
		OnWorkerSpawned: collector.RecordWorkerSpawned,
		OnWorkerRetired: collector.RecordWorkerRetired,
	})
	return collector
}

// pollStats periodically pushes the pool's debug counters into the metrics
// collector. It returns a stop function that halts the polling goroutine.
func pollStats(p *pool.Pool, collector *metrics.Collector) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				collector.UpdatePoolStats(p.CurrentWorkers(), p.IdleWorkers(), p.QueueLen())
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

type taskSpec struct {
	Op   string `json:"op"`
	A    int64  `json:"a,omitempty"`
	B    int64  `json:"b,omitempty"`
	Ms   int    `json:"ms,omitempty"`
	Text string `json:"text,omitempty"`
}

func buildSubmitCommand() *cobra.Command {
	var taskFile string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a batch of synthetic tasks from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if taskFile == "" {
				return fmt.Errorf("task file is required (use --file or -f)")
			}
			return submitBatch(taskFile)
		},
	}

	cmd.Flags().StringVarP(&taskFile, "file", "f", "", "JSON file containing task specs")
	cmd.MarkFlagRequired("file")

	return cmd
}

func submitBatch(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read task file: %w", err)
	}

	var specs []taskSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return fmt.Errorf("failed to parse task file: %w", err)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	batchID := uuid.NewString()
	p := newPoolFromConfig(cfg)
	if err := p.Start(cfg.Pool.InitialWorkers); err != nil {
		return fmt.Errorf("failed to start pool: %w", err)
	}
	defer p.Shutdown()

	slog.Info("submitting batch", slog.String("batch_id", batchID), slog.Int("count", len(specs)))

	handles := make([]*pool.ResultHandle, len(specs))
	for i, spec := range specs {
		spec := spec
		h, err := p.Submit(pool.NewTask(func() pool.Value { return runTaskSpec(spec) }))
		if err != nil {
			return fmt.Errorf("failed to submit task %d: %w", i, err)
		}
		handles[i] = h
	}

	for i, h := range handles {
		v := h.Get()
		if !h.Valid() {
			fmt.Printf("task %d: rejected (pool at capacity)\n", i)
			continue
		}
		fmt.Printf("task %d: %s\n", i, describeValue(v))
	}

	return nil
}

func runTaskSpec(spec taskSpec) pool.Value {
	switch spec.Op {
	case "sum":
		return pool.Int64Value(spec.A + spec.B)
	case "sleep":
		time.Sleep(time.Duration(spec.Ms) * time.Millisecond)
		return pool.BoolValue(true)
	case "echo":
		return pool.StringValue(spec.Text)
	default:
		return pool.Value{}
	}
}

func describeValue(v pool.Value) string {
	switch v.Kind() {
	case pool.KindInt64:
		n, _ := v.Int64()
		return fmt.Sprintf("int64(%d)", n)
	case pool.KindString:
		s, _ := v.String()
		return fmt.Sprintf("string(%q)", s)
	case pool.KindBool:
		b, _ := v.Bool()
		return fmt.Sprintf("bool(%v)", b)
	default:
		return "invalid"
	}
}

func buildStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStatus()
		},
	}
	return cmd
}

func showStatus() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("poolctl configuration")
	fmt.Printf("  config file:      %s\n", configFile)
	fmt.Printf("  mode:             %s\n", cfg.Pool.Mode)
	fmt.Printf("  initial workers:  %d\n", cfg.Pool.InitialWorkers)
	fmt.Printf("  max workers:      %d\n", cfg.Pool.MaxWorkers)
	fmt.Printf("  queue capacity:   %d\n", cfg.Pool.QueueCapacity)
	fmt.Printf("  idle limit:       %s\n", cfg.Pool.IdleLimit)
	fmt.Printf("  submit timeout:   %s\n", cfg.Pool.SubmitTimeout)
	fmt.Println()
	if cfg.Metrics.Enabled {
		fmt.Printf("  metrics:          enabled on :%d/metrics\n", cfg.Metrics.Port)
	} else {
		fmt.Println("  metrics:          disabled")
	}
	return nil
}

func newPoolFromConfig(cfg *config.Config) *pool.Pool {
	p := pool.New()
	if cfg.Pool.Mode == "cached" {
		p.SetMode(pool.Cached)
	} else {
		p.SetMode(pool.Fixed)
	}
	if err := p.SetQueueCapacity(cfg.Pool.QueueCapacity); err != nil {
		slog.Warn("ignoring invalid queue_capacity", slog.Any("error", err))
	}
	if err := p.SetMaxWorkers(cfg.Pool.MaxWorkers); err != nil {
		slog.Warn("ignoring invalid max_workers", slog.Any("error", err))
	}
	if err := p.SetIdleLimit(cfg.Pool.IdleLimit); err != nil {
		slog.Warn("ignoring invalid idle_limit", slog.Any("error", err))
	}
	if err := p.SetSubmitTimeout(cfg.Pool.SubmitTimeout); err != nil {
		slog.Warn("ignoring invalid submit_timeout", slog.Any("error", err))
	}
	return p
}
