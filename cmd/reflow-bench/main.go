// Command reflow-bench exercises the reactive engine under synthetic
// workloads and emits a JSON report suitable for regression tracking.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/reflow-dev/reflow/pkg/reactive"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

type benchConfig struct {
	Ops        int
	Watchers   int
	Fields     int
	Depth      int
	JSONOutput string
}

func main() {
	var cfg benchConfig

	rootCmd := &cobra.Command{
		Use:   "reflow-bench",
		Short: "Benchmark the Reflow reactive engine",
		Long: `reflow-bench drives the reactive engine with synthetic workloads:

  signal   single value, fan-out to N effects
  store    record container, batched multi-field writes
  chain    derived-value chain of configurable depth

Each run prints a human summary to stderr and a JSON report to stdout
(or --json PATH).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().IntVar(&cfg.Ops, "ops", 100_000, "number of write operations")
	rootCmd.PersistentFlags().StringVar(&cfg.JSONOutput, "json", "-", "JSON output path ('-' for stdout)")

	signalCmd := &cobra.Command{
		Use:   "signal",
		Short: "Benchmark signal writes fanning out to effects",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			if cfg.Watchers < 1 {
				return errors.New("--watchers must be > 0")
			}
			return runBench(cfg, "signal", benchSignal)
		},
	}
	signalCmd.Flags().IntVar(&cfg.Watchers, "watchers", 10, "number of effects subscribed to the signal")

	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Benchmark batched writes across store fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			if cfg.Fields < 1 {
				return errors.New("--fields must be > 0")
			}
			return runBench(cfg, "store", benchStore)
		},
	}
	storeCmd.Flags().IntVar(&cfg.Fields, "fields", 20, "number of fields written per batch")

	chainCmd := &cobra.Command{
		Use:   "chain",
		Short: "Benchmark a derived-value chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			if cfg.Depth < 1 {
				return errors.New("--depth must be > 0")
			}
			return runBench(cfg, "chain", benchChain)
		},
	}
	chainCmd.Flags().IntVar(&cfg.Depth, "depth", 10, "length of the derived-value chain")

	rootCmd.AddCommand(signalCmd, storeCmd, chainCmd, versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reflow-bench %s (%s)\n", version, commit)
		},
	}
}

func (c benchConfig) validate() error {
	if c.Ops <= 0 {
		return errors.New("--ops must be > 0")
	}
	if c.JSONOutput == "" {
		return errors.New("--json must not be empty")
	}
	return nil
}

// benchResult is what a workload reports back: how many effect executions
// it expected and how many the engine actually ran.
type benchResult struct {
	expectedRuns int64
	actualRuns   int64
}

func runBench(cfg benchConfig, workload string, fn func(benchConfig) benchResult) error {
	var before runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	start := time.Now()
	result := fn(cfg)
	elapsed := time.Since(start)

	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	report := buildReport(cfg, workload, elapsed, result, before, after)
	writeSummary(os.Stderr, report)
	return writeJSON(cfg.JSONOutput, report)
}

func benchSignal(cfg benchConfig) benchResult {
	owner := reactive.NewOwner(nil)
	defer owner.Dispose()

	sig := reactive.NewSignal(0)
	var runs int64

	owner.Run(func() {
		for i := 0; i < cfg.Watchers; i++ {
			reactive.CreateEffect(func() reactive.Cleanup {
				_ = sig.Get()
				runs++
				return nil
			})
		}
	})

	for i := 0; i < cfg.Ops; i++ {
		sig.Set(i + 1)
	}

	// Initial run plus one per write, per effect.
	expected := int64(cfg.Watchers) * int64(cfg.Ops+1)
	return benchResult{expectedRuns: expected, actualRuns: runs}
}

func benchStore(cfg benchConfig) benchResult {
	owner := reactive.NewOwner(nil)
	defer owner.Dispose()

	record := make(map[string]any, cfg.Fields)
	keys := make([]string, cfg.Fields)
	for i := range keys {
		keys[i] = fmt.Sprintf("field%d", i)
		record[keys[i]] = 0
	}
	store := reactive.NewStore(record)

	var runs int64
	owner.Run(func() {
		reactive.CreateEffect(func() reactive.Cleanup {
			for _, k := range keys {
				_ = store.Get(k)
			}
			runs++
			return nil
		})
	})

	batches := cfg.Ops / cfg.Fields
	if batches == 0 {
		batches = 1
	}
	for b := 0; b < batches; b++ {
		reactive.Batch(func() {
			for _, k := range keys {
				store.Set(k, b+1)
			}
		})
	}

	// One initial run, then one per batch regardless of field count.
	return benchResult{expectedRuns: int64(batches + 1), actualRuns: runs}
}

func benchChain(cfg benchConfig) benchResult {
	owner := reactive.NewOwner(nil)
	defer owner.Dispose()

	sig := reactive.NewSignal(0)

	read := func() int { return sig.Get() }
	for i := 0; i < cfg.Depth; i++ {
		prev := read
		memo := reactive.NewMemo(func() int { return prev() + 1 })
		read = memo.Get
	}

	var runs int64
	owner.Run(func() {
		reactive.CreateEffect(func() reactive.Cleanup {
			_ = read()
			runs++
			return nil
		})
	})

	for i := 0; i < cfg.Ops; i++ {
		sig.Set(i + 1)
	}

	return benchResult{expectedRuns: int64(cfg.Ops + 1), actualRuns: runs}
}

type benchReport struct {
	Version    string         `json:"version"`
	Run        runInfo        `json:"run"`
	Workload   workloadInfo   `json:"workload"`
	Throughput throughputInfo `json:"throughput"`
	GC         gcInfo         `json:"gc"`
}

type runInfo struct {
	Timestamp string `json:"timestamp"`
	Go        string `json:"go"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUCount  int    `json:"cpu_count"`
}

type workloadInfo struct {
	Name     string `json:"name"`
	Ops      int    `json:"ops"`
	Watchers int    `json:"watchers,omitempty"`
	Fields   int    `json:"fields,omitempty"`
	Depth    int    `json:"depth,omitempty"`
}

type throughputInfo struct {
	DurationMS    float64 `json:"duration_ms"`
	OpsPerSec     float64 `json:"ops_per_sec"`
	EffectRuns    int64   `json:"effect_runs"`
	ExpectedRuns  int64   `json:"expected_runs"`
	NsPerOp       float64 `json:"ns_per_op"`
	RunsPerSecond float64 `json:"runs_per_sec"`
}

type gcInfo struct {
	AllocMB      float64 `json:"alloc_mb"`
	HeapLiveMB   float64 `json:"heap_live_mb"`
	NumGC        uint32  `json:"num_gc"`
	PauseTotalMS float64 `json:"pause_total_ms"`
}

func buildReport(
	cfg benchConfig,
	workload string,
	elapsed time.Duration,
	result benchResult,
	before, after runtime.MemStats,
) benchReport {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		seconds = 0.000001
	}

	return benchReport{
		Version: "1",
		Run: runInfo{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Go:        runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPUCount:  runtime.NumCPU(),
		},
		Workload: workloadInfo{
			Name:     workload,
			Ops:      cfg.Ops,
			Watchers: cfg.Watchers,
			Fields:   cfg.Fields,
			Depth:    cfg.Depth,
		},
		Throughput: throughputInfo{
			DurationMS:    float64(elapsed) / float64(time.Millisecond),
			OpsPerSec:     float64(cfg.Ops) / seconds,
			EffectRuns:    result.actualRuns,
			ExpectedRuns:  result.expectedRuns,
			NsPerOp:       float64(elapsed.Nanoseconds()) / float64(cfg.Ops),
			RunsPerSecond: float64(result.actualRuns) / seconds,
		},
		GC: gcInfo{
			AllocMB:      float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024),
			HeapLiveMB:   float64(after.HeapAlloc) / (1024 * 1024),
			NumGC:        after.NumGC - before.NumGC,
			PauseTotalMS: float64(after.PauseTotalNs-before.PauseTotalNs) / float64(time.Millisecond),
		},
	}
}

func writeSummary(w io.Writer, report benchReport) {
	fmt.Fprintln(w, "=== Reflow Engine Benchmark ===")
	fmt.Fprintf(w, "Workload: %s\n", report.Workload.Name)
	fmt.Fprintf(w, "Ops: %d\n", report.Workload.Ops)
	if report.Workload.Watchers > 0 {
		fmt.Fprintf(w, "Watchers: %d\n", report.Workload.Watchers)
	}
	if report.Workload.Fields > 0 {
		fmt.Fprintf(w, "Fields: %d\n", report.Workload.Fields)
	}
	if report.Workload.Depth > 0 {
		fmt.Fprintf(w, "Depth: %d\n", report.Workload.Depth)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Duration: %.2f ms\n", report.Throughput.DurationMS)
	fmt.Fprintf(w, "Throughput: %.0f ops/s (%.1f ns/op)\n", report.Throughput.OpsPerSec, report.Throughput.NsPerOp)
	fmt.Fprintf(w, "Effect runs: %d (expected %d)\n", report.Throughput.EffectRuns, report.Throughput.ExpectedRuns)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Go runtime / GC (process-wide):")
	fmt.Fprintf(w, "  alloc:     %.2f MB\n", report.GC.AllocMB)
	fmt.Fprintf(w, "  heap_live: %.2f MB\n", report.GC.HeapLiveMB)
	fmt.Fprintf(w, "  num_gc:    %d\n", report.GC.NumGC)
	fmt.Fprintf(w, "  gc_pause:  %.2f ms (total)\n", report.GC.PauseTotalMS)
}

func writeJSON(path string, report benchReport) error {
	var out io.Writer
	if path == "-" {
		out = os.Stdout
	} else {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
