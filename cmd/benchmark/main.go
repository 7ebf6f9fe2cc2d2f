// Command benchmark drives a zdb.Engine through the standard
// read/write workloads and prints throughput, latency, and
// amplification figures.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/kraytos17/zdb/common/benchmark"
	"github.com/kraytos17/zdb/zdb"
)

func main() {
	quick := pflag.Bool("quick", false, "run the shorter workload set")
	workload := pflag.String("workload", "all", "workload to run (all, or one of the workload names)")
	duration := pflag.Duration("duration", 60*time.Second, "duration for each benchmark")
	pflag.Parse()

	fmt.Println("zdb Benchmark")
	fmt.Println("=============")
	fmt.Printf("Duration: %v\n", *duration)
	fmt.Println("Concurrency: 1 (zdb has no internal locking)")
	fmt.Println()

	var configs []benchmark.Config
	if *quick {
		configs = benchmark.QuickWorkloads()
	} else {
		configs = benchmark.StandardWorkloads()
	}

	if pflag.Lookup("duration").Changed {
		for i := range configs {
			configs[i].Duration = *duration
		}
	}

	if *workload != "all" {
		filtered := configs[:0]
		for _, c := range configs {
			if c.Name == *workload {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			fmt.Printf("unknown workload: %s\n", *workload)
			os.Exit(1)
		}
		configs = filtered
	}

	dir, err := os.MkdirTemp("", "zdb-benchmark-*")
	if err != nil {
		fmt.Printf("failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	eng, err := zdb.NewEngine(dir, filepath.Join(dir, "bench.db"))
	if err != nil {
		fmt.Printf("failed to open engine: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	results := make([]*benchmark.Result, 0, len(configs))
	for _, config := range configs {
		fmt.Printf("\n=== Running: %s ===\n", config.Name)

		bench := benchmark.NewBenchmark(eng, config)
		result, err := bench.Run()
		if err != nil {
			fmt.Printf("benchmark failed: %v\n", err)
			continue
		}

		results = append(results, result)
		printResult(result)
	}

	printSummaryTable(results)
}

func printResult(r *benchmark.Result) {
	fmt.Printf("\n--- Results ---\n")
	fmt.Printf("Throughput: %.0f ops/sec\n", r.OpsPerSec)
	fmt.Printf("Total Ops: %d (writes: %d, reads: %d)\n", r.TotalOps, r.WriteOps, r.ReadOps)

	if r.WriteOps > 0 {
		fmt.Printf("\nWrite Latency:\n")
		fmt.Printf("  Min:  %8s\n", r.WriteLatency.Min)
		fmt.Printf("  Mean: %8s\n", r.WriteLatency.Mean)
		fmt.Printf("  P50:  %8s\n", r.WriteLatency.P50)
		fmt.Printf("  P95:  %8s\n", r.WriteLatency.P95)
		fmt.Printf("  P99:  %8s\n", r.WriteLatency.P99)
		fmt.Printf("  P999: %8s\n", r.WriteLatency.P999)
		fmt.Printf("  Max:  %8s\n", r.WriteLatency.Max)
	}
	if r.ReadOps > 0 {
		fmt.Printf("\nRead Latency:\n")
		fmt.Printf("  Min:  %8s\n", r.ReadLatency.Min)
		fmt.Printf("  Mean: %8s\n", r.ReadLatency.Mean)
		fmt.Printf("  P50:  %8s\n", r.ReadLatency.P50)
		fmt.Printf("  P95:  %8s\n", r.ReadLatency.P95)
		fmt.Printf("  P99:  %8s\n", r.ReadLatency.P99)
		fmt.Printf("  P999: %8s\n", r.ReadLatency.P999)
		fmt.Printf("  Max:  %8s\n", r.ReadLatency.Max)
	}

	fmt.Printf("\nAmplification:\n")
	fmt.Printf("  Write: %.2fx\n", r.WriteAmplification)
	fmt.Printf("  Space: %.2fx\n", r.SpaceAmplification)
	fmt.Printf("\nDisk Usage: %.1f MB\n", r.TotalDiskMB)
}

func printSummaryTable(results []*benchmark.Result) {
	if len(results) == 0 {
		return
	}

	fmt.Println("\n================================================================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("================================================================================")

	fmt.Printf("\n%-25s %12s %12s %12s %12s\n", "Workload", "Throughput", "Write P99", "Read P99", "Write Amp")
	fmt.Println("--------------------------------------------------------------------------------")

	for _, r := range results {
		writeP99 := "N/A"
		if r.WriteOps > 0 {
			writeP99 = r.WriteLatency.P99.String()
		}
		readP99 := "N/A"
		if r.ReadOps > 0 {
			readP99 = r.ReadLatency.P99.String()
		}

		fmt.Printf("%-25s %10.0f/s %12s %12s %11.2fx\n",
			r.Config.Name, r.OpsPerSec, writeP99, readP99, r.WriteAmplification)
	}
}
