// Command profile runs a table-engine workload under pprof and reports
// process resource usage afterwards. The profiles it writes feed
// `go tool pprof`.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/datamesa/mesa/pkg/config"
	"github.com/datamesa/mesa/pkg/csvio"
	"github.com/datamesa/mesa/pkg/jsonio"
	"github.com/datamesa/mesa/pkg/row"
	"github.com/datamesa/mesa/pkg/table"
)

func main() {
	var (
		duration     = flag.Duration("duration", 30*time.Second, "Workload duration")
		outputDir    = flag.String("output", "./profiles", "Output directory for profiles")
		profileTypes = flag.String("types", "cpu,memory", "Profile types (cpu,memory,block,mutex,goroutine,all)")
		cpuFile      = flag.String("cpuprofile", "", "Write CPU profile to file")
		memFile      = flag.String("memprofile", "", "Write memory profile to file")
		tableRows    = flag.Int("rows", 10000, "Rows per workload table")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -types cpu -duration 30s\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -cpuprofile cpu.prof -rows 100000\n", os.Args[0])
	}

	flag.Parse()

	types := parseProfileTypes(*profileTypes)

	fmt.Printf("Profiling the table engine...\n")
	fmt.Printf("Duration: %v\n", *duration)
	fmt.Printf("Rows per table: %d\n", *tableRows)
	fmt.Printf("Profile types: %s\n", *profileTypes)
	fmt.Printf("Output directory: %s\n", *outputDir)

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	if *cpuFile != "" || contains(types, "cpu") {
		cpuProfileFile := *cpuFile
		if cpuProfileFile == "" {
			cpuProfileFile = fmt.Sprintf("%s/cpu.prof", *outputDir)
		}

		f, err := os.Create(cpuProfileFile)
		if err != nil {
			log.Fatalf("Failed to create CPU profile: %v", err)
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("Failed to start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()

		fmt.Printf("CPU profiling enabled, writing to: %s\n", cpuProfileFile)
	}

	proc, _ := process.NewProcess(int32(os.Getpid()))
	var startCPU float64
	if proc != nil {
		if cpuTime, err := proc.Times(); err == nil {
			startCPU = cpuTime.Total()
		}
	}
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	iterations, records := runTableWorkload(ctx, *tableRows)

	if *memFile != "" || contains(types, "memory") {
		memProfileFile := *memFile
		if memProfileFile == "" {
			memProfileFile = fmt.Sprintf("%s/mem.prof", *outputDir)
		}

		f, err := os.Create(memProfileFile)
		if err != nil {
			log.Fatalf("Failed to create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC() // Get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("Failed to write memory profile: %v", err)
		}

		fmt.Printf("Memory profile written to: %s\n", memProfileFile)
	}

	for _, profileType := range types {
		switch profileType {
		case "block":
			writeProfile("block", fmt.Sprintf("%s/block.prof", *outputDir))
		case "mutex":
			writeProfile("mutex", fmt.Sprintf("%s/mutex.prof", *outputDir))
		case "goroutine":
			writeProfile("goroutine", fmt.Sprintf("%s/goroutine.prof", *outputDir))
		}
	}

	resourceReport(start, startCPU, proc, iterations, records)
	fmt.Printf("Profiling completed successfully\n")
}

// runTableWorkload exercises the engine until the context expires: build
// a table, address it along both axes, mutate it, serialize it as CSV
// and JSON and parse it back.
func runTableWorkload(ctx context.Context, rows int) (iterations, records int64) {
	headers := []string{"id", "name", "value", "flag"}
	cfg := config.NewBaseConfig("profile")

	for {
		select {
		case <-ctx.Done():
			return iterations, records
		default:
		}

		t := buildTable(headers, rows)

		// Addressing along both axes.
		if _, err := t.Get(table.Index(rows / 2)); err != nil {
			log.Fatalf("row lookup failed: %v", err)
		}
		if _, err := t.WithMode(table.ModeColumn).Get(table.Name("value")); err != nil {
			log.Fatalf("column lookup failed: %v", err)
		}
		if _, err := t.Values(table.Span(0, rows/4)); err != nil {
			log.Fatalf("span read failed: %v", err)
		}

		// Mutation.
		if err := t.Set(table.Name("flag"), "y"); err != nil {
			log.Fatalf("column set failed: %v", err)
		}
		if _, err := t.Delete(table.Index(0)); err != nil {
			log.Fatalf("row delete failed: %v", err)
		}
		t.DeleteFunc(func(e table.Entry) bool {
			return e.Index%97 == 0
		})

		// Serialization round trips.
		var buf bytes.Buffer
		if err := csvio.NewWriter(&buf, cfg).WriteTable(t); err != nil {
			log.Fatalf("csv write failed: %v", err)
		}
		parsed, err := csvio.ReadString(ctx, buf.String(), cfg)
		if err != nil {
			// The deadline can land mid-parse; that is a normal shutdown.
			if ctx.Err() != nil {
				return iterations, records
			}
			log.Fatalf("csv parse failed: %v", err)
		}

		buf.Reset()
		if err := jsonio.NewWriter(&buf, cfg).WriteTable(parsed); err != nil {
			log.Fatalf("json write failed: %v", err)
		}

		iterations++
		records += int64(parsed.Len())
	}
}

func buildTable(headers []string, n int) *table.Table {
	rows := make([]row.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, row.NewRecord(headers, []row.Value{
			strconv.Itoa(i),
			"name_" + strconv.Itoa(i%1000),
			strconv.FormatFloat(float64(i)*1.5, 'f', 2, 64),
			"n",
		}))
	}
	return table.New(rows, headers)
}

// resourceReport prints workload throughput and process resource usage.
func resourceReport(start time.Time, startCPU float64, proc *process.Process, iterations, records int64) {
	elapsed := time.Since(start)

	fmt.Printf("\nWorkload summary:\n")
	fmt.Printf("  Iterations: %d\n", iterations)
	fmt.Printf("  Records processed: %d\n", records)
	fmt.Printf("  Throughput: %.0f records/sec\n", float64(records)/elapsed.Seconds())

	if proc == nil {
		return
	}
	if cpuTime, err := proc.Times(); err == nil {
		used := cpuTime.Total() - startCPU
		fmt.Printf("  CPU time: %.2fs (%.1f%% of wall clock)\n", used, used/elapsed.Seconds()*100)
	}
	if memInfo, err := proc.MemoryInfo(); err == nil {
		fmt.Printf("  Memory RSS: %d MB\n", memInfo.RSS/1024/1024)
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		fmt.Printf("  System memory used: %.1f%%\n", vmStat.UsedPercent)
	}
	if threads, err := proc.NumThreads(); err == nil {
		fmt.Printf("  Threads: %d\n", threads)
	}
	fmt.Printf("  Goroutines: %d\n", runtime.NumGoroutine())
}

// writeProfile writes a named runtime profile to file.
func writeProfile(profileName, filename string) {
	profile := pprof.Lookup(profileName)
	if profile == nil {
		fmt.Printf("Profile %s not found\n", profileName)
		return
	}

	f, err := os.Create(filename)
	if err != nil {
		log.Printf("Failed to create %s profile: %v", profileName, err)
		return
	}
	defer f.Close()

	if err := profile.WriteTo(f, 0); err != nil {
		log.Printf("Failed to write %s profile: %v", profileName, err)
		return
	}

	fmt.Printf("%s profile written to: %s\n", profileName, filename)
}

// parseProfileTypes parses the comma-separated profile type list.
func parseProfileTypes(typesStr string) []string {
	if typesStr == "all" {
		return []string{"cpu", "memory", "block", "mutex", "goroutine"}
	}

	parts := strings.Split(typesStr, ",")
	types := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "cpu", "memory", "mem", "block", "mutex", "goroutine":
			if part == "mem" {
				part = "memory"
			}
			types = append(types, part)
		}
	}

	return types
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
