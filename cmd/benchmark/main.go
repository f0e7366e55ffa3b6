// Command benchmark runs the package benchmarks and collects their output
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	suiteName  = flag.String("suite", "all", "Benchmark suite to run (engine, formats, runtime, all)")
	outputDir  = flag.String("output", "benchmark-results", "Output directory for results")
	iterations = flag.Int("count", 3, "Number of iterations")
	benchtime  = flag.Duration("benchtime", time.Second, "Time per benchmark")
	verbose    = flag.Bool("v", false, "Verbose output")
)

// suites maps a suite name to the packages whose benchmarks it runs.
var suites = map[string][]string{
	"engine":  {"./pkg/table"},
	"formats": {"./pkg/csvio", "./pkg/jsonio", "./pkg/arrowio"},
	"runtime": {"./pkg/compression", "./pkg/json", "./pkg/strings"},
}

var suiteOrder = []string{"engine", "formats", "runtime"}

func main() {
	flag.Parse()

	packages, err := suitePackages(*suiteName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	timestamp := time.Now().Format("20060102-150405")
	outputFile := filepath.Join(*outputDir, fmt.Sprintf("%s_%s.txt", *suiteName, timestamp))

	for _, pkg := range packages {
		fmt.Printf("Running benchmarks in %s...\n", pkg)

		args := []string{
			"test",
			"-run", "^$",
			"-bench", ".",
			"-benchmem",
			"-benchtime", benchtime.String(),
			"-count", strconv.Itoa(*iterations),
			pkg,
		}
		if *verbose {
			args = append(args, "-v")
		}

		cmd := exec.Command("go", args...) //nolint:gosec // Package paths come from the fixed suite table
		output, err := cmd.CombinedOutput()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Benchmark failed: %v\n", err)
			fmt.Fprintf(os.Stderr, "Output: %s\n", output)
			continue
		}

		if err := appendResult(outputFile, pkg, output); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		printBenchmarkSummary(string(output))
	}

	fmt.Printf("\nBenchmark results saved to: %s\n", outputFile)
}

func suitePackages(name string) ([]string, error) {
	if name == "all" {
		var packages []string
		for _, s := range suiteOrder {
			packages = append(packages, suites[s]...)
		}
		return packages, nil
	}
	packages, ok := suites[name]
	if !ok {
		return nil, fmt.Errorf("unknown suite %q, pick one of engine, formats, runtime, all", name)
	}
	return packages, nil
}

func appendResult(path, pkg string, output []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\n=== %s ===\n", pkg); err != nil {
		return fmt.Errorf("failed to write benchmark header: %w", err)
	}
	if _, err := f.Write(output); err != nil {
		return fmt.Errorf("failed to write benchmark output: %w", err)
	}
	return f.Close()
}

func printBenchmarkSummary(output string) {
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "ns/op") ||
			strings.Contains(line, "FAIL") ||
			strings.HasPrefix(line, "ok ") {
			fmt.Println("  ", strings.TrimSpace(line))
		}
	}
}
