// Package metrics provides performance tracking and observability for mesa
// using Prometheus metrics. It offers collectors for format I/O throughput,
// encode and decode latency, and compression effectiveness.
//
// # Overview
//
// The metrics package provides:
//   - Prometheus-compatible metrics collection
//   - Pre-defined metrics for table read and write paths
//   - Throughput and latency tracking utilities
//   - Thread-safe metric recording
//   - Automatic metric registration
//
// # Basic Usage
//
//	// Record rows read from a format
//	metrics.RowsRead.WithLabelValues("csv", "success").Add(float64(tbl.Len()))
//
//	// Track encode latency
//	timer := metrics.NewTimer("write_csv")
//	writeTable(tbl)
//	duration := timer.Stop()
//	metrics.EncodeLatency.WithLabelValues("write", "csv").Observe(float64(duration.Nanoseconds()))
//
//	// Track throughput
//	tracker := metrics.NewThroughputTracker("read", "csv")
//	for rec := range records {
//	    process(rec)
//	    tracker.Increment(1)
//	}
//	throughput := tracker.GetAndReset()
//
// # Metric Types
//
// Counter: Monotonically increasing values (e.g., total rows read)
// Gauge: Values that can go up or down (e.g., compression ratio)
// Histogram: Distribution of values (e.g., latency percentiles)
package metrics

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

var (
	// RowsRead tracks the total number of table rows decoded from input.
	// Labels: format (csv/jsonl/arrow/parquet), status (success/failure)
	//
	// Example:
	//	metrics.RowsRead.WithLabelValues("csv", "success").Add(1000)
	RowsRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mesa_rows_read_total",
			Help: "Total number of table rows read",
		},
		[]string{"format", "status"},
	)

	// RowsWritten tracks the total number of table rows encoded to output.
	// Labels: format (csv/jsonl/arrow/parquet), status (success/failure)
	RowsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mesa_rows_written_total",
			Help: "Total number of table rows written",
		},
		[]string{"format", "status"},
	)

	// BytesWritten tracks serialized output volume after compression.
	// Labels: format, compression (none/gzip/zstd/...)
	BytesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mesa_bytes_written_total",
			Help: "Total serialized bytes written",
		},
		[]string{"format", "compression"},
	)

	// EncodeLatency tracks the distribution of read and write latencies in
	// nanoseconds. The histogram buckets are optimized for sub-millisecond
	// latency tracking.
	// Labels: operation (read/write), format
	//
	// Example:
	//	start := time.Now()
	//	writeTable(tbl)
	//	metrics.EncodeLatency.WithLabelValues("write", "parquet").
	//	    Observe(float64(time.Since(start).Nanoseconds()))
	EncodeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "mesa_encode_latency_nanoseconds",
			Help: "Read and write latency in nanoseconds",
			Buckets: []float64{
				100,    // 100ns - Ultra-low latency operations
				1000,   // 1μs - Memory operations
				10000,  // 10μs - Fast I/O operations
				100000, // 100μs - Small files
				1e6,    // 1ms - Standard files
				1e7,    // 10ms - Large files
				1e8,    // 100ms - Very large files
				1e9,    // 1s - Bulk conversions
			},
		},
		[]string{"operation", "format"},
	)

	// CompressionRatio tracks compressed size as a fraction of original size.
	// Labels: algorithm
	CompressionRatio = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mesa_compression_ratio",
			Help: "Compressed size divided by original size",
		},
		[]string{"algorithm"},
	)

	// Throughput tracks rows per second per operation and format.
	Throughput = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mesa_throughput_rows_per_second",
			Help: "Current throughput in rows per second",
		},
		[]string{"operation", "format"},
	)

	// Errors tracks failures by package and error type.
	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mesa_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "type"},
	)
)

// Collector provides a centralized metrics collection interface for a
// component. It wraps the package-level Prometheus metrics with the
// component's format label pre-applied.
type Collector struct {
	component string
	startTime time.Time
}

// NewCollector creates a new metrics collector for a component.
// The name parameter identifies the component in metrics labels.
//
// Example:
//
//	collector := metrics.NewCollector("csv")
//	collector.RecordRead(int64(tbl.Len()), nil)
func NewCollector(component string) *Collector {
	return &Collector{
		component: component,
		startTime: time.Now(),
	}
}

// StartTime returns when the collector was created
func (c *Collector) StartTime() time.Time {
	return c.startTime
}

// RecordRead counts rows decoded by this component, labeled with the
// outcome of err.
func (c *Collector) RecordRead(rows int64, err error) {
	RowsRead.WithLabelValues(c.component, status(err)).Add(float64(rows))
	if err != nil {
		Errors.WithLabelValues(c.component, "read").Inc()
	}
}

// RecordWrite counts rows encoded by this component, labeled with the
// outcome of err.
func (c *Collector) RecordWrite(rows int64, err error) {
	RowsWritten.WithLabelValues(c.component, status(err)).Add(float64(rows))
	if err != nil {
		Errors.WithLabelValues(c.component, "write").Inc()
	}
}

// RecordBytes counts serialized output bytes for a compression algorithm.
func (c *Collector) RecordBytes(n int64, compression string) {
	BytesWritten.WithLabelValues(c.component, compression).Add(float64(n))
}

// ObserveLatency records the duration of a read or write operation.
func (c *Collector) ObserveLatency(operation string, d time.Duration) {
	EncodeLatency.WithLabelValues(operation, c.component).Observe(float64(d.Nanoseconds()))
}

// RecordCompression records the effectiveness of a compression pass.
func (c *Collector) RecordCompression(algorithm string, originalBytes, compressedBytes int) {
	if originalBytes <= 0 {
		return
	}
	CompressionRatio.WithLabelValues(algorithm).
		Set(float64(compressedBytes) / float64(originalBytes))
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs or metrics.
//
// Example:
//
//	timer := metrics.NewTimer("convert")
//	convert(input, output)
//	duration := timer.Stop()
//	logger.Info("conversion finished", zap.Duration("duration", duration))
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop stops the timer and returns the elapsed duration since creation.
// The timer can be stopped multiple times, each returning the total
// elapsed time since creation.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker tracks throughput (rows per second) over time windows.
// It automatically updates the Throughput gauge when queried.
// Thread-safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64     // Rows processed since last reset
	lastReset time.Time // Time of last reset
	operation string    // read or write
	format    string    // Format name
}

// NewThroughputTracker creates a new throughput tracker for an operation.
// The operation and format parameters are used as metric labels.
//
// Example:
//
//	tracker := metrics.NewThroughputTracker("read", "csv")
//	for rec := range records {
//	    process(rec)
//	    tracker.Increment(1)
//	}
//	throughput := tracker.GetAndReset()
//	logger.Info("throughput", zap.Float64("rows_per_sec", throughput))
func NewThroughputTracker(operation, format string) *ThroughputTracker {
	return &ThroughputTracker{
		lastReset: time.Now(),
		operation: operation,
		format:    format,
	}
}

// Increment adds n to the row count. Safe for concurrent use.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset calculates the current throughput (rows/second),
// updates the Prometheus metric, resets the counter, and returns
// the calculated throughput. Safe for concurrent use.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}

	throughput := float64(t.count) / elapsed

	// Reset for next period
	t.count = 0
	t.lastReset = time.Now()

	// Update Prometheus metric
	Throughput.WithLabelValues(t.operation, t.format).Set(throughput)

	return throughput
}

// LatencyTracker provides percentile tracking over a sliding window.
type LatencyTracker struct {
	mu      sync.Mutex
	values  []time.Duration
	maxSize int
}

// NewLatencyTracker creates a new latency tracker
func NewLatencyTracker(maxSize int) *LatencyTracker {
	return &LatencyTracker{
		values:  make([]time.Duration, 0, maxSize),
		maxSize: maxSize,
	}
}

// Record records a latency value
func (l *LatencyTracker) Record(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.values) >= l.maxSize {
		// Remove oldest
		l.values = l.values[1:]
	}
	l.values = append(l.values, d)
}

// GetPercentile returns the percentile value (0-100)
func (l *LatencyTracker) GetPercentile(p float64) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.values) == 0 {
		return 0
	}

	index := int(float64(len(l.values)) * p / 100)
	if index >= len(l.values) {
		index = len(l.values) - 1
	}

	return l.values[index]
}

// Snapshot renders the registered metric families whose names carry the
// given prefix in the Prometheus text exposition format. An empty prefix
// renders every family, including the Go runtime collectors.
func Snapshot(prefix string) (string, error) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return "", fmt.Errorf("gathering metrics: %w", err)
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if prefix != "" && !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return "", fmt.Errorf("encoding metric family %s: %w", mf.GetName(), err)
		}
	}
	return buf.String(), nil
}
