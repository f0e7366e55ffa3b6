// Package compression provides transparent compression for serialized table
// data with multiple algorithms, configurable levels, and pooled compressor
// instances. It supports both in-memory and streaming operations.
//
// # Overview
//
// The compression package provides:
//   - Multiple compression algorithms (Gzip, Snappy, LZ4, Zstd, S2, Deflate)
//   - Configurable compression levels (Fastest, Default, Better, Best)
//   - Memory-efficient pooling of compressor instances
//   - File extension mapping so readers and writers can pick the algorithm
//     from a path like data.csv.zst
//
// # Algorithm Selection
//
// Choose algorithms based on your requirements:
//   - Snappy/S2: Best for speed, moderate compression
//   - LZ4: Extremely fast, decent compression
//   - Zstd: Best compression ratio, good speed
//   - Gzip: Wide compatibility, good compression
//   - Deflate: Standard algorithm, wide support
//
// # Basic Usage
//
//	comp, err := compression.NewCompressor(&compression.Config{
//	    Algorithm: compression.Zstd,
//	    Level:     compression.Default,
//	})
//
//	compressed, err := comp.Compress(csvBytes)
//	original, err := comp.Decompress(compressed)
//
// # Pooled Usage (Recommended)
//
//	pool := compression.NewCompressorPool(config)
//	compressed, err := pool.Compress(data)
//	decompressed, err := pool.Decompress(data)
package compression

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// Algorithm represents a compression algorithm.
// Each algorithm has different trade-offs between speed and compression ratio.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
	// Deflate represents deflate compression
	Deflate Algorithm = "deflate"
)

// ParseAlgorithm converts a string to an Algorithm, defaulting to None
// for unrecognized input.
func ParseAlgorithm(s string) Algorithm {
	switch strings.ToLower(s) {
	case "gzip", "gz":
		return Gzip
	case "snappy":
		return Snappy
	case "lz4":
		return LZ4
	case "zstd", "zst":
		return Zstd
	case "s2":
		return S2
	case "deflate", "flate":
		return Deflate
	default:
		return None
	}
}

// Extension returns the conventional file extension for the algorithm,
// including the leading dot. None returns the empty string.
func (a Algorithm) Extension() string {
	switch a {
	case Gzip:
		return ".gz"
	case Snappy:
		return ".snappy"
	case LZ4:
		return ".lz4"
	case Zstd:
		return ".zst"
	case S2:
		return ".s2"
	case Deflate:
		return ".deflate"
	default:
		return ""
	}
}

// ForExtension reports the algorithm implied by the final extension of path,
// and whether the extension names one. "events.csv.gz" maps to Gzip;
// "events.csv" maps to nothing.
func ForExtension(path string) (Algorithm, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip, true
	case ".snappy", ".sz":
		return Snappy, true
	case ".lz4":
		return LZ4, true
	case ".zst", ".zstd":
		return Zstd, true
	case ".s2":
		return S2, true
	case ".deflate":
		return Deflate, true
	default:
		return None, false
	}
}

// Level represents compression level, controlling the trade-off between
// compression speed and compression ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	// Use for real-time scenarios where latency is critical.
	Fastest Level = 1
	// Default balances speed and compression.
	// Suitable for most use cases.
	Default Level = 5
	// Better improves compression at cost of speed.
	// Use when storage is more important than CPU.
	Better Level = 7
	// Best maximizes compression ratio.
	// Use for archival or when compression ratio is paramount.
	Best Level = 9
)

// LevelFromInt clamps a numeric 0-9 setting, as found in configuration
// files, to the nearest named Level. Zero and out-of-range values map
// to Default.
func LevelFromInt(n int) Level {
	switch {
	case n <= 0:
		return Default
	case n <= 3:
		return Fastest
	case n <= 6:
		return Default
	case n <= 8:
		return Better
	default:
		return Best
	}
}

// Compressor provides compression and decompression functionality.
// All implementations are safe for concurrent use.
type Compressor interface {
	// Compress compresses data and returns the compressed bytes.
	// The input data is not modified.
	Compress(data []byte) ([]byte, error)

	// Decompress decompresses data and returns the original bytes.
	// The input data is not modified.
	Decompress(data []byte) ([]byte, error)

	// CompressStream compresses from reader to writer.
	// Useful for large files or streaming scenarios.
	CompressStream(dst io.Writer, src io.Reader) error

	// DecompressStream decompresses from reader to writer.
	// Useful for large files or streaming scenarios.
	DecompressStream(dst io.Writer, src io.Reader) error

	// Algorithm returns the compression algorithm used.
	Algorithm() Algorithm

	// Level returns the compression level configured.
	Level() Level
}

// Config represents compressor configuration.
//
// Example:
//
//	config := &compression.Config{
//	    Algorithm:  compression.Zstd,    // High compression
//	    Level:      compression.Better,  // Favor compression ratio
//	    BufferSize: 128 * 1024,          // 128KB buffer
//	}
type Config struct {
	Algorithm  Algorithm // Compression algorithm to use
	Level      Level     // Compression level
	BufferSize int       // Buffer size for streaming operations
}

// DefaultConfig returns default compression configuration optimized for
// balance between speed and compression ratio. Uses Zstd with 64KB buffers.
func DefaultConfig() *Config {
	return &Config{
		Algorithm:  Zstd,
		Level:      Default,
		BufferSize: 64 * 1024,
	}
}

// NewCompressor creates a new compressor based on the provided configuration.
// If config is nil, default configuration is used.
//
// Example:
//
//	// Fast compression for interactive output
//	fastComp, _ := compression.NewCompressor(&compression.Config{
//	    Algorithm: compression.LZ4,
//	    Level:     compression.Fastest,
//	})
//
//	// High compression for archival
//	archiveComp, _ := compression.NewCompressor(&compression.Config{
//	    Algorithm: compression.Zstd,
//	    Level:     compression.Best,
//	})
func NewCompressor(config *Config) (Compressor, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Algorithm {
	case None:
		return &noneCompressor{}, nil
	case Gzip:
		return newGzipCompressor(config)
	case Snappy:
		return newSnappyCompressor(config)
	case LZ4:
		return newLZ4Compressor(config)
	case Zstd:
		return newZstdCompressor(config)
	case S2:
		return newS2Compressor(config)
	case Deflate:
		return newDeflateCompressor(config)
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", config.Algorithm)
	}
}

// CompressorPool provides pooled compressors for better performance by
// reusing compressor instances. This is especially beneficial for algorithms
// that have expensive initialization.
//
// CompressorPool is safe for concurrent use.
type CompressorPool struct {
	pool   sync.Pool
	config *Config
}

// NewCompressorPool creates a new compressor pool with the specified
// configuration. The pool creates new instances as needed and reuses them
// when possible.
func NewCompressorPool(config *Config) *CompressorPool {
	if config == nil {
		config = DefaultConfig()
	}

	cp := &CompressorPool{config: config}
	cp.pool.New = func() interface{} {
		comp, _ := NewCompressor(config)
		return comp
	}

	return cp
}

// Get gets a compressor from pool
func (cp *CompressorPool) Get() Compressor {
	return cp.pool.Get().(Compressor)
}

// Put returns compressor to pool
func (cp *CompressorPool) Put(c Compressor) {
	cp.pool.Put(c)
}

// Compress compresses data using a pooled compressor
func (cp *CompressorPool) Compress(data []byte) ([]byte, error) {
	c := cp.Get()
	defer cp.Put(c)
	return c.Compress(data)
}

// Decompress decompresses data using a pooled compressor
func (cp *CompressorPool) Decompress(data []byte) ([]byte, error) {
	c := cp.Get()
	defer cp.Put(c)
	return c.Decompress(data)
}
