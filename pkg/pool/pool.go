// Package pool provides unified object pooling for mesa.
package pool

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with additional features like statistics tracking
// and automatic reset functionality. The pool is safe for concurrent use.
//
// Type parameter T can be any type, but pointer types are recommended
// for efficiency. The pool maintains statistics on allocations, usage,
// and hit/miss rates for monitoring and optimization.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		hits      int64
		misses    int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The new function is called when the pool is empty and a new object is
// needed. The reset function is called before returning an object to the
// pool, allowing for efficient cleanup and reuse.
//
// Example:
//
//	fieldPool := pool.New(
//	    func() []any { return make([]any, 0, 16) },
//	    func(s []any) { clearValues(s) },
//	)
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   new,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool. If the pool is empty, it creates
// a new object using the factory function provided in New. The method is
// safe for concurrent use and updates pool statistics.
//
// The returned object should be returned to the pool using Put when no
// longer needed to enable reuse and reduce allocations.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	obj := p.pool.Get().(T)
	atomic.AddInt64(&p.stats.hits, 1)
	return obj
}

// Put returns an object to the pool for reuse. If a reset function was
// provided during pool creation, it is called to clean up the object
// before returning it to the pool. The method is safe for concurrent use.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns current pool statistics including allocation count,
// objects currently in use, cache hits, and cache misses.
func (p *Pool[T]) Stats() (allocated, inUse, hits, misses int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.hits),
		atomic.LoadInt64(&p.stats.misses)
}

// Global pools shared across the table engine and the I/O packages.
var (
	// ValueSlicePool provides pooling for []any field scratch slices used
	// while serializing one row at a time. Slices are pre-allocated with
	// capacity 32 and cleared on return so pooled entries never pin values.
	ValueSlicePool = New(
		func() []any {
			return make([]any, 0, 32)
		},
		func(s []any) {
			for i := range s {
				s[i] = nil
			}
		},
	)

	// StringSlicePool provides pooling for []string slices, used for header
	// lists and raw CSV records. Slices are pre-allocated with capacity 32
	// and cleared on return.
	StringSlicePool = New(
		func() []string {
			return make([]string, 0, 32)
		},
		func(s []string) {
			for i := range s {
				s[i] = ""
			}
		},
	)

	// BytesBufferPool provides pooling for bytes.Buffer instances used to
	// stage compressed output before it is flushed to the destination.
	BytesBufferPool = New(
		func() *bytes.Buffer {
			return &bytes.Buffer{}
		},
		func(b *bytes.Buffer) {
			b.Reset()
		},
	)
)

// GetValueSlice retrieves a value slice from the global pool. If the
// requested capacity exceeds the pooled slice capacity, a new slice is
// allocated. The returned slice always has zero length.
func GetValueSlice(capacity int) []any {
	s := ValueSlicePool.Get()
	if cap(s) < capacity {
		s = make([]any, 0, capacity)
	}
	return s[:0]
}

// PutValueSlice returns a value slice to the global pool for reuse.
// All element references are cleared to allow garbage collection.
// This function is safe to call with nil slices.
func PutValueSlice(s []any) {
	if s != nil {
		ValueSlicePool.Put(s)
	}
}

// GetStringSlice retrieves a string slice from the global pool.
// The returned slice has zero length.
func GetStringSlice() []string {
	return StringSlicePool.Get()[:0]
}

// PutStringSlice returns a string slice to the global pool for reuse.
// This function is safe to call with nil slices.
func PutStringSlice(s []string) {
	if s != nil {
		StringSlicePool.Put(s)
	}
}

// GetBuffer retrieves an empty bytes.Buffer from the global pool.
func GetBuffer() *bytes.Buffer {
	return BytesBufferPool.Get()
}

// PutBuffer returns a buffer to the global pool for reuse.
// This function is safe to call with nil buffers.
func PutBuffer(b *bytes.Buffer) {
	if b != nil {
		BytesBufferPool.Put(b)
	}
}

// BufferPool manages byte buffer pooling with size-based buckets.
// It maintains multiple pools for different buffer sizes, automatically
// selecting the appropriate pool based on requested size. This reduces
// memory fragmentation for I/O staging buffers.
type BufferPool struct {
	pools []*Pool[[]byte]
	sizes []int
}

// NewBufferPool creates a new buffer pool with predefined size buckets.
// The pool uses power-of-2 sizes from 512 bytes to 1MB, covering the I/O
// paths' requirements. Buffers larger than 1MB are allocated directly
// without pooling.
func NewBufferPool() *BufferPool {
	sizes := []int{
		512,     // 512B
		1024,    // 1KB
		4096,    // 4KB
		16384,   // 16KB
		65536,   // 64KB
		262144,  // 256KB
		1048576, // 1MB
	}

	pools := make([]*Pool[[]byte], len(sizes))
	for i, size := range sizes {
		size := size
		pools[i] = New(
			func() []byte {
				return make([]byte, size)
			},
			nil,
		)
	}

	return &BufferPool{
		pools: pools,
		sizes: sizes,
	}
}

// Get returns a buffer of at least the requested size from the pool.
// It selects the smallest available bucket that can accommodate the
// request. For sizes beyond the largest bucket, a new buffer is allocated
// directly. The returned buffer's length is set to the requested size.
func (p *BufferPool) Get(size int) []byte {
	for i, s := range p.sizes {
		if s >= size {
			buf := p.pools[i].Get()
			return buf[:size]
		}
	}

	return make([]byte, size)
}

// Put returns a buffer to the pool for reuse. The buffer is matched to its
// bucket by capacity; buffers that don't match any bucket are released to
// garbage collection.
func (p *BufferPool) Put(buf []byte) {
	size := cap(buf)

	for i, s := range p.sizes {
		if s == size {
			p.pools[i].Put(buf[:s])
			return
		}
	}
}

// GlobalBufferPool provides size-based byte buffer pooling for I/O staging.
var GlobalBufferPool = NewBufferPool()

// Stats represents pool statistics for monitoring and optimization.
type Stats struct {
	// Allocated is the total number of objects created by the pool
	Allocated int64
	// InUse is the current number of objects checked out from the pool
	InUse int64
	// Hits is the number of successful pool retrievals
	Hits int64
	// Misses is the number of times a new object had to be created
	Misses int64
}

// GetGlobalStats returns statistics for the global pools, keyed by pool
// name ("value_slice", "string_slice", "bytes_buffer").
func GetGlobalStats() map[string]Stats {
	valueAlloc, valueInUse, valueHits, valueMisses := ValueSlicePool.Stats()
	stringAlloc, stringInUse, stringHits, stringMisses := StringSlicePool.Stats()
	bufAlloc, bufInUse, bufHits, bufMisses := BytesBufferPool.Stats()

	return map[string]Stats{
		"value_slice": {
			Allocated: valueAlloc,
			InUse:     valueInUse,
			Hits:      valueHits,
			Misses:    valueMisses,
		},
		"string_slice": {
			Allocated: stringAlloc,
			InUse:     stringInUse,
			Hits:      stringHits,
			Misses:    stringMisses,
		},
		"bytes_buffer": {
			Allocated: bufAlloc,
			InUse:     bufInUse,
			Hits:      bufHits,
			Misses:    bufMisses,
		},
	}
}
