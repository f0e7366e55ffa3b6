// Package pool implements type-safe object pooling for mesa's serialization
// hot paths. It provides unified memory management for reusable scratch
// objects, reducing garbage collection pressure when tables are rendered or
// decoded row by row.
//
// # Architecture
//
// The pool package uses Go generics to provide type-safe pooling for any
// object type. It builds on sync.Pool but adds statistics tracking and
// automatic reset on return.
//
// Core types:
//
//   - Pool[T]: generic pool implementation for any type T
//   - BufferPool: size-bucketed byte buffers for I/O staging
//   - Global pools: pre-configured pools for field slices, header slices,
//     and staging buffers
//
// # Usage Patterns
//
// Basic pool usage:
//
//	fields := pool.GetValueSlice(len(headers))
//	defer pool.PutValueSlice(fields)
//
//	fields = row.AppendFields(fields)
//	enc.EncodeLine(fields)
//
// Creating a custom pool:
//
//	p := pool.New(
//	    func() *bytes.Reader { return new(bytes.Reader) },
//	    func(r *bytes.Reader) { r.Reset(nil) },
//	)
//
// Pooled objects must not be retained after Put; the table engine itself
// never stores pooled slices inside rows.
package pool
