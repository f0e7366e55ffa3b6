// Package strings provides pooled, zero-copy string building utilities for mesa.
package strings

import (
	"fmt"
	"strconv"
	"sync"
	"unsafe"
)

// BytesToString converts a byte slice to a string without allocation.
// WARNING: The returned string shares memory with the byte slice.
// Do not modify the byte slice after calling this function.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringToBytes converts a string to a byte slice without allocation.
// WARNING: The returned byte slice shares memory with the string.
// Do not modify the returned slice.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Clone creates a copy of a string. Useful when the caller must own the
// memory, e.g. when the source string aliases a reused buffer.
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, StringToBytes(s))
	return BytesToString(b)
}

// Builder provides efficient string building over a reusable byte buffer.
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder with the given initial capacity.
func NewBuilder(capacity int) *Builder {
	return &Builder{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, StringToBytes(s)...)
}

// WriteBytes appends bytes to the builder.
func (b *Builder) WriteBytes(data []byte) {
	b.buf = append(b.buf, data...)
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) {
	b.buf = append(b.buf, c)
}

// Write implements the io.Writer interface.
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string using zero-copy conversion. The result
// aliases the builder's buffer; Clone it before returning the builder to a
// pool.
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Bytes returns the underlying byte slice.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the length of the built string.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset resets the builder for reuse.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Grow ensures capacity for at least n more bytes.
func (b *Builder) Grow(n int) {
	if cap(b.buf)-len(b.buf) < n {
		newBuf := make([]byte, len(b.buf), len(b.buf)+2*cap(b.buf)+n)
		copy(newBuf, b.buf)
		b.buf = newBuf
	}
}

// BuilderSize selects a pooled builder size class.
type BuilderSize int

const (
	// Small covers most formatted messages and single CSV lines (< 1KB).
	Small BuilderSize = iota
	// Medium covers multi-line renderings (1KB - 16KB).
	Medium
	// Large covers whole-table renderings (16KB+).
	Large
)

var (
	smallBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(1024)
		},
	}

	mediumBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(16 * 1024)
		},
	}

	largeBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(64 * 1024)
		},
	}
)

func poolFor(size BuilderSize) *sync.Pool {
	switch size {
	case Medium:
		return mediumBuilderPool
	case Large:
		return largeBuilderPool
	default:
		return smallBuilderPool
	}
}

// GetBuilder retrieves a pooled builder of the specified size class.
func GetBuilder(size BuilderSize) *Builder {
	builder := poolFor(size).Get().(*Builder)
	builder.Reset()
	return builder
}

// PutBuilder returns a builder to its size class pool.
func PutBuilder(builder *Builder, size BuilderSize) {
	if builder == nil {
		return
	}
	builder.Reset()
	poolFor(size).Put(builder)
}

// Sprintf formats using a pooled builder instead of fmt.Sprintf's internal
// allocation. The result is an owned copy, safe to retain.
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}

	size := Small
	if estimated := len(format) + len(args)*16; estimated > 16*1024 {
		size = Large
	} else if estimated > 1024 {
		size = Medium
	}

	builder := GetBuilder(size)
	defer PutBuilder(builder, size)

	fmt.Fprintf(builder, format, args...)

	return Clone(builder.String())
}

// ValueToString renders a field value for serialization. Absent values
// render empty, matching delimited-text conventions.
func ValueToString(value interface{}) string {
	if value == nil {
		return ""
	}

	// Fast path for common types, avoiding reflection and fmt overhead.
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []byte:
		return BytesToString(v)
	default:
		return Sprintf("%v", value)
	}
}

// Intern deduplicates strings so that repeated values share one backing
// allocation. Used for header names that repeat across every row of a table.
// Not safe for concurrent use.
type Intern struct {
	strings map[string]string
}

// NewIntern creates a new string interner.
func NewIntern() *Intern {
	return &Intern{
		strings: make(map[string]string),
	}
}

// Get returns the interned version of s, cloning it on first sight so the
// interner owns the memory.
func (intern *Intern) Get(s string) string {
	if interned, exists := intern.strings[s]; exists {
		return interned
	}

	cloned := Clone(s)
	intern.strings[cloned] = cloned
	return cloned
}

// Size returns the number of interned strings.
func (intern *Intern) Size() int {
	return len(intern.strings)
}

// Clear removes all interned strings.
func (intern *Intern) Clear() {
	intern.strings = make(map[string]string)
}
