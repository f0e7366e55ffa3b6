// Package row defines the row contract consumed by the table engine and a
// concrete ordered-pair implementation of it.
//
// # Overview
//
// A Row is an ordered sequence of (header, value) pairs. The table engine
// addresses rows positionally and by header name but never inspects their
// storage; everything it needs is on the Row interface:
//   - ordered header view and field view
//   - positional and by-name get, set, delete
//   - a header-row predicate distinguishing label-bearing rows from data
//   - deep-path descent for dig
//
// Record is the standard implementation. Duplicate header names are
// permitted; by-name operations act on the first matching pair.
//
// # Basic Usage
//
//	r := row.NewRecord([]string{"Name", "Value"}, []row.Value{"foo", 0})
//	r.Get("Name")      // "foo"
//	r.At(-1)           // 0
//	r.Set("Note", "x") // appends a third pair
package row

import (
	"fmt"
	"reflect"

	"github.com/datamesa/mesa/pkg/mesaerrors"
	stringpool "github.com/datamesa/mesa/pkg/strings"
)

// Value is a single table cell. Cells are heterogeneous; strings dominate
// after CSV parsing but any in-memory value is legal.
type Value = interface{}

// Pair is one (header, value) cell of a row.
type Pair struct {
	Header string
	Value  Value
}

// Row is the contract between the table engine and row storage. All
// positional methods accept negative indices counting back from the end.
// By-name methods bind to the first pair carrying that header.
type Row interface {
	// Headers returns the ordered column labels.
	Headers() []string

	// Len returns the number of fields.
	Len() int

	// At returns the field at position i, or nil when i is out of range.
	At(i int) Value

	// SetAt assigns the field at position i, extending the row with
	// unnamed nil fields when i is past the end. A negative index that
	// resolves out of range is ignored.
	SetAt(i int, value Value)

	// Get returns the first field named name, or nil when the name is
	// unknown.
	Get(name string) Value

	// Has reports whether name appears among the headers.
	Has(name string) bool

	// Set assigns the first field named name, appending a new pair when
	// the name is unknown.
	Set(name string, value Value)

	// DeleteAt removes the field at position i, reporting the removed
	// value and whether anything was removed.
	DeleteAt(i int) (Value, bool)

	// Delete removes the first field named name, reporting the removed
	// value and whether anything was removed.
	Delete(name string) (Value, bool)

	// HeaderRow reports whether this row restates column labels rather
	// than carrying data.
	HeaderRow() bool

	// Fields returns the ordered field values.
	Fields() []Value

	// AppendFields appends the ordered field values to dst, letting
	// callers reuse one scratch buffer across many rows.
	AppendFields(dst []Value) []Value

	// Pairs returns a copy of the ordered (header, value) pairs.
	Pairs() []Pair

	// Dig retrieves the field addressed by key (int position or string
	// name) and descends into it along rest.
	Dig(key Value, rest ...Value) (Value, error)
}

// Digger is implemented by values that support deep-path descent.
// Row includes it; nested application types may too.
type Digger interface {
	Dig(key Value, rest ...Value) (Value, error)
}

// Record is the standard Row implementation backed by an ordered pair list.
// The zero value is an empty data row.
type Record struct {
	pairs     []Pair
	headerRow bool
}

var _ Row = (*Record)(nil)

// NewRecord builds a data row by zipping headers with fields. When fields is
// shorter the missing values are nil; when longer the extra values carry an
// empty header.
func NewRecord(headers []string, fields []Value) *Record {
	n := len(headers)
	if len(fields) > n {
		n = len(fields)
	}

	pairs := make([]Pair, n)
	for i := 0; i < n; i++ {
		if i < len(headers) {
			pairs[i].Header = headers[i]
		}
		if i < len(fields) {
			pairs[i].Value = fields[i]
		}
	}

	return &Record{pairs: pairs}
}

// NewHeaderRecord builds a header-row placeholder: a row whose fields
// restate its own labels.
func NewHeaderRecord(headers []string) *Record {
	pairs := make([]Pair, len(headers))
	for i, h := range headers {
		pairs[i] = Pair{Header: h, Value: h}
	}
	return &Record{pairs: pairs, headerRow: true}
}

// FromPairs builds a data row directly from ordered pairs. The slice is
// copied.
func FromPairs(pairs []Pair) *Record {
	r := &Record{pairs: make([]Pair, len(pairs))}
	copy(r.pairs, pairs)
	return r
}

// Headers returns the ordered column labels.
func (r *Record) Headers() []string {
	headers := make([]string, len(r.pairs))
	for i, p := range r.pairs {
		headers[i] = p.Header
	}
	return headers
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.pairs)
}

func (r *Record) resolve(i int) int {
	if i < 0 {
		i += len(r.pairs)
	}
	return i
}

// At returns the field at position i, or nil when i is out of range.
// Negative indices count back from the end.
func (r *Record) At(i int) Value {
	i = r.resolve(i)
	if i < 0 || i >= len(r.pairs) {
		return nil
	}
	return r.pairs[i].Value
}

// SetAt assigns position i. Positions past the end are created, padding the
// gap with unnamed nil fields. A negative index resolving out of range is
// ignored.
func (r *Record) SetAt(i int, value Value) {
	i = r.resolve(i)
	if i < 0 {
		return
	}
	for len(r.pairs) <= i {
		r.pairs = append(r.pairs, Pair{})
	}
	r.pairs[i].Value = value
}

// Get returns the first field named name, or nil.
func (r *Record) Get(name string) Value {
	for _, p := range r.pairs {
		if p.Header == name {
			return p.Value
		}
	}
	return nil
}

// Has reports whether name appears among the headers.
func (r *Record) Has(name string) bool {
	for _, p := range r.pairs {
		if p.Header == name {
			return true
		}
	}
	return false
}

// Set assigns the first field named name, appending a new pair when the
// name is unknown.
func (r *Record) Set(name string, value Value) {
	for i, p := range r.pairs {
		if p.Header == name {
			r.pairs[i].Value = value
			return
		}
	}
	r.pairs = append(r.pairs, Pair{Header: name, Value: value})
}

// DeleteAt removes position i, reporting the removed value and whether a
// field was removed.
func (r *Record) DeleteAt(i int) (Value, bool) {
	i = r.resolve(i)
	if i < 0 || i >= len(r.pairs) {
		return nil, false
	}
	v := r.pairs[i].Value
	r.pairs = append(r.pairs[:i], r.pairs[i+1:]...)
	return v, true
}

// Delete removes the first field named name, reporting the removed value
// and whether a field was removed.
func (r *Record) Delete(name string) (Value, bool) {
	for i, p := range r.pairs {
		if p.Header == name {
			r.pairs = append(r.pairs[:i], r.pairs[i+1:]...)
			return p.Value, true
		}
	}
	return nil, false
}

// HeaderRow reports whether this row restates column labels rather than
// carrying data.
func (r *Record) HeaderRow() bool {
	return r.headerRow
}

// Fields returns the ordered field values.
func (r *Record) Fields() []Value {
	return r.AppendFields(make([]Value, 0, len(r.pairs)))
}

// AppendFields appends the ordered field values to dst.
func (r *Record) AppendFields(dst []Value) []Value {
	for _, p := range r.pairs {
		dst = append(dst, p.Value)
	}
	return dst
}

// Pairs returns a copy of the ordered (header, value) pairs.
func (r *Record) Pairs() []Pair {
	pairs := make([]Pair, len(r.pairs))
	copy(pairs, r.pairs)
	return pairs
}

// Dig retrieves the field addressed by key and descends into it along rest.
// A nil field short-circuits to nil. Descending into a value that supports
// no further lookup is a type error.
func (r *Record) Dig(key Value, rest ...Value) (Value, error) {
	var v Value
	switch k := key.(type) {
	case int:
		v = r.At(k)
	case string:
		v = r.Get(k)
	default:
		return nil, mesaerrors.New(mesaerrors.ErrorTypeType,
			stringpool.Sprintf("row key must be an int or string, got %T", key))
	}

	if v == nil || len(rest) == 0 {
		return v, nil
	}
	return DigValue(v, rest[0], rest[1:]...)
}

// String returns a diagnostic rendering of the row.
func (r *Record) String() string {
	builder := stringpool.GetBuilder(stringpool.Small)
	defer stringpool.PutBuilder(builder, stringpool.Small)

	builder.WriteString("row.Record{")
	for i, p := range r.pairs {
		if i > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(fmt.Sprintf("%q:%v", p.Header, p.Value))
	}
	builder.WriteString("}")
	return stringpool.Clone(builder.String())
}

// Equal reports whether two rows carry the same ordered pairs. The
// header-row flag does not participate, matching table equality which
// compares stored content only.
func Equal(a, b Row) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Len() != b.Len() {
		return false
	}
	return reflect.DeepEqual(a.Pairs(), b.Pairs())
}

// DigValue descends into an arbitrary value: Digger implementations
// delegate, slices index by int, and string-keyed maps index by name. A
// missed lookup returns nil; a value with no lookup notion is a type error.
func DigValue(v Value, key Value, rest ...Value) (Value, error) {
	switch t := v.(type) {
	case Digger:
		return t.Dig(key, rest...)

	case []Value:
		i, ok := key.(int)
		if !ok {
			return nil, mesaerrors.New(mesaerrors.ErrorTypeType,
				stringpool.Sprintf("slice index must be an int, got %T", key))
		}
		if i < 0 {
			i += len(t)
		}
		if i < 0 || i >= len(t) {
			return nil, nil
		}
		return digInto(t[i], rest)

	case map[string]Value:
		k, ok := key.(string)
		if !ok {
			return nil, mesaerrors.New(mesaerrors.ErrorTypeType,
				stringpool.Sprintf("map key must be a string, got %T", key))
		}
		return digInto(t[k], rest)

	default:
		return nil, mesaerrors.New(mesaerrors.ErrorTypeType,
			stringpool.Sprintf("%T does not support dig", v))
	}
}

func digInto(v Value, rest []Value) (Value, error) {
	if v == nil || len(rest) == 0 {
		return v, nil
	}
	return DigValue(v, rest[0], rest[1:]...)
}
