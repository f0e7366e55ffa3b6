package table

import (
	"io"

	"github.com/datamesa/mesa/pkg/row"
)

// LineEncoder renders one ordered value sequence as a single text line,
// including the record terminator. Field-level escaping rules belong to
// the implementation.
type LineEncoder interface {
	EncodeLine(fields []row.Value) (string, error)
}

// ToRows projects the table as value matrices: the effective headers
// first, then each data row's fields in storage order. Header-row
// placeholders and absent slots are excluded.
func (t *Table) ToRows() [][]row.Value {
	out := make([][]row.Value, 0, len(t.rows)+1)
	out = append(out, headerValues(t.Headers()))

	for _, r := range t.rows {
		if r == nil || r.HeaderRow() {
			continue
		}
		out = append(out, r.Fields())
	}
	return out
}

type writeConfig struct {
	writeHeaders bool
	limit        int
	limited      bool
}

// WriteOption customizes WriteCSV.
type WriteOption func(*writeConfig)

// WithHeaders controls whether the header line is emitted. Default true.
func WithHeaders(write bool) WriteOption {
	return func(c *writeConfig) {
		c.writeHeaders = write
	}
}

// WithLimit caps the number of stored row slots considered. Negative
// limits count back from the end: -1 keeps every slot, -2 drops the last,
// and so on. Header-row placeholders inside the window count toward it
// but are still not emitted.
func WithLimit(limit int) WriteOption {
	return func(c *writeConfig) {
		c.limit = limit
		c.limited = true
	}
}

// RowWindow resolves a row limit to the number of leading stored slots it
// covers, for serializers that honor limits. Negative limits count back
// from the end: -1 covers every slot, -2 all but the last. The result is
// clamped to [0, Len].
func (t *Table) RowWindow(limit int) int {
	n := limit
	if n < 0 {
		n = len(t.rows) + 1 + n
	}
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return n
}

// WriteCSV renders the table as delimited text, delegating field escaping
// to enc. The header line comes first unless suppressed; header-row
// placeholders and absent slots are skipped.
func (t *Table) WriteCSV(w io.Writer, enc LineEncoder, opts ...WriteOption) error {
	cfg := writeConfig{writeHeaders: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.writeHeaders {
		line, err := enc.EncodeLine(headerValues(t.Headers()))
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}

	window := t.rows
	if cfg.limited {
		window = window[:t.RowWindow(cfg.limit)]
	}

	var fields []row.Value
	for _, r := range window {
		if r == nil || r.HeaderRow() {
			continue
		}
		fields = r.AppendFields(fields[:0])
		line, err := enc.EncodeLine(fields)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Dig retrieves the key's addressee and descends into it along rest. An
// absent result short-circuits to nil. Descending into a value with no
// lookup notion is a type error.
func (t *Table) Dig(key Key, rest ...row.Value) (row.Value, error) {
	v, err := t.Get(key)
	if err != nil {
		return nil, err
	}
	if v == nil || len(rest) == 0 {
		return v, nil
	}

	// Span results dig positionally like any other slice.
	if rows, ok := v.([]row.Row); ok {
		boxed := make([]row.Value, len(rows))
		for i, r := range rows {
			if r != nil {
				boxed[i] = r
			}
		}
		return row.DigValue(boxed, rest[0], rest[1:]...)
	}

	return row.DigValue(v, rest[0], rest[1:]...)
}

// Equal reports whether two tables store equal row sequences. Mode and
// the fallback header list do not participate.
func (t *Table) Equal(other *Table) bool {
	if other == nil {
		return false
	}
	return t.EqualRows(other.rows)
}

// EqualRows reports whether the stored row sequence matches rows
// element-wise, so a table can be compared against a raw row slice.
func (t *Table) EqualRows(rows []row.Row) bool {
	if len(t.rows) != len(rows) {
		return false
	}
	for i, r := range t.rows {
		if !row.Equal(r, rows[i]) {
			return false
		}
	}
	return true
}
