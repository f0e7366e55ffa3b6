package table

import (
	"github.com/datamesa/mesa/pkg/row"
	stringpool "github.com/datamesa/mesa/pkg/strings"
)

// Table is a mode-aware view over an ordered sequence of rows. The zero
// value is unusable; construct with New.
//
// Table is not safe for unsynchronized concurrent mutation.
type Table struct {
	mode    Mode
	rows    []row.Row
	headers []string
}

// New creates a Table owning the given row sequence in ModeMixed. The rows
// slice is taken over by the table; callers must not retain it. A nil
// headers list derives the fallback headers from the first row, or stays
// empty for an empty table. Individual rows may be nil, marking absent
// slots.
func New(rows []row.Row, headers []string) *Table {
	if rows == nil {
		rows = []row.Row{}
	}
	if headers == nil {
		headers = []string{}
		for _, r := range rows {
			if r != nil {
				headers = append(headers, r.Headers()...)
				break
			}
		}
	}

	return &Table{
		mode:    ModeMixed,
		rows:    rows,
		headers: headers,
	}
}

// Mode returns the current access mode.
func (t *Table) Mode() Mode {
	return t.mode
}

// SetMode switches the access mode in place and returns the table for
// chaining. Stored data is unaffected.
func (t *Table) SetMode(m Mode) *Table {
	t.mode = m
	return t
}

// WithMode returns a new table in the given mode over a shallow copy of
// the row sequence. The rows themselves are shared by reference, so
// mutating a Row is observable through both tables; the row sequence and
// fallback headers are independent.
func (t *Table) WithMode(m Mode) *Table {
	rows := make([]row.Row, len(t.rows))
	copy(rows, t.rows)

	headers := make([]string, len(t.headers))
	copy(headers, t.headers)

	return &Table{
		mode:    m,
		rows:    rows,
		headers: headers,
	}
}

// Len returns the number of stored row slots, including header-row
// placeholders and absent slots.
func (t *Table) Len() int {
	return len(t.rows)
}

// Empty reports whether the table stores no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// Headers returns the effective header list: the first present row's
// headers when any row exists, else a copy of the fallback list.
func (t *Table) Headers() []string {
	for _, r := range t.rows {
		if r != nil {
			return r.Headers()
		}
	}

	headers := make([]string, len(t.headers))
	copy(headers, t.headers)
	return headers
}

// RowAt returns the row at position i, negative indices counting back from
// the end. Out of range returns nil, as does an absent slot.
func (t *Table) RowAt(i int) row.Row {
	i, ok := resolveIndex(i, len(t.rows))
	if !ok {
		return nil
	}
	return t.rows[i]
}

// String returns a diagnostic description of mode and row count.
func (t *Table) String() string {
	return stringpool.Sprintf("table.Table{mode:%s rows:%d}", t.mode, len(t.rows))
}

// column materializes the column addressed by position i, one value per
// stored row. Absent slots and misses contribute nil; the position is
// resolved against each row's own length, so negative indices follow row
// structure.
func (t *Table) column(i int) []row.Value {
	values := make([]row.Value, len(t.rows))
	for n, r := range t.rows {
		if r == nil {
			continue
		}
		values[n] = r.At(i)
	}
	return values
}

// columnNamed materializes the column addressed by label, one value per
// stored row. Unknown labels yield all nils.
func (t *Table) columnNamed(name string) []row.Value {
	values := make([]row.Value, len(t.rows))
	for n, r := range t.rows {
		if r == nil {
			continue
		}
		values[n] = r.Get(name)
	}
	return values
}

// headerIndex finds name in the fallback header list.
func (t *Table) headerIndex(name string) int {
	for i, h := range t.headers {
		if h == name {
			return i
		}
	}
	return -1
}

// headerValues converts a header list for serialization.
func headerValues(headers []string) []row.Value {
	values := make([]row.Value, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	return values
}
