package table

import (
	"iter"
	"slices"

	"github.com/datamesa/mesa/pkg/mesaerrors"
	"github.com/datamesa/mesa/pkg/row"
	stringpool "github.com/datamesa/mesa/pkg/strings"
)

// Entry is one visited element of a table walk: a stored row on the row
// axis, or a (header, column values) pair on the column axis.
type Entry struct {
	Index  int         // row position, row axis only
	Row    row.Row     // stored row; nil for absent slots
	Header string      // column label, column axis only
	Column []row.Value // column values, one per stored row

	column bool
}

// IsColumn reports whether the entry describes a column rather than a row.
func (e Entry) IsColumn() bool {
	return e.column
}

// Delete removes whatever each key addresses, in key order. Row-axis keys
// remove and yield that row, nil when out of range. Column-axis keys
// remove the label from the fallback header list (by position for Index,
// by value for Name), delete that column's slot from every row, and yield
// the per-row removed values.
//
// With exactly one key the single result is returned bare; with several, a
// []row.Value in key order. Zero keys is an argument error and span keys
// cannot be deleted; both are rejected before anything is removed.
func (t *Table) Delete(keys ...Key) (row.Value, error) {
	if len(keys) == 0 {
		return nil, mesaerrors.New(mesaerrors.ErrorTypeArgument,
			"delete requires at least one key")
	}

	// Validate every key first so the removal loop cannot fail partway.
	for _, k := range keys {
		if k.kind == kindSpan {
			return nil, mesaerrors.New(mesaerrors.ErrorTypeValidation,
				stringpool.Sprintf("span key %s cannot be deleted", k))
		}
		if axisOf(t.mode, k) == axisInvalid {
			return nil, errRowModeName(k)
		}
	}

	deleted := make([]row.Value, 0, len(keys))
	for _, k := range keys {
		if axisOf(t.mode, k) == axisColumn {
			deleted = append(deleted, t.deleteColumn(k))
		} else {
			deleted = append(deleted, t.deleteRow(k.index))
		}
	}

	if len(deleted) == 1 {
		return deleted[0], nil
	}
	return deleted, nil
}

func (t *Table) deleteRow(index int) row.Value {
	i, ok := resolveIndex(index, len(t.rows))
	if !ok {
		return nil
	}

	r := t.rows[i]
	t.rows = slices.Delete(t.rows, i, i+1)
	return r
}

func (t *Table) deleteColumn(k Key) row.Value {
	if k.kind == kindName {
		if i := t.headerIndex(k.name); i != -1 {
			t.headers = slices.Delete(t.headers, i, i+1)
		}

		values := make([]row.Value, len(t.rows))
		for n, r := range t.rows {
			if r == nil {
				continue
			}
			values[n], _ = r.Delete(k.name)
		}
		return values
	}

	if i, ok := resolveIndex(k.index, len(t.headers)); ok {
		t.headers = slices.Delete(t.headers, i, i+1)
	}

	values := make([]row.Value, len(t.rows))
	for n, r := range t.rows {
		if r == nil {
			continue
		}
		values[n], _ = r.DeleteAt(k.index)
	}
	return values
}

// DeleteFunc removes everything the predicate selects and returns the
// table for chaining.
//
// On the row axis (ModeRow, ModeMixed) it is a stable in-place filter:
// rows for which pred returns true are removed and survivors keep their
// order. Absent slots are visited with a nil Row so predicates can drop
// them too.
//
// In ModeColumn the walk snapshots the effective headers, collects every
// label whose (header, column values) entry satisfies pred, then deletes
// those columns by label so still-pending labels stay valid. A predicate
// that itself mutates the table leaves the walk unspecified.
func (t *Table) DeleteFunc(pred func(Entry) bool) *Table {
	if t.mode == ModeColumn {
		var doomed []string
		for _, h := range t.Headers() {
			if pred(Entry{Header: h, Column: t.columnNamed(h), column: true}) {
				doomed = append(doomed, h)
			}
		}
		for _, h := range doomed {
			t.deleteColumn(Name(h))
		}
		return t
	}

	index := 0
	t.rows = slices.DeleteFunc(t.rows, func(r row.Row) bool {
		e := Entry{Index: index, Row: r}
		index++
		return pred(e)
	})
	return t
}

// Each returns a lazy, restartable walk over the table: stored rows in
// order (absent slots included, with a nil Row) on the row axis, or
// (header, column values) pairs in header order in ModeColumn. The
// sequence reads live state, so mutating the table mid-iteration leaves
// the remainder of that iteration unspecified.
func (t *Table) Each() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if t.mode == ModeColumn {
			for _, h := range t.Headers() {
				if !yield(Entry{Header: h, Column: t.columnNamed(h), column: true}) {
					return
				}
			}
			return
		}

		for i, r := range t.rows {
			if !yield(Entry{Index: i, Row: r}) {
				return
			}
		}
	}
}
