package table

import (
	"github.com/datamesa/mesa/pkg/mesaerrors"
	"github.com/datamesa/mesa/pkg/row"
	stringpool "github.com/datamesa/mesa/pkg/strings"
)

// Get retrieves whatever the key addresses under the current mode.
//
// Row axis: an Index yields the stored row (nil when out of range or
// absent); a Span yields the clamped []row.Row slice, empty when the
// resolved start equals the row count and nil when it lies beyond it.
//
// Column axis: an Index or Name yields one value per stored row as
// []row.Value; a column miss yields all nils rather than an error. A Span
// in column mode yields each row's positional value slice.
//
// The only error is a Name key while in ModeRow.
func (t *Table) Get(key Key) (row.Value, error) {
	switch axisOf(t.mode, key) {
	case axisInvalid:
		return nil, errRowModeName(key)
	case axisColumn:
		return t.getColumn(key), nil
	default:
		return t.getRow(key), nil
	}
}

func (t *Table) getRow(key Key) row.Value {
	if key.kind == kindIndex {
		i, ok := resolveIndex(key.index, len(t.rows))
		if !ok {
			return nil
		}
		return t.rows[i]
	}

	lo, hi, ok := resolveSpan(key.start, key.stop, len(t.rows))
	if !ok {
		return nil
	}
	if hi > len(t.rows) {
		hi = len(t.rows)
	}
	if hi < lo {
		hi = lo
	}

	out := make([]row.Row, hi-lo)
	copy(out, t.rows[lo:hi])
	return out
}

func (t *Table) getColumn(key Key) row.Value {
	switch key.kind {
	case kindName:
		return t.columnNamed(key.name)
	case kindIndex:
		return t.column(key.index)
	default:
		values := make([]row.Value, len(t.rows))
		for n, r := range t.rows {
			if r == nil {
				continue
			}
			values[n] = rowSlice(r, key.start, key.stop)
		}
		return values
	}
}

// rowSlice is a row's positional value slice for a half-open span, clamped
// to the row's length. A start resolving past the end yields nil.
func rowSlice(r row.Row, start, stop int) row.Value {
	lo, hi, ok := resolveSpan(start, stop, r.Len())
	if !ok {
		return nil
	}
	if hi > r.Len() {
		hi = r.Len()
	}
	if hi < lo {
		hi = lo
	}

	out := make([]row.Value, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, r.At(i))
	}
	return out
}

// Set assigns whatever the key addresses under the current mode.
//
// Row axis: value must be a row.Row, a field slice ([]row.Value or
// []string, wrapped via the effective headers), or nil to store an absent
// slot. Assignment past the end extends the table, filling the gap with
// absent slots.
//
// Column axis: a Name key not yet in the effective headers is appended to
// the fallback header list. A slice value assigns per row in order, nil
// past its end, extra entries ignored; any other value is broadcast to
// every row. Header-row placeholders receive the column label instead so
// they keep restating headers. Absent slots are left absent.
//
// Span keys cannot be assigned; that is a validation error in every mode.
func (t *Table) Set(key Key, value row.Value) error {
	if key.kind == kindSpan {
		return mesaerrors.New(mesaerrors.ErrorTypeValidation,
			stringpool.Sprintf("span key %s cannot be assigned", key))
	}

	switch axisOf(t.mode, key) {
	case axisInvalid:
		return errRowModeName(key)
	case axisColumn:
		t.setColumn(key, value)
		return nil
	default:
		return t.setRow(key, value)
	}
}

func (t *Table) setRow(key Key, value row.Value) error {
	r, err := coerceRow(value, t.Headers())
	if err != nil {
		return err
	}

	i := key.index
	if i < 0 {
		i += len(t.rows)
		if i < 0 {
			return mesaerrors.New(mesaerrors.ErrorTypeValidation,
				stringpool.Sprintf("row index %d out of range for %d rows", key.index, len(t.rows)))
		}
	}

	for len(t.rows) < i {
		t.rows = append(t.rows, nil)
	}
	if i == len(t.rows) {
		t.rows = append(t.rows, r)
	} else {
		t.rows[i] = r
	}
	return nil
}

func (t *Table) setColumn(key Key, value row.Value) {
	if key.kind == kindName && t.headerIndex(key.name) == -1 {
		t.headers = append(t.headers, key.name)
	}

	values, scalar := columnValues(value)

	for i, r := range t.rows {
		if r == nil {
			continue
		}
		if r.HeaderRow() {
			t.syncHeaderRow(r, key)
			continue
		}

		var v row.Value
		if scalar {
			v = value
		} else if i < len(values) {
			v = values[i]
		}

		if key.kind == kindName {
			r.Set(key.name, v)
		} else {
			r.SetAt(key.index, v)
		}
	}
}

// syncHeaderRow keeps a literal header row restating labels: name keys
// write the name itself, index keys re-write the label currently at that
// position.
func (t *Table) syncHeaderRow(r row.Row, key Key) {
	if key.kind == kindName {
		r.Set(key.name, key.name)
		return
	}

	headers := t.Headers()
	if i, ok := resolveIndex(key.index, len(headers)); ok {
		r.SetAt(key.index, headers[i])
	}
}

// Append adds rows at the end and returns the table for chaining. Each
// item is stored unchanged when it is a row.Row, wrapped into a row via
// the headers in effect at that point when it is a field slice, and
// stored as an absent slot when it is nil.
func (t *Table) Append(items ...row.Value) (*Table, error) {
	for _, item := range items {
		r, err := coerceRow(item, t.Headers())
		if err != nil {
			return nil, err
		}
		t.rows = append(t.rows, r)
	}
	return t, nil
}

// Values retrieves several keys at once.
//
// In ModeRow, and in ModeMixed when every key is row-like, keys select
// rows: an Index contributes the row or nil, a Span expands to one element
// per position in the resolved range, positions past the end contributing
// nil and a start resolving out of range contributing nothing.
//
// Otherwise keys select per row: each stored row contributes the slice of
// its own values for the keys (absent slots contribute nil).
func (t *Table) Values(keys ...Key) ([]row.Value, error) {
	rowAxis := false
	switch t.mode {
	case ModeRow:
		rowAxis = true
	case ModeColumn:
		rowAxis = false
	default:
		rowAxis = true
		for _, k := range keys {
			if k.kind == kindName {
				rowAxis = false
				break
			}
		}
	}

	if rowAxis {
		return t.rowsAt(keys)
	}

	out := make([]row.Value, len(t.rows))
	for n, r := range t.rows {
		if r == nil {
			continue
		}
		out[n] = rowValuesOf(r, keys)
	}
	return out, nil
}

func (t *Table) rowsAt(keys []Key) ([]row.Value, error) {
	out := []row.Value{}
	size := len(t.rows)

	for _, k := range keys {
		switch k.kind {
		case kindIndex:
			if i, ok := resolveIndex(k.index, size); ok {
				out = append(out, t.rows[i])
			} else {
				out = append(out, nil)
			}
		case kindSpan:
			lo, hi, ok := resolveSpan(k.start, k.stop, size)
			if !ok {
				continue
			}
			for i := lo; i < hi; i++ {
				if i < size {
					out = append(out, t.rows[i])
				} else {
					out = append(out, nil)
				}
			}
		default:
			return nil, errRowModeName(k)
		}
	}
	return out, nil
}

// rowValuesOf extracts one row's values for the keys: positions, labels,
// and spans with the same expansion rules as the row axis, resolved
// against the row's own length.
func rowValuesOf(r row.Row, keys []Key) []row.Value {
	out := []row.Value{}
	for _, k := range keys {
		switch k.kind {
		case kindIndex:
			out = append(out, r.At(k.index))
		case kindName:
			out = append(out, r.Get(k.name))
		default:
			lo, hi, ok := resolveSpan(k.start, k.stop, r.Len())
			if !ok {
				continue
			}
			for i := lo; i < hi; i++ {
				out = append(out, r.At(i))
			}
		}
	}
	return out
}

func coerceRow(value row.Value, headers []string) (row.Row, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case row.Row:
		return v, nil
	case []row.Value:
		return row.NewRecord(headers, v), nil
	case []string:
		return row.NewRecord(headers, stringValues(v)), nil
	default:
		return nil, mesaerrors.New(mesaerrors.ErrorTypeType,
			stringpool.Sprintf("row value must be a row.Row or a field slice, got %T", value))
	}
}

func columnValues(value row.Value) (values []row.Value, scalar bool) {
	switch v := value.(type) {
	case []row.Value:
		return v, false
	case []string:
		return stringValues(v), false
	default:
		return nil, true
	}
}

func stringValues(fields []string) []row.Value {
	values := make([]row.Value, len(fields))
	for i, f := range fields {
		values[i] = f
	}
	return values
}

func errRowModeName(k Key) error {
	return mesaerrors.New(mesaerrors.ErrorTypeType,
		stringpool.Sprintf("row mode requires integer or span keys, got name %s", k))
}
