// Package table provides a mode-aware accessor over tabular data already
// parsed into rows: the same underlying data can be addressed by row, by
// column, or in a mixed mode by whichever interpretation the key type
// implies.
//
// # Overview
//
// A Table owns an ordered sequence of row.Row values plus a fallback header
// list used while no rows exist. Every keyed operation dispatches on the
// current access mode and the key variant:
//   - ModeRow: every key addresses rows; non-integer keys are a type error
//   - ModeColumn: integer and name keys both address columns
//   - ModeMixed (default): integers and spans address rows, names address
//     columns
//
// Lookups that miss never fail: a missing row is nil, a missing column is
// one nil per row. Errors are reserved for input-contract violations such
// as deleting with no keys or using a name key in row mode.
//
// # Basic Usage
//
//	rows := []row.Row{
//	    row.NewRecord([]string{"Name", "Value"}, []row.Value{"foo", "0"}),
//	    row.NewRecord([]string{"Name", "Value"}, []row.Value{"bar", "1"}),
//	}
//	t := table.New(rows, nil)
//
//	t.Get(table.Index(0))     // first row
//	t.Get(table.Name("Name")) // ["foo", "bar"]
//	t.Set(table.Name("Note"), []row.Value{"x", "y"})
//
// # Modes
//
//	byCol := t.WithMode(table.ModeColumn) // new table, rows shared
//	byCol.Get(table.Index(0))             // first column, one value per row
//	t.SetMode(table.ModeRow)              // in place
//
// # Concurrency
//
// A Table is not safe for unsynchronized concurrent mutation. Tables
// produced by WithMode share row identity with their source; mutating a
// shared row is visible through both tables.
package table
