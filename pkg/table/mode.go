package table

import "strings"

// Mode selects how keys are interpreted. It affects only interpretation,
// never stored data.
type Mode string

const (
	// ModeRow treats every key as a row address.
	ModeRow Mode = "row"
	// ModeColumn treats every key as a column address.
	ModeColumn Mode = "column"
	// ModeMixed treats integers and spans as row addresses and names as
	// column addresses. This is the default.
	ModeMixed Mode = "mixed"
)

// ParseMode converts a string to a Mode, defaulting to ModeMixed for
// unrecognized input.
func ParseMode(s string) Mode {
	switch strings.ToLower(s) {
	case "row", "rows":
		return ModeRow
	case "column", "columns", "col":
		return ModeColumn
	default:
		return ModeMixed
	}
}

// axis is the storage direction a key resolves to under a mode.
type axis uint8

const (
	axisRow axis = iota
	axisColumn
	axisInvalid
)

// axisOf is the pure dispatch table: mode and key variant determine the
// axis with no reference to table contents.
func axisOf(m Mode, k Key) axis {
	switch m {
	case ModeRow:
		if k.kind == kindName {
			return axisInvalid
		}
		return axisRow
	case ModeColumn:
		return axisColumn
	default: // ModeMixed
		if k.kind == kindName {
			return axisColumn
		}
		return axisRow
	}
}
