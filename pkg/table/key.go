package table

import (
	stringpool "github.com/datamesa/mesa/pkg/strings"
)

// keyKind tags the Key variant.
type keyKind uint8

const (
	kindIndex keyKind = iota
	kindSpan
	kindName
)

// Key addresses a row or a column. It is a tagged variant: an integer
// index, a half-open integer span, or a column name. Which axis a Key
// addresses depends on the table's mode.
type Key struct {
	kind  keyKind
	index int
	start int
	stop  int
	name  string
}

// Index addresses a single position. Negative values count back from the
// end of the axis they resolve against.
func Index(i int) Key {
	return Key{kind: kindIndex, index: i}
}

// Span addresses the half-open position range [start, stop). Negative
// endpoints count back from the end of the axis they resolve against.
func Span(start, stop int) Key {
	return Key{kind: kindSpan, start: start, stop: stop}
}

// Name addresses a column by label.
func Name(name string) Key {
	return Key{kind: kindName, name: name}
}

// String returns a diagnostic rendering of the key.
func (k Key) String() string {
	switch k.kind {
	case kindSpan:
		return stringpool.Sprintf("[%d,%d)", k.start, k.stop)
	case kindName:
		return stringpool.Sprintf("%q", k.name)
	default:
		return stringpool.Sprintf("%d", k.index)
	}
}

// resolveIndex maps a possibly negative index onto [0, size). The second
// return reports whether the resolved index is in range.
func resolveIndex(i, size int) (int, bool) {
	if i < 0 {
		i += size
	}
	return i, i >= 0 && i < size
}

// resolveSpan maps a possibly negative half-open span onto concrete
// endpoints against size. The endpoints are NOT clamped; ok reports
// whether the resolved start lies in [0, size]. A start equal to size is
// valid and denotes an empty selection.
func resolveSpan(start, stop, size int) (lo, hi int, ok bool) {
	if start < 0 {
		start += size
	}
	if stop < 0 {
		stop += size
	}
	return start, stop, start >= 0 && start <= size
}
