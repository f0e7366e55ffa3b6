package table

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/datamesa/mesa/pkg/mesaerrors"
	"github.com/datamesa/mesa/pkg/row"
)

// pipeEncoder renders fields pipe-separated so tests stay independent of
// any real CSV escaping.
type pipeEncoder struct{}

func (pipeEncoder) EncodeLine(fields []row.Value) (string, error) {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f == nil {
			continue
		}
		parts[i] = fmt.Sprint(f)
	}
	return strings.Join(parts, "|") + "\n", nil
}

type failingEncoder struct{}

func (failingEncoder) EncodeLine([]row.Value) (string, error) {
	return "", errors.New("encode boom")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write boom")
}

func TestToRows(t *testing.T) {
	tbl := threeRows()

	got := tbl.ToRows()
	expected := [][]row.Value{
		{"Name", "Value"},
		{"foo", "0"},
		{"bar", "1"},
		{"baz", "2"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ToRows() = %v, expected %v", got, expected)
	}

	// Entry n+1 of the projection is row n read back as fields.
	for n := 0; n < tbl.Len(); n++ {
		if !reflect.DeepEqual(got[n+1], tbl.RowAt(n).Fields()) {
			t.Errorf("projection entry %d does not match RowAt(%d)", n+1, n)
		}
	}
}

func TestToRowsSkipsPlaceholdersAndAbsentSlots(t *testing.T) {
	tbl := New([]row.Row{
		row.NewHeaderRecord(sampleHeaders),
		row.NewRecord(sampleHeaders, []row.Value{"foo", "0"}),
		nil,
		row.NewRecord(sampleHeaders, []row.Value{"bar", "1"}),
	}, nil)

	got := tbl.ToRows()
	expected := [][]row.Value{
		{"Name", "Value"},
		{"foo", "0"},
		{"bar", "1"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ToRows() = %v, expected %v", got, expected)
	}
}

func TestWriteCSV(t *testing.T) {
	tbl := threeRows()

	var sb strings.Builder
	if err := tbl.WriteCSV(&sb, pipeEncoder{}); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	expected := "Name|Value\nfoo|0\nbar|1\nbaz|2\n"
	if got := sb.String(); got != expected {
		t.Errorf("output = %q, expected %q", got, expected)
	}
}

func TestWriteCSVWithoutHeaders(t *testing.T) {
	tbl := threeRows()

	var sb strings.Builder
	if err := tbl.WriteCSV(&sb, pipeEncoder{}, WithHeaders(false)); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if got := sb.String(); got != "foo|0\nbar|1\nbaz|2\n" {
		t.Errorf("output = %q", got)
	}
}

func TestWriteCSVLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		expected string
	}{
		{"cap", 2, "Name|Value\nfoo|0\nbar|1\n"},
		{"zero", 0, "Name|Value\n"},
		{"beyond end", 10, "Name|Value\nfoo|0\nbar|1\nbaz|2\n"},
		{"keep all from end", -1, "Name|Value\nfoo|0\nbar|1\nbaz|2\n"},
		{"drop last", -2, "Name|Value\nfoo|0\nbar|1\n"},
		{"past start", -9, "Name|Value\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			if err := threeRows().WriteCSV(&sb, pipeEncoder{}, WithLimit(tt.limit)); err != nil {
				t.Fatalf("WriteCSV failed: %v", err)
			}
			if got := sb.String(); got != tt.expected {
				t.Errorf("output = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestRowWindow(t *testing.T) {
	tbl := threeRows()

	tests := []struct {
		limit    int
		expected int
	}{
		{0, 0},
		{2, 2},
		{3, 3},
		{9, 3},
		{-1, 3},
		{-2, 2},
		{-4, 0},
		{-9, 0},
	}

	for _, tt := range tests {
		if got := tbl.RowWindow(tt.limit); got != tt.expected {
			t.Errorf("RowWindow(%d) = %d, expected %d", tt.limit, got, tt.expected)
		}
	}
}

func TestWriteCSVLimitCountsPlaceholderSlots(t *testing.T) {
	tbl := New([]row.Row{
		row.NewHeaderRecord(sampleHeaders),
		row.NewRecord(sampleHeaders, []row.Value{"foo", "0"}),
		row.NewRecord(sampleHeaders, []row.Value{"bar", "1"}),
	}, nil)

	// The placeholder occupies a window slot without being emitted.
	var sb strings.Builder
	if err := tbl.WriteCSV(&sb, pipeEncoder{}, WithLimit(2)); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if got := sb.String(); got != "Name|Value\nfoo|0\n" {
		t.Errorf("output = %q", got)
	}
}

func TestWriteCSVEncoderError(t *testing.T) {
	var sb strings.Builder
	if err := threeRows().WriteCSV(&sb, failingEncoder{}); err == nil {
		t.Fatal("encoder errors should propagate")
	}
}

func TestWriteCSVWriterError(t *testing.T) {
	if err := threeRows().WriteCSV(failingWriter{}, pipeEncoder{}); err == nil {
		t.Fatal("writer errors should propagate")
	}
}

func TestDigIntoRow(t *testing.T) {
	tbl := threeRows()

	v, err := tbl.Dig(Index(1), "Name")
	if err != nil {
		t.Fatalf("Dig failed: %v", err)
	}
	if v != "bar" {
		t.Errorf("Dig(1, Name) = %v, expected bar", v)
	}

	// No trailing path returns the addressee itself.
	v, err = tbl.Dig(Index(1))
	if err != nil {
		t.Fatalf("Dig failed: %v", err)
	}
	if _, ok := v.(row.Row); !ok {
		t.Errorf("Dig(1) = %T, expected a row", v)
	}
}

func TestDigAbsentShortCircuits(t *testing.T) {
	tbl := threeRows()

	v, err := tbl.Dig(Index(9), "Name", "more")
	if err != nil {
		t.Fatalf("Dig failed: %v", err)
	}
	if v != nil {
		t.Errorf("Dig past the end = %v, expected nil", v)
	}
}

func TestDigIntoColumn(t *testing.T) {
	tbl := threeRows()

	v, err := tbl.Dig(Name("Name"), 2)
	if err != nil {
		t.Fatalf("Dig failed: %v", err)
	}
	if v != "baz" {
		t.Errorf("Dig(Name, 2) = %v, expected baz", v)
	}

	v, err = tbl.Dig(Name("ghost"), 0)
	if err != nil {
		t.Fatalf("Dig failed: %v", err)
	}
	if v != nil {
		t.Errorf("Dig into a missing column = %v, expected nil", v)
	}
}

func TestDigIntoSpan(t *testing.T) {
	tbl := threeRows()

	v, err := tbl.Dig(Span(1, 3), 0, "Name")
	if err != nil {
		t.Fatalf("Dig failed: %v", err)
	}
	if v != "bar" {
		t.Errorf("Dig(span, 0, Name) = %v, expected bar", v)
	}

	v, err = tbl.Dig(Span(0, 3), -1, "Value")
	if err != nil {
		t.Fatalf("Dig failed: %v", err)
	}
	if v != "2" {
		t.Errorf("Dig(span, -1, Value) = %v, expected 2", v)
	}
}

func TestDigPastScalar(t *testing.T) {
	tbl := threeRows()

	_, err := tbl.Dig(Index(0), "Name", "deeper")
	if err == nil {
		t.Fatal("digging past a scalar should fail")
	}
	if !mesaerrors.IsType(err, mesaerrors.ErrorTypeType) {
		t.Errorf("error type = %v, expected type error", mesaerrors.GetType(err))
	}
}

func TestDigPropagatesKeyErrors(t *testing.T) {
	tbl := threeRows().SetMode(ModeRow)

	_, err := tbl.Dig(Name("Name"), 0)
	if err == nil {
		t.Fatal("name key in row mode should fail")
	}
}

func TestEqualRoundTrip(t *testing.T) {
	tbl := threeRows()

	rows := make([]row.Row, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		rows[i] = tbl.RowAt(i)
	}
	rebuilt := New(rows, tbl.Headers())
	if !rebuilt.Equal(tbl) {
		t.Error("rebuilt table should equal the original")
	}
}

func TestEqualComparesRowSequencesOnly(t *testing.T) {
	a := threeRows()
	b := threeRows().SetMode(ModeColumn)

	// Same content through fresh records; mode and headers do not matter.
	if !a.Equal(b) {
		t.Error("tables with equal rows should be equal")
	}

	if a.Equal(nil) {
		t.Error("Equal(nil) should be false")
	}

	if _, err := b.Delete(Name("Value")); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if a.Equal(b) {
		t.Error("tables should differ after a column delete")
	}
}

func TestEqualRows(t *testing.T) {
	tbl := threeRows()

	if !tbl.EqualRows([]row.Row{
		row.NewRecord(sampleHeaders, []row.Value{"foo", "0"}),
		row.NewRecord(sampleHeaders, []row.Value{"bar", "1"}),
		row.NewRecord(sampleHeaders, []row.Value{"baz", "2"}),
	}) {
		t.Error("EqualRows should match structurally equal records")
	}
	if tbl.EqualRows(nil) {
		t.Error("EqualRows(nil) should be false for a populated table")
	}
}
