package arrowio

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"go.uber.org/zap"

	"github.com/datamesa/mesa/pkg/config"
	"github.com/datamesa/mesa/pkg/logger"
	"github.com/datamesa/mesa/pkg/mesaerrors"
	"github.com/datamesa/mesa/pkg/metrics"
	"github.com/datamesa/mesa/pkg/row"
	stringpool "github.com/datamesa/mesa/pkg/strings"
	"github.com/datamesa/mesa/pkg/table"
)

// Format identifies a columnar file layout.
type Format string

const (
	// FormatArrow is the Arrow IPC file format.
	FormatArrow Format = "arrow"
	// FormatParquet is the Apache Parquet file format.
	FormatParquet Format = "parquet"
)

// batchSize is how many rows accumulate in the record builder before a
// batch is flushed to the file.
const batchSize = 1024

// tableSchema builds the serialization schema: one nullable string field
// per header. Cells are rendered as strings on the way out, so a single
// column type covers every table.
func tableSchema(headers []string) *arrow.Schema {
	fields := make([]arrow.Field, 0, len(headers))
	for _, name := range headers {
		fields = append(fields, arrow.Field{
			Name:     name,
			Type:     arrow.BinaryTypes.String,
			Nullable: true,
		})
	}
	return arrow.NewSchema(fields, nil)
}

// schemaHeaders extracts the column labels from a file schema.
func schemaHeaders(schema *arrow.Schema) []string {
	headers := make([]string, schema.NumFields())
	for i := range headers {
		headers[i] = schema.Field(i).Name
	}
	return headers
}

// appendRow appends one data row to the builder, one cell per schema
// field. Absent cells become nulls; rows wider than the schema lose
// their extra cells.
func appendRow(rb *array.RecordBuilder, r row.Row, width int) {
	for i := 0; i < width; i++ {
		b := rb.Field(i).(*array.StringBuilder)
		if v := r.At(i); v == nil {
			b.AppendNull()
		} else {
			b.Append(stringpool.ValueToString(v))
		}
	}
}

// columnValue extracts the cell at rowIdx from col, mapping nulls to
// absent cells and unknown column types to nil. String and binary cells
// are copied so they outlive the reader's buffers.
func columnValue(col arrow.Array, rowIdx int) row.Value {
	if col.IsNull(rowIdx) {
		return nil
	}

	switch c := col.(type) {
	case *array.String:
		return strings.Clone(c.Value(rowIdx))
	case *array.Boolean:
		return c.Value(rowIdx)
	case *array.Int64:
		return c.Value(rowIdx)
	case *array.Float64:
		return c.Value(rowIdx)
	case *array.Binary:
		return append([]byte(nil), c.Value(rowIdx)...)
	case *array.Timestamp:
		return time.Unix(0, int64(c.Value(rowIdx)))
	default:
		return nil
	}
}

// collectRows converts every row of a record batch into table rows
// sharing the file's header slice.
func collectRows(rows []row.Row, rec arrow.Record, headers []string) []row.Row {
	width := int(rec.NumCols())
	for rowIdx := 0; rowIdx < int(rec.NumRows()); rowIdx++ {
		fields := make([]row.Value, width)
		for colIdx := 0; colIdx < width; colIdx++ {
			fields[colIdx] = columnValue(rec.Column(colIdx), rowIdx)
		}
		rows = append(rows, row.NewRecord(headers, fields))
	}
	return rows
}

// fileFormat decides the layout for path. A config format naming one of
// the two layouts wins; otherwise a .parquet extension selects Parquet
// and everything else is Arrow IPC.
func fileFormat(path string, cfg *config.BaseConfig) Format {
	switch cfg.Output.Format {
	case string(FormatArrow):
		return FormatArrow
	case string(FormatParquet):
		return FormatParquet
	}
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return FormatParquet
	}
	return FormatArrow
}

// countWriter tracks how many bytes reached the underlying sink.
type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteFile renders t to the file at path in the layout fileFormat
// picks.
func WriteFile(path string, t *table.Table, cfg *config.BaseConfig) error {
	if cfg == nil {
		cfg = config.NewBaseConfig("arrow")
	}

	f, err := os.Create(path)
	if err != nil {
		return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to create columnar file").
			WithDetail("path", path)
	}
	defer f.Close()

	cw := &countWriter{w: f}
	format := fileFormat(path, cfg)

	switch format {
	case FormatParquet:
		err = NewParquetWriter(cw, cfg).WriteTable(t)
	default:
		err = NewWriter(cw, cfg).WriteTable(t)
	}
	if err != nil {
		return err
	}

	metrics.NewCollector("arrowio").RecordBytes(cw.n, string(format))
	logger.Get().Debug("columnar file written",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", t.Len()),
		zap.Int64("bytes", cw.n))
	return f.Close()
}

// ReadFile reads the table stored in the file at path, in the layout
// fileFormat picks.
func ReadFile(ctx context.Context, path string, cfg *config.BaseConfig) (*table.Table, error) {
	if cfg == nil {
		cfg = config.NewBaseConfig("arrow")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to open columnar file").
			WithDetail("path", path)
	}
	defer f.Close()

	format := fileFormat(path, cfg)

	var t *table.Table
	switch format {
	case FormatParquet:
		t, err = NewParquetReader(f, cfg).ReadTable(ctx)
	default:
		t, err = NewReader(f, cfg).ReadTable(ctx)
	}
	if err != nil {
		return nil, err
	}

	logger.Get().Debug("columnar file read",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", t.Len()))
	return t, nil
}
