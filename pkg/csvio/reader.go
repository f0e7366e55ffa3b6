package csvio

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/datamesa/mesa/pkg/compression"
	"github.com/datamesa/mesa/pkg/config"
	"github.com/datamesa/mesa/pkg/logger"
	"github.com/datamesa/mesa/pkg/mesaerrors"
	"github.com/datamesa/mesa/pkg/metrics"
	"github.com/datamesa/mesa/pkg/pool"
	"github.com/datamesa/mesa/pkg/row"
	stringpool "github.com/datamesa/mesa/pkg/strings"
	"github.com/datamesa/mesa/pkg/table"
)

// cancelCheckInterval is how many records pass between context checks
// during a parse.
const cancelCheckInterval = 1024

// Reader materializes delimited input into tables.
type Reader struct {
	cfg       *config.BaseConfig
	csv       *csv.Reader
	interner  *stringpool.Intern
	collector *metrics.Collector
}

// NewReader creates a table reader over r. A nil config uses defaults:
// comma-delimited with a consumed header line.
func NewReader(r io.Reader, cfg *config.BaseConfig) *Reader {
	if cfg == nil {
		cfg = config.NewBaseConfig("csv")
	}

	cr := csv.NewReader(r)
	cr.Comma = cfg.CSV.DelimiterRune()
	if c := cfg.CSV.CommentRune(); c != 0 {
		cr.Comment = c
	}
	cr.TrimLeadingSpace = cfg.CSV.TrimLeadingSpace
	cr.LazyQuotes = cfg.CSV.LazyQuotes
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	reader := &Reader{
		cfg:       cfg,
		csv:       cr,
		collector: metrics.NewCollector("csvio"),
	}
	if cfg.CSV.InternHeaders {
		reader.interner = stringpool.NewIntern()
	}
	return reader
}

// ReadTable parses the entire input into one table. With HasHeaders the
// first record names the columns and, unless IncludeHeaderRow keeps it as
// a placeholder first row, does not appear in the data. Headerless input
// gets synthesized column_N names from the first record's width. The
// table's mode comes from the output config.
func (r *Reader) ReadTable(ctx context.Context) (*table.Table, error) {
	timer := metrics.NewTimer("csv_read")
	defer r.collector.ObserveLatency("read", timer.Stop())

	var headers []string
	var rows []row.Row
	first := true

	for n := 0; ; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				r.collector.RecordRead(int64(len(rows)), err)
				return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "csv read canceled")
			}
		}

		record, err := r.csv.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			r.collector.RecordRead(int64(len(rows)), err)
			return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "csv parse failed")
		}

		if first {
			first = false
			if r.cfg.CSV.HasHeaders {
				headers = r.headerNames(record)
				if r.cfg.CSV.IncludeHeaderRow {
					rows = append(rows, row.NewHeaderRecord(headers))
				}
				continue
			}
			headers = r.syntheticHeaders(len(record))
		}

		rows = append(rows, row.NewRecord(headers, fieldValues(record)))
	}

	t := table.New(rows, headers).SetMode(table.ParseMode(r.cfg.Output.Mode))
	r.collector.RecordRead(int64(len(rows)), nil)
	logger.Get().Debug("csv table read",
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(headers)))
	return t, nil
}

func (r *Reader) headerNames(record []string) []string {
	headers := make([]string, len(record))
	for i, h := range record {
		if r.interner != nil {
			headers[i] = r.interner.Get(h)
		} else {
			headers[i] = strings.Clone(h)
		}
	}
	return headers
}

func (r *Reader) syntheticHeaders(width int) []string {
	headers := make([]string, width)
	for i := range headers {
		name := stringpool.Sprintf("column_%d", i)
		if r.interner != nil {
			name = r.interner.Get(name)
		}
		headers[i] = name
	}
	return headers
}

func fieldValues(record []string) []row.Value {
	values := make([]row.Value, len(record))
	for i, f := range record {
		values[i] = strings.Clone(f)
	}
	return values
}

// ReadString parses s as delimited text.
func ReadString(ctx context.Context, s string, cfg *config.BaseConfig) (*table.Table, error) {
	return NewReader(strings.NewReader(s), cfg).ReadTable(ctx)
}

// ReadFile parses the file at path, transparently decompressing when the
// extension names a known compression algorithm.
func ReadFile(ctx context.Context, path string, cfg *config.BaseConfig) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to open csv file").
			WithDetail("path", path)
	}
	defer f.Close()

	var src io.Reader = f
	if algo, ok := compression.ForExtension(path); ok {
		comp, err := compression.NewCompressor(&compression.Config{
			Algorithm: algo,
			Level:     compression.Default,
		})
		if err != nil {
			return nil, err
		}

		buf := pool.GetBuffer()
		defer pool.PutBuffer(buf)
		if err := comp.DecompressStream(buf, f); err != nil {
			return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to decompress csv file").
				WithDetail("path", path).
				WithDetail("algorithm", string(algo))
		}
		src = buf
	}

	t, err := NewReader(src, cfg).ReadTable(ctx)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug("csv file read", zap.String("path", path), zap.Int("rows", t.Len()))
	return t, nil
}
