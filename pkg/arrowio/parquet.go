package arrowio

import (
	"bytes"
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"go.uber.org/zap"

	"github.com/datamesa/mesa/pkg/compression"
	"github.com/datamesa/mesa/pkg/config"
	"github.com/datamesa/mesa/pkg/logger"
	"github.com/datamesa/mesa/pkg/mesaerrors"
	"github.com/datamesa/mesa/pkg/metrics"
	"github.com/datamesa/mesa/pkg/row"
	"github.com/datamesa/mesa/pkg/table"
)

// ParquetWriter renders tables as Parquet files.
type ParquetWriter struct {
	w         io.Writer
	cfg       *config.BaseConfig
	collector *metrics.Collector
}

// NewParquetWriter creates a table writer over w.
func NewParquetWriter(w io.Writer, cfg *config.BaseConfig) *ParquetWriter {
	if cfg == nil {
		cfg = config.NewBaseConfig("parquet")
	}
	return &ParquetWriter{
		w:         w,
		cfg:       cfg,
		collector: metrics.NewCollector("arrowio"),
	}
}

// WriteTable renders t as a complete Parquet file, so a ParquetWriter
// serves one table. Header-row placeholders and absent slots are never
// emitted; a non-zero configured limit caps the row window.
func (w *ParquetWriter) WriteTable(t *table.Table) error {
	timer := metrics.NewTimer("parquet_write")
	defer w.collector.ObserveLatency("write", timer.Stop())

	headers := t.Headers()
	schema := tableSchema(headers)
	alloc := memory.NewGoAllocator()
	codec, codecName := parquetCodec(w.cfg)

	props := parquet.NewWriterProperties(parquet.WithCompression(codec))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(alloc))

	fw, err := pqarrow.NewFileWriter(schema, w.w, props, arrowProps)
	if err != nil {
		return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFormat, "failed to create parquet writer")
	}

	rb := array.NewRecordBuilder(alloc, schema)
	defer rb.Release()

	end := t.Len()
	if w.cfg.Output.Limit != 0 {
		end = t.RowWindow(w.cfg.Output.Limit)
	}

	var written int64
	pending := 0
	for i := 0; i < end; i++ {
		r := t.RowAt(i)
		if r == nil || r.HeaderRow() {
			continue
		}
		appendRow(rb, r, len(headers))
		pending++
		written++

		if pending == batchSize {
			if err := flushParquetBatch(fw, rb); err != nil {
				w.collector.RecordWrite(written, err)
				return err
			}
			pending = 0
		}
	}

	if pending > 0 {
		if err := flushParquetBatch(fw, rb); err != nil {
			w.collector.RecordWrite(written, err)
			return err
		}
	}

	err = fw.Close()
	if err != nil {
		err = mesaerrors.Wrap(err, mesaerrors.ErrorTypeFormat, "failed to finalize parquet output")
	}
	w.collector.RecordWrite(written, err)
	if err == nil {
		logger.Get().Debug("parquet table written",
			zap.Int64("rows", written),
			zap.Int("columns", len(headers)),
			zap.String("codec", codecName))
	}
	return err
}

// flushParquetBatch writes the builder's accumulated rows as one
// buffered row group chunk and resets the builder.
func flushParquetBatch(fw *pqarrow.FileWriter, rb *array.RecordBuilder) error {
	rec := rb.NewRecord()
	defer rec.Release()

	if err := fw.WriteBuffered(rec); err != nil {
		return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFormat, "failed to write parquet record batch")
	}
	return nil
}

// parquetCodec maps the configured compression algorithm onto a parquet
// column codec. Parquet compresses internally, so this replaces the
// stream compression the text formats use; snappy is the default and
// the fallback for algorithms parquet has no codec for.
func parquetCodec(cfg *config.BaseConfig) (compress.Compression, string) {
	if !cfg.IsCompressionEnabled() {
		return compress.Codecs.Snappy, string(compression.Snappy)
	}

	switch compression.ParseAlgorithm(cfg.Compression.Algorithm) {
	case compression.Gzip, compression.Deflate:
		return compress.Codecs.Gzip, string(compression.Gzip)
	case compression.Zstd:
		return compress.Codecs.Zstd, string(compression.Zstd)
	case compression.LZ4:
		return compress.Codecs.Lz4Raw, string(compression.LZ4)
	default:
		return compress.Codecs.Snappy, string(compression.Snappy)
	}
}

// ParquetReader reads Parquet files into tables.
type ParquetReader struct {
	r         io.Reader
	cfg       *config.BaseConfig
	collector *metrics.Collector
}

// NewParquetReader creates a table reader over r.
func NewParquetReader(r io.Reader, cfg *config.BaseConfig) *ParquetReader {
	if cfg == nil {
		cfg = config.NewBaseConfig("parquet")
	}
	return &ParquetReader{
		r:         r,
		cfg:       cfg,
		collector: metrics.NewCollector("arrowio"),
	}
}

// ReadTable consumes the input and builds a table from it. Column labels
// come from the file schema and become the table's fallback headers; the
// table's mode comes from the output config.
func (r *ParquetReader) ReadTable(ctx context.Context) (*table.Table, error) {
	timer := metrics.NewTimer("parquet_read")
	defer r.collector.ObserveLatency("read", timer.Stop())

	// Parquet needs a seekable input, so buffer everything first.
	data, err := io.ReadAll(r.r)
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "failed to read parquet input")
	}

	fr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "failed to open parquet input")
	}
	defer fr.Close()

	ar, err := pqarrow.NewFileReader(fr, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "failed to create parquet arrow reader")
	}

	schema, err := ar.Schema()
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "failed to read parquet schema")
	}
	headers := schemaHeaders(schema)

	rr, err := ar.GetRecordReader(ctx, nil, nil)
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "failed to read parquet row groups")
	}
	defer rr.Release()

	rows := make([]row.Row, 0, int(fr.NumRows()))
	for rr.Next() {
		if err := ctx.Err(); err != nil {
			return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "parquet read canceled")
		}
		rows = collectRows(rows, rr.Record(), headers)
	}

	t := table.New(rows, headers).SetMode(table.ParseMode(r.cfg.Output.Mode))
	r.collector.RecordRead(int64(len(rows)), nil)
	logger.Get().Debug("parquet table read",
		zap.Int("rows", len(rows)),
		zap.Int("columns", len(headers)))
	return t, nil
}
