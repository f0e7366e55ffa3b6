package arrowio

import (
	"bytes"
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/datamesa/mesa/pkg/config"
	"github.com/datamesa/mesa/pkg/logger"
	"github.com/datamesa/mesa/pkg/mesaerrors"
	"github.com/datamesa/mesa/pkg/metrics"
	"github.com/datamesa/mesa/pkg/row"
	"github.com/datamesa/mesa/pkg/table"
)

// Writer renders tables as Arrow IPC files.
type Writer struct {
	w         io.Writer
	cfg       *config.BaseConfig
	collector *metrics.Collector
}

// NewWriter creates a table writer over w.
func NewWriter(w io.Writer, cfg *config.BaseConfig) *Writer {
	if cfg == nil {
		cfg = config.NewBaseConfig("arrow")
	}
	return &Writer{
		w:         w,
		cfg:       cfg,
		collector: metrics.NewCollector("arrowio"),
	}
}

// WriteTable renders t as a complete Arrow IPC file, footer included, so
// a Writer serves one table. Header-row placeholders and absent slots
// are never emitted; a non-zero configured limit caps the row window.
func (w *Writer) WriteTable(t *table.Table) error {
	timer := metrics.NewTimer("arrow_write")
	defer w.collector.ObserveLatency("write", timer.Stop())

	headers := t.Headers()
	schema := tableSchema(headers)
	alloc := memory.NewGoAllocator()

	fw, err := ipc.NewFileWriter(w.w, ipc.WithSchema(schema), ipc.WithAllocator(alloc))
	if err != nil {
		return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFormat, "failed to create arrow writer")
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
			if err := flushArrowBatch(fw, rb); err != nil {
				w.collector.RecordWrite(written, err)
				return err
			}
			pending = 0
		}
	}

	if pending > 0 {
		if err := flushArrowBatch(fw, rb); err != nil {
			w.collector.RecordWrite(written, err)
			return err
		}
	}

	err = fw.Close()
	if err != nil {
		err = mesaerrors.Wrap(err, mesaerrors.ErrorTypeFormat, "failed to finalize arrow output")
	}
	w.collector.RecordWrite(written, err)
	return err
}

// flushArrowBatch writes the builder's accumulated rows as one record
// batch and resets the builder.
func flushArrowBatch(fw *ipc.FileWriter, rb *array.RecordBuilder) error {
	rec := rb.NewRecord()
	defer rec.Release()

	if err := fw.Write(rec); err != nil {
		return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFormat, "failed to write arrow record batch")
	}
	return nil
}

// Reader reads Arrow IPC files into tables.
type Reader struct {
	r         io.Reader
	cfg       *config.BaseConfig
	collector *metrics.Collector
}

// NewReader creates a table reader over r.
func NewReader(r io.Reader, cfg *config.BaseConfig) *Reader {
	if cfg == nil {
		cfg = config.NewBaseConfig("arrow")
	}
	return &Reader{
		r:         r,
		cfg:       cfg,
		collector: metrics.NewCollector("arrowio"),
	}
}

// ReadTable consumes the input and builds a table from it. Column labels
// come from the file schema and become the table's fallback headers, so
// an empty file still carries its column names. The table's mode comes
// from the output config.
func (r *Reader) ReadTable(ctx context.Context) (*table.Table, error) {
	timer := metrics.NewTimer("arrow_read")
	defer r.collector.ObserveLatency("read", timer.Stop())

	// The IPC footer lives at the end of the file, so the input has to
	// be fully buffered before the first batch can be located.
	data, err := io.ReadAll(r.r)
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "failed to read arrow input")
	}

	fr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "failed to open arrow input")
	}
	defer fr.Close()

	headers := schemaHeaders(fr.Schema())

	var rows []row.Row
	for batch := 0; batch < fr.NumRecords(); batch++ {
		if err := ctx.Err(); err != nil {
			return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "arrow read canceled")
		}

		rec, err := fr.Record(batch)
		if err != nil {
			return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "failed to read arrow record batch")
		}
		rows = collectRows(rows, rec, headers)
	}

	t := table.New(rows, headers).SetMode(table.ParseMode(r.cfg.Output.Mode))
	r.collector.RecordRead(int64(len(rows)), nil)
	logger.Get().Debug("arrow table read",
		zap.Int("rows", len(rows)),
		zap.Int("columns", len(headers)),
		zap.Int("batches", fr.NumRecords()))
	return t, nil
}
