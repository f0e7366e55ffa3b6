package csvio

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/datamesa/mesa/pkg/compression"
	"github.com/datamesa/mesa/pkg/config"
	"github.com/datamesa/mesa/pkg/logger"
	"github.com/datamesa/mesa/pkg/mesaerrors"
	"github.com/datamesa/mesa/pkg/metrics"
	"github.com/datamesa/mesa/pkg/pool"
	stringpool "github.com/datamesa/mesa/pkg/strings"
	"github.com/datamesa/mesa/pkg/table"
)

// Writer renders tables as delimited text. Header emission and the row
// limit come from the output config.
type Writer struct {
	w         io.Writer
	cfg       *config.BaseConfig
	enc       *Encoder
	collector *metrics.Collector
}

// NewWriter creates a table writer over w. A nil config writes
// comma-delimited with a header line.
func NewWriter(w io.Writer, cfg *config.BaseConfig) *Writer {
	if cfg == nil {
		cfg = config.NewBaseConfig("csv")
	}
	return &Writer{
		w:         w,
		cfg:       cfg,
		enc:       NewEncoder(cfg),
		collector: metrics.NewCollector("csvio"),
	}
}

// WriteTable renders t. Header-row placeholders and absent slots are
// never emitted; a non-zero configured limit caps the row window, with
// negative limits counting back from the end.
func (w *Writer) WriteTable(t *table.Table) error {
	timer := metrics.NewTimer("csv_write")
	defer w.collector.ObserveLatency("write", timer.Stop())

	opts := []table.WriteOption{table.WithHeaders(w.cfg.Output.WriteHeaders)}
	if w.cfg.Output.Limit != 0 {
		opts = append(opts, table.WithLimit(w.cfg.Output.Limit))
	}

	err := t.WriteCSV(w.w, w.enc, opts...)
	w.collector.RecordWrite(int64(t.Len()), err)
	return err
}

// TableString renders t to a string using cfg's output settings.
func TableString(t *table.Table, cfg *config.BaseConfig) (string, error) {
	builder := stringpool.GetBuilder(stringpool.Large)
	defer stringpool.PutBuilder(builder, stringpool.Large)

	if err := NewWriter(builder, cfg).WriteTable(t); err != nil {
		return "", err
	}
	return stringpool.Clone(builder.String()), nil
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

// WriteFile renders t to the file at path. Compression applies when the
// config enables it or the path carries a known compression extension;
// the configured algorithm wins when both are present.
func WriteFile(path string, t *table.Table, cfg *config.BaseConfig) error {
	if cfg == nil {
		cfg = config.NewBaseConfig("csv")
	}

	f, err := os.Create(path)
	if err != nil {
		return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to create csv file").
			WithDetail("path", path)
	}
	defer f.Close()

	collector := metrics.NewCollector("csvio")
	cw := &countWriter{w: f}
	algo, compressed := writeAlgorithm(path, cfg)

	if !compressed {
		bw := bufio.NewWriter(cw)
		if err := NewWriter(bw, cfg).WriteTable(t); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to flush csv file").
				WithDetail("path", path)
		}
		collector.RecordBytes(cw.n, string(compression.None))
		logger.Get().Debug("csv file written",
			zap.String("path", path),
			zap.Int("rows", t.Len()))
		return f.Close()
	}

	// Render fully, then compress the rendering into the file.
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)
	if err := NewWriter(buf, cfg).WriteTable(t); err != nil {
		return err
	}

	comp, err := compression.NewCompressor(&compression.Config{
		Algorithm: algo,
		Level:     compression.LevelFromInt(cfg.Compression.Level),
	})
	if err != nil {
		return err
	}

	rendered := buf.Len()
	if err := comp.CompressStream(cw, bytes.NewReader(buf.Bytes())); err != nil {
		return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to compress csv file").
			WithDetail("path", path).
			WithDetail("algorithm", string(algo))
	}

	collector.RecordBytes(cw.n, string(algo))
	collector.RecordCompression(string(algo), rendered, int(cw.n))
	logger.Get().Debug("csv file written",
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.String("compression", string(algo)),
		zap.Int("raw_bytes", rendered),
		zap.Int64("compressed_bytes", cw.n))
	return f.Close()
}

// writeAlgorithm decides whether and how to compress output at path.
func writeAlgorithm(path string, cfg *config.BaseConfig) (compression.Algorithm, bool) {
	if cfg.IsCompressionEnabled() {
		return compression.ParseAlgorithm(cfg.Compression.Algorithm), true
	}
	if algo, ok := compression.ForExtension(path); ok {
		return algo, true
	}
	return compression.None, false
}
