package jsonio

import (
	"encoding/json"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/datamesa/mesa/pkg/compression"
	"github.com/datamesa/mesa/pkg/config"
	jsonpool "github.com/datamesa/mesa/pkg/json"
	"github.com/datamesa/mesa/pkg/logger"
	"github.com/datamesa/mesa/pkg/mesaerrors"
	"github.com/datamesa/mesa/pkg/metrics"
	"github.com/datamesa/mesa/pkg/pool"
	"github.com/datamesa/mesa/pkg/row"
	stringpool "github.com/datamesa/mesa/pkg/strings"
	"github.com/datamesa/mesa/pkg/table"
)

// Writer renders tables as JSON objects, one per data row.
type Writer struct {
	w         io.Writer
	cfg       *config.BaseConfig
	collector *metrics.Collector
}

// NewWriter creates a table writer over w. A nil config writes jsonl.
func NewWriter(w io.Writer, cfg *config.BaseConfig) *Writer {
	if cfg == nil {
		cfg = config.NewBaseConfig("json")
	}
	return &Writer{
		w:         w,
		cfg:       cfg,
		collector: metrics.NewCollector("jsonio"),
	}
}

// WriteTable renders t, emitting an array when the configured format is
// "json" and newline-delimited objects otherwise. Header-row placeholders
// and absent slots are never emitted; a non-zero configured limit caps
// the row window.
func (w *Writer) WriteTable(t *table.Table) error {
	timer := metrics.NewTimer("json_write")
	defer w.collector.ObserveLatency("write", timer.Stop())

	enc := jsonpool.NewStreamingEncoder(w.w, w.cfg.Output.Format == "json")

	end := t.Len()
	if w.cfg.Output.Limit != 0 {
		end = t.RowWindow(w.cfg.Output.Limit)
	}

	written := 0
	for i := 0; i < end; i++ {
		r := t.RowAt(i)
		if r == nil || r.HeaderRow() {
			continue
		}
		if err := enc.Encode(marshalable(r)); err != nil {
			w.collector.RecordWrite(int64(written), err)
			return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFormat, "json row encoding failed")
		}
		written++
	}

	err := enc.Close()
	w.collector.RecordWrite(int64(written), err)
	return err
}

// marshalable adapts any row implementation to ordered-object encoding.
func marshalable(r row.Row) interface{} {
	if m, ok := r.(json.Marshaler); ok {
		return m
	}
	return row.FromPairs(r.Pairs())
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

// WriteFile renders t to the file at path, compressing when the config
// enables it or the path carries a known compression extension.
func WriteFile(path string, t *table.Table, cfg *config.BaseConfig) error {
	if cfg == nil {
		cfg = config.NewBaseConfig("json")
	}

	f, err := os.Create(path)
	if err != nil {
		return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to create json file").
			WithDetail("path", path)
	}
	defer f.Close()

	algo, compressed := writeAlgorithm(path, cfg)
	if !compressed {
		if err := NewWriter(f, cfg).WriteTable(t); err != nil {
			return err
		}
		logger.Get().Debug("json file written",
			zap.String("path", path),
			zap.Int("rows", t.Len()))
		return f.Close()
	}

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

	data, err := comp.Compress(buf.Bytes())
	if err != nil {
		return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to compress json file").
			WithDetail("path", path).
			WithDetail("algorithm", string(algo))
	}
	if _, err := f.Write(data); err != nil {
		return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to write json file").
			WithDetail("path", path)
	}

	collector := metrics.NewCollector("jsonio")
	collector.RecordBytes(int64(len(data)), string(algo))
	collector.RecordCompression(string(algo), buf.Len(), len(data))
	logger.Get().Debug("json file written",
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.String("compression", string(algo)))
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
