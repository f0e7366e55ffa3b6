package jsonio

import (
	"context"
	"encoding/json"
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

// Reader materializes JSON input into tables. Both jsonl streams and a
// single top-level array are accepted; every element must be an object.
//
// Decoding walks tokens rather than unmarshaling into maps so that each
// row keeps its keys in document order. Nested objects decode as
// map[string]row.Value, nested arrays as []row.Value, and numbers as
// json.Number.
type Reader struct {
	cfg       *config.BaseConfig
	dec       *json.Decoder
	interner  *stringpool.Intern
	collector *metrics.Collector
}

// NewReader creates a table reader over r.
func NewReader(r io.Reader, cfg *config.BaseConfig) *Reader {
	if cfg == nil {
		cfg = config.NewBaseConfig("json")
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Reader{
		cfg:       cfg,
		dec:       dec,
		interner:  stringpool.NewIntern(),
		collector: metrics.NewCollector("jsonio"),
	}
}

// ReadTable parses the entire input into one table. The fallback header
// list is the union of keys in first-seen order; the table's mode comes
// from the output config. Empty input yields an empty table.
func (r *Reader) ReadTable(ctx context.Context) (*table.Table, error) {
	timer := metrics.NewTimer("json_read")
	defer r.collector.ObserveLatency("read", timer.Stop())

	rows, err := r.readRows(ctx)
	if err != nil {
		r.collector.RecordRead(int64(len(rows)), err)
		return nil, err
	}

	t := table.New(rows, r.headerUnion(rows)).SetMode(table.ParseMode(r.cfg.Output.Mode))
	r.collector.RecordRead(int64(len(rows)), nil)
	logger.Get().Debug("json table read", zap.Int("rows", t.Len()))
	return t, nil
}

func (r *Reader) readRows(ctx context.Context) ([]row.Row, error) {
	tok, err := r.dec.Token()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "json parse failed")
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, mesaerrors.Newf(mesaerrors.ErrorTypeData,
			"json input must be objects or an array of objects, got %v", tok)
	}

	var rows []row.Row
	switch delim {
	case '[':
		for r.dec.More() {
			if err := ctx.Err(); err != nil {
				return rows, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "json read canceled")
			}
			rec, err := r.readObject()
			if err != nil {
				return rows, err
			}
			rows = append(rows, rec)
		}
		// Closing bracket.
		if _, err := r.dec.Token(); err != nil {
			return rows, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "json parse failed")
		}
	case '{':
		rec, err := r.readObjectBody()
		if err != nil {
			return rows, err
		}
		rows = append(rows, rec)

		for {
			if err := ctx.Err(); err != nil {
				return rows, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "json read canceled")
			}
			tok, err := r.dec.Token()
			if err == io.EOF {
				break
			}
			if err != nil {
				return rows, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "json parse failed")
			}
			if d, ok := tok.(json.Delim); !ok || d != '{' {
				return rows, mesaerrors.Newf(mesaerrors.ErrorTypeData,
					"json stream element must be an object, got %v", tok)
			}
			rec, err := r.readObjectBody()
			if err != nil {
				return rows, err
			}
			rows = append(rows, rec)
		}
	default:
		return nil, mesaerrors.Newf(mesaerrors.ErrorTypeData,
			"json input must be objects or an array of objects, got %v", delim)
	}
	return rows, nil
}

// readObject consumes one full object including its opening brace.
func (r *Reader) readObject() (row.Row, error) {
	tok, err := r.dec.Token()
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "json parse failed")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, mesaerrors.Newf(mesaerrors.ErrorTypeData,
			"json array element must be an object, got %v", tok)
	}
	return r.readObjectBody()
}

// readObjectBody consumes key-value pairs after an already-consumed
// opening brace, preserving key order.
func (r *Reader) readObjectBody() (row.Row, error) {
	var pairs []row.Pair
	for r.dec.More() {
		keyTok, err := r.dec.Token()
		if err != nil {
			return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "json parse failed")
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, mesaerrors.Newf(mesaerrors.ErrorTypeData,
				"json object key must be a string, got %v", keyTok)
		}

		value, err := r.readValue()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, row.Pair{Header: r.interner.Get(key), Value: value})
	}

	// Closing brace.
	if _, err := r.dec.Token(); err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "json parse failed")
	}
	return row.FromPairs(pairs), nil
}

func (r *Reader) readValue() (row.Value, error) {
	tok, err := r.dec.Token()
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "json parse failed")
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// Primitive: string, json.Number, bool or nil.
		return tok, nil
	}

	switch delim {
	case '{':
		m := make(map[string]row.Value)
		for r.dec.More() {
			keyTok, err := r.dec.Token()
			if err != nil {
				return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "json parse failed")
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, mesaerrors.Newf(mesaerrors.ErrorTypeData,
					"json object key must be a string, got %v", keyTok)
			}
			value, err := r.readValue()
			if err != nil {
				return nil, err
			}
			m[key] = value
		}
		if _, err := r.dec.Token(); err != nil {
			return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "json parse failed")
		}
		return m, nil
	case '[':
		var s []row.Value
		for r.dec.More() {
			value, err := r.readValue()
			if err != nil {
				return nil, err
			}
			s = append(s, value)
		}
		if _, err := r.dec.Token(); err != nil {
			return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeData, "json parse failed")
		}
		return s, nil
	default:
		return nil, mesaerrors.Newf(mesaerrors.ErrorTypeData,
			"unexpected json delimiter %v", delim)
	}
}

// headerUnion collects every key across rows in first-seen order.
func (r *Reader) headerUnion(rows []row.Row) []string {
	var headers []string
	seen := make(map[string]struct{})
	for _, rec := range rows {
		for _, h := range rec.Headers() {
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			headers = append(headers, h)
		}
	}
	return headers
}

// ReadString parses s as JSON rows.
func ReadString(ctx context.Context, s string, cfg *config.BaseConfig) (*table.Table, error) {
	return NewReader(strings.NewReader(s), cfg).ReadTable(ctx)
}

// ReadFile parses the file at path, transparently decompressing when the
// extension names a known compression algorithm.
func ReadFile(ctx context.Context, path string, cfg *config.BaseConfig) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to open json file").
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
			return nil, mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to decompress json file").
				WithDetail("path", path).
				WithDetail("algorithm", string(algo))
		}
		src = buf
	}

	t, err := NewReader(src, cfg).ReadTable(ctx)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug("json file read", zap.String("path", path), zap.Int("rows", t.Len()))
	return t, nil
}
