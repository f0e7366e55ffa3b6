package csvio

import (
	"bytes"
	"encoding/csv"

	"github.com/datamesa/mesa/pkg/config"
	"github.com/datamesa/mesa/pkg/mesaerrors"
	"github.com/datamesa/mesa/pkg/pool"
	"github.com/datamesa/mesa/pkg/row"
	stringpool "github.com/datamesa/mesa/pkg/strings"
	"github.com/datamesa/mesa/pkg/table"
)

// Encoder renders one field sequence per call with encoding/csv quoting
// rules and implements table.LineEncoder. It reuses a single buffer
// across calls, so it is not safe for concurrent use.
type Encoder struct {
	buf *bytes.Buffer
	w   *csv.Writer
}

var _ table.LineEncoder = (*Encoder)(nil)

// NewEncoder creates a line encoder using the configured delimiter. A nil
// config encodes comma-separated with LF terminators.
func NewEncoder(cfg *config.BaseConfig) *Encoder {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if cfg != nil {
		w.Comma = cfg.CSV.DelimiterRune()
	}
	return &Encoder{buf: buf, w: w}
}

// EncodeLine renders fields as a single terminated CSV record. Absent
// values render as empty fields.
func (e *Encoder) EncodeLine(fields []row.Value) (string, error) {
	record := pool.GetStringSlice()
	for _, f := range fields {
		record = append(record, stringpool.ValueToString(f))
	}

	e.buf.Reset()
	err := e.w.Write(record)
	e.w.Flush()
	pool.PutStringSlice(record)

	if err == nil {
		err = e.w.Error()
	}
	if err != nil {
		return "", mesaerrors.Wrap(err, mesaerrors.ErrorTypeFormat, "csv line encoding failed")
	}
	return e.buf.String(), nil
}
