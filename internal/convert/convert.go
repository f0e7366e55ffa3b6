// Package convert orchestrates whole-file conversions between the table
// formats. It resolves formats from explicit names or file extensions,
// routes reading and writing to the format packages and logs progress.
//
// # Basic Usage
//
//	cfg := config.NewBaseConfig("mesa")
//	err := convert.Run(ctx, convert.Spec{In: "data.csv", Out: "data.parquet"}, cfg)
//
// Formats are detected from file extensions, looking through a trailing
// compression extension (data.csv.zst is CSV), unless the Spec names
// them explicitly.
package convert

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/datamesa/mesa/pkg/arrowio"
	"github.com/datamesa/mesa/pkg/config"
	"github.com/datamesa/mesa/pkg/csvio"
	"github.com/datamesa/mesa/pkg/jsonio"
	"github.com/datamesa/mesa/pkg/logger"
	"github.com/datamesa/mesa/pkg/mesaerrors"
	"github.com/datamesa/mesa/pkg/table"
)

// Spec names the endpoints of one conversion. From and To override
// extension detection when non-empty. Keep narrows the output to the
// listed columns; Drop removes the listed columns; the two are mutually
// exclusive.
type Spec struct {
	In   string
	Out  string
	From string
	To   string
	Keep []string
	Drop []string
}

// Run reads the input table, applies the column projection and writes the
// result in the target format.
func Run(ctx context.Context, spec Spec, cfg *config.BaseConfig) error {
	if len(spec.Keep) > 0 && len(spec.Drop) > 0 {
		return mesaerrors.New(mesaerrors.ErrorTypeConfig,
			"keep and drop column lists are mutually exclusive")
	}

	inFormat, err := ResolveFormat(spec.From, spec.In)
	if err != nil {
		return err
	}
	outFormat, err := ResolveFormat(spec.To, spec.Out)
	if err != nil {
		return err
	}

	log := logger.Get().With(zap.String("component", "convert"))
	log.Info("starting conversion",
		zap.String("in", spec.In),
		zap.String("out", spec.Out),
		zap.String("from", inFormat),
		zap.String("to", outFormat))

	start := time.Now()
	t, err := ReadTable(ctx, spec.In, inFormat, cfg)
	if err != nil {
		return err
	}

	projectColumns(t, spec.Keep, spec.Drop)

	if err := WriteTable(spec.Out, outFormat, t, cfg); err != nil {
		return err
	}

	log.Info("conversion completed",
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Headers())),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// projectColumns narrows t to the requested columns. Keep names the
// columns to retain, Drop the columns to remove; both match by header
// label, so unknown names are ignored.
func projectColumns(t *table.Table, keep, drop []string) {
	if len(keep) == 0 && len(drop) == 0 {
		return
	}

	doomed := make(map[string]bool, len(drop))
	for _, name := range drop {
		doomed[name] = true
	}
	if len(keep) > 0 {
		for _, h := range t.Headers() {
			doomed[h] = true
		}
		for _, name := range keep {
			delete(doomed, name)
		}
	}

	prev := t.Mode()
	t.SetMode(table.ModeColumn).DeleteFunc(func(e table.Entry) bool {
		return doomed[e.Header]
	})
	t.SetMode(prev)
}

// Head reads path and renders its first n data rows as CSV.
func Head(ctx context.Context, path, format string, n int) (string, error) {
	inFormat, err := ResolveFormat(format, path)
	if err != nil {
		return "", err
	}

	cfg := config.NewBaseConfig("head")
	t, err := ReadTable(ctx, path, inFormat, cfg)
	if err != nil {
		return "", err
	}

	cfg.Output.Format = "csv"
	cfg.Output.Limit = n
	return csvio.TableString(t, cfg)
}

// ReadTable routes reading to the format's package.
func ReadTable(ctx context.Context, path, format string, cfg *config.BaseConfig) (*table.Table, error) {
	cfg.Output.Format = format
	switch format {
	case "csv":
		return csvio.ReadFile(ctx, path, cfg)
	case "jsonl", "json":
		return jsonio.ReadFile(ctx, path, cfg)
	case "arrow", "parquet":
		return arrowio.ReadFile(ctx, path, cfg)
	default:
		return nil, mesaerrors.Newf(mesaerrors.ErrorTypeConfig, "unsupported format %q", format)
	}
}

// WriteTable routes writing to the format's package.
func WriteTable(path, format string, t *table.Table, cfg *config.BaseConfig) error {
	cfg.Output.Format = format
	switch format {
	case "csv":
		return csvio.WriteFile(path, t, cfg)
	case "jsonl", "json":
		return jsonio.WriteFile(path, t, cfg)
	case "arrow", "parquet":
		return arrowio.WriteFile(path, t, cfg)
	default:
		return mesaerrors.Newf(mesaerrors.ErrorTypeConfig, "unsupported format %q", format)
	}
}
