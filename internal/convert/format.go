package convert

import (
	"path/filepath"
	"strings"

	"github.com/datamesa/mesa/pkg/compression"
	"github.com/datamesa/mesa/pkg/mesaerrors"
)

// ResolveFormat returns the explicit format if given, otherwise the one
// detected from the path.
func ResolveFormat(explicit, path string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if format := DetectFormat(path); format != "" {
		return format, nil
	}
	return "", mesaerrors.Newf(mesaerrors.ErrorTypeConfig,
		"cannot detect a format for %q, pass --from/--to", path)
}

// DetectFormat maps a file extension to a format name, looking through a
// trailing compression extension first.
func DetectFormat(path string) string {
	base := path
	if _, ok := compression.ForExtension(base); ok {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	switch strings.ToLower(filepath.Ext(base)) {
	case ".csv", ".tsv":
		return "csv"
	case ".jsonl", ".ndjson":
		return "jsonl"
	case ".json":
		return "json"
	case ".arrow", ".feather":
		return "arrow"
	case ".parquet":
		return "parquet"
	default:
		return ""
	}
}
