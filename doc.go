// Package mesa provides a mode-aware table engine for delimited and
// columnar data. A table is an ordered collection of header-sharing rows
// that can be addressed by row position, by column name, or by both at
// once, with the same call surface across all three modes.
//
// # Addressing Modes
//
// Every table carries an addressing mode that decides what a key means:
//
//   - ModeRow: integer keys and spans select rows; string keys are a
//     type error.
//   - ModeColumn: integer and string keys select columns; spans slice
//     each row's fields positionally.
//   - ModeMixed: integer keys and spans select rows, string keys select
//     columns. This is the default.
//
// Switching modes never touches the stored data. SetMode flips the
// receiver; WithMode returns a sibling view sharing the same rows.
//
// # Quick Start
//
// Build a table and address it both ways:
//
//	import (
//	    "github.com/datamesa/mesa/pkg/row"
//	    "github.com/datamesa/mesa/pkg/table"
//	)
//
//	headers := []string{"name", "country"}
//	t := table.New([]row.Row{
//	    row.NewRecord(headers, []row.Value{"Lisbon", "PT"}),
//	    row.NewRecord(headers, []row.Value{"Madrid", "ES"}),
//	}, headers)
//
//	first, _ := t.Get(table.Index(0))          // a row.Row
//	names, _ := t.Get(table.Name("name"))      // a []row.Value column
//	window, _ := t.Get(table.Span(0, 2))       // a clamped []row.Row
//
//	t.Set(table.Name("visited"), "no")         // broadcast a new column
//	t.Delete(table.Index(-1))                  // drop the last row
//
//	for e := range t.Each() {
//	    _ = e.Index
//	    _ = e.Row
//	}
//
// Parse and render through the format packages:
//
//	cfg := config.NewBaseConfig("demo")
//	t, err := csvio.ReadFile(ctx, "input.csv", cfg)
//	err = arrowio.WriteFile("output.parquet", t, cfg)
//
// # Key Packages
//
//	pkg/table       - The engine: modes, keys, access, mutation, iteration
//	pkg/row         - Header-aware record rows and cell values
//	pkg/csvio       - Delimited text reading and writing
//	pkg/jsonio      - JSON Lines and JSON array documents
//	pkg/arrowio     - Arrow IPC and Parquet files
//	pkg/compression - Streaming codecs shared by the text formats
//	pkg/config      - Unified YAML configuration
//	pkg/mesaerrors  - Structured error handling
//	pkg/logger      - Structured logging
//	pkg/metrics     - Prometheus collectors for IO and engine activity
//
// # Formats
//
// The cmd/mesa CLI converts between formats, detecting them from file
// extensions:
//
//	csv      - Delimited text, configurable delimiter
//	jsonl    - One JSON object per line
//	json     - A single JSON array document
//	arrow    - Arrow IPC file format
//	parquet  - Parquet with configurable column codec
//
// The text formats pass through streaming compression (gzip, zstd, lz4,
// snappy, s2, deflate) when enabled; Parquet compresses its own column
// chunks instead.
//
// # Configuration
//
// All packages accept the same configuration root:
//
//	type BaseConfig struct {
//	    Name        string
//	    Version     string
//	    CSV         CSVConfig         // Delimiter, headers, parsing knobs
//	    Output      OutputConfig      // Format, mode, limit, header emission
//	    Compression CompressionConfig // Algorithm and level
//	    Logging     LoggingConfig     // Level and encoding
//	}
//
// Configuration files are YAML; environment variables are supported with
// ${VAR_NAME} syntax.
package mesa
