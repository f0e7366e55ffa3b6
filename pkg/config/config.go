// Package config provides unified configuration management for mesa.
package config

import (
	"fmt"
	"unicode/utf8"
)

// BaseConfig is the single configuration structure shared by the mesa CLI,
// the I/O packages, and embedding applications. Tools that need extra fields
// embed BaseConfig inline and add their own.
type BaseConfig struct {
	// Identity
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`

	// Structured sections
	CSV         CSVConfig         `yaml:"csv" json:"csv"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Compression CompressionConfig `yaml:"compression" json:"compression"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
}

// CSVConfig controls CSV parsing and rendering.
type CSVConfig struct {
	// Delimiter is the field separator. Must be a single rune; empty means comma.
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// Comment, when non-empty, causes lines starting with this rune to be
	// ignored on read.
	Comment string `yaml:"comment" json:"comment"`
	// HasHeaders indicates the first line of input names the columns.
	HasHeaders bool `yaml:"has_headers" json:"has_headers"`
	// IncludeHeaderRow keeps the parsed header line as a data-bearing first
	// row instead of consuming it into table metadata.
	IncludeHeaderRow bool `yaml:"include_header_row" json:"include_header_row"`
	// TrimLeadingSpace strips leading whitespace in fields on read.
	TrimLeadingSpace bool `yaml:"trim_leading_space" json:"trim_leading_space"`
	// LazyQuotes permits bare quotes inside fields on read.
	LazyQuotes bool `yaml:"lazy_quotes" json:"lazy_quotes"`
	// InternHeaders deduplicates header strings across rows to reduce
	// allocations on wide files.
	InternHeaders bool `yaml:"intern_headers" json:"intern_headers"`
}

// OutputConfig controls serialization.
type OutputConfig struct {
	// Format selects the output encoding: csv, jsonl (one object per
	// line), json (a single array), arrow or parquet.
	Format string `yaml:"format" json:"format"`
	// Mode selects the table access mode: row, column or mixed.
	Mode string `yaml:"mode" json:"mode"`
	// WriteHeaders emits a header line before the data rows.
	WriteHeaders bool `yaml:"write_headers" json:"write_headers"`
	// Limit caps the number of data rows written. Zero means no cap; a
	// negative value counts back from the end of the table.
	Limit int `yaml:"limit" json:"limit"`
}

// CompressionConfig controls transparent compression of serialized output.
type CompressionConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Algorithm string `yaml:"algorithm" json:"algorithm"` // gzip, snappy, lz4, zstd, s2, deflate
	Level     int    `yaml:"level" json:"level"`         // 0-9, algorithm-dependent
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level"`       // debug, info, warn, error
	Encoding    string `yaml:"encoding" json:"encoding"` // json or console
	Development bool   `yaml:"development" json:"development"`
}

// NewBaseConfig creates a BaseConfig with production-ready defaults.
func NewBaseConfig(name string) *BaseConfig {
	return &BaseConfig{
		Name:    name,
		Version: "1.0.0",

		CSV: CSVConfig{
			Delimiter:     ",",
			HasHeaders:    true,
			InternHeaders: true,
		},

		Output: OutputConfig{
			Format:       "csv",
			Mode:         "mixed",
			WriteHeaders: true,
			Limit:        0,
		},

		Compression: CompressionConfig{
			Enabled:   false,
			Algorithm: "zstd",
			Level:     3,
		},

		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Validate checks the configuration for errors.
func (bc *BaseConfig) Validate() error {
	if bc.Name == "" {
		return fmt.Errorf("name is required")
	}

	if bc.CSV.Delimiter != "" && utf8.RuneCountInString(bc.CSV.Delimiter) != 1 {
		return fmt.Errorf("csv delimiter must be a single character, got %q", bc.CSV.Delimiter)
	}
	if bc.CSV.Comment != "" && utf8.RuneCountInString(bc.CSV.Comment) != 1 {
		return fmt.Errorf("csv comment must be a single character, got %q", bc.CSV.Comment)
	}

	switch bc.Output.Format {
	case "", "csv", "jsonl", "json", "arrow", "parquet":
	default:
		return fmt.Errorf("unknown output format %q", bc.Output.Format)
	}

	switch bc.Output.Mode {
	case "", "row", "column", "mixed":
	default:
		return fmt.Errorf("unknown access mode %q", bc.Output.Mode)
	}

	if bc.Compression.Enabled {
		switch bc.Compression.Algorithm {
		case "gzip", "snappy", "lz4", "zstd", "s2", "deflate", "none":
		default:
			return fmt.Errorf("unknown compression algorithm %q", bc.Compression.Algorithm)
		}
		if bc.Compression.Level < 0 || bc.Compression.Level > 9 {
			return fmt.Errorf("compression level must be 0-9, got %d", bc.Compression.Level)
		}
	}

	switch bc.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", bc.Logging.Level)
	}

	return nil
}

// DelimiterRune returns the configured CSV delimiter as a rune, defaulting
// to comma.
func (c *CSVConfig) DelimiterRune() rune {
	if c.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// CommentRune returns the configured CSV comment rune, or zero when comment
// handling is disabled.
func (c *CSVConfig) CommentRune() rune {
	if c.Comment == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.Comment)
	return r
}

// IsCompressionEnabled returns true if output compression should be applied.
func (bc *BaseConfig) IsCompressionEnabled() bool {
	return bc.Compression.Enabled && bc.Compression.Algorithm != "none" && bc.Compression.Algorithm != ""
}
