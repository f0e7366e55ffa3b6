// Package csvio reads and writes tables as delimited text.
//
// # Overview
//
// The package connects encoding/csv to the table engine: a Reader
// materializes delimited input into a table.Table, a Writer renders a
// table back out, and Encoder implements table.LineEncoder so the table
// package can serialize without knowing CSV quoting rules. Parsing
// options (delimiter, comment rune, header handling) come from
// config.CSVConfig and output shaping (header line, row limit) from
// config.OutputConfig.
//
// # Basic Usage
//
//	cfg := config.NewBaseConfig("report")
//	t, err := csvio.ReadString(ctx, "Name,Value\nfoo,0\n", cfg)
//	if err != nil {
//		return err
//	}
//
//	var sb strings.Builder
//	err = csvio.NewWriter(&sb, cfg).WriteTable(t)
//
// Files with a recognized compression extension (.gz, .zst, .lz4, .s2,
// .snappy, .deflate) are decompressed on read and compressed on write
// transparently.
package csvio
