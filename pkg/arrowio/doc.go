// Package arrowio reads and writes tables as Apache Arrow IPC files and
// Parquet files.
//
// # Overview
//
// Both formats serialize the table against its effective headers: the
// schema carries one nullable string field per header, data rows are
// rendered cell by cell, and absent cells become nulls, so the
// absent/empty distinction survives a round trip. Header-row placeholders
// are never emitted; the schema already names the columns. Reading
// accepts files written by other systems too, mapping the common Arrow
// column types onto cell values and unknown types onto nulls.
//
// # Basic Usage
//
//	var buf bytes.Buffer
//	if err := arrowio.NewWriter(&buf, cfg).WriteTable(t); err != nil {
//		return err
//	}
//	back, err := arrowio.NewReader(&buf, cfg).ReadTable(ctx)
//
// WriteFile and ReadFile pick Parquet when the configured output format
// or the path extension says so, and Arrow IPC otherwise. Parquet
// compresses internally (snappy unless the config selects another
// codec), so the stream compression used by the text formats does not
// apply here. The schema makes config.OutputConfig.WriteHeaders
// irrelevant; the row limit applies with the same negative-limit
// semantics as the CSV writer.
package arrowio
