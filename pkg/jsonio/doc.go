// Package jsonio reads and writes tables as JSON.
//
// # Overview
//
// Two layouts are supported: "jsonl" (the default, one object per line)
// and "json" (a single top-level array of objects), selected by
// config.OutputConfig.Format. Objects keep their key order in both
// directions: writing emits each row's fields in field order, and reading
// tokenizes objects so the resulting rows preserve the order keys
// appeared in the document. Reading accepts either layout regardless of
// the configured format.
//
// # Basic Usage
//
//	t, err := jsonio.ReadString(ctx, `{"Name":"foo","Value":"0"}`+"\n", cfg)
//	if err != nil {
//		return err
//	}
//	err = jsonio.NewWriter(os.Stdout, cfg).WriteTable(t)
//
// JSON has no header line, so config.OutputConfig.WriteHeaders does not
// apply; the row limit does, with the same negative-limit semantics as
// the CSV writer. Compressed files round-trip through the extensions the
// compression package recognizes.
package jsonio
