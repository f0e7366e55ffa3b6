// Command mesa converts tabular data files between the formats the table
// engine speaks: CSV, JSON lines, JSON arrays, Arrow IPC and Parquet.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/datamesa/mesa/internal/convert"
	"github.com/datamesa/mesa/pkg/config"
	"github.com/datamesa/mesa/pkg/logger"
	"github.com/datamesa/mesa/pkg/metrics"
)

// Build metadata, overridable via -ldflags "-X main.version=...".
var (
	version   = "0.1.0"
	gitCommit = "unknown"
	buildTime = "unknown"
)

func main() {
	// Load .env if present.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		logLevel   string
	)

	root := &cobra.Command{
		Use:   "mesa",
		Short: "Mesa - mode-aware table engine for delimited and columnar data",
		Long: `Mesa reads tabular files into a mode-aware table (addressable by rows,
columns or both) and writes them back as CSV, JSON lines, JSON arrays,
Arrow IPC or Parquet, with transparent compression for the text formats.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Logs go to stderr so command output stays clean on stdout.
			return logger.Init(logger.Config{
				Level:       logLevel,
				Encoding:    "json",
				OutputPaths: []string{"stderr"},
			})
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newVersionCmd(), newFormatsCmd(), newInfoCmd(),
		newConvertCmd(&configFile), newHeadCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mesa v%s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", gitCommit)
			fmt.Fprintf(out, "Built: %s\n", buildTime)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

var formats = []struct{ name, description string }{
	{"csv", "delimited text, header line optional, transparent compression"},
	{"jsonl", "one JSON object per line, key order preserved"},
	{"json", "a single JSON array of objects"},
	{"arrow", "Arrow IPC file, absent cells stored as nulls"},
	{"parquet", "Parquet file, snappy-compressed by default"},
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported file formats",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Supported formats:")
			for _, f := range formats {
				fmt.Fprintf(out, "  - %-8s %s\n", f.name, f.description)
			}
		},
	}
}

func newInfoCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Describe a table file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := convert.ResolveFormat(from, args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			t, err := convert.ReadTable(ctx, args[0], format, config.NewBaseConfig("mesa"))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, t)
			fmt.Fprintf(out, "format: %s\n", format)
			fmt.Fprintf(out, "rows: %d\n", t.Len())
			headers := t.Headers()
			if len(headers) == 0 {
				fmt.Fprintln(out, "columns: 0")
				return nil
			}
			fmt.Fprintf(out, "columns: %d (%s)\n", len(headers), strings.Join(headers, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Input format; detected from the extension when empty")
	return cmd
}

func newConvertCmd(configFile *string) *cobra.Command {
	var (
		out, from, to string
		mode          string
		limit         int
		delimiter     string
		noHeaders     bool
		writeHeaders  bool
		compress      string
		level         int
		timeout       time.Duration
		keep, drop    []string
		showMetrics   bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a table file between formats",
		Long: `Convert reads a table file and writes it out in another format. Formats
are detected from the file extensions unless --from/--to override them.

Example:
  mesa convert data.csv -o data.parquet
  mesa convert data.jsonl -o data.csv.zst --mode column
  mesa convert data.csv -o slim.csv --drop comment`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			// Flags the caller actually set override the config file.
			fl := cmd.Flags()
			if fl.Changed("mode") {
				cfg.Output.Mode = mode
			}
			if fl.Changed("limit") {
				cfg.Output.Limit = limit
			}
			if fl.Changed("delimiter") {
				cfg.CSV.Delimiter = delimiter
			}
			if fl.Changed("no-headers") {
				cfg.CSV.HasHeaders = !noHeaders
			}
			if fl.Changed("write-headers") {
				cfg.Output.WriteHeaders = writeHeaders
			}
			if fl.Changed("compress") {
				cfg.Compression.Enabled = compress != "" && compress != "none"
				cfg.Compression.Algorithm = compress
			}
			if fl.Changed("level") {
				cfg.Compression.Level = level
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			spec := convert.Spec{
				In:   args[0],
				Out:  out,
				From: from,
				To:   to,
				Keep: keep,
				Drop: drop,
			}
			if err := convert.Run(ctx, spec, cfg); err != nil {
				return err
			}

			if showMetrics {
				text, err := metrics.Snapshot("mesa_")
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file path (required)")
	_ = cmd.MarkFlagRequired("out")
	cmd.Flags().StringVar(&from, "from", "", "Input format (csv, jsonl, json, arrow, parquet); detected from the extension when empty")
	cmd.Flags().StringVar(&to, "to", "", "Output format; detected from the extension when empty")
	cmd.Flags().StringVar(&mode, "mode", "mixed", "Table access mode (row, column, mixed)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap on data rows written; negative values count back from the end")
	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "CSV field delimiter")
	cmd.Flags().BoolVar(&noHeaders, "no-headers", false, "Treat the first CSV line as data, not headers")
	cmd.Flags().BoolVar(&writeHeaders, "write-headers", true, "Emit a CSV header line")
	cmd.Flags().StringSliceVar(&keep, "keep", nil, "Columns to keep, dropping the rest")
	cmd.Flags().StringSliceVar(&drop, "drop", nil, "Columns to drop")
	cmd.Flags().StringVar(&compress, "compress", "", "Compression for text outputs (gzip, snappy, lz4, zstd, s2, deflate)")
	cmd.Flags().IntVar(&level, "level", 3, "Compression level (0-9)")
	cmd.Flags().BoolVar(&showMetrics, "enable-metrics", false, "Print a Prometheus metrics summary after the conversion")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Conversion timeout")

	return cmd
}

func newHeadCmd() *cobra.Command {
	var (
		from string
		n    int
	)

	cmd := &cobra.Command{
		Use:   "head <file>",
		Short: "Print the first rows of a table file as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			text, err := convert.Head(ctx, args[0], from, n)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Input format; detected from the extension when empty")
	cmd.Flags().IntVarP(&n, "rows", "n", 10, "Number of rows to print")

	return cmd
}

// loadConfig builds the effective config, layering a YAML file over the
// defaults when one is given.
func loadConfig(path string) (*config.BaseConfig, error) {
	cfg := config.NewBaseConfig("mesa")
	if path == "" {
		return cfg, nil
	}
	if err := config.Load(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
