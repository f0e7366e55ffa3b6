package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewBaseConfigDefaults(t *testing.T) {
	cfg := NewBaseConfig("test")

	if cfg.Name != "test" {
		t.Errorf("Name = %q, expected %q", cfg.Name, "test")
	}
	if cfg.CSV.Delimiter != "," {
		t.Errorf("CSV.Delimiter = %q, expected %q", cfg.CSV.Delimiter, ",")
	}
	if !cfg.CSV.HasHeaders {
		t.Error("CSV.HasHeaders should default to true")
	}
	if cfg.Output.Format != "csv" {
		t.Errorf("Output.Format = %q, expected %q", cfg.Output.Format, "csv")
	}
	if cfg.Output.Mode != "mixed" {
		t.Errorf("Output.Mode = %q, expected %q", cfg.Output.Mode, "mixed")
	}
	if cfg.Compression.Enabled {
		t.Error("Compression.Enabled should default to false")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BaseConfig)
		wantErr bool
	}{
		{"defaults", func(c *BaseConfig) {}, false},
		{"missing name", func(c *BaseConfig) { c.Name = "" }, true},
		{"multi-rune delimiter", func(c *BaseConfig) { c.CSV.Delimiter = ",," }, true},
		{"tab delimiter", func(c *BaseConfig) { c.CSV.Delimiter = "\t" }, false},
		{"multi-rune comment", func(c *BaseConfig) { c.CSV.Comment = "//" }, true},
		{"single comment", func(c *BaseConfig) { c.CSV.Comment = "#" }, false},
		{"bad format", func(c *BaseConfig) { c.Output.Format = "xml" }, true},
		{"parquet format", func(c *BaseConfig) { c.Output.Format = "parquet" }, false},
		{"json array format", func(c *BaseConfig) { c.Output.Format = "json" }, false},
		{"bad mode", func(c *BaseConfig) { c.Output.Mode = "diagonal" }, true},
		{"row mode", func(c *BaseConfig) { c.Output.Mode = "row" }, false},
		{"bad algorithm", func(c *BaseConfig) {
			c.Compression.Enabled = true
			c.Compression.Algorithm = "brotli"
		}, true},
		{"level out of range", func(c *BaseConfig) {
			c.Compression.Enabled = true
			c.Compression.Level = 42
		}, true},
		{"algorithm ignored when disabled", func(c *BaseConfig) {
			c.Compression.Enabled = false
			c.Compression.Algorithm = "brotli"
		}, false},
		{"bad log level", func(c *BaseConfig) { c.Logging.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewBaseConfig("test")
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDelimiterRune(t *testing.T) {
	tests := []struct {
		delimiter string
		expected  rune
	}{
		{"", ','},
		{",", ','},
		{"\t", '\t'},
		{"|", '|'},
		{"€", '€'},
	}

	for _, tt := range tests {
		c := CSVConfig{Delimiter: tt.delimiter}
		if got := c.DelimiterRune(); got != tt.expected {
			t.Errorf("DelimiterRune(%q) = %q, expected %q", tt.delimiter, got, tt.expected)
		}
	}
}

func TestCommentRune(t *testing.T) {
	c := CSVConfig{}
	if got := c.CommentRune(); got != 0 {
		t.Errorf("CommentRune() = %q, expected 0", got)
	}
	c.Comment = "#"
	if got := c.CommentRune(); got != '#' {
		t.Errorf("CommentRune() = %q, expected '#'", got)
	}
}

func TestIsCompressionEnabled(t *testing.T) {
	cfg := NewBaseConfig("test")
	if cfg.IsCompressionEnabled() {
		t.Error("compression should be disabled by default")
	}

	cfg.Compression.Enabled = true
	if !cfg.IsCompressionEnabled() {
		t.Error("compression should be enabled")
	}

	cfg.Compression.Algorithm = "none"
	if cfg.IsCompressionEnabled() {
		t.Error("algorithm none should report disabled")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesa.yaml")

	cfg := NewBaseConfig("roundtrip")
	cfg.Output.Format = "jsonl"
	cfg.Output.Limit = -5
	cfg.Compression.Enabled = true
	cfg.Compression.Algorithm = "lz4"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var loaded BaseConfig
	if err := Load(path, &loaded); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Name != "roundtrip" {
		t.Errorf("Name = %q, expected %q", loaded.Name, "roundtrip")
	}
	if loaded.Output.Format != "jsonl" {
		t.Errorf("Output.Format = %q, expected %q", loaded.Output.Format, "jsonl")
	}
	if loaded.Output.Limit != -5 {
		t.Errorf("Output.Limit = %d, expected -5", loaded.Output.Limit)
	}
	if loaded.Compression.Algorithm != "lz4" {
		t.Errorf("Compression.Algorithm = %q, expected %q", loaded.Compression.Algorithm, "lz4")
	}
}

func TestLoadEnvSubstitution(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesa.yaml")

	content := "name: env-test\noutput:\n  format: ${MESA_TEST_FORMAT}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	t.Setenv("MESA_TEST_FORMAT", "arrow")

	var cfg BaseConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output.Format != "arrow" {
		t.Errorf("Output.Format = %q, expected %q", cfg.Output.Format, "arrow")
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg BaseConfig
	err := Load("/nonexistent/mesa.yaml", &cfg)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("MESA_TEST_A", "alpha")

	tests := []struct {
		input    string
		expected string
	}{
		{"plain text", "plain text"},
		{"${MESA_TEST_A}", "alpha"},
		{"prefix ${MESA_TEST_A} suffix", "prefix alpha suffix"},
		{"${MESA_TEST_UNSET_XYZ}", ""},
		{"${unterminated", "${unterminated"},
	}

	for _, tt := range tests {
		if got := substituteEnvVars(tt.input); got != tt.expected {
			t.Errorf("substituteEnvVars(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
