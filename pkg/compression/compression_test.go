package compression

import (
	"bytes"
	"strings"
	"testing"
)

func sampleCSV() []byte {
	var b strings.Builder
	b.WriteString("id,name,email,active\n")
	for i := 0; i < 200; i++ {
		b.WriteString("42,Alice Example,alice@example.com,true\n")
	}
	return []byte(b.String())
}

func TestRoundTrip(t *testing.T) {
	algorithms := []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate}
	original := sampleCSV()

	for _, alg := range algorithms {
		t.Run(string(alg), func(t *testing.T) {
			comp, err := NewCompressor(&Config{Algorithm: alg, Level: Default})
			if err != nil {
				t.Fatalf("NewCompressor(%s) failed: %v", alg, err)
			}

			compressed, err := comp.Compress(original)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}

			decompressed, err := comp.Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}

			if !bytes.Equal(original, decompressed) {
				t.Error("decompressed data does not match original")
			}

			if alg != None && len(compressed) >= len(original) {
				t.Errorf("%s did not shrink repetitive input: %d >= %d",
					alg, len(compressed), len(original))
			}
		})
	}
}

func TestStreamRoundTrip(t *testing.T) {
	algorithms := []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate}
	original := sampleCSV()

	for _, alg := range algorithms {
		t.Run(string(alg), func(t *testing.T) {
			comp, err := NewCompressor(&Config{Algorithm: alg, Level: Default})
			if err != nil {
				t.Fatalf("NewCompressor(%s) failed: %v", alg, err)
			}

			var compressed bytes.Buffer
			if err := comp.CompressStream(&compressed, bytes.NewReader(original)); err != nil {
				t.Fatalf("CompressStream failed: %v", err)
			}

			var decompressed bytes.Buffer
			if err := comp.DecompressStream(&decompressed, &compressed); err != nil {
				t.Fatalf("DecompressStream failed: %v", err)
			}

			if !bytes.Equal(original, decompressed.Bytes()) {
				t.Error("streamed round trip does not match original")
			}
		})
	}
}

func TestNewCompressorUnknownAlgorithm(t *testing.T) {
	_, err := NewCompressor(&Config{Algorithm: Algorithm("brotli")})
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestNewCompressorNilConfig(t *testing.T) {
	comp, err := NewCompressor(nil)
	if err != nil {
		t.Fatalf("NewCompressor(nil) failed: %v", err)
	}
	if comp.Algorithm() != Zstd {
		t.Errorf("default algorithm = %s, expected %s", comp.Algorithm(), Zstd)
	}
}

func TestCompressorPool(t *testing.T) {
	pool := NewCompressorPool(&Config{Algorithm: Zstd, Level: Fastest})
	original := sampleCSV()

	for i := 0; i < 10; i++ {
		compressed, err := pool.Compress(original)
		if err != nil {
			t.Fatalf("pooled Compress failed: %v", err)
		}
		decompressed, err := pool.Decompress(compressed)
		if err != nil {
			t.Fatalf("pooled Decompress failed: %v", err)
		}
		if !bytes.Equal(original, decompressed) {
			t.Fatal("pooled round trip does not match original")
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input    string
		expected Algorithm
	}{
		{"gzip", Gzip},
		{"gz", Gzip},
		{"GZIP", Gzip},
		{"snappy", Snappy},
		{"lz4", LZ4},
		{"zstd", Zstd},
		{"zst", Zstd},
		{"s2", S2},
		{"deflate", Deflate},
		{"flate", Deflate},
		{"", None},
		{"brotli", None},
	}

	for _, tt := range tests {
		if got := ParseAlgorithm(tt.input); got != tt.expected {
			t.Errorf("ParseAlgorithm(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}

func TestForExtension(t *testing.T) {
	tests := []struct {
		path     string
		expected Algorithm
		ok       bool
	}{
		{"events.csv.gz", Gzip, true},
		{"events.csv.zst", Zstd, true},
		{"events.csv.ZST", Zstd, true},
		{"events.jsonl.lz4", LZ4, true},
		{"events.csv.snappy", Snappy, true},
		{"events.csv.s2", S2, true},
		{"events.csv", None, false},
		{"events", None, false},
	}

	for _, tt := range tests {
		got, ok := ForExtension(tt.path)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("ForExtension(%q) = (%s, %t), expected (%s, %t)",
				tt.path, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestExtensionRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{Gzip, Snappy, LZ4, Zstd, S2, Deflate} {
		ext := alg.Extension()
		if ext == "" {
			t.Errorf("%s has no extension", alg)
			continue
		}
		got, ok := ForExtension("data.csv" + ext)
		if !ok || got != alg {
			t.Errorf("ForExtension(data.csv%s) = (%s, %t), expected (%s, true)", ext, got, ok, alg)
		}
	}

	if None.Extension() != "" {
		t.Error("None should have no extension")
	}
}

func TestLevelFromInt(t *testing.T) {
	tests := []struct {
		input    int
		expected Level
	}{
		{0, Default},
		{-1, Default},
		{1, Fastest},
		{3, Fastest},
		{5, Default},
		{7, Better},
		{9, Best},
		{42, Best},
	}

	for _, tt := range tests {
		if got := LevelFromInt(tt.input); got != tt.expected {
			t.Errorf("LevelFromInt(%d) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	for _, alg := range []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate} {
		comp, err := NewCompressor(&Config{Algorithm: alg, Level: Default})
		if err != nil {
			t.Fatalf("NewCompressor(%s) failed: %v", alg, err)
		}

		compressed, err := comp.Compress(nil)
		if err != nil {
			t.Fatalf("%s: Compress(nil) failed: %v", alg, err)
		}
		decompressed, err := comp.Decompress(compressed)
		if err != nil {
			t.Fatalf("%s: Decompress failed: %v", alg, err)
		}
		if len(decompressed) != 0 {
			t.Errorf("%s: expected empty output, got %d bytes", alg, len(decompressed))
		}
	}
}
