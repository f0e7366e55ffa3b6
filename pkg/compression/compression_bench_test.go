// Package compression provides compression benchmarks
package compression

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	jsonpool "github.com/datamesa/mesa/pkg/json"
)

// Test data generators

func generateCSVData(rows int) []byte {
	var b strings.Builder
	b.WriteString("id,name,email,age,score,active\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d,User %d,user%d@example.com,%d,%.2f,%t\n",
			i, i, i, rand.Intn(80)+20, rand.Float64()*100, rand.Intn(2) == 1)
	}
	return []byte(b.String())
}

func generateJSONLData(rows int) []byte {
	var b strings.Builder
	for i := 0; i < rows; i++ {
		line, _ := jsonpool.Marshal(map[string]interface{}{
			"id":     i,
			"name":   fmt.Sprintf("User %d", i),
			"email":  fmt.Sprintf("user%d@example.com", i),
			"age":    rand.Intn(80) + 20,
			"score":  rand.Float64() * 100,
			"active": rand.Intn(2) == 1,
		})
		b.Write(line)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func benchmarkAlgorithm(b *testing.B, alg Algorithm, data []byte) {
	comp, err := NewCompressor(&Config{Algorithm: alg, Level: Default})
	if err != nil {
		b.Fatalf("NewCompressor(%s) failed: %v", alg, err)
	}

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		compressed, err := comp.Compress(data)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := comp.Decompress(compressed); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompression(b *testing.B) {
	datasets := map[string][]byte{
		"csv_1k":    generateCSVData(1000),
		"csv_10k":   generateCSVData(10000),
		"jsonl_1k":  generateJSONLData(1000),
		"jsonl_10k": generateJSONLData(10000),
	}

	algorithms := []Algorithm{Gzip, Snappy, LZ4, Zstd, S2, Deflate}

	for name, data := range datasets {
		for _, alg := range algorithms {
			b.Run(fmt.Sprintf("%s/%s", name, alg), func(b *testing.B) {
				benchmarkAlgorithm(b, alg, data)
			})
		}
	}
}

func BenchmarkCompressorPool(b *testing.B) {
	data := generateCSVData(1000)
	pool := NewCompressorPool(&Config{Algorithm: Zstd, Level: Fastest})

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			compressed, err := pool.Compress(data)
			if err != nil {
				b.Fatal(err)
			}
			if _, err := pool.Decompress(compressed); err != nil {
				b.Fatal(err)
			}
		}
	})
}
