// Package testutil provides shared helpers for mesa tests: zap test
// loggers, bounded contexts, table fixtures and CSV fixture files.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/datamesa/mesa/pkg/row"
	"github.com/datamesa/mesa/pkg/table"
)

// TestLogger creates a logger that writes to the test output and is
// cleaned up with the test.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout. The
// caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// Grid builds a table from a literal cell grid. Every row shares
// headers; cells are stored as strings, the common shape after parsing
// delimited text.
func Grid(headers []string, cells ...[]string) *table.Table {
	rows := make([]row.Row, 0, len(cells))
	for _, line := range cells {
		fields := make([]row.Value, len(line))
		for i, c := range line {
			fields[i] = c
		}
		rows = append(rows, row.NewRecord(headers, fields))
	}
	return table.New(rows, headers)
}

// SampleCSVFile writes a CSV fixture with the given number of data rows
// under dir and returns its path.
func SampleCSVFile(t *testing.T, dir string, rows int) string {
	t.Helper()

	path := filepath.Join(dir, "sample.csv")
	f, err := os.Create(path)
	require.NoError(t, err)

	_, err = f.WriteString("id,name,value\n")
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		_, err = fmt.Fprintf(f, "%d,row_%d,%.2f\n", i, i, float64(i)*1.5)
		require.NoError(t, err)
	}

	require.NoError(t, f.Close())
	return path
}
