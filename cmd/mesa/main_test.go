package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datamesa/mesa/pkg/csvio"
	"github.com/datamesa/mesa/pkg/jsonio"
	"github.com/datamesa/mesa/pkg/testutil"
)

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "Mesa v"+version)
	assert.Contains(t, buf.String(), "Commit: "+gitCommit)
	assert.Contains(t, buf.String(), "Go version:")
}

func TestFormatsCmd(t *testing.T) {
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"formats"})

	require.NoError(t, root.Execute())
	for _, f := range formats {
		assert.Contains(t, buf.String(), f.name)
	}
}

func TestInfoCmd(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SampleCSVFile(t, dir, 3)

	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"info", src})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "format: csv")
	assert.Contains(t, buf.String(), "rows: 3")
	assert.Contains(t, buf.String(), "columns: 3 (id, name, value)")
}

func TestConvertCSVToJSONL(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SampleCSVFile(t, dir, 3)
	dst := filepath.Join(dir, "out.jsonl")

	root := newRootCmd()
	root.SetArgs([]string{"convert", src, "-o", dst})
	require.NoError(t, root.Execute())

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := jsonio.ReadFile(ctx, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"id", "name", "value"}, tbl.Headers())
	assert.Equal(t, "row_1", tbl.RowAt(1).Get("name"))
}

func TestConvertLimitFlag(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SampleCSVFile(t, dir, 3)
	dst := filepath.Join(dir, "out.jsonl")

	root := newRootCmd()
	root.SetArgs([]string{"convert", src, "-o", dst, "--limit", "2"})
	require.NoError(t, root.Execute())

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := jsonio.ReadFile(ctx, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}

func TestConvertCompressFlag(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SampleCSVFile(t, dir, 3)
	dst := filepath.Join(dir, "out.csv")

	root := newRootCmd()
	root.SetArgs([]string{"convert", src, "-o", dst, "--compress", "gzip"})
	require.NoError(t, root.Execute())

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])
}

func TestConvertDropFlag(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SampleCSVFile(t, dir, 3)
	dst := filepath.Join(dir, "out.csv")

	root := newRootCmd()
	root.SetArgs([]string{"convert", src, "-o", dst, "--drop", "name"})
	require.NoError(t, root.Execute())

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := csvio.ReadFile(ctx, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "value"}, tbl.Headers())
}

func TestConvertKeepDropConflict(t *testing.T) {
	root := newRootCmd()
	root.SetErr(new(bytes.Buffer))
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"convert", "data.csv", "-o", "out.csv", "--keep", "id", "--drop", "name"})

	require.Error(t, root.Execute())
}

func TestConvertEnableMetricsFlag(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SampleCSVFile(t, dir, 3)
	dst := filepath.Join(dir, "out.jsonl")

	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"convert", src, "-o", dst, "--enable-metrics"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "mesa_rows_read_total")
}

func TestConvertUndetectableFormat(t *testing.T) {
	root := newRootCmd()
	root.SetErr(new(bytes.Buffer))
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"convert", "data.bin", "-o", "out.bin"})

	require.Error(t, root.Execute())
}

func TestConvertModeFlag(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SampleCSVFile(t, dir, 3)
	dst := filepath.Join(dir, "out.csv")

	root := newRootCmd()
	root.SetArgs([]string{"convert", src, "-o", dst, "--mode", "column"})
	require.NoError(t, root.Execute())

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	tbl, err := csvio.ReadFile(ctx, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
}

func TestHeadCmd(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SampleCSVFile(t, dir, 3)

	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"head", src, "-n", "2"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "id,name,value\n0,row_0,0.00\n1,row_1,1.50\n", buf.String())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "mixed", cfg.Output.Mode)
}
