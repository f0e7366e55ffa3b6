package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/datamesa/mesa/pkg/arrowio"
	"github.com/datamesa/mesa/pkg/config"
	"github.com/datamesa/mesa/pkg/csvio"
	"github.com/datamesa/mesa/pkg/jsonio"
	"github.com/datamesa/mesa/pkg/mesaerrors"
	"github.com/datamesa/mesa/pkg/testutil"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"data.csv", "csv"},
		{"data.tsv", "csv"},
		{"data.CSV", "csv"},
		{"data.jsonl", "jsonl"},
		{"data.ndjson", "jsonl"},
		{"data.json", "json"},
		{"data.arrow", "arrow"},
		{"data.feather", "arrow"},
		{"data.parquet", "parquet"},
		{"data.csv.zst", "csv"},
		{"data.jsonl.gz", "jsonl"},
		{"data.bin", ""},
		{"data", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectFormat(tc.path), tc.path)
	}
}

func TestResolveFormat(t *testing.T) {
	got, err := ResolveFormat("parquet", "data.csv")
	require.NoError(t, err)
	assert.Equal(t, "parquet", got)

	got, err = ResolveFormat("", "data.csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", got)

	_, err = ResolveFormat("", "data.bin")
	require.Error(t, err)
	assert.True(t, mesaerrors.IsType(err, mesaerrors.ErrorTypeConfig))
}

func TestRunUnknownFormat(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	err := Run(ctx, Spec{In: "x.bin", Out: "y.bin"}, config.NewBaseConfig("test"))
	require.Error(t, err)
	assert.True(t, mesaerrors.IsType(err, mesaerrors.ErrorTypeConfig))
}

func TestRunMissingInput(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	spec := Spec{
		In:  filepath.Join(t.TempDir(), "missing.csv"),
		Out: filepath.Join(t.TempDir(), "out.jsonl"),
	}
	err := Run(ctx, spec, config.NewBaseConfig("test"))
	require.Error(t, err)
	assert.True(t, mesaerrors.IsType(err, mesaerrors.ErrorTypeFile))
}

func TestRunKeepDropConflict(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	spec := Spec{In: "x.csv", Out: "y.csv", Keep: []string{"a"}, Drop: []string{"b"}}
	err := Run(ctx, spec, config.NewBaseConfig("test"))
	require.Error(t, err)
	assert.True(t, mesaerrors.IsType(err, mesaerrors.ErrorTypeConfig))
}

func TestHead(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SampleCSVFile(t, dir, 3)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	text, err := Head(ctx, src, "", 2)
	require.NoError(t, err)
	assert.Equal(t, "id,name,value\n0,row_0,0.00\n1,row_1,1.50\n", text)
}

type ConvertSuite struct {
	testutil.IOSuite
}

func TestConvertSuite(t *testing.T) {
	suite.Run(t, new(ConvertSuite))
}

func (s *ConvertSuite) TestCSVToArrowAndBack() {
	src := testutil.SampleCSVFile(s.T(), s.TempDir(), 3)
	arrowPath := s.TempPath("data.arrow")
	backPath := s.TempPath("back.csv")

	cfg := config.NewBaseConfig("test")
	s.Require().NoError(Run(s.Context(), Spec{In: src, Out: arrowPath}, cfg))
	s.Require().NoError(Run(s.Context(), Spec{In: arrowPath, Out: backPath}, cfg))

	orig, err := csvio.ReadFile(s.Context(), src, nil)
	s.Require().NoError(err)
	back, err := csvio.ReadFile(s.Context(), backPath, nil)
	s.Require().NoError(err)
	s.True(back.Equal(orig))
}

func (s *ConvertSuite) TestParquetOutput() {
	src := testutil.SampleCSVFile(s.T(), s.TempDir(), 3)
	dst := s.TempPath("data.parquet")

	s.Require().NoError(Run(s.Context(), Spec{In: src, Out: dst}, config.NewBaseConfig("test")))

	tbl, err := arrowio.ReadFile(s.Context(), dst, nil)
	s.Require().NoError(err)
	s.Equal(3, tbl.Len())
	s.Equal([]string{"id", "name", "value"}, tbl.Headers())
}

func (s *ConvertSuite) TestCompressedCSVOutput() {
	src := testutil.SampleCSVFile(s.T(), s.TempDir(), 3)
	dst := s.TempPath("data.csv.gz")

	s.Require().NoError(Run(s.Context(), Spec{In: src, Out: dst}, config.NewBaseConfig("test")))

	raw, err := os.ReadFile(dst)
	s.Require().NoError(err)
	s.Require().GreaterOrEqual(len(raw), 2)
	s.Equal([]byte{0x1f, 0x8b}, raw[:2])

	orig, err := csvio.ReadFile(s.Context(), src, nil)
	s.Require().NoError(err)
	back, err := csvio.ReadFile(s.Context(), dst, nil)
	s.Require().NoError(err)
	s.True(back.Equal(orig))
}

func (s *ConvertSuite) TestKeepColumns() {
	src := testutil.SampleCSVFile(s.T(), s.TempDir(), 3)
	dst := s.TempPath("narrow.csv")

	spec := Spec{In: src, Out: dst, Keep: []string{"id", "value"}}
	s.Require().NoError(Run(s.Context(), spec, config.NewBaseConfig("test")))

	tbl, err := csvio.ReadFile(s.Context(), dst, nil)
	s.Require().NoError(err)
	s.Equal([]string{"id", "value"}, tbl.Headers())
	s.Equal(3, tbl.Len())
}

func (s *ConvertSuite) TestDropColumns() {
	src := testutil.SampleCSVFile(s.T(), s.TempDir(), 3)
	dst := s.TempPath("narrow.csv")

	spec := Spec{In: src, Out: dst, Drop: []string{"name", "no_such_column"}}
	s.Require().NoError(Run(s.Context(), spec, config.NewBaseConfig("test")))

	tbl, err := csvio.ReadFile(s.Context(), dst, nil)
	s.Require().NoError(err)
	s.Equal([]string{"id", "value"}, tbl.Headers())
}

func (s *ConvertSuite) TestTSVInput() {
	src := s.WriteFixture("data.tsv", []byte("id\tname\n1\talpha\n2\tbeta\n"))
	dst := s.TempPath("out.jsonl")

	cfg := config.NewBaseConfig("test")
	cfg.CSV.Delimiter = "\t"
	s.Require().NoError(Run(s.Context(), Spec{In: src, Out: dst}, cfg))

	tbl, err := jsonio.ReadFile(s.Context(), dst, nil)
	s.Require().NoError(err)
	s.Equal([]string{"id", "name"}, tbl.Headers())
	s.Equal(2, tbl.Len())
	s.Equal("alpha", tbl.RowAt(0).Get("name"))
}
