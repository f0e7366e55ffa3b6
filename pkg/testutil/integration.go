package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// IOSuite is the base for suites that shuttle tables through files. It
// provides a bounded context, a test logger and a scratch directory
// shared across the whole suite, and skips the suite in short mode.
type IOSuite struct {
	suite.Suite
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.Logger
	tempDir string
	start   time.Time
}

// SetupSuite runs before all tests in the suite.
func (s *IOSuite) SetupSuite() {
	IntegrationTest(s.T())

	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Minute)
	s.log = TestLogger(s.T())
	s.start = time.Now()

	dir, err := os.MkdirTemp("", "mesa-test-*")
	s.Require().NoError(err)
	s.tempDir = dir
}

// TearDownSuite runs after all tests in the suite.
func (s *IOSuite) TearDownSuite() {
	s.cancel()
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
	s.log.Info("suite finished", zap.Duration("elapsed", time.Since(s.start)))
}

// Context returns the suite context.
func (s *IOSuite) Context() context.Context {
	return s.ctx
}

// Logger returns the suite's test logger.
func (s *IOSuite) Logger() *zap.Logger {
	return s.log
}

// TempDir returns the scratch directory.
func (s *IOSuite) TempDir() string {
	return s.tempDir
}

// TempPath returns a path for name under the scratch directory.
func (s *IOSuite) TempPath(name string) string {
	return filepath.Join(s.tempDir, name)
}

// WriteFixture writes content to name under the scratch directory and
// returns the path.
func (s *IOSuite) WriteFixture(name string, content []byte) string {
	path := s.TempPath(name)
	s.Require().NoError(os.WriteFile(path, content, 0644))
	return path
}

// IntegrationTest skips t when tests run in short mode.
func IntegrationTest(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}
