package pentrack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/slok/pentrack/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "pentrack"
	}

	// go test changes the CWD to the test package directory, relative paths would be misleading.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("PENTRACK_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("pentrack binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "PENTRACK_INTEGRATION"
		envBinary     = "PENTRACK_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{Binary: os.Getenv(envBinary)}
	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// Workspace is an isolated set of pentrack files.
type Workspace struct {
	DataFile   string
	ReportsDir string
	HistoryDB  string
}

// NewWorkspace returns a workspace inside a test temporary directory.
func NewWorkspace(t *testing.T) Workspace {
	t.Helper()
	dir := t.TempDir()
	return Workspace{
		DataFile:   filepath.Join(dir, "pentest_progress.json"),
		ReportsDir: dir,
		HistoryDB:  filepath.Join(dir, "history", "history.db"),
	}
}

// RunPentrackCmd runs a pentrack command on the workspace.
func RunPentrackCmd(ctx context.Context, config Config, ws Workspace, cmdArgs, input string) (stdout, stderr []byte, err error) {
	args := fmt.Sprintf("--no-color --data-file %s --reports-dir %s --history-db %s %s", ws.DataFile, ws.ReportsDir, ws.HistoryDB, cmdArgs)
	return testutils.RunPentrack(ctx, nil, config.Binary, args, strings.NewReader(input), true)
}

// RunTrack runs an interactive session with the given operator input.
func RunTrack(ctx context.Context, config Config, ws Workspace, input string) (stdout, stderr []byte, err error) {
	return RunPentrackCmd(ctx, config, ws, "track --no-clear", input)
}

// RunStatus prints the progress in JSON format.
func RunStatus(ctx context.Context, config Config, ws Workspace) (stdout, stderr []byte, err error) {
	return RunPentrackCmd(ctx, config, ws, "status --format json", "")
}

// RunReport exports a report.
func RunReport(ctx context.Context, config Config, ws Workspace) (stdout, stderr []byte, err error) {
	return RunPentrackCmd(ctx, config, ws, "report", "")
}

// RunHistory lists the save history in JSON format.
func RunHistory(ctx context.Context, config Config, ws Workspace) (stdout, stderr []byte, err error) {
	return RunPentrackCmd(ctx, config, ws, "history --format json", "")
}
