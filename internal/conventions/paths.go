package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default pentrack data directory name (relative to home).
	DefaultDataDir = ".pentrack"
	// HistoryDBFile is the save history SQLite database filename.
	HistoryDBFile = "history.db"

	// DataFile is the default progress document path, relative to the working directory.
	DataFile = "pentest_progress.json"
	// ReportsDir is the default reports directory.
	ReportsDir = "."

	// Report files.

	// ReportFilePrefix is the prefix of the exported report filenames.
	ReportFilePrefix = "pentest_report_"
	// ReportFileTimeLayout is the time layout of the exported report filenames.
	ReportFileTimeLayout = "20060102_1504"
	// ReportFileExt is the extension of the exported report filenames.
	ReportFileExt = ".txt"
)

// HistoryDBPath returns the save history database path inside a home directory.
func HistoryDBPath(home string) string {
	return filepath.Join(home, DefaultDataDir, HistoryDBFile)
}

// ReportFileName returns the report filename for a timestamp, with an optional
// suffix to avoid collisions.
func ReportFileName(timestamp, suffix string) string {
	if suffix != "" {
		return ReportFilePrefix + timestamp + "_" + suffix + ReportFileExt
	}
	return ReportFilePrefix + timestamp + ReportFileExt
}
