package lib

import (
	"context"
	"fmt"
	"os"

	"github.com/slok/pentrack/internal/app/progress"
	"github.com/slok/pentrack/internal/app/report"
	"github.com/slok/pentrack/internal/conventions"
	"github.com/slok/pentrack/internal/log"
	"github.com/slok/pentrack/internal/storage"
	"github.com/slok/pentrack/internal/storage/jsonfile"
	"github.com/slok/pentrack/internal/storage/sqlite"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults, the same ones the CLI uses.
type Config struct {
	// DataFile is the progress document path.
	// Default: pentest_progress.json (relative to the working directory).
	DataFile string

	// ReportsDir is the directory where reports are exported.
	// Default: the working directory.
	ReportsDir string

	// HistoryDB is the SQLite save history database path.
	// Default: ~/.pentrack/history.db.
	HistoryDB string

	// NoHistory disables the save history.
	NoHistory bool

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.DataFile == "" {
		c.DataFile = conventions.DataFile
	}

	if c.ReportsDir == "" {
		c.ReportsDir = conventions.ReportsDir
	}

	if c.HistoryDB == "" && !c.NoHistory {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.HistoryDB = conventions.HistoryDBPath(home)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point for tracking progress programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
type Client struct {
	progress *progress.Service
	reports  *report.Service
	history  storage.CheckpointRepository
	logger   log.Logger
	closeFn  func() error
}

// New creates a new SDK client backed by the progress document file.
//
// The caller must call [Client.Close] when done to release the history
// database connection. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repo, err := jsonfile.NewRepository(jsonfile.RepositoryConfig{
		Path:   cfg.DataFile,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	c := &Client{logger: cfg.Logger}

	if !cfg.NoHistory {
		history, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: cfg.HistoryDB,
			Logger: cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create history repository: %w", err)
		}
		c.history = history
		c.closeFn = history.Close
	}

	c.progress, err = progress.NewService(progress.ServiceConfig{
		Repository:  repo,
		Checkpoints: c.history,
		Logger:      cfg.Logger,
	})
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("could not create progress service: %w", err)
	}

	c.reports, err = report.NewService(report.ServiceConfig{
		Methodology: c.progress.Methodology(),
		OutputDir:   cfg.ReportsDir,
		Logger:      cfg.Logger,
	})
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("could not create report service: %w", err)
	}

	return c, nil
}

// Close releases resources held by the client, including the history database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}
