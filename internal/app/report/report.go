package report

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/pentrack/internal/conventions"
	"github.com/slok/pentrack/internal/log"
	"github.com/slok/pentrack/internal/model"
	"github.com/slok/pentrack/internal/printer"
)

// ServiceConfig is the configuration for the report export service.
type ServiceConfig struct {
	Methodology model.Methodology
	// OutputDir is where reports are written, defaults to the working directory.
	OutputDir string
	Logger    log.Logger
	Now       func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if err := c.Methodology.Validate(); err != nil {
		return fmt.Errorf("invalid methodology: %w", err)
	}

	if c.OutputDir == "" {
		c.OutputDir = conventions.ReportsDir
	}

	if c.Now == nil {
		c.Now = time.Now
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Report"})

	return nil
}

// Service exports plain-text progress reports.
type Service struct {
	methodology model.Methodology
	outputDir   string
	logger      log.Logger
	now         func() time.Time
}

// NewService creates a new report export service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		methodology: cfg.Methodology,
		outputDir:   cfg.OutputDir,
		logger:      cfg.Logger,
		now:         cfg.Now,
	}, nil
}

// Request represents a report export request.
type Request struct {
	Document *model.Document
}

// Export writes a new report file and returns its path. The document is not modified.
func (s *Service) Export(ctx context.Context, req Request) (string, error) {
	if req.Document == nil {
		return "", fmt.Errorf("document is required: %w", model.ErrNotValid)
	}

	now := s.now()
	f, path, err := s.createFile(now)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if ctx.Err() != nil {
		_ = os.Remove(path)
		return "", ctx.Err()
	}

	err = printer.WriteReport(f, s.methodology, req.Document, now)
	if err != nil {
		return "", fmt.Errorf("could not write report: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("could not close report: %w", err)
	}

	s.logger.Infof("Report exported to %s", path)
	return path, nil
}

// createFile creates a new report file exclusively. When the timestamped name is
// already taken, a ULID suffix is added.
func (s *Service) createFile(now time.Time) (*os.File, string, error) {
	timestamp := now.Format(conventions.ReportFileTimeLayout)

	path := filepath.Join(s.outputDir, conventions.ReportFileName(timestamp, ""))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil {
		return f, path, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return nil, "", fmt.Errorf("could not create report file: %w", err)
	}

	id := ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
	path = filepath.Join(s.outputDir, conventions.ReportFileName(timestamp, id))
	s.logger.Debugf("Report name already taken, using %s", path)

	f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("could not create report file: %w", err)
	}

	return f, path, nil
}
