package report_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/pentrack/internal/app/report"
	"github.com/slok/pentrack/internal/log"
	"github.com/slok/pentrack/internal/methodology"
	"github.com/slok/pentrack/internal/model"
)

var fixedNow = time.Date(2026, 10, 19, 15, 4, 30, 0, time.UTC)

func newService(t *testing.T, dir string) *report.Service {
	t.Helper()
	svc, err := report.NewService(report.ServiceConfig{
		Methodology: methodology.Default(),
		OutputDir:   dir,
		Logger:      log.Noop,
		Now:         func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc
}

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config report.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: report.ServiceConfig{Methodology: methodology.Default()},
		},
		"missing methodology should fail": {
			config: report.ServiceConfig{},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc, err := report.NewService(test.config)
			if test.expErr {
				require.Error(t, err)
				require.Nil(t, svc)
			} else {
				require.NoError(t, err)
				require.NotNil(t, svc)
			}
		})
	}
}

func TestServiceExport(t *testing.T) {
	dir := t.TempDir()
	svc := newService(t, dir)

	doc := model.NewDocument(methodology.Default(), "2026-10-19 10:00")
	doc.TargetInfo.Name = "Acme"
	before := doc.Copy()

	path, err := svc.Export(context.Background(), report.Request{Document: doc})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "pentest_report_20261019_1504.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Repeat("=", 60)+"\nPENETRATION TESTING REPORT\n"))
	assert.Contains(t, string(data), "Target: Acme\n")
	assert.Contains(t, string(data), "Report Date: 2026-10-19 15:04\n")
	assert.Contains(t, string(data), "Information Gathering - IN PROGRESS\n")

	// Exporting doesn't alter the document.
	assert.Equal(t, before, doc)
}

func TestServiceExportAvoidsCollisions(t *testing.T) {
	dir := t.TempDir()
	svc := newService(t, dir)
	doc := model.NewDocument(methodology.Default(), "2026-10-19 10:00")

	paths := map[string]struct{}{}
	for i := 0; i < 3; i++ {
		path, err := svc.Export(context.Background(), report.Request{Document: doc})
		require.NoError(t, err)
		paths[path] = struct{}{}
		assert.True(t, strings.HasPrefix(filepath.Base(path), "pentest_report_20261019_1504"))
		assert.True(t, strings.HasSuffix(path, ".txt"))
	}
	assert.Len(t, paths, 3)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestServiceExportErrors(t *testing.T) {
	tests := map[string]struct {
		dir    func(t *testing.T) string
		req    report.Request
		expErr bool
	}{
		"A missing document should fail.": {
			dir:    func(t *testing.T) string { return t.TempDir() },
			req:    report.Request{},
			expErr: true,
		},
		"An unwritable destination should fail.": {
			dir: func(t *testing.T) string { return filepath.Join(t.TempDir(), "does", "not", "exist") },
			req: report.Request{Document: model.NewDocument(methodology.Default(), "")},

			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc := newService(t, test.dir(t))
			_, err := svc.Export(context.Background(), test.req)
			if test.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
