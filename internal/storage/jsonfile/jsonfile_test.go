package jsonfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/pentrack/internal/log"
	"github.com/slok/pentrack/internal/model"
	"github.com/slok/pentrack/internal/storage/jsonfile"
)

func documentFixture() model.Document {
	return model.Document{
		TargetInfo: model.TargetInfo{
			Name:      "Acme",
			IPRange:   "10.10.10.0/24",
			StartDate: "2026-10-19 10:00",
			Notes:     "VPN required",
		},
		Phases: map[string]model.PhaseState{
			"Scanning & Enumeration": {Tasks: map[string]model.TaskState{
				"Network port scanning": {Complete: true, Notes: "nmap -p-\nfound 22,80"},
				"OS fingerprinting":     {Complete: true},
			}},
			"Exploitation": {Tasks: map[string]model.TaskState{
				"Obtain initial access": {},
			}},
		},
	}
}

func newRepo(t *testing.T, path string) *jsonfile.Repository {
	t.Helper()
	repo, err := jsonfile.NewRepository(jsonfile.RepositoryConfig{
		Path:   path,
		Logger: log.Noop,
	})
	require.NoError(t, err)
	return repo
}

func TestNewRepository(t *testing.T) {
	_, err := jsonfile.NewRepository(jsonfile.RepositoryConfig{})
	assert.Error(t, err)

	repo, err := jsonfile.NewRepository(jsonfile.RepositoryConfig{Path: "progress.json"})
	require.NoError(t, err)
	assert.Equal(t, "progress.json", repo.Path())
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, filepath.Join(t.TempDir(), "progress.json"))

	exp := documentFixture()
	require.NoError(t, repo.SaveDocument(ctx, exp))

	got, err := repo.GetDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, &exp, got)

	// Saving again replaces the content wholesale.
	exp.TargetInfo.Name = "Other"
	delete(exp.Phases, "Exploitation")
	require.NoError(t, repo.SaveDocument(ctx, exp))

	got, err = repo.GetDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, &exp, got)
}

func TestRepositoryFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	repo := newRepo(t, path)

	require.NoError(t, repo.SaveDocument(context.Background(), documentFixture()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "\n  \"target_info\": {\n")
	assert.Contains(t, out, `"ip_range": "10.10.10.0/24"`)
	assert.Contains(t, out, `"Scanning & Enumeration": {`)
	assert.Contains(t, out, `"notes": "nmap -p-\nfound 22,80"`)

	// Phase rollup is written from the task states.
	assert.Contains(t, out, "\"Scanning & Enumeration\": {\n      \"complete\": true,")
	assert.Contains(t, out, "\"Exploitation\": {\n      \"complete\": false,")
}

func TestRepositoryGetDocumentErrors(t *testing.T) {
	tests := map[string]struct {
		content *string
		expErr  error
	}{
		"A missing file should return not found.": {
			content: nil,
			expErr:  model.ErrNotFound,
		},
		"A corrupt file should return not valid.": {
			content: func() *string { s := `{"target_info": {`; return &s }(),
			expErr:  model.ErrNotValid,
		},
		"A file with the wrong shape should return not valid.": {
			content: func() *string { s := `{"phases": ["a", "b"]}`; return &s }(),
			expErr:  model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "progress.json")
			if test.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*test.content), 0o644))
			}

			_, err := newRepo(t, path).GetDocument(context.Background())
			assert.ErrorIs(t, err, test.expErr)
		})
	}
}

func TestRepositoryLoadsOriginalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pentest_progress.json")
	content := `{
  "target_info": {"name": "box", "ip_range": "10.0.0.1", "start_date": "2024-01-01 09:30", "notes": ""},
  "phases": {
    "Exploitation": {
      "complete": true,
      "tasks": {"Obtain initial access": {"complete": false, "notes": "stale rollup"}}
    }
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := newRepo(t, path).GetDocument(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "box", got.TargetInfo.Name)
	assert.Equal(t, "2024-01-01 09:30", got.TargetInfo.StartDate)
	// The stored rollup is ignored, it's derived from the tasks.
	assert.False(t, got.Phases["Exploitation"].Complete())
	assert.Equal(t, "stale rollup", got.Phases["Exploitation"].Tasks["Obtain initial access"].Notes)
}

func TestRepositorySaveDocumentUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "progress.json")
	err := newRepo(t, path).SaveDocument(context.Background(), documentFixture())
	assert.Error(t, err)
}
