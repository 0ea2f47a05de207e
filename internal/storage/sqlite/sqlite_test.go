package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/pentrack/internal/log"
	"github.com/slok/pentrack/internal/model"
	"github.com/slok/pentrack/internal/storage/sqlite"
)

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "nested", "history.db"),
		Logger: log.Noop,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestNewRepositoryRequiresPath(t *testing.T) {
	_, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{})
	assert.Error(t, err)
}

func TestRepositoryCheckpoints(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	base := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	cps := []model.Checkpoint{
		{ID: "01A", TargetName: "acme", Completed: 1, Total: 34, SavedAt: base},
		{ID: "01C", TargetName: "acme", Completed: 5, Total: 34, SavedAt: base.Add(2 * time.Minute)},
		{ID: "01B", TargetName: "acme", Completed: 3, Total: 34, SavedAt: base.Add(time.Minute)},
	}
	for _, c := range cps {
		require.NoError(t, repo.CreateCheckpoint(ctx, c))
	}

	all, err := repo.ListCheckpoints(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []model.Checkpoint{cps[1], cps[2], cps[0]}, all)

	limited, err := repo.ListCheckpoints(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []model.Checkpoint{cps[1]}, limited)
}

func TestRepositoryCheckpointErrors(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	err := repo.CreateCheckpoint(ctx, model.Checkpoint{})
	assert.ErrorIs(t, err, model.ErrNotValid)

	c := model.Checkpoint{ID: "01A", SavedAt: time.Now().UTC()}
	require.NoError(t, repo.CreateCheckpoint(ctx, c))
	err = repo.CreateCheckpoint(ctx, c)
	assert.ErrorIs(t, err, model.ErrAlreadyExists)
}

func TestRepositoryEmpty(t *testing.T) {
	all, err := newRepo(t).ListCheckpoints(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, all)
}
