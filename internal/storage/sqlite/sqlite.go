package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/pentrack/internal/log"
	"github.com/slok/pentrack/internal/model"
	"github.com/slok/pentrack/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.CheckpointRepository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	version, err := migrations.Apply(ctx, db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not prepare history schema: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s with schema version %d", cfg.DBPath, version)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// CreateCheckpoint stores a new checkpoint.
func (r *Repository) CreateCheckpoint(ctx context.Context, c model.Checkpoint) error {
	if c.ID == "" {
		return fmt.Errorf("checkpoint id is required: %w", model.ErrNotValid)
	}

	query := `
		INSERT INTO checkpoints (id, target_name, completed, total, saved_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, c.ID, c.TargetName, c.Completed, c.Total, c.SavedAt.UnixNano())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: checkpoints.") {
			return fmt.Errorf("checkpoint already exists: %w", model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert checkpoint: %w", err)
	}

	r.logger.Debugf("Created checkpoint in repository: %s", c.ID)
	return nil
}

// ListCheckpoints returns the checkpoints newest first.
func (r *Repository) ListCheckpoints(ctx context.Context, limit int) ([]model.Checkpoint, error) {
	query := `
		SELECT id, target_name, completed, total, saved_at
		FROM checkpoints
		ORDER BY saved_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query checkpoints: %w", err)
	}
	defer rows.Close()

	checkpoints := []model.Checkpoint{}
	for rows.Next() {
		var c model.Checkpoint
		var savedAt int64
		if err := rows.Scan(&c.ID, &c.TargetName, &c.Completed, &c.Total, &savedAt); err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		c.SavedAt = time.Unix(0, savedAt).UTC()
		checkpoints = append(checkpoints, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return checkpoints, nil
}
