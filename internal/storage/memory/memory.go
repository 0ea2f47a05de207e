package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/slok/pentrack/internal/log"
	"github.com/slok/pentrack/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	// Document is an optional initial stored document.
	Document *model.Document
	Logger   log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.DocumentRepository and
// storage.CheckpointRepository.
type Repository struct {
	document    *model.Document
	checkpoints map[string]model.Checkpoint
	saves       int
	mu          sync.RWMutex
	logger      log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	r := &Repository{
		checkpoints: make(map[string]model.Checkpoint),
		logger:      cfg.Logger,
	}
	if cfg.Document != nil {
		r.document = cfg.Document.Copy()
	}

	return r, nil
}

// GetDocument returns a copy of the stored document.
func (r *Repository) GetDocument(ctx context.Context) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.document == nil {
		return nil, fmt.Errorf("progress document: %w", model.ErrNotFound)
	}

	return r.document.Copy(), nil
}

// SaveDocument replaces the stored document with a copy of the received one.
func (r *Repository) SaveDocument(ctx context.Context, doc model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.document = doc.Copy()
	r.saves++
	r.logger.Debugf("Saved progress document in repository")

	return nil
}

// Saves returns how many times the document has been saved.
func (r *Repository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

// CreateCheckpoint stores a new checkpoint.
func (r *Repository) CreateCheckpoint(ctx context.Context, c model.Checkpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		return fmt.Errorf("checkpoint id is required: %w", model.ErrNotValid)
	}

	if _, ok := r.checkpoints[c.ID]; ok {
		return fmt.Errorf("checkpoint with id %s: %w", c.ID, model.ErrAlreadyExists)
	}

	r.checkpoints[c.ID] = c
	r.logger.Debugf("Created checkpoint in repository: %s", c.ID)

	return nil
}

// ListCheckpoints returns the checkpoints newest first.
func (r *Repository) ListCheckpoints(ctx context.Context, limit int) ([]model.Checkpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkpoints := make([]model.Checkpoint, 0, len(r.checkpoints))
	for _, c := range r.checkpoints {
		checkpoints = append(checkpoints, c)
	}

	sort.Slice(checkpoints, func(i, j int) bool {
		if checkpoints[i].SavedAt.Equal(checkpoints[j].SavedAt) {
			return checkpoints[i].ID > checkpoints[j].ID
		}
		return checkpoints[i].SavedAt.After(checkpoints[j].SavedAt)
	})

	if limit > 0 && len(checkpoints) > limit {
		checkpoints = checkpoints[:limit]
	}

	return checkpoints, nil
}
