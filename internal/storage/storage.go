package storage

import (
	"context"

	"github.com/slok/pentrack/internal/model"
)

// DocumentRepository is the interface for progress document persistence.
type DocumentRepository interface {
	// GetDocument returns the stored document. Returns model.ErrNotFound when
	// there is no document and model.ErrNotValid when it can't be parsed.
	GetDocument(ctx context.Context) (*model.Document, error)
	// SaveDocument replaces the stored document with the received one.
	SaveDocument(ctx context.Context, doc model.Document) error
}

// CheckpointRepository is the interface for the save history persistence.
type CheckpointRepository interface {
	CreateCheckpoint(ctx context.Context, c model.Checkpoint) error
	// ListCheckpoints returns the checkpoints newest first, limit <= 0 means no limit.
	ListCheckpoints(ctx context.Context, limit int) ([]model.Checkpoint, error)
}
