// Package storagemock has testify mocks for the storage interfaces.
package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/slok/pentrack/internal/model"
	"github.com/slok/pentrack/internal/storage"
)

var (
	_ storage.DocumentRepository   = &MockDocumentRepository{}
	_ storage.CheckpointRepository = &MockCheckpointRepository{}
)

// MockDocumentRepository is a mock of storage.DocumentRepository.
type MockDocumentRepository struct {
	mock.Mock
}

// GetDocument mocks storage.DocumentRepository.GetDocument.
func (m *MockDocumentRepository) GetDocument(ctx context.Context) (*model.Document, error) {
	args := m.Called(ctx)
	doc, _ := args.Get(0).(*model.Document)
	return doc, args.Error(1)
}

// SaveDocument mocks storage.DocumentRepository.SaveDocument.
func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc model.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// MockCheckpointRepository is a mock of storage.CheckpointRepository.
type MockCheckpointRepository struct {
	mock.Mock
}

// CreateCheckpoint mocks storage.CheckpointRepository.CreateCheckpoint.
func (m *MockCheckpointRepository) CreateCheckpoint(ctx context.Context, c model.Checkpoint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// ListCheckpoints mocks storage.CheckpointRepository.ListCheckpoints.
func (m *MockCheckpointRepository) ListCheckpoints(ctx context.Context, limit int) ([]model.Checkpoint, error) {
	args := m.Called(ctx, limit)
	cps, _ := args.Get(0).([]model.Checkpoint)
	return cps, args.Error(1)
}
