package printer

import "github.com/slok/pentrack/internal/model"

// Printer knows how to print tracked progress in different formats.
type Printer interface {
	PrintProgress(m model.Methodology, doc *model.Document) error
	PrintCheckpoints(checkpoints []model.Checkpoint) error
	PrintMessage(msg string) error
}

const (
	bannerWidth = 60

	markDone    = "✓"
	markPartial = "⚬"
	markMissing = "✗"
	markNote    = "→"
)
