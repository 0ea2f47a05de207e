package model

import "time"

// Checkpoint is a record of an explicit progress save.
type Checkpoint struct {
	ID         string
	TargetName string
	Completed  int
	Total      int
	SavedAt    time.Time
}
