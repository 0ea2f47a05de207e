package lib

import (
	"time"

	"github.com/slok/pentrack/internal/model"
)

// PhaseStatus is the rollup status of a phase.
type PhaseStatus string

const (
	// PhaseStatusNone indicates no task of the phase is complete.
	PhaseStatusNone PhaseStatus = "none"
	// PhaseStatusPartial indicates some, but not all, tasks are complete.
	PhaseStatusPartial PhaseStatus = "partial"
	// PhaseStatusFull indicates all the tasks are complete.
	PhaseStatusFull PhaseStatus = "full"
)

// Target is the engagement target information.
type Target struct {
	Name    string
	IPRange string
	// StartDate is set when the progress document is created, formatted as "2006-01-02 15:04".
	StartDate string
	Notes     string
}

// TargetUpdate updates the target information. Empty fields keep the current value.
type TargetUpdate struct {
	Name    string
	IPRange string
	Notes   string
}

// Task is the state of a methodology task.
type Task struct {
	Name     string
	Complete bool
	Notes    string
}

// Phase is the state of a methodology phase, tasks are in methodology order.
type Phase struct {
	Name      string
	Status    PhaseStatus
	Completed int
	Total     int
	Tasks     []Task
}

// Progress is a read-only snapshot of the tracked progress, phases are in methodology order.
type Progress struct {
	Target    Target
	Phases    []Phase
	Completed int
	Total     int
	// Percent is 0 when there are no tasks.
	Percent float64
	// Fresh is true when there was no usable stored document.
	Fresh bool
}

// Checkpoint is a recorded save of the progress document.
type Checkpoint struct {
	ID         string
	TargetName string
	Completed  int
	Total      int
	SavedAt    time.Time
}

// --- Internal conversion helpers ---

func fromInternalProgress(m model.Methodology, doc *model.Document, fresh bool) Progress {
	overall := model.ComputeProgress(doc)
	p := Progress{
		Target: Target{
			Name:      doc.TargetInfo.Name,
			IPRange:   doc.TargetInfo.IPRange,
			StartDate: doc.TargetInfo.StartDate,
			Notes:     doc.TargetInfo.Notes,
		},
		Completed: overall.Completed,
		Total:     overall.Total,
		Percent:   overall.Percent,
		Fresh:     fresh,
	}

	for _, pd := range m.Phases {
		state := doc.Phases[pd.Name]
		pp := model.PhaseProgress(state)
		phase := Phase{
			Name:      pd.Name,
			Status:    PhaseStatus(pp.Status()),
			Completed: pp.Completed,
			Total:     pp.Total,
		}
		for _, name := range pd.Tasks {
			ts := state.Tasks[name]
			phase.Tasks = append(phase.Tasks, Task{Name: name, Complete: ts.Complete, Notes: ts.Notes})
		}
		p.Phases = append(p.Phases, phase)
	}

	return p
}

func fromInternalCheckpointList(cs []model.Checkpoint) []Checkpoint {
	result := make([]Checkpoint, 0, len(cs))
	for _, c := range cs {
		result = append(result, Checkpoint{
			ID:         c.ID,
			TargetName: c.TargetName,
			Completed:  c.Completed,
			Total:      c.Total,
			SavedAt:    c.SavedAt,
		})
	}
	return result
}
