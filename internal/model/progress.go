package model

// PhaseStatus is the tri-state completion of a phase.
type PhaseStatus string

const (
	// PhaseStatusNone means no task of the phase is complete.
	PhaseStatusNone PhaseStatus = "none"
	// PhaseStatusPartial means some, but not all, tasks are complete.
	PhaseStatusPartial PhaseStatus = "partial"
	// PhaseStatusFull means every task of the phase is complete.
	PhaseStatusFull PhaseStatus = "full"
)

// Progress is a completed over total count.
type Progress struct {
	Completed int
	Total     int
	Percent   float64
}

func newProgress(completed, total int) Progress {
	p := Progress{Completed: completed, Total: total}
	if total > 0 {
		p.Percent = float64(completed) / float64(total) * 100
	}
	return p
}

// Status returns the tri-state status for the progress.
func (p Progress) Status() PhaseStatus {
	switch {
	case p.Total > 0 && p.Completed == p.Total:
		return PhaseStatusFull
	case p.Completed > 0:
		return PhaseStatusPartial
	default:
		return PhaseStatusNone
	}
}

// PhaseProgress returns the progress of a single phase.
func PhaseProgress(p PhaseState) Progress {
	completed := 0
	for _, t := range p.Tasks {
		if t.Complete {
			completed++
		}
	}
	return newProgress(completed, len(p.Tasks))
}

// ComputeProgress returns the overall progress of the document, it's never stored.
func ComputeProgress(d *Document) Progress {
	if d == nil {
		return Progress{}
	}

	completed, total := 0, 0
	for _, p := range d.Phases {
		pp := PhaseProgress(p)
		completed += pp.Completed
		total += pp.Total
	}
	return newProgress(completed, total)
}
