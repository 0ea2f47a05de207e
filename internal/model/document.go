package model

import "fmt"

// StartDateLayout is the layout used to stamp TargetInfo.StartDate.
const StartDateLayout = "2006-01-02 15:04"

// TargetInfo is the metadata of the engagement target.
type TargetInfo struct {
	Name      string
	IPRange   string
	StartDate string
	Notes     string
}

// TargetInfoUpdate is a partial TargetInfo update, empty fields keep the previous value.
// The start date is not editable once the document exists.
type TargetInfoUpdate struct {
	Name    string
	IPRange string
	Notes   string
}

// TaskState is the progress of a single methodology task.
type TaskState struct {
	Complete bool
	Notes    string
}

// PhaseState is the progress of all the tasks in a phase.
type PhaseState struct {
	Tasks map[string]TaskState
}

// Complete is the phase rollup, true only when every task is complete.
func (p PhaseState) Complete() bool {
	for _, t := range p.Tasks {
		if !t.Complete {
			return false
		}
	}
	return true
}

// Document is the full tracked progress of an engagement.
type Document struct {
	TargetInfo TargetInfo
	Phases     map[string]PhaseState
}

// NewDocument returns a fresh document seeded from the methodology, with every task incomplete.
func NewDocument(m Methodology, startDate string) *Document {
	doc := &Document{
		TargetInfo: TargetInfo{StartDate: startDate},
		Phases:     make(map[string]PhaseState, len(m.Phases)),
	}
	for _, p := range m.Phases {
		tasks := make(map[string]TaskState, len(p.Tasks))
		for _, t := range p.Tasks {
			tasks[t] = TaskState{}
		}
		doc.Phases[p.Name] = PhaseState{Tasks: tasks}
	}

	return doc
}

// Normalize makes the document phase and task keys match the methodology.
// Missing phases and tasks are created incomplete, unknown ones are dropped.
// Returns true if the document was changed.
func (d *Document) Normalize(m Methodology) (changed bool) {
	if d.Phases == nil {
		d.Phases = map[string]PhaseState{}
	}

	known := make(map[string]PhaseDefinition, len(m.Phases))
	for _, p := range m.Phases {
		known[p.Name] = p
	}

	for name := range d.Phases {
		if _, ok := known[name]; !ok {
			delete(d.Phases, name)
			changed = true
		}
	}

	for _, p := range m.Phases {
		phase, ok := d.Phases[p.Name]
		if !ok || phase.Tasks == nil {
			phase = PhaseState{Tasks: map[string]TaskState{}}
			changed = true
		}

		for task := range phase.Tasks {
			if !p.HasTask(task) {
				delete(phase.Tasks, task)
				changed = true
			}
		}
		for _, task := range p.Tasks {
			if _, ok := phase.Tasks[task]; !ok {
				phase.Tasks[task] = TaskState{}
				changed = true
			}
		}

		d.Phases[p.Name] = phase
	}

	return changed
}

// Task returns the state of a task.
func (d *Document) Task(phase, task string) (TaskState, error) {
	p, ok := d.Phases[phase]
	if !ok {
		return TaskState{}, fmt.Errorf("phase %q: %w", phase, ErrNotFound)
	}
	t, ok := p.Tasks[task]
	if !ok {
		return TaskState{}, fmt.Errorf("task %q in phase %q: %w", task, phase, ErrNotFound)
	}
	return t, nil
}

// Copy returns a deep copy of the document.
func (d *Document) Copy() *Document {
	c := &Document{
		TargetInfo: d.TargetInfo,
		Phases:     make(map[string]PhaseState, len(d.Phases)),
	}
	for name, p := range d.Phases {
		tasks := make(map[string]TaskState, len(p.Tasks))
		for t, s := range p.Tasks {
			tasks[t] = s
		}
		c.Phases[name] = PhaseState{Tasks: tasks}
	}
	return c
}
