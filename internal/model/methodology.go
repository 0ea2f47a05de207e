package model

import (
	"fmt"
	"strings"
)

// PhaseDefinition is a named methodology stage with its ordered tasks.
type PhaseDefinition struct {
	Name  string
	Tasks []string
}

// HasTask returns true if the phase defines a task with the given name.
func (p PhaseDefinition) HasTask(task string) bool {
	for _, t := range p.Tasks {
		if t == task {
			return true
		}
	}
	return false
}

// Methodology is the ordered, immutable list of phases an engagement walks through.
type Methodology struct {
	Phases []PhaseDefinition
}

// Validate checks the methodology is well formed.
func (m Methodology) Validate() error {
	if len(m.Phases) == 0 {
		return fmt.Errorf("at least one phase is required: %w", ErrNotValid)
	}

	phases := map[string]struct{}{}
	for i, p := range m.Phases {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("phase %d name is required: %w", i+1, ErrNotValid)
		}
		if _, ok := phases[p.Name]; ok {
			return fmt.Errorf("phase %q is duplicated: %w", p.Name, ErrNotValid)
		}
		phases[p.Name] = struct{}{}

		if len(p.Tasks) == 0 {
			return fmt.Errorf("phase %q requires at least one task: %w", p.Name, ErrNotValid)
		}

		tasks := map[string]struct{}{}
		for j, t := range p.Tasks {
			if strings.TrimSpace(t) == "" {
				return fmt.Errorf("phase %q task %d name is required: %w", p.Name, j+1, ErrNotValid)
			}
			if _, ok := tasks[t]; ok {
				return fmt.Errorf("phase %q task %q is duplicated: %w", p.Name, t, ErrNotValid)
			}
			tasks[t] = struct{}{}
		}
	}

	return nil
}

// Phase returns the phase definition by name.
func (m Methodology) Phase(name string) (PhaseDefinition, error) {
	for _, p := range m.Phases {
		if p.Name == name {
			return p, nil
		}
	}
	return PhaseDefinition{}, fmt.Errorf("phase %q: %w", name, ErrNotFound)
}

// TotalTasks returns the number of tasks across all the phases.
func (m Methodology) TotalTasks() int {
	total := 0
	for _, p := range m.Phases {
		total += len(p.Tasks)
	}
	return total
}
