package io

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/slok/pentrack/internal/model"
)

// MethodologyYAMLRepository loads methodology definitions from YAML files.
type MethodologyYAMLRepository struct {
	fs fs.FS
}

// NewMethodologyYAMLRepository creates a new YAML methodology repository.
func NewMethodologyYAMLRepository(filesystem fs.FS) *MethodologyYAMLRepository {
	return &MethodologyYAMLRepository{fs: filesystem}
}

// GetMethodology loads a methodology from a YAML file and returns a validated domain model.
func (r *MethodologyYAMLRepository) GetMethodology(ctx context.Context, path string) (model.Methodology, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.Methodology{}, fmt.Errorf("reading methodology file: %w", err)
	}

	if ctx.Err() != nil {
		return model.Methodology{}, ctx.Err()
	}

	var m MethodologyConfig
	if err := yaml.Unmarshal(data, &m); err != nil {
		return model.Methodology{}, fmt.Errorf("parsing YAML: %w", err)
	}

	mm := m.toModel()
	if err := mm.Validate(); err != nil {
		return model.Methodology{}, fmt.Errorf("invalid methodology: %w", err)
	}

	return mm, nil
}

// MethodologyConfig represents the YAML structure of a methodology.
type MethodologyConfig struct {
	Phases []PhaseConfig `yaml:"phases"`
}

// PhaseConfig represents the YAML structure of a methodology phase.
type PhaseConfig struct {
	Name  string   `yaml:"name"`
	Tasks []string `yaml:"tasks"`
}

func (c MethodologyConfig) toModel() model.Methodology {
	phases := make([]model.PhaseDefinition, 0, len(c.Phases))
	for _, p := range c.Phases {
		tasks := make([]string, len(p.Tasks))
		copy(tasks, p.Tasks)
		phases = append(phases, model.PhaseDefinition{Name: p.Name, Tasks: tasks})
	}

	return model.Methodology{Phases: phases}
}
