// Package methodology holds the built-in engagement methodology.
//
// The methodology is embedded at build time and parsed once, it never changes
// while the program runs.
package methodology

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/slok/pentrack/internal/model"
	storageio "github.com/slok/pentrack/internal/storage/io"
)

const defaultFile = "oscp.yaml"

//go:embed oscp.yaml
var definitions embed.FS

var loadDefault = sync.OnceValues(func() (model.Methodology, error) {
	repo := storageio.NewMethodologyYAMLRepository(definitions)
	m, err := repo.GetMethodology(context.Background(), defaultFile)
	if err != nil {
		return model.Methodology{}, fmt.Errorf("could not load embedded methodology: %w", err)
	}
	return m, nil
})

// Default returns the built-in OSCP methodology.
func Default() model.Methodology {
	m, err := loadDefault()
	if err != nil {
		panic(err)
	}

	// Callers get their own slices so the shared definition can't be mutated.
	phases := make([]model.PhaseDefinition, 0, len(m.Phases))
	for _, p := range m.Phases {
		tasks := make([]string, len(p.Tasks))
		copy(tasks, p.Tasks)
		phases = append(phases, model.PhaseDefinition{Name: p.Name, Tasks: tasks})
	}
	return model.Methodology{Phases: phases}
}
