// Package jsonfile stores the progress document as an indented JSON file.
//
// The document keeps the `pentest_progress.json` layout: the target info and
// the phases keyed by name, each with its tasks keyed by name.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/moby/sys/atomicwriter"

	"github.com/slok/pentrack/internal/log"
	"github.com/slok/pentrack/internal/model"
)

// RepositoryConfig is the configuration for the JSON file repository.
type RepositoryConfig struct {
	Path     string
	FileMode os.FileMode
	Logger   log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	if c.FileMode == 0 {
		c.FileMode = 0o644
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.JSONFile"})
	return nil
}

// Repository is a JSON file implementation of storage.DocumentRepository.
type Repository struct {
	path     string
	fileMode os.FileMode
	logger   log.Logger
}

// NewRepository creates a new JSON file repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		path:     cfg.Path,
		fileMode: cfg.FileMode,
		logger:   cfg.Logger,
	}, nil
}

// Path returns the file backing the repository.
func (r *Repository) Path() string { return r.path }

// GetDocument reads and parses the progress document file.
func (r *Repository) GetDocument(ctx context.Context) (*model.Document, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("progress document %s: %w", r.path, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not read progress document: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var doc documentJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not parse progress document %s: %w: %w", r.path, model.ErrNotValid, err)
	}

	r.logger.Debugf("Loaded progress document from %s", r.path)
	return doc.toModel(), nil
}

// SaveDocument atomically replaces the progress document file.
func (r *Repository) SaveDocument(ctx context.Context, doc model.Document) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false) // Phase names like "Scanning & Enumeration" must stay readable.
	if err := enc.Encode(fromModel(doc)); err != nil {
		return fmt.Errorf("could not marshal progress document: %w", err)
	}

	if err := atomicwriter.WriteFile(r.path, buf.Bytes(), r.fileMode); err != nil {
		return fmt.Errorf("could not write progress document: %w", err)
	}

	r.logger.Debugf("Saved progress document to %s", r.path)
	return nil
}

type documentJSON struct {
	TargetInfo targetInfoJSON       `json:"target_info"`
	Phases     map[string]phaseJSON `json:"phases"`
}

type targetInfoJSON struct {
	Name      string `json:"name"`
	IPRange   string `json:"ip_range"`
	StartDate string `json:"start_date"`
	Notes     string `json:"notes"`
}

// phaseJSON keeps the `complete` rollup for readers of the file, it's always
// written from the task states and ignored when loading.
type phaseJSON struct {
	Complete bool                `json:"complete"`
	Tasks    map[string]taskJSON `json:"tasks"`
}

type taskJSON struct {
	Complete bool   `json:"complete"`
	Notes    string `json:"notes"`
}

func (d documentJSON) toModel() *model.Document {
	doc := &model.Document{
		TargetInfo: model.TargetInfo{
			Name:      d.TargetInfo.Name,
			IPRange:   d.TargetInfo.IPRange,
			StartDate: d.TargetInfo.StartDate,
			Notes:     d.TargetInfo.Notes,
		},
		Phases: make(map[string]model.PhaseState, len(d.Phases)),
	}

	for name, p := range d.Phases {
		tasks := make(map[string]model.TaskState, len(p.Tasks))
		for t, s := range p.Tasks {
			tasks[t] = model.TaskState{Complete: s.Complete, Notes: s.Notes}
		}
		doc.Phases[name] = model.PhaseState{Tasks: tasks}
	}

	return doc
}

func fromModel(doc model.Document) documentJSON {
	d := documentJSON{
		TargetInfo: targetInfoJSON{
			Name:      doc.TargetInfo.Name,
			IPRange:   doc.TargetInfo.IPRange,
			StartDate: doc.TargetInfo.StartDate,
			Notes:     doc.TargetInfo.Notes,
		},
		Phases: make(map[string]phaseJSON, len(doc.Phases)),
	}

	for name, p := range doc.Phases {
		tasks := make(map[string]taskJSON, len(p.Tasks))
		for t, s := range p.Tasks {
			tasks[t] = taskJSON{Complete: s.Complete, Notes: s.Notes}
		}
		d.Phases[name] = phaseJSON{Complete: p.Complete(), Tasks: tasks}
	}

	return d
}
