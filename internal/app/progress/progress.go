// Package progress is the single source of truth for the progress document:
// its creation, loading, persistence and mutations.
package progress

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/pentrack/internal/log"
	"github.com/slok/pentrack/internal/methodology"
	"github.com/slok/pentrack/internal/model"
	"github.com/slok/pentrack/internal/storage"
)

// ServiceConfig is the configuration for the progress service.
type ServiceConfig struct {
	Repository storage.DocumentRepository
	// Checkpoints is optional, when set every save is recorded.
	Checkpoints storage.CheckpointRepository
	Methodology *model.Methodology
	Logger      log.Logger
	Now         func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Methodology == nil {
		m := methodology.Default()
		c.Methodology = &m
	}
	if err := c.Methodology.Validate(); err != nil {
		return fmt.Errorf("invalid methodology: %w", err)
	}

	if c.Now == nil {
		c.Now = time.Now
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Progress"})

	return nil
}

// Service manages the progress document lifecycle.
type Service struct {
	repo        storage.DocumentRepository
	checkpoints storage.CheckpointRepository
	methodology model.Methodology
	logger      log.Logger
	now         func() time.Time
}

// NewService creates a new progress service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:        cfg.Repository,
		checkpoints: cfg.Checkpoints,
		methodology: *cfg.Methodology,
		logger:      cfg.Logger,
		now:         cfg.Now,
	}, nil
}

// Methodology returns the methodology the documents follow.
func (s *Service) Methodology() model.Methodology { return s.methodology }

// LoadResult is the result of loading the progress document.
type LoadResult struct {
	Document *model.Document
	// Fresh is true when the document has been created instead of loaded.
	Fresh bool
	// FallbackReason is the reason a stored document could not be used, nil when
	// the document was loaded. It's informational, not a failure.
	FallbackReason error
}

// LoadOrCreate loads the stored document or creates a fresh one when there is none or it's unusable.
// It never fails, at worst it returns a fresh document.
func (s *Service) LoadOrCreate(ctx context.Context) LoadResult {
	doc, err := s.repo.GetDocument(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Infof("No progress document found, creating a new one")
		} else {
			s.logger.Warningf("Could not load progress document, creating a new one: %s", err)
		}

		return LoadResult{
			Document:       s.NewDocument(),
			Fresh:          true,
			FallbackReason: err,
		}
	}

	if doc.Normalize(s.methodology) {
		s.logger.Debugf("Progress document normalized with the methodology")
	}

	return LoadResult{Document: doc}
}

// NewDocument returns a fresh document stamped with the current time.
func (s *Service) NewDocument() *model.Document {
	return model.NewDocument(s.methodology, s.now().Format(model.StartDateLayout))
}

// Save replaces the stored document. Storage errors are returned to the caller.
func (s *Service) Save(ctx context.Context, doc *model.Document) error {
	if doc == nil {
		return fmt.Errorf("document is required: %w", model.ErrNotValid)
	}

	if err := s.repo.SaveDocument(ctx, *doc); err != nil {
		return fmt.Errorf("could not save progress: %w", err)
	}

	if s.checkpoints != nil {
		p := model.ComputeProgress(doc)
		now := s.now().UTC()
		cp := model.Checkpoint{
			ID:         ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
			TargetName: doc.TargetInfo.Name,
			Completed:  p.Completed,
			Total:      p.Total,
			SavedAt:    now,
		}
		// Checkpoint failures never fail the save.
		if err := s.checkpoints.CreateCheckpoint(ctx, cp); err != nil {
			s.logger.Warningf("Could not record save checkpoint: %s", err)
		}
	}

	s.logger.Debugf("Progress saved")
	return nil
}

// SetTaskStatus marks a task as complete or incomplete.
func (s *Service) SetTaskStatus(doc *model.Document, phase, task string, complete bool) error {
	p, t, err := s.lookup(doc, phase, task)
	if err != nil {
		return err
	}

	t.Complete = complete
	p.Tasks[task] = t
	doc.Phases[phase] = p

	s.logger.Debugf("Task %q of phase %q set complete=%t", task, phase, complete)
	return nil
}

// SetTaskNotes replaces the task notes. Empty notes keep the previous ones.
func (s *Service) SetTaskNotes(doc *model.Document, phase, task, notes string) error {
	p, t, err := s.lookup(doc, phase, task)
	if err != nil {
		return err
	}

	if notes == "" {
		return nil
	}

	t.Notes = notes
	p.Tasks[task] = t
	doc.Phases[phase] = p

	return nil
}

// UpdateTargetInfo overwrites the target fields that are not empty.
func (s *Service) UpdateTargetInfo(doc *model.Document, upd model.TargetInfoUpdate) {
	if upd.Name != "" {
		doc.TargetInfo.Name = upd.Name
	}
	if upd.IPRange != "" {
		doc.TargetInfo.IPRange = upd.IPRange
	}
	if upd.Notes != "" {
		doc.TargetInfo.Notes = upd.Notes
	}
}

// ComputeOverallProgress returns the overall document progress.
func (s *Service) ComputeOverallProgress(doc *model.Document) model.Progress {
	return model.ComputeProgress(doc)
}

func (s *Service) lookup(doc *model.Document, phase, task string) (model.PhaseState, model.TaskState, error) {
	if doc == nil {
		return model.PhaseState{}, model.TaskState{}, fmt.Errorf("document is required: %w", model.ErrNotValid)
	}

	pd, err := s.methodology.Phase(phase)
	if err != nil {
		return model.PhaseState{}, model.TaskState{}, err
	}
	if !pd.HasTask(task) {
		return model.PhaseState{}, model.TaskState{}, fmt.Errorf("task %q in phase %q: %w", task, phase, model.ErrNotFound)
	}

	p, ok := doc.Phases[phase]
	if !ok {
		return model.PhaseState{}, model.TaskState{}, fmt.Errorf("phase %q: %w", phase, model.ErrNotFound)
	}
	t, ok := p.Tasks[task]
	if !ok {
		return model.PhaseState{}, model.TaskState{}, fmt.Errorf("task %q in phase %q: %w", task, phase, model.ErrNotFound)
	}

	return p, t, nil
}
