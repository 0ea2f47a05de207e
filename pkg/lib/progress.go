package lib

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/pentrack/internal/app/report"
	"github.com/slok/pentrack/internal/model"
)

// Progress returns the current progress.
//
// A missing or unreadable document is not an error, an empty progress with
// [Progress].Fresh set is returned instead.
func (c *Client) Progress(ctx context.Context) (*Progress, error) {
	res := c.progress.LoadOrCreate(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := fromInternalProgress(c.progress.Methodology(), res.Document, res.Fresh)
	return &p, nil
}

// SetTaskStatus marks a task as complete or incomplete and saves the progress.
//
// Returns [ErrNotFound] if the phase or the task is not part of the methodology.
func (c *Client) SetTaskStatus(ctx context.Context, phase, task string, complete bool) error {
	return c.update(ctx, func(doc *model.Document) error {
		return c.progress.SetTaskStatus(doc, phase, task, complete)
	})
}

// SetTaskNotes replaces the notes of a task and saves the progress. Empty notes
// keep the current ones.
//
// Returns [ErrNotFound] if the phase or the task is not part of the methodology.
func (c *Client) SetTaskNotes(ctx context.Context, phase, task, notes string) error {
	return c.update(ctx, func(doc *model.Document) error {
		return c.progress.SetTaskNotes(doc, phase, task, notes)
	})
}

// UpdateTarget updates the target information and saves the progress.
func (c *Client) UpdateTarget(ctx context.Context, upd TargetUpdate) error {
	return c.update(ctx, func(doc *model.Document) error {
		c.progress.UpdateTargetInfo(doc, model.TargetInfoUpdate{
			Name:    upd.Name,
			IPRange: upd.IPRange,
			Notes:   upd.Notes,
		})
		return nil
	})
}

// ExportReport writes a new plain text report of the current progress and
// returns its path. Reports are never overwritten.
func (c *Client) ExportReport(ctx context.Context) (string, error) {
	res := c.progress.LoadOrCreate(ctx)

	path, err := c.reports.Export(ctx, report.Request{Document: res.Document})
	if err != nil {
		return "", mapError(err)
	}

	return path, nil
}

// History returns the recorded saves, newest first. A limit of 0 returns all.
//
// Returns [ErrNotValid] if the history is disabled.
func (c *Client) History(ctx context.Context, limit int) ([]Checkpoint, error) {
	if c.history == nil {
		return nil, fmt.Errorf("save history is disabled: %w", ErrNotValid)
	}
	if limit < 0 {
		return nil, fmt.Errorf("invalid limit %d: %w", limit, ErrNotValid)
	}

	cs, err := c.history.ListCheckpoints(ctx, limit)
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalCheckpointList(cs), nil
}

func (c *Client) update(ctx context.Context, f func(doc *model.Document) error) error {
	res := c.progress.LoadOrCreate(ctx)
	switch {
	case res.FallbackReason == nil:
	case errors.Is(res.FallbackReason, model.ErrNotFound):
		c.logger.Debugf("Updating a fresh progress document: %s", res.FallbackReason)
	default:
		// Only the interactive session may replace an unusable document, after telling the operator.
		return joinErrors(fmt.Errorf("stored progress document is not usable: %w", res.FallbackReason), ErrNotValid)
	}

	if err := f(res.Document); err != nil {
		return mapError(err)
	}

	if err := c.progress.Save(ctx, res.Document); err != nil {
		return mapError(err)
	}

	return nil
}
