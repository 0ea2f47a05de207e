package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/pentrack/internal/model"
)

func TestComputeProgress(t *testing.T) {
	m := testMethodology()

	tests := map[string]struct {
		doc  func() *model.Document
		expP model.Progress
	}{
		"A fresh document should have zero progress.": {
			doc:  func() *model.Document { return model.NewDocument(m, "") },
			expP: model.Progress{Completed: 0, Total: 3, Percent: 0},
		},
		"A partially completed document should compute the percent.": {
			doc: func() *model.Document {
				d := model.NewDocument(m, "")
				d.Phases["Recon"].Tasks["dns"] = model.TaskState{Complete: true}
				return d
			},
			expP: model.Progress{Completed: 1, Total: 3, Percent: 100.0 / 3},
		},
		"An empty document should not divide by zero.": {
			doc:  func() *model.Document { return &model.Document{} },
			expP: model.Progress{},
		},
		"A nil document should return zero progress.": {
			doc:  func() *model.Document { return nil },
			expP: model.Progress{},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := model.ComputeProgress(test.doc())
			assert.Equal(t, test.expP.Completed, got.Completed)
			assert.Equal(t, test.expP.Total, got.Total)
			assert.InDelta(t, test.expP.Percent, got.Percent, 0.0001)
			assert.LessOrEqual(t, 0, got.Completed)
			assert.LessOrEqual(t, got.Completed, got.Total)
		})
	}
}

func TestProgressStatus(t *testing.T) {
	tests := map[string]struct {
		phase     model.PhaseState
		expStatus model.PhaseStatus
	}{
		"none": {
			phase:     model.PhaseState{Tasks: map[string]model.TaskState{"a": {}, "b": {}}},
			expStatus: model.PhaseStatusNone,
		},
		"partial": {
			phase:     model.PhaseState{Tasks: map[string]model.TaskState{"a": {Complete: true}, "b": {}}},
			expStatus: model.PhaseStatusPartial,
		},
		"full": {
			phase:     model.PhaseState{Tasks: map[string]model.TaskState{"a": {Complete: true}, "b": {Complete: true}}},
			expStatus: model.PhaseStatusFull,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expStatus, model.PhaseProgress(test.phase).Status())
		})
	}
}
