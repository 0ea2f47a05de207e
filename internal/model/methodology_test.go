package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/pentrack/internal/model"
)

func TestMethodologyValidate(t *testing.T) {
	tests := map[string]struct {
		methodology model.Methodology
		expErr      bool
	}{
		"valid methodology": {
			methodology: model.Methodology{Phases: []model.PhaseDefinition{
				{Name: "Recon", Tasks: []string{"a", "b"}},
				{Name: "Exploit", Tasks: []string{"a"}},
			}},
		},
		"no phases": {
			methodology: model.Methodology{},
			expErr:      true,
		},
		"phase without tasks": {
			methodology: model.Methodology{Phases: []model.PhaseDefinition{{Name: "Recon"}}},
			expErr:      true,
		},
		"duplicated phase": {
			methodology: model.Methodology{Phases: []model.PhaseDefinition{
				{Name: "Recon", Tasks: []string{"a"}},
				{Name: "Recon", Tasks: []string{"b"}},
			}},
			expErr: true,
		},
		"duplicated task in a phase": {
			methodology: model.Methodology{Phases: []model.PhaseDefinition{
				{Name: "Recon", Tasks: []string{"a", "a"}},
			}},
			expErr: true,
		},
		"blank phase name": {
			methodology: model.Methodology{Phases: []model.PhaseDefinition{
				{Name: "  ", Tasks: []string{"a"}},
			}},
			expErr: true,
		},
		"blank task name": {
			methodology: model.Methodology{Phases: []model.PhaseDefinition{
				{Name: "Recon", Tasks: []string{""}},
			}},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := test.methodology.Validate()
			if test.expErr {
				assert.ErrorIs(t, err, model.ErrNotValid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMethodologyPhase(t *testing.T) {
	m := model.Methodology{Phases: []model.PhaseDefinition{
		{Name: "Recon", Tasks: []string{"a", "b"}},
		{Name: "Exploit", Tasks: []string{"c"}},
	}}

	p, err := m.Phase("Exploit")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, p.Tasks)
	assert.True(t, p.HasTask("c"))
	assert.False(t, p.HasTask("a"))

	_, err = m.Phase("Missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.Equal(t, 3, m.TotalTasks())
}
