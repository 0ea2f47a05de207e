package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/pentrack/internal/model"
)

// JSONPrinter prints progress information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type progressOutput struct {
	Target   targetOutput  `json:"target"`
	Progress countOutput   `json:"progress"`
	Phases   []phaseOutput `json:"phases"`
}

type targetOutput struct {
	Name      string `json:"name"`
	IPRange   string `json:"ip_range"`
	StartDate string `json:"start_date"`
	Notes     string `json:"notes"`
}

type countOutput struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

type phaseOutput struct {
	Name     string       `json:"name"`
	Status   string       `json:"status"`
	Complete bool         `json:"complete"`
	Progress countOutput  `json:"progress"`
	Tasks    []taskOutput `json:"tasks"`
}

type taskOutput struct {
	Name     string `json:"name"`
	Complete bool   `json:"complete"`
	Notes    string `json:"notes,omitempty"`
}

type checkpointOutput struct {
	ID         string    `json:"id"`
	TargetName string    `json:"target_name"`
	Completed  int       `json:"completed"`
	Total      int       `json:"total"`
	SavedAt    time.Time `json:"saved_at"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintProgress prints the document progress in methodology order.
func (j *JSONPrinter) PrintProgress(m model.Methodology, doc *model.Document) error {
	p := model.ComputeProgress(doc)
	output := progressOutput{
		Target: targetOutput{
			Name:      doc.TargetInfo.Name,
			IPRange:   doc.TargetInfo.IPRange,
			StartDate: doc.TargetInfo.StartDate,
			Notes:     doc.TargetInfo.Notes,
		},
		Progress: countOutput{Completed: p.Completed, Total: p.Total, Percent: p.Percent},
		Phases:   make([]phaseOutput, 0, len(m.Phases)),
	}

	for _, pd := range m.Phases {
		phase := doc.Phases[pd.Name]
		pp := model.PhaseProgress(phase)
		po := phaseOutput{
			Name:     pd.Name,
			Status:   string(pp.Status()),
			Complete: phase.Complete(),
			Progress: countOutput{Completed: pp.Completed, Total: pp.Total, Percent: pp.Percent},
			Tasks:    make([]taskOutput, 0, len(pd.Tasks)),
		}
		for _, name := range pd.Tasks {
			task := phase.Tasks[name]
			po.Tasks = append(po.Tasks, taskOutput{Name: name, Complete: task.Complete, Notes: task.Notes})
		}
		output.Phases = append(output.Phases, po)
	}

	return j.encode(output)
}

// PrintCheckpoints prints the save history in JSON format.
func (j *JSONPrinter) PrintCheckpoints(checkpoints []model.Checkpoint) error {
	items := make([]checkpointOutput, len(checkpoints))
	for i, c := range checkpoints {
		items[i] = checkpointOutput{
			ID:         c.ID,
			TargetName: c.TargetName,
			Completed:  c.Completed,
			Total:      c.Total,
			SavedAt:    c.SavedAt.UTC(),
		}
	}

	return j.encode(items)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
