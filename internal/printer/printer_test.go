package printer_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/pentrack/internal/model"
	"github.com/slok/pentrack/internal/printer"
)

func methodologyFixture() model.Methodology {
	return model.Methodology{Phases: []model.PhaseDefinition{
		{Name: "Information Gathering", Tasks: []string{"DNS enumeration", "Whois"}},
		{Name: "Exploitation", Tasks: []string{"Obtain initial access"}},
		{Name: "Documentation", Tasks: []string{"Prepare technical report"}},
	}}
}

func documentFixture() *model.Document {
	doc := model.NewDocument(methodologyFixture(), "2026-10-19 10:00")
	doc.TargetInfo.Name = "Acme"
	doc.TargetInfo.IPRange = "10.10.10.0/24"
	doc.Phases["Information Gathering"].Tasks["DNS enumeration"] = model.TaskState{Complete: true, Notes: "zone transfer\nns1 open"}
	doc.Phases["Exploitation"].Tasks["Obtain initial access"] = model.TaskState{Complete: true}
	return doc
}

func TestTablePrinterPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, false)

	err := p.PrintProgress(methodologyFixture(), documentFixture())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "OSCP PENETRATION TESTING METHODOLOGY TRACKER\n")
	assert.Contains(t, out, "Target: Acme (10.10.10.0/24)\n")
	assert.Contains(t, out, "Started: 2026-10-19 10:00\n")
	assert.Contains(t, out, "\n⚬ Information Gathering [1/2]\n")
	assert.Contains(t, out, "\n✓ Exploitation [1/1]\n")
	assert.Contains(t, out, "\n  Documentation [0/1]\n")
	assert.Contains(t, out, "  [✓] DNS enumeration\n      → zone transfer\n      → ns1 open\n")
	assert.Contains(t, out, "  [ ] Whois\n")
	assert.Contains(t, out, "Overall Progress: 2/4 tasks (50.0%)\n")

	// Phases are printed in methodology order.
	assert.Less(t, strings.Index(out, "Information Gathering"), strings.Index(out, "Exploitation"))
	assert.Less(t, strings.Index(out, "Exploitation"), strings.Index(out, "Documentation"))
}

func TestTablePrinterPrintCheckpoints(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, false)

	err := p.PrintCheckpoints([]model.Checkpoint{
		{ID: "01ID", TargetName: "Acme", Completed: 3, Total: 34, SavedAt: time.Now().Add(-2 * time.Hour)},
		{ID: "02ID", Completed: 0, Total: 34, SavedAt: time.Now().Add(-3 * time.Minute)},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "PROGRESS")
	assert.Contains(t, lines[1], "Acme")
	assert.Contains(t, lines[1], "3/34")
	assert.Contains(t, lines[1], "2 hours ago (UTC)")
	assert.Contains(t, lines[2], "-")
	assert.Contains(t, lines[2], "3 minutes ago (UTC)")
}

func TestTablePrinterPrintCheckpointsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printer.NewTablePrinter(&buf, false).PrintCheckpoints(nil))
	assert.Empty(t, buf.String())
}

func TestTablePrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, false)

	err := p.PrintMessage("ok")
	require.NoError(t, err)
	assert.Equal(t, "ok", strings.TrimSpace(buf.String()))
}

func TestJSONPrinterPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := p.PrintProgress(methodologyFixture(), documentFixture())
	require.NoError(t, err)

	var out struct {
		Target struct {
			Name string `json:"name"`
		} `json:"target"`
		Progress struct {
			Completed int     `json:"completed"`
			Total     int     `json:"total"`
			Percent   float64 `json:"percent"`
		} `json:"progress"`
		Phases []struct {
			Name     string `json:"name"`
			Status   string `json:"status"`
			Complete bool   `json:"complete"`
			Tasks    []struct {
				Name  string `json:"name"`
				Notes string `json:"notes"`
			} `json:"tasks"`
		} `json:"phases"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "Acme", out.Target.Name)
	assert.Equal(t, 2, out.Progress.Completed)
	assert.Equal(t, 4, out.Progress.Total)
	assert.InDelta(t, 50.0, out.Progress.Percent, 0.001)
	require.Len(t, out.Phases, 3)
	assert.Equal(t, "Information Gathering", out.Phases[0].Name)
	assert.Equal(t, "partial", out.Phases[0].Status)
	assert.False(t, out.Phases[0].Complete)
	assert.Equal(t, "zone transfer\nns1 open", out.Phases[0].Tasks[0].Notes)
	assert.Equal(t, "full", out.Phases[1].Status)
	assert.True(t, out.Phases[1].Complete)
	assert.Equal(t, "none", out.Phases[2].Status)
}

func TestJSONPrinterPrintCheckpoints(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	savedAt := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	err := p.PrintCheckpoints([]model.Checkpoint{{ID: "01ID", TargetName: "Acme", Completed: 1, Total: 34, SavedAt: savedAt}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"id": "01ID"`)
	assert.Contains(t, out, `"completed": 1`)
	assert.Contains(t, out, `"saved_at": "2026-10-19T10:00:00Z"`)
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	doc := documentFixture()
	doc.TargetInfo.Notes = "VPN via jumpbox"

	err := printer.WriteReport(&buf, methodologyFixture(), doc, time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	banner := strings.Repeat("=", 60)
	rule := strings.Repeat("-", 60)
	exp := banner + "\n" +
		"PENETRATION TESTING REPORT\n" +
		banner + "\n\n" +
		"Target: Acme\n" +
		"IP Range: 10.10.10.0/24\n" +
		"Start Date: 2026-10-19 10:00\n" +
		"Report Date: 2026-10-20 09:30\n\n" +
		"Target Notes:\n" +
		"VPN via jumpbox\n\n" +
		banner + "\n" +
		"METHODOLOGY PROGRESS\n" +
		banner + "\n\n" +
		"Information Gathering - IN PROGRESS\n" +
		rule + "\n" +
		"[✓] DNS enumeration\n" +
		"    Notes:\n" +
		"    → zone transfer\n" +
		"    → ns1 open\n\n" +
		"[✗] Whois\n\n" +
		"\n" +
		"Exploitation - COMPLETED\n" +
		rule + "\n" +
		"[✓] Obtain initial access\n\n" +
		"\n" +
		"Documentation - IN PROGRESS\n" +
		rule + "\n" +
		"[✗] Prepare technical report\n\n" +
		"\n"

	assert.Equal(t, exp, buf.String())
}

func TestWriteReportWithoutTargetNotes(t *testing.T) {
	var buf bytes.Buffer
	err := printer.WriteReport(&buf, methodologyFixture(), documentFixture(), time.Now())
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Target Notes:")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteReportWriteError(t *testing.T) {
	err := printer.WriteReport(failingWriter{}, methodologyFixture(), documentFixture(), time.Now())
	assert.Error(t, err)
}
