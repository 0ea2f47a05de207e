package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/slok/pentrack/internal/model"
)

// TablePrinter prints progress in a human readable console format.
type TablePrinter struct {
	writer io.Writer

	done    *color.Color
	partial *color.Color
	title   *color.Color
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer, colored bool) *TablePrinter {
	t := &TablePrinter{
		writer:  w,
		done:    color.New(color.FgGreen),
		partial: color.New(color.FgYellow),
		title:   color.New(color.Bold),
	}
	if !colored {
		t.done.DisableColor()
		t.partial.DisableColor()
		t.title.DisableColor()
	}
	return t
}

// PrintProgress prints the target header, every phase with its tasks and notes, and the overall progress.
func (t *TablePrinter) PrintProgress(m model.Methodology, doc *model.Document) error {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)
	rule := strings.Repeat("-", bannerWidth)

	fmt.Fprintln(&b, banner)
	fmt.Fprintln(&b, t.title.Sprint("OSCP PENETRATION TESTING METHODOLOGY TRACKER"))
	fmt.Fprintf(&b, "Target: %s (%s)\n", doc.TargetInfo.Name, doc.TargetInfo.IPRange)
	fmt.Fprintf(&b, "Started: %s\n", doc.TargetInfo.StartDate)
	fmt.Fprintln(&b, banner)

	for _, pd := range m.Phases {
		phase := doc.Phases[pd.Name]
		pp := model.PhaseProgress(phase)

		fmt.Fprintf(&b, "\n%s %s [%d/%d]\n", t.phaseMark(pp.Status()), pd.Name, pp.Completed, pp.Total)
		fmt.Fprintln(&b, rule)

		for _, name := range pd.Tasks {
			task := phase.Tasks[name]
			fmt.Fprintf(&b, "  [%s] %s\n", t.taskMark(task.Complete), name)
			if task.Notes != "" {
				for _, line := range strings.Split(task.Notes, "\n") {
					fmt.Fprintf(&b, "      %s %s\n", markNote, line)
				}
			}
		}
	}

	p := model.ComputeProgress(doc)
	fmt.Fprintln(&b, "\n"+banner)
	fmt.Fprintf(&b, "Overall Progress: %d/%d tasks (%.1f%%)\n", p.Completed, p.Total, p.Percent)
	fmt.Fprintln(&b, banner)

	_, err := io.WriteString(t.writer, b.String())
	return err
}

// PrintCheckpoints prints the save history in a table format.
func (t *TablePrinter) PrintCheckpoints(checkpoints []model.Checkpoint) error {
	if len(checkpoints) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tTARGET\tPROGRESS\tSAVED")
	for _, c := range checkpoints {
		target := c.TargetName
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\n", c.ID, target, c.Completed, c.Total, TimeAgo(c.SavedAt))
	}

	return tw.Flush()
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}

func (t *TablePrinter) taskMark(complete bool) string {
	if complete {
		return t.done.Sprint(markDone)
	}
	return " "
}

func (t *TablePrinter) phaseMark(s model.PhaseStatus) string {
	switch s {
	case model.PhaseStatusFull:
		return t.done.Sprint(markDone)
	case model.PhaseStatusPartial:
		return t.partial.Sprint(markPartial)
	default:
		return " "
	}
}
