package printer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/slok/pentrack/internal/model"
)

// ReportDateLayout is the layout of the dates shown in reports.
const ReportDateLayout = "2006-01-02 15:04"

// WriteReport renders the plain-text progress report of a document.
func WriteReport(w io.Writer, m model.Methodology, doc *model.Document, reportDate time.Time) error {
	var b bytes.Buffer
	banner := strings.Repeat("=", bannerWidth)

	fmt.Fprintln(&b, banner)
	fmt.Fprintln(&b, "PENETRATION TESTING REPORT")
	fmt.Fprintf(&b, "%s\n\n", banner)

	ti := doc.TargetInfo
	fmt.Fprintf(&b, "Target: %s\n", ti.Name)
	fmt.Fprintf(&b, "IP Range: %s\n", ti.IPRange)
	fmt.Fprintf(&b, "Start Date: %s\n", ti.StartDate)
	fmt.Fprintf(&b, "Report Date: %s\n\n", reportDate.Format(ReportDateLayout))

	if ti.Notes != "" {
		fmt.Fprintln(&b, "Target Notes:")
		fmt.Fprintf(&b, "%s\n\n", ti.Notes)
	}

	fmt.Fprintln(&b, banner)
	fmt.Fprintln(&b, "METHODOLOGY PROGRESS")
	fmt.Fprintf(&b, "%s\n\n", banner)

	for _, pd := range m.Phases {
		phase := doc.Phases[pd.Name]
		status := "IN PROGRESS"
		if phase.Complete() {
			status = "COMPLETED"
		}
		fmt.Fprintf(&b, "%s - %s\n", pd.Name, status)
		fmt.Fprintln(&b, strings.Repeat("-", bannerWidth))

		for _, name := range pd.Tasks {
			task := phase.Tasks[name]
			mark := markMissing
			if task.Complete {
				mark = markDone
			}
			fmt.Fprintf(&b, "[%s] %s\n", mark, name)

			if task.Notes != "" {
				fmt.Fprintln(&b, "    Notes:")
				for _, line := range strings.Split(task.Notes, "\n") {
					fmt.Fprintf(&b, "    %s %s\n", markNote, line)
				}
			}
			fmt.Fprintln(&b)
		}
		fmt.Fprintln(&b)
	}

	_, err := b.WriteTo(w)
	return err
}
