// Package session drives the interactive tracking session: it renders the
// progress, reads the operator selections and applies them to the progress
// document through the progress store.
//
// The session is a state machine that starts in the menu, every edit goes back
// to the menu when done or when the input is not valid, and it only terminates
// from the menu after saving.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/slok/pentrack/internal/app/progress"
	"github.com/slok/pentrack/internal/app/report"
	"github.com/slok/pentrack/internal/log"
	"github.com/slok/pentrack/internal/model"
	"github.com/slok/pentrack/internal/printer"
)

const clearScreen = "\033[H\033[2J"

// ProgressStore is the progress document store used by the session.
type ProgressStore interface {
	Methodology() model.Methodology
	LoadOrCreate(ctx context.Context) progress.LoadResult
	Save(ctx context.Context, doc *model.Document) error
	SetTaskStatus(doc *model.Document, phase, task string, complete bool) error
	SetTaskNotes(doc *model.Document, phase, task, notes string) error
	UpdateTargetInfo(doc *model.Document, upd model.TargetInfoUpdate)
}

// ReportExporter exports progress reports.
type ReportExporter interface {
	Export(ctx context.Context, req report.Request) (string, error)
}

// ControllerConfig is the configuration for the session controller.
type ControllerConfig struct {
	Store    ProgressStore
	Exporter ReportExporter
	In       io.Reader
	Out      io.Writer
	// Printer renders the progress view, defaults to an uncolored table printer on Out.
	Printer printer.Printer
	// Location is shown to the operator when the progress is saved.
	Location    string
	ClearScreen bool
	// Autosave saves the progress after every edit.
	Autosave bool
	Logger   log.Logger
}

func (c *ControllerConfig) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("progress store is required")
	}
	if c.Exporter == nil {
		return fmt.Errorf("report exporter is required")
	}
	if c.In == nil {
		return fmt.Errorf("input is required")
	}
	if c.Out == nil {
		c.Out = io.Discard
	}
	if c.Printer == nil {
		c.Printer = printer.NewTablePrinter(c.Out, false)
	}
	if c.Location == "" {
		c.Location = "storage"
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "session.Controller"})

	return nil
}

// Controller runs interactive tracking sessions.
type Controller struct {
	store       ProgressStore
	exporter    ReportExporter
	in          io.Reader
	out         io.Writer
	printer     printer.Printer
	location    string
	clearScreen bool
	autosave    bool
	logger      log.Logger
}

// NewController creates a new session controller.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Controller{
		store:       cfg.Store,
		exporter:    cfg.Exporter,
		in:          cfg.In,
		out:         cfg.Out,
		printer:     cfg.Printer,
		location:    cfg.Location,
		clearScreen: cfg.ClearScreen,
		autosave:    cfg.Autosave,
		logger:      cfg.Logger,
	}, nil
}

// session is the state carried between the steps of a single run.
type session struct {
	doc         *model.Document
	methodology model.Methodology
	input       *lineReader
	notices     []string

	phase model.PhaseDefinition
	task  string
}

// Run loads the progress and runs the interactive loop until the operator saves and exits.
// A failed save ends the session with an error, a failed report export is shown
// and the session goes back to the menu.
func (c *Controller) Run(ctx context.Context) error {
	res := c.store.LoadOrCreate(ctx)
	s := &session{
		doc:         res.Document,
		methodology: c.store.Methodology(),
		input:       newLineReader(c.in),
	}
	defer s.input.Close()
	if res.FallbackReason != nil && !errors.Is(res.FallbackReason, model.ErrNotFound) {
		c.notify(s, "[!] Error loading checklist file. Creating new one.")
	}

	st := stateMenu
	for st != stateTerminated {
		if err := ctx.Err(); err != nil {
			c.logger.Warningf("Session cancelled, unsaved changes are discarded")
			return err
		}

		next, err := c.step(ctx, s, st)
		if err != nil {
			return err
		}
		if next != st {
			c.logger.Debugf("Session state %s -> %s", st, next)
		}
		st = next
	}

	return nil
}

func (c *Controller) step(ctx context.Context, s *session, st state) (state, error) {
	switch st {
	case stateMenu:
		return c.menu(ctx, s)
	case stateTargetInfoEdit:
		return c.editTargetInfo(ctx, s)
	case stateTaskSelectPhase:
		return c.selectPhase(ctx, s)
	case stateTaskSelectTask:
		return c.selectTask(ctx, s)
	case stateTaskEdit:
		return c.editTask(ctx, s)
	case stateReportExport:
		return c.exportReport(ctx, s)
	}
	return stateTerminated, fmt.Errorf("unknown session state %d", st)
}

func (c *Controller) menu(ctx context.Context, s *session) (state, error) {
	if c.clearScreen {
		c.print(clearScreen)
	}
	if err := c.printer.PrintProgress(s.methodology, s.doc); err != nil {
		return stateTerminated, fmt.Errorf("could not print progress: %w", err)
	}
	for _, n := range s.notices {
		c.print(n + "\n")
	}
	s.notices = nil

	c.print("\nOptions:\n")
	c.print("1. Update target information\n")
	c.print("2. Update task status\n")
	c.print("3. Export report\n")
	c.print("4. Save and exit\n")

	choice, err := c.prompt(ctx, s, "\nEnter choice: ")
	if err != nil {
		return stateTerminated, err
	}

	switch strings.TrimSpace(choice) {
	case "1":
		return stateTargetInfoEdit, nil
	case "2":
		return stateTaskSelectPhase, nil
	case "3":
		return stateReportExport, nil
	case "4":
		if err := c.store.Save(ctx, s.doc); err != nil {
			return stateTerminated, err
		}
		c.print(fmt.Sprintf("[+] Progress saved to %s\n", c.location))
		c.print("[+] Checklist saved. Exiting.\n")
		return stateTerminated, nil
	default:
		c.notify(s, "[!] Invalid choice")
		return stateMenu, nil
	}
}

func (c *Controller) editTargetInfo(ctx context.Context, s *session) (state, error) {
	ti := s.doc.TargetInfo
	c.print("\n=== Target Information ===\n")

	name, err := c.prompt(ctx, s, fmt.Sprintf("Target Name [%s]: ", ti.Name))
	if err != nil {
		return stateTerminated, err
	}
	ipRange, err := c.prompt(ctx, s, fmt.Sprintf("IP Range [%s]: ", ti.IPRange))
	if err != nil {
		return stateTerminated, err
	}
	notes, err := c.prompt(ctx, s, fmt.Sprintf("Notes [%s]: ", ti.Notes))
	if err != nil {
		return stateTerminated, err
	}

	c.store.UpdateTargetInfo(s.doc, model.TargetInfoUpdate{
		Name:    name,
		IPRange: ipRange,
		Notes:   notes,
	})
	c.notify(s, "[+] Target information updated")

	return stateMenu, c.autosaveProgress(ctx, s)
}

func (c *Controller) selectPhase(ctx context.Context, s *session) (state, error) {
	c.print("\nSelect a phase:\n")
	for i, p := range s.methodology.Phases {
		c.print(fmt.Sprintf("%d. %s\n", i+1, p.Name))
	}

	in, err := c.prompt(ctx, s, "\nEnter phase number: ")
	if err != nil {
		return stateTerminated, err
	}

	idx, err := parseSelection(in, len(s.methodology.Phases))
	if err != nil {
		c.notify(s, selectionMessage(err, "phase"))
		return stateMenu, nil
	}

	s.phase = s.methodology.Phases[idx]
	return stateTaskSelectTask, nil
}

func (c *Controller) selectTask(ctx context.Context, s *session) (state, error) {
	phase := s.doc.Phases[s.phase.Name]

	c.print(fmt.Sprintf("\nTasks for %s:\n", s.phase.Name))
	for i, name := range s.phase.Tasks {
		c.print(fmt.Sprintf("%d. [%s] %s\n", i+1, mark(phase.Tasks[name].Complete), name))
	}

	in, err := c.prompt(ctx, s, "\nEnter task number: ")
	if err != nil {
		return stateTerminated, err
	}

	idx, err := parseSelection(in, len(s.phase.Tasks))
	if err != nil {
		c.notify(s, selectionMessage(err, "task"))
		return stateMenu, nil
	}

	s.task = s.phase.Tasks[idx]
	return stateTaskEdit, nil
}

func (c *Controller) editTask(ctx context.Context, s *session) (state, error) {
	current, err := s.doc.Task(s.phase.Name, s.task)
	if err != nil {
		c.notify(s, fmt.Sprintf("[!] %s", err))
		return stateMenu, nil
	}

	status := "incomplete"
	if current.Complete {
		status = "complete"
	}

	c.print(fmt.Sprintf("\nUpdating: %s\n", s.task))
	in, err := c.prompt(ctx, s, fmt.Sprintf("Status (%s) [c/i]: ", status))
	if err != nil {
		return stateTerminated, err
	}

	c.print(fmt.Sprintf("Current notes: %s\n", current.Notes))
	c.print("Enter new notes (empty line to finish):\n")
	var lines []string
	for {
		line, err := s.input.ReadLine(ctx)
		if err != nil {
			return stateTerminated, err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	switch strings.ToLower(strings.TrimSpace(in)) {
	case "c":
		err = c.store.SetTaskStatus(s.doc, s.phase.Name, s.task, true)
	case "i":
		err = c.store.SetTaskStatus(s.doc, s.phase.Name, s.task, false)
	}
	if err != nil {
		c.notify(s, fmt.Sprintf("[!] Could not update task: %s", err))
		return stateMenu, nil
	}

	if err := c.store.SetTaskNotes(s.doc, s.phase.Name, s.task, strings.Join(lines, "\n")); err != nil {
		c.notify(s, fmt.Sprintf("[!] Could not update task notes: %s", err))
		return stateMenu, nil
	}

	c.notify(s, fmt.Sprintf("[+] Task %q updated", s.task))
	return stateMenu, c.autosaveProgress(ctx, s)
}

func (c *Controller) exportReport(ctx context.Context, s *session) (state, error) {
	path, err := c.exporter.Export(ctx, report.Request{Document: s.doc})
	if err != nil {
		c.logger.Warningf("Could not export report: %s", err)
		c.notify(s, fmt.Sprintf("[!] Could not export report: %s", err))
		return stateMenu, nil
	}

	c.notify(s, fmt.Sprintf("[+] Report exported to %s", path))
	return stateMenu, nil
}

func (c *Controller) autosaveProgress(ctx context.Context, s *session) error {
	if !c.autosave {
		return nil
	}

	if err := c.store.Save(ctx, s.doc); err != nil {
		return err
	}
	c.notify(s, fmt.Sprintf("[+] Progress saved to %s", c.location))
	return nil
}

func (c *Controller) prompt(ctx context.Context, s *session, msg string) (string, error) {
	c.print(msg)
	return s.input.ReadLine(ctx)
}

func (c *Controller) notify(s *session, msg string) {
	s.notices = append(s.notices, msg)
}

func (c *Controller) print(msg string) {
	_, _ = io.WriteString(c.out, msg)
}

var (
	errNotANumber = errors.New("not a number")
	errOutOfRange = errors.New("out of range")
)

// parseSelection parses a 1-based selection and returns its 0-based index.
func parseSelection(in string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(in))
	if err != nil {
		return 0, errNotANumber
	}
	if i < 1 || i > n {
		return 0, errOutOfRange
	}
	return i - 1, nil
}

func selectionMessage(err error, what string) string {
	if errors.Is(err, errNotANumber) {
		return "[!] Please enter a number"
	}
	return fmt.Sprintf("[!] Invalid %s number", what)
}

func mark(complete bool) string {
	if complete {
		return "✓"
	}
	return " "
}
