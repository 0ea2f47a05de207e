package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/pentrack/internal/app/report"
	"github.com/slok/pentrack/internal/printer"
	"github.com/slok/pentrack/internal/session"
)

type TrackCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	autosave bool
	noClear  bool
}

// NewTrackCommand returns the interactive tracking command.
func NewTrackCommand(rootCmd *RootCommand, app *kingpin.Application) *TrackCommand {
	c := &TrackCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("track", "Track the methodology progress interactively.").Default()
	c.Cmd.Flag("autosave", "Save the progress after every edit.").BoolVar(&c.autosave)
	c.Cmd.Flag("no-clear", "Don't clear the console before showing the progress.").BoolVar(&c.noClear)

	return c
}

func (c TrackCommand) Name() string { return c.Cmd.FullCommand() }

func (c TrackCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	svc, repo, closeFn, err := c.rootCmd.newProgressService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	exporter, err := report.NewService(report.ServiceConfig{
		Methodology: svc.Methodology(),
		OutputDir:   c.rootCmd.ReportsDir,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create report service: %w", err)
	}

	ctrl, err := session.NewController(session.ControllerConfig{
		Store:       svc,
		Exporter:    exporter,
		In:          c.rootCmd.Stdin,
		Out:         c.rootCmd.Stdout,
		Printer:     printer.NewTablePrinter(c.rootCmd.Stdout, !c.rootCmd.NoColor),
		Location:    repo.Path(),
		ClearScreen: !c.noClear,
		Autosave:    c.autosave,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create session: %w", err)
	}

	fmt.Fprintln(c.rootCmd.Stdout, "OSCP Penetration Testing Methodology Tracker")
	fmt.Fprintln(c.rootCmd.Stdout, "This tool helps you follow a structured methodology during penetration testing.")

	return ctrl.Run(ctx)
}
