package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/pentrack/internal/app/report"
)

type ReportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewReportCommand returns the report export command.
func NewReportCommand(rootCmd *RootCommand, app *kingpin.Application) *ReportCommand {
	c := &ReportCommand{rootCmd: rootCmd}
	c.Cmd = app.Command("report", "Export a plain text progress report.")
	return c
}

func (c ReportCommand) Name() string { return c.Cmd.FullCommand() }

func (c ReportCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	root := *c.rootCmd
	root.NoHistory = true

	svc, _, closeFn, err := root.newProgressService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	res := svc.LoadOrCreate(ctx)
	if res.Fresh {
		logger.Warningf("No usable progress document at %s, exporting an empty report", c.rootCmd.DataFile)
	}

	exporter, err := report.NewService(report.ServiceConfig{
		Methodology: svc.Methodology(),
		OutputDir:   c.rootCmd.ReportsDir,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create report service: %w", err)
	}

	path, err := exporter.Export(ctx, report.Request{Document: res.Document})
	if err != nil {
		return fmt.Errorf("could not export report: %w", err)
	}

	fmt.Fprintln(c.rootCmd.Stdout, path)
	return nil
}
