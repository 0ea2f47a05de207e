package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/pentrack/internal/printer"
)

type StatusCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewStatusCommand returns the status command.
func NewStatusCommand(rootCmd *RootCommand, app *kingpin.Application) *StatusCommand {
	c := &StatusCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("status", "Show the methodology progress.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c StatusCommand) Name() string { return c.Cmd.FullCommand() }

func (c StatusCommand) Run(ctx context.Context) error {
	// Status is read only, the history is not needed.
	root := *c.rootCmd
	root.NoHistory = true

	svc, _, closeFn, err := root.newProgressService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	res := svc.LoadOrCreate(ctx)

	var p printer.Printer
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout, !c.rootCmd.NoColor)
	}

	if err := p.PrintProgress(svc.Methodology(), res.Document); err != nil {
		return fmt.Errorf("could not print progress: %w", err)
	}

	return nil
}
