package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/pentrack/internal/printer"
	"github.com/slok/pentrack/internal/storage/sqlite"
)

type HistoryCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
	limit  int
}

// NewHistoryCommand returns the save history command.
func NewHistoryCommand(rootCmd *RootCommand, app *kingpin.Application) *HistoryCommand {
	c := &HistoryCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("history", "List the progress save history.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)
	c.Cmd.Flag("limit", "Maximum number of entries, 0 lists all.").Default("20").IntVar(&c.limit)

	return c
}

func (c HistoryCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryCommand) Run(ctx context.Context) error {
	if c.rootCmd.NoHistory {
		return fmt.Errorf("save history is disabled")
	}
	if c.limit < 0 {
		return fmt.Errorf("invalid limit %d", c.limit)
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.HistoryDB,
		Logger: c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	checkpoints, err := repo.ListCheckpoints(ctx, c.limit)
	if err != nil {
		return fmt.Errorf("could not list history: %w", err)
	}

	var p printer.Printer
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout, !c.rootCmd.NoColor)
	}

	if len(checkpoints) == 0 && c.format == formatTable {
		return p.PrintMessage("No saves recorded yet.")
	}

	if err := p.PrintCheckpoints(checkpoints); err != nil {
		return fmt.Errorf("could not print history: %w", err)
	}

	return nil
}
