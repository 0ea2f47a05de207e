package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/pentrack/internal/app/progress"
	"github.com/slok/pentrack/internal/conventions"
	"github.com/slok/pentrack/internal/log"
	"github.com/slok/pentrack/internal/storage"
	"github.com/slok/pentrack/internal/storage/jsonfile"
	"github.com/slok/pentrack/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	DataFile   string
	ReportsDir string
	HistoryDB  string
	NoHistory  bool

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger and console color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)
	app.Flag("data-file", "Path to the progress document.").Default(conventions.DataFile).StringVar(&c.DataFile)
	app.Flag("reports-dir", "Directory where reports are exported.").Default(conventions.ReportsDir).StringVar(&c.ReportsDir)

	app.Flag("history-db", "Path to the SQLite save history database.").Default(conventions.HistoryDBPath(homedir.HomeDir())).StringVar(&c.HistoryDB)
	app.Flag("no-history", "Disable the save history.").BoolVar(&c.NoHistory)

	return c
}

// newProgressService wires the progress service with the document file and, unless
// disabled, the save history. A history database that can't be opened only disables
// the history. The returned close func must be called when done.
func (c RootCommand) newProgressService(ctx context.Context) (*progress.Service, *jsonfile.Repository, func(), error) {
	repo, err := jsonfile.NewRepository(jsonfile.RepositoryConfig{
		Path:   c.DataFile,
		Logger: c.Logger,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not create document repository: %w", err)
	}

	closeFn := func() {}
	var checkpoints storage.CheckpointRepository
	if !c.NoHistory {
		history, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: c.HistoryDB,
			Logger: c.Logger,
		})
		switch {
		case err != nil:
			// The progress document is the source of truth, tracking goes on without checkpoints.
			c.Logger.Warningf("Save history disabled, could not open %s: %s", c.HistoryDB, err)
			if c.Stderr != nil {
				fmt.Fprintf(c.Stderr, "[!] Save history disabled: %s\n", err)
			}
		default:
			checkpoints = history
			closeFn = func() { _ = history.Close() }
		}
	}

	svc, err := progress.NewService(progress.ServiceConfig{
		Repository:  repo,
		Checkpoints: checkpoints,
		Logger:      c.Logger,
	})
	if err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("could not create service: %w", err)
	}

	return svc, repo, closeFn, nil
}
