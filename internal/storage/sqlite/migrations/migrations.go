// Package migrations keeps the save history schema up to date.
//
// The schema is forward only: a history database written by a newer pentrack
// or left half migrated is rejected instead of being touched.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/slok/pentrack/internal/log"
	"github.com/slok/pentrack/internal/model"
)

//go:embed sql/*.up.sql
var schemaFiles embed.FS

func newSource() (source.Driver, error) {
	src, err := iofs.New(schemaFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("could not load embedded schema: %w", err)
	}
	return src, nil
}

// LatestVersion returns the newest history schema version shipped with the binary.
func LatestVersion() (uint, error) {
	src, err := newSource()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	v, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("no schema versions embedded: %w", err)
	}
	for {
		next, err := src.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		if err != nil {
			return 0, fmt.Errorf("could not read schema version after %d: %w", v, err)
		}
		v = next
	}
}

// Apply migrates the history database to the latest schema and returns the
// resulting schema version.
func Apply(ctx context.Context, db *sql.DB, logger log.Logger) (uint, error) {
	if db == nil {
		return 0, fmt.Errorf("db is required")
	}
	if logger == nil {
		logger = log.Noop
	}
	logger = logger.WithValues(log.Kv{"component": "history-schema"})

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	latest, err := LatestVersion()
	if err != nil {
		return 0, err
	}

	// The migrate instance is not closed, the sqlite driver would close the shared db.
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("could not create schema driver: %w", err)
	}
	src, err := newSource()
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Errorf("could not close embedded schema: %s", err)
		}
	}()

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("could not create schema migrator: %w", err)
	}

	current, err := currentVersion(m)
	if err != nil {
		return 0, err
	}
	if current > latest {
		return 0, fmt.Errorf("history schema version %d is newer than the supported %d: %w", current, latest, model.ErrNotValid)
	}
	if current == latest {
		logger.Debugf("History schema at version %d", current)
		return current, nil
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-stop:
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("could not migrate history schema from version %d: %w", current, err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	applied, err := currentVersion(m)
	if err != nil {
		return 0, err
	}
	logger.Infof("History schema migrated from version %d to %d", current, applied)

	return applied, nil
}

// currentVersion returns the stored schema version, 0 on a new database.
func currentVersion(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("could not read history schema version: %w", err)
	case dirty:
		return 0, fmt.Errorf("history schema version %d was left half applied: %w", v, model.ErrNotValid)
	}
	return v, nil
}
