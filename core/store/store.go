// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package store persists projects, subprojects, languages, translations,
units and checks, and runs the aggregate queries behind the check reports.

Both SQLite (modernc.org/sqlite) and PostgreSQL (pgx) are supported. Queries
are written with "?" placeholders and rebound for PostgreSQL.
*/
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"codeberg.org/checkboard/checkboard/config"
	"codeberg.org/checkboard/checkboard/core/audit"
	"codeberg.org/checkboard/checkboard/server/request_context"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

var errUnknownDriver = errors.New("unknown database driver")

const dataDirPermissions = 0o750

// Store wraps a database connection pool.
type Store struct {
	db     *sql.DB
	driver string
}

// Default is the store opened by main.
var Default *Store

// Open connects to the database and applies the schema.
//
// driver is "sqlite", where dsn is a file path or ":memory:", or "pgx",
// where dsn is a PostgreSQL connection string.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var (
		db  *sql.DB
		err error
	)

	switch driver {
	case config.DriverSQLite:
		db, err = openSQLite(dsn)
	case config.DriverPostgres:
		db, err = openPostgres(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownDriver, driver)
	}

	if err != nil {
		return nil, err
	}

	s := &Store{db: db, driver: driver}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	log.Info().Str("driver", driver).Msg("Opened database")

	return s, nil
}

func openSQLite(dsn string) (*sql.DB, error) {
	inMemory := dsn == ":memory:" || strings.Contains(dsn, "mode=memory")

	if !inMemory {
		path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
		if err := os.MkdirAll(filepath.Dir(path), dataDirPermissions); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	if !strings.Contains(dsn, "_pragma=foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}

		dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open(config.DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if inMemory {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

func openPostgres(dsn string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}

	return stdlib.OpenDB(*cfg), nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// rebind converts "?" placeholders to "$n" for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != config.DriverPostgres {
		return query
	}

	var b strings.Builder

	b.Grow(len(query) + 8)

	n := 0

	for _, r := range query {
		if r == '?' {
			n++

			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// span starts an audit span for a named query.
func span(ctx context.Context, name string) (context.Context, *audit.Span) {
	sp := &audit.Span{
		Destination: audit.ToDatabase,
		RequestID:   request_context.FromContext(ctx).RequestID,
		Method:      "QUERY",
		URL:         name,
	}

	return sp.Begin(ctx), sp
}

func finish(sp *audit.Span, err error) {
	sp.Error = err
	sp.End()
	sp.Log()
}

// queryRow runs a single-row query inside a span.
func (s *Store) queryRow(ctx context.Context, name, query string, args []any, dest ...any) (err error) {
	ctx, sp := span(ctx, name)
	defer func() { finish(sp, err) }()

	err = s.db.QueryRowContext(ctx, s.rebind(query), args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}
