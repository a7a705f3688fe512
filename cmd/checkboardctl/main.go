// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
checkboardctl manages a Checkboard database and queries translation-memory
services from the command line.

	checkboardctl --dsn ./data/checkboard.db load fixtures.yaml
	checkboardctl checks --project weblate
	checkboardctl checks end_stop weblate main --ignored
	checkboardctl mt amagama cs "Hello, world"
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/checkboard/checkboard/config"
	"codeberg.org/checkboard/checkboard/core/audit"
	"codeberg.org/checkboard/checkboard/core/store"
)

type options struct {
	driver string
	dsn    string
}

func main() {
	audit.SetDefaultLogger()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "checkboardctl",
		Short:        "Manage Checkboard data and query translation memories",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.driver, "driver", envOr("CHECKBOARD_DB_DRIVER", config.DriverSQLite),
		`database driver, "sqlite" or "pgx"`)
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", envOr("CHECKBOARD_DB_DSN", "./data/checkboard.db"),
		"database file path or connection string")

	root.AddCommand(newLoadCmd(opts))
	root.AddCommand(newChecksCmd(opts))
	root.AddCommand(newMTCmd())

	return root
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

// withStore opens the configured database for the duration of fn.
func (o *options) withStore(ctx context.Context, fn func(*store.Store) error) error {
	st, err := store.Open(ctx, o.driver, o.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	return fn(st)
}
