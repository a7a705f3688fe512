// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/checkboard/checkboard/core/store"
)

func newLoadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "load <fixtures.yaml>...",
		Short: "Load projects, units and checks from YAML fixtures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(cmd.Context(), func(st *store.Store) error {
				for _, path := range args {
					if err := st.LoadFixturesFile(cmd.Context(), path); err != nil {
						return err
					}

					log.Info().Str("path", path).Msg("Loaded fixtures")
				}

				return nil
			})
		},
	}
}
