// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"codeberg.org/checkboard/checkboard/config"
	"codeberg.org/checkboard/checkboard/core/machine"
)

func newMTCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "mt <service> <language> <text>",
		Short: "Query a translation-memory service",
		Long: `Looks up suggestions for text in language. The service is "amagama" or
"tmserver"; the latter needs --url.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(args[0], serverURL)
			if err != nil {
				return err
			}

			suggestions, err := machine.Translate(cmd.Context(), svc, args[1], args[2])
			if err != nil {
				return err
			}

			body, err := json.Marshal(suggestions)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(pretty.Pretty(body))

			return err
		},
	}

	cmd.Flags().StringVar(&serverURL, "url", "", "tmserver URL")

	return cmd
}

func newService(name, serverURL string) (machine.Service, error) {
	switch strings.ToLower(name) {
	case config.ServiceAmagama:
		return machine.NewAmagama(), nil
	case config.ServiceTMServer:
		svc, err := machine.NewTMServer(serverURL)
		if err != nil {
			return nil, err
		}

		return svc, nil
	default:
		return nil, fmt.Errorf("unknown machine translation service %q", name)
	}
}
