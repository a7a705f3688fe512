// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"codeberg.org/checkboard/checkboard/core/reports"
	"codeberg.org/checkboard/checkboard/core/store"
)

func newChecksCmd(opts *options) *cobra.Command {
	var (
		ignored bool
		project string
	)

	cmd := &cobra.Command{
		Use:   "checks [check [project [subproject]]]",
		Short: "Print failing check counts",
		Long: `Without arguments, prints the number of failures of every check.
Naming a check breaks it down by project, adding a project breaks it down by
subproject, and adding a subproject breaks it down by language.`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(cmd.Context(), func(st *store.Store) error {
				return printReport(cmd.Context(), cmd.OutOrStdout(), st, args, reports.Filter{
					Ignored: ignored,
					Project: project,
				})
			})
		},
	}

	cmd.Flags().BoolVar(&ignored, "ignored", false, "show ignored checks instead of active ones")
	cmd.Flags().StringVar(&project, "project", "", "limit the check list to one project slug")

	return cmd
}

func printReport(ctx context.Context, out io.Writer, st reports.Store, args []string, f reports.Filter) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	switch len(args) {
	case 0:
		data, err := reports.ListChecks(ctx, st, f)
		if err != nil {
			return err
		}

		fmt.Fprintln(tw, "CHECK\tNAME\tCOUNT")

		for _, row := range data.Checks {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", row.Check.ID, row.Check.Name.Tr(ctx), row.Count)
		}
	case 1:
		data, err := reports.CheckDetail(ctx, st, args[0], f)
		if err != nil {
			return err
		}

		fmt.Fprintln(tw, "PROJECT\tCOUNT")

		for _, row := range data.Projects {
			fmt.Fprintf(tw, "%s\t%d\n", row.Project, row.Count)
		}
	case 2:
		data, err := reports.CheckProject(ctx, st, args[0], args[1], f.Ignored)
		if err != nil {
			return err
		}

		fmt.Fprintln(tw, "SUBPROJECT\tCOUNT")

		for _, row := range data.Subprojects {
			fmt.Fprintf(tw, "%s\t%d\n", row.Key(), row.Count)
		}
	default:
		data, err := reports.CheckSubproject(ctx, st, args[0], args[1], args[2], f.Ignored)
		if err != nil {
			return err
		}

		fmt.Fprintln(tw, "LANGUAGE\tCOUNT")

		for _, row := range data.Languages {
			fmt.Fprintf(tw, "%s\t%d\n", row.Language, row.Count)
		}

		for _, count := range data.SourceChecks {
			fmt.Fprintf(tw, "%s\t%d\n", "source", count)
		}
	}

	return tw.Flush()
}
