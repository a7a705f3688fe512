// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/checkboard/checkboard/assets/components/partials"
	"codeberg.org/checkboard/checkboard/core/reports"
	"codeberg.org/checkboard/checkboard/i18n"
	"codeberg.org/checkboard/checkboard/server/template"
)

// Checks lists every failing check with its count.
func Checks(data reports.ChecksData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		rows := make([]partials.CountRow, 0, len(data.Checks))

		for _, row := range data.Checks {
			href := template.PathJoin("checks", row.Check.ID) + data.URLParams

			rows = append(rows, partials.CountRow{
				Label:     row.Check.Name.Tr(ctx),
				Href:      href,
				Hint:      row.Check.Description.Tr(ctx),
				Count:     row.Count,
				CountHref: href,
			})
		}

		body := page(
			ignoredToggle(),
			partials.CountTable(partials.CountTableProps{
				Heading: i18n.Tr(ctx, "Check"),
				Rows:    rows,
			}),
		)

		return Layout(data.Title, body).Render(ctx, w)
	})
}

// Check lists the projects failing one check.
func Check(data reports.CheckData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		rows := make([]partials.CountRow, 0, len(data.Projects))

		for _, row := range data.Projects {
			href := template.PathJoin("checks", data.Check.ID, row.Project) + data.URLParams

			rows = append(rows, partials.CountRow{
				Label:     row.Project,
				Href:      href,
				Count:     row.Count,
				CountHref: href,
			})
		}

		body := page(
			paragraph("description", data.Check.Description.Tr(ctx)),
			ignoredToggle(),
			partials.CountTable(partials.CountTableProps{
				Heading: i18n.Tr(ctx, "Project"),
				Rows:    rows,
			}),
		)

		return Layout(data.Title, body).Render(ctx, w)
	})
}

// CheckProject lists the subprojects of a project failing one check.
func CheckProject(data reports.CheckProjectData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		rows := make([]partials.CountRow, 0, len(data.Subprojects))

		for _, row := range data.Subprojects {
			rows = append(rows, partials.CountRow{
				Label:     row.Key(),
				Href:      template.PathJoin("checks", data.Check.ID, row.Project, row.Subproject) + data.URLParams,
				Count:     row.Count,
				CountHref: template.WeblateURL("projects", row.Project, row.Subproject),
			})
		}

		body := page(
			paragraph("description", data.Check.Description.Tr(ctx)),
			ignoredToggle(),
			partials.CountTable(partials.CountTableProps{
				Heading: i18n.Tr(ctx, "Subproject"),
				Rows:    rows,
			}),
		)

		return Layout(data.Title, body).Render(ctx, w)
	})
}

// CheckSubproject lists the languages of a subproject failing one check,
// followed by the source strings failing it.
func CheckSubproject(data reports.CheckSubprojectData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		project := data.Subproject.Project.Slug
		sub := data.Subproject.Slug
		typeFilter := "?type=" + data.Check.ID

		rows := make([]partials.CountRow, 0, len(data.Languages)+len(data.SourceChecks))

		editorLink := func(segments ...string) string {
			if link := template.WeblateURL(segments...); link != "" {
				return link + typeFilter
			}

			return ""
		}

		for _, lang := range data.Languages {
			rows = append(rows, partials.CountRow{
				Label:     lang.Language,
				Count:     lang.Count,
				CountHref: editorLink("translate", project, sub, lang.Language),
			})
		}

		for _, count := range data.SourceChecks {
			rows = append(rows, partials.CountRow{
				Label:     i18n.Tr(ctx, "Source strings"),
				Count:     count,
				CountHref: editorLink("source", project, sub, "review"),
			})
		}

		parts := []templ.Component{
			paragraph("description", data.Check.Description.Tr(ctx)),
			ignoredToggle(),
		}

		if data.AnyChecks {
			parts = append(parts, partials.CountTable(partials.CountTableProps{
				Heading: i18n.Tr(ctx, "Language"),
				Rows:    rows,
			}))
		} else {
			parts = append(parts, paragraph("empty", i18n.Tr(ctx, "No matching units found.")))
		}

		return Layout(data.Title, page(parts...)).Render(ctx, w)
	})
}
