// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package partials

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/checkboard/checkboard/assets/components/fragments"
	"codeberg.org/checkboard/checkboard/i18n"
	"codeberg.org/checkboard/checkboard/server/template"
)

// CountRow is one line of a report table.
type CountRow struct {
	Label string
	// Href links the label. Empty renders plain text.
	Href string
	// Hint is shown as a tooltip on the label.
	Hint  string
	Count int
	// CountHref links the count, e.g. into the Weblate editor.
	CountHref string
}

type CountTableProps struct {
	// Heading is the header of the label column.
	Heading string
	Rows    []CountRow
}

// CountTable renders rows as a two column table, or a notice when there
// are no rows.
func CountTable(props CountTableProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := fragments.NewWriter(w)

		if len(props.Rows) == 0 {
			hw.Raw(`<p class="empty">`)
			hw.Text(i18n.Tr(ctx, "No failing checks."))
			hw.Raw(`</p>`)

			return hw.Err()
		}

		hw.Raw(`<table class="counts"><thead><tr><th>`)
		hw.Text(props.Heading)
		hw.Raw(`</th><th class="number">`)
		hw.Text(i18n.Tr(ctx, "Count"))
		hw.Raw(`</th></tr></thead><tbody>`)

		for _, row := range props.Rows {
			hw.Raw(`<tr><td>`)
			hw.Link(row.Href, row.Label, row.Hint)
			hw.Raw(`</td><td class="number">`)
			hw.Link(row.CountHref, template.FormatCount(ctx, row.Count), "")
			hw.Raw(`</td></tr>`)
		}

		hw.Raw(`</tbody></table>`)

		return hw.Err()
	})
}
