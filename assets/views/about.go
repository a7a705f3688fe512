// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"codeberg.org/checkboard/checkboard/assets/components/fragments"
	"codeberg.org/checkboard/checkboard/i18n"
)

type AboutData struct {
	Title    string
	Version  string
	Revision string
	Time     string
	// Services lists the enabled machine translation services.
	Services []string
	Database string
}

func About(data AboutData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := fragments.NewWriter(w)

		item := func(label, value string) {
			hw.Raw(`<dt>`)
			hw.Text(label)
			hw.Raw(`</dt><dd>`)
			hw.Text(value)
			hw.Raw(`</dd>`)
		}

		services := strings.Join(data.Services, ", ")
		if services == "" {
			services = i18n.Tr(ctx, "none")
		}

		hw.Raw(`<p>`)
		hw.Text(i18n.Tr(ctx, "Checkboard reports failing quality checks of translation projects."))
		hw.Raw(`</p><dl class="about">`)
		item(i18n.Tr(ctx, "Version"), data.Version)
		item(i18n.Tr(ctx, "Revision"), data.Revision)
		item(i18n.Tr(ctx, "Started"), data.Time)
		item(i18n.Tr(ctx, "Database"), data.Database)
		item(i18n.Tr(ctx, "Machine translation"), services)
		hw.Raw(`</dl>`)

		return hw.Err()
	})

	return Layout(data.Title, body)
}
