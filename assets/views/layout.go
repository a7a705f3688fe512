// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package views holds the page components rendered by server/routes.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/checkboard/checkboard/assets/components/fragments"
	"codeberg.org/checkboard/checkboard/i18n"
	"codeberg.org/checkboard/checkboard/server/template"
)

// Layout wraps body in the page chrome.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cd := fragments.CommonData(ctx)
		hw := fragments.NewWriter(w)

		hw.Raw(`<!DOCTYPE html><html`)
		hw.Attr("lang", template.LangAttr(ctx))
		hw.Raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		hw.Text(title)
		hw.Raw(` - Checkboard</title><link rel="stylesheet"`)
		hw.Attr("href", template.AssetURL("css/main.css"))
		hw.Raw(`></head><body><header><nav>`)
		hw.Link("/checks", i18n.Tr(ctx, "Failing checks"), "")
		hw.Raw(` `)
		hw.Link("/checks?ignored=true", i18n.Tr(ctx, "Ignored checks"), "")
		hw.Raw(` `)
		hw.Link("/about", i18n.Tr(ctx, "About"), "")
		hw.Raw(`</nav></header><main><h1>`)
		hw.Text(title)
		hw.Raw(`</h1>`)
		hw.Component(ctx, body)
		hw.Raw(`</main><footer>Checkboard `)
		hw.Text(cd.Version)

		if cd.Revision != "" {
			hw.Raw(` (`)
			hw.Text(cd.Revision)
			hw.Raw(`)`)
		}

		if cd.RepoURL != "" {
			hw.Raw(` · `)
			hw.Link(cd.RepoURL, i18n.Tr(ctx, "Source code"), "")
		}

		hw.Raw(`</footer></body></html>`)

		return hw.Err()
	})
}

// ignoredToggle links the current page with the ignored filter flipped.
func ignoredToggle() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := fragments.NewWriter(w)

		label := i18n.Tr(ctx, "Show ignored checks")
		if fragments.CommonData(ctx).Ignored {
			label = i18n.Tr(ctx, "Show active checks")
		}

		hw.Raw(`<p class="toggle">`)
		hw.Link(fragments.ToggleIgnoredURL(ctx), label, "")
		hw.Raw(`</p>`)

		return hw.Err()
	})
}

// page renders parts in order.
func page(parts ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := fragments.NewWriter(w)

		for _, part := range parts {
			hw.Component(ctx, part)
		}

		return hw.Err()
	})
}

// paragraph renders escaped text in a <p> with an optional class.
func paragraph(class, text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := fragments.NewWriter(w)

		hw.Raw(`<p`)

		if class != "" {
			hw.Attr("class", class)
		}

		hw.Raw(`>`)
		hw.Text(text)
		hw.Raw(`</p>`)

		return hw.Err()
	})
}
