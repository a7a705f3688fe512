// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"codeberg.org/checkboard/checkboard/assets/components/fragments"
	"codeberg.org/checkboard/checkboard/i18n"
)

type ErrorData struct {
	Title      string
	Error      error
	StatusCode int
}

func Error(data ErrorData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := fragments.NewWriter(w)

		hw.Raw(`<p class="status">`)
		hw.Text(strconv.Itoa(data.StatusCode) + " " + http.StatusText(data.StatusCode))
		hw.Raw(`</p>`)

		if data.Error != nil {
			hw.Raw(`<pre class="error">`)
			hw.Text(data.Error.Error())
			hw.Raw(`</pre>`)
		}

		hw.Raw(`<p>`)
		hw.Link("/checks", i18n.Tr(ctx, "Back to failing checks"), "")
		hw.Raw(`</p>`)

		return hw.Err()
	})

	return Layout(data.Title, body)
}
