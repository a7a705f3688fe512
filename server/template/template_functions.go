// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package template holds small helpers shared by the templ views.
package template

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"codeberg.org/checkboard/checkboard/config"
	"codeberg.org/checkboard/checkboard/i18n"
)

// FormatCount formats n with the digit grouping of the UI language in ctx.
func FormatCount(ctx context.Context, n int) string {
	return message.NewPrinter(i18n.TagFrom(ctx)).Sprintf("%d", n)
}

// LangAttr returns the value for the <html lang> attribute.
func LangAttr(ctx context.Context) string {
	base, _ := i18n.TagFrom(ctx).Base()

	if base == (language.Base{}) {
		return i18n.BaseLocale
	}

	return base.String()
}

// AssetURL returns the URL of a static asset with a cache-busting query.
func AssetURL(name string) string {
	return "/" + strings.TrimPrefix(name, "/") + "?v=" + url.QueryEscape(config.Global.Instance.FileServerCacheID)
}

// PathJoin builds an absolute path from segments, escaping each one.
func PathJoin(segments ...string) string {
	var b strings.Builder

	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}

	return b.String()
}

// WeblateURL links a report row into the configured Weblate instance, or
// returns "" when no instance is configured. Segments are path-escaped.
func WeblateURL(segments ...string) string {
	if config.Global.Instance.WeblateURL == "" {
		return ""
	}

	return config.Global.Instance.WeblateURL + PathJoin(segments...) + "/"
}
