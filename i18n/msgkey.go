// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"
)

// MsgKey is an untranslated msgid that can be stored in tables (such as the
// check catalog) and translated once a request context is available.
//
// MsgKey implements templ.Component.
type MsgKey string

// Tr translates the msgid in the locale carried by ctx.
func (s MsgKey) Tr(ctx context.Context) string {
	return Tr(ctx, string(s))
}

// Render writes the translation to w.
func (s MsgKey) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, s.Tr(ctx))

	return err
}
