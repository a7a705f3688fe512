// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fragments

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Writer emits markup for a component and keeps the first error, so
// components only check once at the end.
type Writer struct {
	w   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup.
func (hw *Writer) Raw(s string) {
	if hw.err != nil {
		return
	}

	_, hw.err = io.WriteString(hw.w, s)
}

// Text writes s HTML-escaped.
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with value escaped.
func (hw *Writer) Attr(name, value string) {
	hw.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// Link writes an anchor, or just the text when href is empty.
func (hw *Writer) Link(href, text, title string) {
	if href == "" {
		hw.Text(text)

		return
	}

	hw.Raw("<a")
	hw.Attr("href", href)

	if title != "" {
		hw.Attr("title", title)
	}

	hw.Raw(">")
	hw.Text(text)
	hw.Raw("</a>")
}

// Component renders a child component.
func (hw *Writer) Component(ctx context.Context, c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}

	hw.err = c.Render(ctx, hw.w)
}

func (hw *Writer) Err() error {
	return hw.err
}
