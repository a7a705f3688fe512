// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"
)

// writeTemplate writes messages as a POT file, sorted by context, msgid and
// plural, each preceded by its deduplicated source references.
func writeTemplate(w io.Writer, messages map[message][]location, version string, now time.Time) {
	fmt.Fprintln(w, `msgid ""`)
	fmt.Fprintln(w, `msgstr ""`)
	fmt.Fprintf(w, "\"Project-Id-Version: Checkboard %s\\n\"\n", version)
	fmt.Fprintf(w, "\"POT-Creation-Date: %s\\n\"\n", now.Format("2006-01-02 15:04+0000"))
	fmt.Fprintln(w, `"Language: en\n"`)
	fmt.Fprintln(w, `"Report-Msgid-Bugs-To: https://codeberg.org/checkboard/checkboard/issues\n"`)
	fmt.Fprintln(w, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(w, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(w, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(w, `"Plural-Forms: nplurals=2; plural=(n != 1);\n"`)

	keys := slices.SortedFunc(maps.Keys(messages), func(a, b message) int {
		return cmp.Or(cmp.Compare(a.ctx, b.ctx), cmp.Compare(a.id, b.id), cmp.Compare(a.plural, b.plural))
	})

	for _, m := range keys {
		locs := slices.SortedFunc(slices.Values(messages[m]), func(a, b location) int {
			return cmp.Or(cmp.Compare(a.file, b.file), cmp.Compare(a.line, b.line))
		})

		fmt.Fprintln(w)
		fmt.Fprint(w, "#:")

		for _, l := range slices.Compact(locs) {
			fmt.Fprintf(w, " %s:%d", l.file, l.line)
		}

		fmt.Fprintln(w)

		if m.ctx != "" {
			fmt.Fprintf(w, "msgctxt %q\n", m.ctx)
		}

		fmt.Fprintf(w, "msgid %q\n", m.id)

		if m.plural != "" {
			fmt.Fprintf(w, "msgid_plural %q\n", m.plural)
			fmt.Fprintln(w, `msgstr[0] ""`)
			fmt.Fprintln(w, `msgstr[1] ""`)
		} else {
			fmt.Fprintln(w, `msgstr ""`)
		}
	}
}
