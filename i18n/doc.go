// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n translates user interface strings using GNU gettext .po
catalogs embedded under po/.

The msgid is always the original English text:

	i18n.Tr(ctx, "Failing checks")
	i18n.TrN(ctx, "{{.Count}} failing string", "{{.Count}} failing strings", n, "Count", n)

Placeholders use text/template syntax and are filled from alternating
key/value arguments.

Missing translations fall back to the msgid. With
internationalization.strictMissingKeys enabled they are logged once per
locale and key and wrapped as "⟦...⟧" so they stand out on the page.

cmd/i18n_extract collects every literal msgid passed to the Tr functions
into po/checkboard.pot.
*/
package i18n
