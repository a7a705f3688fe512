// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"text/template"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// templateCache maps message text to its parsed *template.Template.
var templateCache sync.Map

// Vars holds placeholder values for a translated message.
type Vars map[string]any

// Tr translates msgid and fills any named placeholders from kv.
func Tr(ctx context.Context, msgid string, kv ...any) string {
	return translate(ctx, "", msgid, "", 0, false, v(kv...))
}

// TrC translates msgid under a disambiguating gettext context.
func TrC(ctx context.Context, contextKey, msgid string, kv ...any) string {
	return translate(ctx, contextKey, msgid, "", 0, false, v(kv...))
}

// TrN picks the plural form for n. Untranslated messages use singular
// when n == 1 and plural otherwise.
func TrN(ctx context.Context, singular, plural string, n int, kv ...any) string {
	return translate(ctx, "", singular, plural, n, true, v(kv...))
}

func translate(
	ctx context.Context,
	contextKey, singular, plural string,
	n int,
	pluralMode bool,
	vars Vars,
) string {
	loc, matched := resolveLocale(TagFrom(ctx))

	base := singular
	if pluralMode && n != 1 {
		base = plural
	}

	text, found := lookup(loc, contextKey, singular, plural, n, pluralMode)
	if !found {
		text = base

		if strictMissingKeys() {
			logMissingOnce(strippedTagString(matched), buildLogKey(contextKey, singular))

			text = "⟦" + base + "⟧"
		}
	}

	return render(matched, text, vars)
}

func lookup(loc *gotext.Locale, contextKey, singular, plural string, n int, pluralMode bool) (string, bool) {
	if loc == nil {
		return "", false
	}

	switch {
	case pluralMode && contextKey != "":
		if loc.IsTranslatedNDC(poDomain, singular, n, contextKey) {
			return loc.GetNDC(poDomain, singular, plural, n, contextKey), true
		}
	case pluralMode:
		if loc.IsTranslatedND(poDomain, singular, n) {
			return loc.GetND(poDomain, singular, plural, n), true
		}
	// Singular entries are looked up as n == 1: the IsTranslatedD family
	// evaluates the plural formula at n == 0, which picks a missing form.
	case contextKey != "":
		if loc.IsTranslatedNDC(poDomain, singular, 1, contextKey) {
			return loc.GetNDC(poDomain, singular, singular, 1, contextKey), true
		}
	default:
		if loc.IsTranslatedND(poDomain, singular, 1) {
			return loc.GetND(poDomain, singular, singular, 1), true
		}
	}

	return "", false
}

// render executes s as a text/template with data.
// Strings without "{{" are returned as they are.
func render(locale language.Tag, s string, data Vars) string {
	if !strings.Contains(s, "{{") {
		return s
	}

	var tmpl *template.Template

	if cached, ok := templateCache.Load(s); ok {
		tmpl = cached.(*template.Template) //nolint:forcetypeassert // only templates are stored
	} else {
		parsed, err := template.New("msg").Option("missingkey=error").Parse(s)
		if err != nil {
			logEvent().Err(err).Str("locale", locale.String()).Str("text", s).Msg("i18n template parse error")

			return failed(s)
		}

		templateCache.Store(s, parsed)

		tmpl = parsed
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(data)); err != nil {
		logEvent().Err(err).Str("locale", locale.String()).Str("text", s).Msg("i18n template execute error")

		return failed(s)
	}

	return buf.String()
}

func failed(s string) string {
	if strictMissingKeys() {
		return "⟦" + s + "⟧"
	}

	return s
}

// resolveLocale returns the catalog matching t, if any, and the matched tag.
func resolveLocale(t language.Tag) (*gotext.Locale, language.Tag) {
	if matcher == nil {
		return nil, baseTag
	}

	matched, _ := language.MatchStrings(matcher, t.String())

	return localesByTag[strippedTagString(matched)], matched
}

// v builds Vars from alternating key, value pairs.
func v(kv ...any) Vars {
	if len(kv)%2 != 0 {
		panic("i18n: odd number of arguments, want key, value pairs")
	}

	m := make(Vars, len(kv)/2)

	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("i18n: key must be string")
		}

		m[k] = kv[i+1]
	}

	return m
}
