// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package checks lists the quality checks that reports can refer to.
//
// Checks are computed elsewhere; this package only knows their names and
// whether they apply to translations, to source strings, or to both.
package checks

import (
	"slices"
	"strings"

	"codeberg.org/checkboard/checkboard/i18n"
)

// Check describes one kind of quality check.
type Check struct {
	// ID is the identifier stored in the database, e.g. "end_stop".
	ID string

	Name        i18n.MsgKey
	Description i18n.MsgKey

	// Target checks flag translations and are stored per language.
	Target bool

	// Source checks flag source strings and are stored without a language.
	Source bool
}

var catalog = []Check{
	{ID: "same", Name: "Not translated", Description: "Source and translated strings are same", Target: true},
	{ID: "begin_newline", Name: "Starting newline", Description: "Source and translated do not both start with a newline", Target: true},
	{ID: "end_newline", Name: "Trailing newline", Description: "Source and translated do not both end with a newline", Target: true},
	{ID: "begin_space", Name: "Starting spaces", Description: "Source and translated do not both start with same number of spaces", Target: true},
	{ID: "end_space", Name: "Trailing space", Description: "Source and translated do not both end with a space", Target: true},
	{ID: "end_stop", Name: "Trailing stop", Description: "Source and translated do not both end with a full stop", Target: true},
	{ID: "end_colon", Name: "Trailing colon", Description: "Source and translated do not both end with a colon or colon is not correctly spaced", Target: true},
	{ID: "end_question", Name: "Trailing question", Description: "Source and translated do not both end with a question mark or it is not correctly spaced", Target: true},
	{ID: "end_exclamation", Name: "Trailing exclamation", Description: "Source and translated do not both end with an exclamation mark or it is not correctly spaced", Target: true},
	{ID: "end_ellipsis", Name: "Trailing ellipsis", Description: "Source and translated do not both end with an ellipsis", Target: true},
	{ID: "python_format", Name: "Python format", Description: "Format string does not match source", Target: true},
	{ID: "python_brace_format", Name: "Python brace format", Description: "Format string does not match source", Target: true},
	{ID: "php_format", Name: "PHP format", Description: "Format string does not match source", Target: true},
	{ID: "c_format", Name: "C format", Description: "Format string does not match source", Target: true},
	{ID: "plurals", Name: "Missing plurals", Description: "Some plural forms are not translated", Target: true},
	{ID: "inconsistent", Name: "Inconsistent", Description: "This message has more than one translation in this project", Target: true},
	{ID: "escaped_newline", Name: "Mismatched \\n", Description: "Number of \\n in translation does not match source", Target: true},
	{ID: "bbcode", Name: "Mismatched BBcode", Description: "BBcode in translation does not match source", Target: true},
	{ID: "zero-width-space", Name: "Zero-width space", Description: "Translation contains extra zero-width space character", Target: true},
	{ID: "xmltags", Name: "XML tags mismatch", Description: "XML tags in translation do not match source", Target: true},
	{ID: "optional_plural", Name: "Unpluralised", Description: "The string is optionally used as plural, but not using plural forms", Source: true},
	{ID: "ellipsis", Name: "Ellipsis", Description: "The string uses three dots (...) instead of an ellipsis character (…)", Source: true},
	{ID: "multiple_failures", Name: "Multiple failing checks", Description: "The translations in several languages have failing checks", Source: true},
}

var byID = func() map[string]Check {
	m := make(map[string]Check, len(catalog))
	for _, c := range catalog {
		m[c.ID] = c
	}

	return m
}()

// Lookup returns the check with the given id.
func Lookup(id string) (Check, bool) {
	c, ok := byID[id]

	return c, ok
}

// All returns every known check sorted by id.
func All() []Check {
	out := slices.Clone(catalog)
	slices.SortFunc(out, func(a, b Check) int { return strings.Compare(a.ID, b.ID) })

	return out
}
