// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/checkboard/checkboard/server/assets"
)

// poDomain is the gettext domain, and the basename of the template catalog.
const poDomain = "checkboard"

var (
	// localesByTag maps canonical BCP 47 tags to their catalogs.
	localesByTag map[string]*gotext.Locale

	supportedTags []language.Tag

	matcher language.Matcher
)

// Setup loads every po/<locale>.po catalog from [assets.FS] and builds the
// language matcher. File names may use either "pt_BR" or "pt-BR".
//
// Calling Setup again replaces the loaded catalogs.
func Setup() error {
	Logger = log.With().Str("sys", "i18n").Logger()

	if assets.FS == nil {
		return fmt.Errorf("i18n: assets.FS is not set")
	}

	entries, err := fs.ReadDir(assets.FS, "po")
	if err != nil {
		return fmt.Errorf("failed to read po directory: %w", err)
	}

	loaded := make(map[string]*gotext.Locale)

	var tags []language.Tag

	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(fileName, ".po") {
			continue
		}

		t, err := language.Parse(strings.ReplaceAll(strings.TrimSuffix(fileName, ".po"), "_", "-"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", fileName).Msg("Skipping invalid locale file")

			continue
		}

		canonical := t.String()

		po := gotext.NewPoFS(assets.FS)
		po.ParseFile(path.Join("po", fileName))

		loc := gotext.NewLocale("", canonical)
		loc.AddTranslator(poDomain, po)

		loaded[canonical] = loc
		tags = append(tags, t)

		Logger.Debug().
			Str("locale", canonical).
			Str("domain", poDomain).
			Msg("Loaded locale")
	}

	slices.SortFunc(tags, func(a, b language.Tag) int { return strings.Compare(a.String(), b.String()) })

	// baseTag goes first so it is the matcher's fallback.
	all := []language.Tag{baseTag}

	for _, t := range tags {
		if t != baseTag {
			all = append(all, t)
		}
	}

	localesByTag = loaded
	supportedTags = all
	matcher = language.NewMatcher(all)

	Logger.Info().Int("locales", len(loaded)).Msg("Initialized i18n engine")

	return nil
}
