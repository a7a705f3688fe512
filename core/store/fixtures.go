// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// Fixtures describes a dataset in YAML, used for demos and tests.
//
//	languages:
//	  - {code: cs, name: Czech}
//	projects:
//	  - slug: hello
//	    name: Hello
//	    subprojects:
//	      - slug: main
//	        name: Main
//	        languages: [cs]
//	        units:
//	          - source: "Hello..."
//	            sourceChecks: [ellipsis]
//	            translations:
//	              cs: {target: "Ahoj", checks: [end_stop]}
type Fixtures struct {
	Languages []LanguageFixture `yaml:"languages"`
	Projects  []ProjectFixture  `yaml:"projects"`
}

type LanguageFixture struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type ProjectFixture struct {
	Slug        string              `yaml:"slug"`
	Name        string              `yaml:"name"`
	Subprojects []SubprojectFixture `yaml:"subprojects"`
}

type SubprojectFixture struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
	// Languages lists the codes a translation is created for.
	Languages []string      `yaml:"languages"`
	Units     []UnitFixture `yaml:"units"`
}

type UnitFixture struct {
	Source              string                        `yaml:"source"`
	Context             string                        `yaml:"context"`
	SourceChecks        []string                      `yaml:"sourceChecks"`
	IgnoredSourceChecks []string                      `yaml:"ignoredSourceChecks"`
	Translations        map[string]TranslationFixture `yaml:"translations"`
}

type TranslationFixture struct {
	Target string `yaml:"target"`
	// Translated defaults to a non-empty Target.
	Translated    *bool    `yaml:"translated"`
	Checks        []string `yaml:"checks"`
	IgnoredChecks []string `yaml:"ignoredChecks"`
}

// ParseFixtures decodes YAML fixtures, rejecting unknown fields.
func ParseFixtures(r io.Reader) (Fixtures, error) {
	var f Fixtures

	if err := yaml.NewDecoder(r, yaml.Strict()).Decode(&f); err != nil {
		return f, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	return f, nil
}

type checkKey struct {
	project    int64
	language   int64
	contentsum string
	name       string
}

// LoadFixtures inserts the dataset. Checks shared by equal strings in
// several subprojects of a project are stored once.
func (s *Store) LoadFixtures(ctx context.Context, f Fixtures) error {
	languages := make(map[string]Language, len(f.Languages))

	for _, lf := range f.Languages {
		l, err := s.CreateLanguage(ctx, lf.Code, lf.Name)
		if err != nil {
			return fmt.Errorf("language %s: %w", lf.Code, err)
		}

		languages[l.Code] = l
	}

	for _, pf := range f.Projects {
		project, err := s.CreateProject(ctx, pf.Slug, pf.Name)
		if err != nil {
			return fmt.Errorf("project %s: %w", pf.Slug, err)
		}

		seen := make(map[checkKey]bool)

		addCheck := func(languageID int64, contentsum, name string, ignored bool) error {
			key := checkKey{project.ID, languageID, contentsum, name}
			if seen[key] {
				return nil
			}

			seen[key] = true

			_, err := s.CreateCheck(ctx, Check{
				ProjectID:  project.ID,
				LanguageID: languageID,
				Contentsum: contentsum,
				Name:       name,
				Ignored:    ignored,
			})

			return err
		}

		for _, sf := range pf.Subprojects {
			if err := s.loadSubproject(ctx, project, sf, languages, addCheck); err != nil {
				return fmt.Errorf("subproject %s/%s: %w", pf.Slug, sf.Slug, err)
			}
		}
	}

	return nil
}

func (s *Store) loadSubproject(
	ctx context.Context,
	project Project,
	sf SubprojectFixture,
	languages map[string]Language,
	addCheck func(languageID int64, contentsum, name string, ignored bool) error,
) error {
	sub, err := s.CreateSubproject(ctx, project, sf.Slug, sf.Name)
	if err != nil {
		return err
	}

	translations := make(map[string]Translation, len(sf.Languages))

	for _, code := range sf.Languages {
		language, ok := languages[code]
		if !ok {
			return fmt.Errorf("%w: language %q", ErrNotFound, code)
		}

		t, err := s.CreateTranslation(ctx, sub.ID, language.ID)
		if err != nil {
			return err
		}

		translations[code] = t
	}

	for _, uf := range sf.Units {
		sum := Contentsum(uf.Source, uf.Context)

		for _, name := range uf.SourceChecks {
			if err := addCheck(0, sum, name, false); err != nil {
				return err
			}
		}

		for _, name := range uf.IgnoredSourceChecks {
			if err := addCheck(0, sum, name, true); err != nil {
				return err
			}
		}

		for _, code := range sf.Languages {
			tf := uf.Translations[code]

			translated := tf.Target != ""
			if tf.Translated != nil {
				translated = *tf.Translated
			}

			t := translations[code]

			if _, err := s.CreateUnit(ctx, Unit{
				TranslationID: t.ID,
				Contentsum:    sum,
				Source:        uf.Source,
				Target:        tf.Target,
				Translated:    translated,
			}); err != nil {
				return err
			}

			for _, name := range tf.Checks {
				if err := addCheck(t.LanguageID, sum, name, false); err != nil {
					return err
				}
			}

			for _, name := range tf.IgnoredChecks {
				if err := addCheck(t.LanguageID, sum, name, true); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// LoadFixturesFile reads fixtures from a YAML file and inserts them.
func (s *Store) LoadFixturesFile(ctx context.Context, path string) error {
	f, err := os.Open(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer f.Close()

	fixtures, err := ParseFixtures(f)
	if err != nil {
		return err
	}

	return s.LoadFixtures(ctx, fixtures)
}
