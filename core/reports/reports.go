// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package reports builds the failing-check reports: all checks, one check
across projects, one check within a project and one check within a
subproject.

Counts come from the store; this package resolves names, merges the target
and source parts of a report and shapes rows for the views.
*/
package reports

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"codeberg.org/checkboard/checkboard/core/checks"
	"codeberg.org/checkboard/checkboard/core/store"
	"codeberg.org/checkboard/checkboard/i18n"
	"codeberg.org/checkboard/checkboard/server/utils"
)

// ErrUnknownCheck is returned for a check name missing from the catalog.
var ErrUnknownCheck = errors.New("No check matches the given query.")

// Store is the subset of *store.Store the reports read from.
type Store interface {
	ProjectBySlug(ctx context.Context, slug string) (store.Project, error)
	SubprojectBySlug(ctx context.Context, projectSlug, slug string) (store.Subproject, error)
	CheckCounts(ctx context.Context, ignored bool, projectSlug string) ([]store.Count, error)
	ProjectCounts(ctx context.Context, name string, ignored bool, projectSlug string) ([]store.Count, error)
	TargetCountsBySubproject(ctx context.Context, projectID int64, name string, ignored bool) ([]store.Count, error)
	SourceCountsBySubproject(ctx context.Context, projectID int64, name string, ignored bool) ([]store.Count, error)
	TargetCountsByLanguage(ctx context.Context, sub store.Subproject, name string, ignored bool) ([]store.Count, error)
	SourceCount(ctx context.Context, sub store.Subproject, name string, ignored bool) (int, error)
}

// Filter holds the query string options shared by the reports.
type Filter struct {
	// Ignored selects checks marked as ignored instead of active ones.
	Ignored bool

	// Project restricts the first two reports to one project slug.
	Project string
}

// URLParams encodes the filter for links between report pages.
func (f Filter) URLParams() string {
	params := map[string]string{}

	if f.Ignored {
		params["ignored"] = "true"
	}

	if f.Project != "" {
		params["project"] = f.Project
	}

	return utils.EncodeOptional(params)
}

// ignoredParams is the link suffix of the project and subproject reports,
// which never carry a project filter.
func ignoredParams(ignored bool) string {
	return Filter{Ignored: ignored}.URLParams()
}

// CheckRow counts failures of one check.
type CheckRow struct {
	Check checks.Check
	Count int
}

type ChecksData struct {
	Title     string
	Checks    []CheckRow
	URLParams string
}

// ListChecks counts failing checks grouped by check.
func ListChecks(ctx context.Context, st Store, f Filter) (ChecksData, error) {
	counts, err := st.CheckCounts(ctx, f.Ignored, f.Project)
	if err != nil {
		return ChecksData{}, err
	}

	rows := make([]CheckRow, 0, len(counts))

	for _, c := range counts {
		check, ok := checks.Lookup(c.Key)
		if !ok {
			// checks removed from the catalog still show under their id
			check = checks.Check{ID: c.Key, Name: i18n.MsgKey(c.Key)}
		}

		rows = append(rows, CheckRow{Check: check, Count: c.Count})
	}

	slices.SortFunc(rows, func(a, b CheckRow) int {
		return strings.Compare(a.Check.ID, b.Check.ID)
	})

	return ChecksData{
		Title:     i18n.Tr(ctx, "Failing checks"),
		Checks:    rows,
		URLParams: f.URLParams(),
	}, nil
}

// ProjectRow counts failures in one project.
type ProjectRow struct {
	Project string
	Count   int
}

type CheckData struct {
	Title     string
	Check     checks.Check
	Projects  []ProjectRow
	URLParams string
}

func lookupCheck(name string) (checks.Check, error) {
	check, ok := checks.Lookup(name)
	if !ok {
		return check, fmt.Errorf("%w: %q", ErrUnknownCheck, name)
	}

	return check, nil
}

// CheckDetail counts failures of one check grouped by project.
func CheckDetail(ctx context.Context, st Store, name string, f Filter) (CheckData, error) {
	check, err := lookupCheck(name)
	if err != nil {
		return CheckData{}, err
	}

	counts, err := st.ProjectCounts(ctx, name, f.Ignored, f.Project)
	if err != nil {
		return CheckData{}, err
	}

	rows := make([]ProjectRow, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, ProjectRow{Project: c.Key, Count: c.Count})
	}

	slices.SortFunc(rows, func(a, b ProjectRow) int {
		return strings.Compare(a.Project, b.Project)
	})

	return CheckData{
		Title:     check.Name.Tr(ctx),
		Check:     check,
		Projects:  rows,
		URLParams: f.URLParams(),
	}, nil
}

// SubprojectRow counts failing units in one subproject.
type SubprojectRow struct {
	Project    string
	Subproject string
	Count      int
}

// Key is "project/subproject".
func (r SubprojectRow) Key() string {
	return r.Project + "/" + r.Subproject
}

type CheckProjectData struct {
	Title       string
	Check       checks.Check
	Project     store.Project
	Subprojects []SubprojectRow
	URLParams   string
}

// CheckProject counts units failing a check in each subproject of a project.
//
// Target checks count translated units per language; source checks count
// units of the first translation of each subproject. Both parts are summed
// per subproject.
func CheckProject(ctx context.Context, st Store, name, projectSlug string, ignored bool) (CheckProjectData, error) {
	project, err := st.ProjectBySlug(ctx, projectSlug)
	if err != nil {
		return CheckProjectData{}, err
	}

	check, err := lookupCheck(name)
	if err != nil {
		return CheckProjectData{}, err
	}

	var target, source []store.Count

	g, gctx := errgroup.WithContext(ctx)

	if check.Target {
		g.Go(func() (err error) {
			target, err = st.TargetCountsBySubproject(gctx, project.ID, name, ignored)

			return err
		})
	}

	if check.Source {
		g.Go(func() (err error) {
			source, err = st.SourceCountsBySubproject(gctx, project.ID, name, ignored)

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return CheckProjectData{}, err
	}

	return CheckProjectData{
		Title:       project.Name + "/" + check.Name.Tr(ctx),
		Check:       check,
		Project:     project,
		Subprojects: mergeSubprojects(project.Slug, target, source),
		URLParams:   ignoredParams(ignored),
	}, nil
}

func mergeSubprojects(projectSlug string, parts ...[]store.Count) []SubprojectRow {
	counts := map[string]int{}

	for _, part := range parts {
		for _, c := range part {
			counts[c.Key] += c.Count
		}
	}

	rows := make([]SubprojectRow, 0, len(counts))
	for slug, n := range counts {
		rows = append(rows, SubprojectRow{Project: projectSlug, Subproject: slug, Count: n})
	}

	slices.SortFunc(rows, func(a, b SubprojectRow) int {
		return strings.Compare(a.Key(), b.Key())
	})

	return rows
}

// LanguageRow counts failing units in one translation.
type LanguageRow struct {
	Language string
	Count    int
}

type CheckSubprojectData struct {
	Title      string
	Check      checks.Check
	Subproject store.Subproject
	Languages  []LanguageRow
	// SourceChecks holds the source failure count as its only element,
	// or is empty when there are none.
	SourceChecks []int
	AnyChecks    bool
	URLParams    string
}

// CheckSubproject counts units failing a check in each language of a
// subproject, plus the source strings failing it.
func CheckSubproject(ctx context.Context, st Store, name, projectSlug, subprojectSlug string, ignored bool) (CheckSubprojectData, error) {
	sub, err := st.SubprojectBySlug(ctx, projectSlug, subprojectSlug)
	if err != nil {
		return CheckSubprojectData{}, err
	}

	check, err := lookupCheck(name)
	if err != nil {
		return CheckSubprojectData{}, err
	}

	var (
		target      []store.Count
		sourceCount int
	)

	g, gctx := errgroup.WithContext(ctx)

	if check.Target {
		g.Go(func() (err error) {
			target, err = st.TargetCountsByLanguage(gctx, sub, name, ignored)

			return err
		})
	}

	if check.Source {
		g.Go(func() (err error) {
			sourceCount, err = st.SourceCount(gctx, sub, name, ignored)

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return CheckSubprojectData{}, err
	}

	languages := map[string]int{}
	for _, c := range target {
		languages[c.Key] += c.Count
	}

	rows := make([]LanguageRow, 0, len(languages))
	for code, n := range languages {
		rows = append(rows, LanguageRow{Language: code, Count: n})
	}

	slices.SortFunc(rows, func(a, b LanguageRow) int {
		return cmp.Compare(a.Language, b.Language)
	})

	var sourceChecks []int
	if sourceCount > 0 {
		sourceChecks = append(sourceChecks, sourceCount)
	}

	return CheckSubprojectData{
		Title:        sub.String() + "/" + check.Name.Tr(ctx),
		Check:        check,
		Subproject:   sub,
		Languages:    rows,
		SourceChecks: sourceChecks,
		AnyChecks:    len(rows)+len(sourceChecks) > 0,
		URLParams:    ignoredParams(ignored),
	}, nil
}
