// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/checkboard/checkboard/core/checks"
	"codeberg.org/checkboard/checkboard/core/reports"
	"codeberg.org/checkboard/checkboard/core/store"
	"codeberg.org/checkboard/checkboard/server/request_context"
)

func render(t *testing.T, target string, c templ.Component) *goquery.Document {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, target, nil)
	ctx := request_context.WithRequestContext(r.Context(), r)

	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	return doc
}

func mustCheck(t *testing.T, id string) checks.Check {
	t.Helper()

	c, ok := checks.Lookup(id)
	require.True(t, ok)

	return c
}

func TestChecksPage(t *testing.T) {
	t.Parallel()

	doc := render(t, "/checks?ignored", Checks(reports.ChecksData{
		Title:     "Failing checks",
		URLParams: "?ignored=true",
		Checks: []reports.CheckRow{
			{Check: mustCheck(t, "end_stop"), Count: 1234},
		},
	}))

	assert.Equal(t, "Failing checks - Checkboard", doc.Find("title").Text())
	assert.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))

	link := doc.Find("table.counts tbody td a").First()
	assert.Equal(t, "Trailing stop", link.Text())
	assert.Equal(t, "/checks/end_stop?ignored=true", link.AttrOr("href", ""))
	assert.Contains(t, link.AttrOr("title", ""), "full stop")

	assert.Equal(t, "1,234", doc.Find("td.number").Text())

	// the toggle drops "ignored" again
	assert.Equal(t, "/checks", doc.Find("p.toggle a").AttrOr("href", ""))
}

func TestChecksPageEmpty(t *testing.T) {
	t.Parallel()

	doc := render(t, "/checks", Checks(reports.ChecksData{Title: "Failing checks"}))

	assert.Equal(t, 0, doc.Find("table").Length())
	assert.Equal(t, "No failing checks.", doc.Find("p.empty").Text())
	assert.Equal(t, "/checks?ignored=true", doc.Find("p.toggle a").AttrOr("href", ""))
}

func TestCheckPageEscapes(t *testing.T) {
	t.Parallel()

	doc := render(t, "/checks/end_stop", Check(reports.CheckData{
		Title:    "Trailing stop",
		Check:    mustCheck(t, "end_stop"),
		Projects: []reports.ProjectRow{{Project: "a b<c>", Count: 2}},
	}))

	link := doc.Find("table.counts tbody td a").First()
	assert.Equal(t, "a b<c>", link.Text())
	assert.Equal(t, "/checks/end_stop/a%20b%3Cc%3E", link.AttrOr("href", ""))
}

func TestCheckProjectPage(t *testing.T) {
	t.Parallel()

	doc := render(t, "/checks/ellipsis/weblate", CheckProject(reports.CheckProjectData{
		Title:       "Weblate/Ellipsis",
		Check:       mustCheck(t, "ellipsis"),
		Project:     store.Project{Slug: "weblate", Name: "Weblate"},
		Subprojects: []reports.SubprojectRow{{Project: "weblate", Subproject: "main", Count: 1}},
		URLParams:   "?ignored=true",
	}))

	assert.Equal(t, "Weblate/Ellipsis", doc.Find("h1").Text())

	link := doc.Find("table.counts tbody td a").First()
	assert.Equal(t, "weblate/main", link.Text())
	assert.Equal(t, "/checks/ellipsis/weblate/main?ignored=true", link.AttrOr("href", ""))
}

func TestCheckSubprojectPage(t *testing.T) {
	t.Parallel()

	sub := store.Subproject{Slug: "main", Name: "Main", Project: store.Project{Slug: "weblate", Name: "Weblate"}}

	doc := render(t, "/checks/ellipsis/weblate/main", CheckSubproject(reports.CheckSubprojectData{
		Title:        "Weblate/Main/Ellipsis",
		Check:        mustCheck(t, "ellipsis"),
		Subproject:   sub,
		Languages:    []reports.LanguageRow{{Language: "cs", Count: 3}},
		SourceChecks: []int{2},
		AnyChecks:    true,
	}))

	cells := doc.Find("table.counts tbody tr")
	require.Equal(t, 2, cells.Length())
	assert.Equal(t, "cs", cells.First().Find("td").First().Text())
	assert.Equal(t, "Source strings", cells.Last().Find("td").First().Text())
	assert.Equal(t, "2", cells.Last().Find("td.number").Text())

	doc = render(t, "/checks/ellipsis/weblate/main", CheckSubproject(reports.CheckSubprojectData{
		Title:      "Weblate/Main/Ellipsis",
		Check:      mustCheck(t, "ellipsis"),
		Subproject: sub,
	}))

	assert.Equal(t, 0, doc.Find("table").Length())
	assert.Equal(t, "No matching units found.", doc.Find("p.empty").Text())
}

func TestErrorPage(t *testing.T) {
	t.Parallel()

	doc := render(t, "/checks/x", Error(ErrorData{
		Title:      "Error",
		Error:      errors.New("<boom>"),
		StatusCode: http.StatusNotFound,
	}))

	assert.Equal(t, "404 Not Found", doc.Find("p.status").Text())
	assert.Equal(t, "<boom>", doc.Find("pre.error").Text())
}

func TestAboutPage(t *testing.T) {
	t.Parallel()

	doc := render(t, "/about", About(AboutData{
		Title:    "About",
		Version:  "v1",
		Database: "sqlite",
		Services: []string{"amagama"},
	}))

	about := doc.Find("dl.about").Text()
	assert.Contains(t, about, "amagama")
	assert.Contains(t, about, "v1")
	assert.Equal(t, "About", doc.Find("h1").Text())
}
