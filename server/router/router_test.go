// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/checkboard/checkboard/config"
	"codeberg.org/checkboard/checkboard/core/machine"
	"codeberg.org/checkboard/checkboard/core/store"
	"codeberg.org/checkboard/checkboard/i18n"
	"codeberg.org/checkboard/checkboard/server/assets"
)

type fakeService struct {
	err error
}

func (fakeService) Name() string { return "Fake" }

func (fakeService) ConvertLanguage(lang string) string { return lang }

func (fakeService) IsSupported(string) bool { return true }

func (f fakeService) DownloadTranslations(_ context.Context, lang, text string) ([]machine.Suggestion, error) {
	if f.err != nil {
		return nil, f.err
	}

	return []machine.Suggestion{{Text: lang + ":" + text, Quality: 100, Service: "Fake", Source: text}}, nil
}

// newTestServer wires the full router against the fixture database.
// It replaces package globals, so tests using it do not run in parallel.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	ctx := context.Background()

	st, err := store.Open(ctx, config.DriverSQLite, filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)
	require.NoError(t, st.LoadFixturesFile(ctx, "../../core/store/testdata/fixtures.yaml"))

	prevStore, prevFS, prevRegistry := store.Default, assets.FS, machine.DefaultRegistry

	store.Default = st
	assets.FS = fstest.MapFS{
		"assets/css/main.css": {Data: []byte("body { margin: 0; }")},
		"assets/robots.txt":   {Data: []byte("User-agent: *\n")},
	}
	machine.DefaultRegistry = machine.NewRegistry()
	machine.DefaultRegistry.Register("fake", fakeService{})
	machine.DefaultRegistry.Register("broken", fakeService{err: errors.New("upstream down")})

	r := NewRouter()
	r.DefineRoutes()
	r.RegisterMiddleware()

	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		srv.Close()
		_ = st.Close()
		store.Default, assets.FS, machine.DefaultRegistry = prevStore, prevFS, prevRegistry
	})

	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func document(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)

	return doc
}

func TestReportPages(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path       string
		status     int
		heading    string
		firstLabel string
		firstCount string
	}{
		{"/checks", http.StatusOK, "Failing checks", "Ellipsis", "3"},
		{"/checks?ignored", http.StatusOK, "Failing checks", "Trailing stop", "1"},
		{"/checks?project=hello", http.StatusOK, "Failing checks", "Trailing exclamation", "1"},
		{"/checks/end_stop", http.StatusOK, "Trailing stop", "hello", "1"},
		{"/checks/end_stop/weblate", http.StatusOK, "Weblate/Trailing stop", "weblate/main", "2"},
		{"/checks/ellipsis/weblate", http.StatusOK, "Weblate/Ellipsis", "weblate/docs", "1"},
		{"/checks/end_stop/weblate/main", http.StatusOK, "Weblate/Main/Trailing stop", "cs", "1"},
		{"/checks/ellipsis/weblate/main", http.StatusOK, "Weblate/Main/Ellipsis", "Source strings", "1"},
		{"/checks/no_such_check", http.StatusNotFound, "Error", "", ""},
		{"/checks/end_stop/missing", http.StatusNotFound, "Error", "", ""},
		{"/checks/no_such_check/weblate", http.StatusNotFound, "Error", "", ""},
		{"/checks/end_stop/weblate/missing", http.StatusNotFound, "Error", "", ""},
		{"/nowhere", http.StatusNotFound, "Error", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, srv, tt.path)
			require.Equal(t, tt.status, resp.StatusCode)

			doc := document(t, resp)
			assert.Equal(t, tt.heading, doc.Find("h1").Text())

			if tt.firstLabel == "" {
				assert.Contains(t, doc.Find("p.status").Text(), "404")

				return
			}

			row := doc.Find("table.counts tbody tr").First()
			assert.Equal(t, tt.firstLabel, row.Find("td").First().Text())
			assert.Equal(t, tt.firstCount, row.Find("td.number").Text())
		})
	}
}

func TestEmptyProjectFilter(t *testing.T) {
	srv := newTestServer(t)

	all := document(t, get(t, srv, "/checks")).Find("table.counts tbody tr")

	resp := get(t, srv, "/checks?project=")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := document(t, resp).Find("table.counts tbody tr")
	assert.Equal(t, all.Length(), rows.Length())
	assert.Equal(t, "/checks/ellipsis", rows.First().Find("td a").First().AttrOr("href", ""))
}

func TestLocalizedPages(t *testing.T) {
	srv := newTestServer(t)

	assets.FS = os.DirFS("../..")
	require.NoError(t, i18n.Setup())

	t.Cleanup(func() {
		assets.FS = fstest.MapFS{"po/checkboard.pot": {Data: []byte(`msgid ""` + "\n" + `msgstr ""` + "\n")}}
		_ = i18n.Setup()
	})

	tests := []struct {
		lang    string
		heading string
		first   string
	}{
		{"cs", "Selhávající kontroly", "Výpustka"},
		{"de, en;q=0.5", "Fehlgeschlagene Prüfungen", "Auslassungszeichen"},
		{"", "Failing checks", "Ellipsis"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/checks", nil)
			require.NoError(t, err)

			if tt.lang != "" {
				req.Header.Set("Accept-Language", tt.lang)
			}

			resp, err := srv.Client().Do(req)
			require.NoError(t, err)

			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)

			doc := document(t, resp)
			assert.Equal(t, tt.heading, doc.Find("h1").Text())
			assert.Equal(t, tt.first, doc.Find("table.counts tbody tr").First().Find("td").First().Text())
		})
	}
}

func TestSubprojectWithoutChecks(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/checks/ellipsis/weblate/empty")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := document(t, resp)
	assert.Equal(t, "No matching units found.", doc.Find("p.empty").Text())
}

func TestRedirects(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path     string
		status   int
		location string
	}{
		{"/checks/", http.StatusPermanentRedirect, "/checks"},
		{"/checks/end_stop/weblate/?ignored=true", http.StatusPermanentRedirect, "/checks/end_stop/weblate?ignored=true"},
		{"/?project=hello", http.StatusFound, "/checks?project=hello"},
		{"/js/translate/1?service=fake", http.StatusPermanentRedirect, "/js/mt/1?service=fake"},
	}

	for _, tt := range tests {
		resp := get(t, srv, tt.path)

		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
		assert.Equal(t, tt.location, resp.Header.Get("Location"), tt.path)
	}
}

func TestMachineTranslation(t *testing.T) {
	srv := newTestServer(t)

	decode := func(t *testing.T, resp *http.Response) map[string]any {
		t.Helper()

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

		return body
	}

	resp := get(t, srv, "/js/mt/1?service=fake")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body := decode(t, resp)
	assert.InDelta(t, 200, body["responseStatus"], 0)
	assert.Equal(t, "Fake", body["service"])

	translations, ok := body["translations"].([]any)
	require.True(t, ok)
	require.Len(t, translations, 1)
	assert.Equal(t, "cs:Hello.", translations[0].(map[string]any)["text"])

	// the first registered service is the default
	body = decode(t, get(t, srv, "/js/mt/1"))
	assert.Equal(t, "Fake", body["service"])

	resp = get(t, srv, "/js/mt/1?service=broken")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body = decode(t, resp)
	assert.InDelta(t, 500, body["responseStatus"], 0)
	assert.Contains(t, body["responseDetails"], "upstream down")

	resp = get(t, srv, "/js/mt/1?service=nope")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.InDelta(t, 400, decode(t, resp)["responseStatus"], 0)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/js/mt/9999?service=fake").StatusCode)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/js/mt/abc?service=fake").StatusCode)
}

func TestStaticAndHeaders(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/css/main.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "max-age=604800", resp.Header.Get("Cache-Control"))
	assert.NotEmpty(t, resp.Header.Get("ETag"))

	resp = get(t, srv, "/checks")
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Security-Policy"), "base-uri 'self'"))
	assert.Contains(t, resp.Header.Get("Server-Timing"), "db$QUERY$")
	assert.Equal(t, config.BuildVersion, resp.Header.Get("Checkboard-Version"))
}
