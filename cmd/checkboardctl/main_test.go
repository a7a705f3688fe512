// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/checkboard/checkboard/core/machine"
)

const fixtures = "../../core/store/testdata/fixtures.yaml"

// execute runs the CLI with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

// rows splits tabular output into whitespace-separated fields, dropping
// the header.
func rows(out string) [][]string {
	var result [][]string

	for i, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if i > 0 {
			result = append(result, strings.Fields(line))
		}
	}

	return result
}

func loadedDSN(t *testing.T) string {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "ctl.db")

	_, err := execute(t, "--dsn", dsn, "load", fixtures)
	require.NoError(t, err)

	return dsn
}

func TestChecksCommand(t *testing.T) {
	t.Parallel()

	dsn := loadedDSN(t)

	tests := []struct {
		name string
		args []string
		want [][]string
	}{
		{
			name: "all checks",
			args: []string{"checks"},
			want: [][]string{
				{"ellipsis", "Ellipsis", "3"},
				{"end_exclamation", "Trailing", "exclamation", "1"},
				{"end_stop", "Trailing", "stop", "4"},
			},
		},
		{
			name: "ignored checks of one project",
			args: []string{"checks", "--ignored", "--project", "weblate"},
			want: [][]string{{"end_stop", "Trailing", "stop", "1"}},
		},
		{
			name: "by project",
			args: []string{"checks", "end_stop"},
			want: [][]string{{"hello", "1"}, {"weblate", "3"}},
		},
		{
			name: "by subproject",
			args: []string{"checks", "ellipsis", "weblate"},
			want: [][]string{{"weblate/docs", "1"}, {"weblate/main", "1"}},
		},
		{
			name: "by language",
			args: []string{"checks", "end_stop", "weblate", "main"},
			want: [][]string{{"cs", "1"}, {"de", "1"}},
		},
		{
			name: "source strings",
			args: []string{"checks", "ellipsis", "weblate", "main"},
			want: [][]string{{"source", "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"--dsn", dsn}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows(out))
		})
	}
}

func TestChecksCommandUnknownCheck(t *testing.T) {
	t.Parallel()

	dsn := loadedDSN(t)

	_, err := execute(t, "--dsn", dsn, "checks", "no_such_check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No check matches the given query.")
}

func TestLoadCommandMissingFile(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "--dsn", filepath.Join(t.TempDir(), "ctl.db"), "load", "does-not-exist.yaml")
	require.Error(t, err)
}

func TestMTCommand(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tmserver/en/pt_br/unit/Hello", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"source":"Hello","target":"Olá","quality":100}]`))
	}))
	t.Cleanup(upstream.Close)

	out, err := execute(t, "mt", "tmserver", "--url", upstream.URL, "pt-BR", "Hello")
	require.NoError(t, err)

	var suggestions []machine.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &suggestions))
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Olá", suggestions[0].Text)
	assert.Equal(t, "tmserver", suggestions[0].Service)

	_, err = execute(t, "mt", "tmserver", "cs", "Hello")
	require.ErrorIs(t, err, machine.ErrNotConfigured)

	_, err = execute(t, "mt", "deepl", "cs", "Hello")
	require.Error(t, err)
}
