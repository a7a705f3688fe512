// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package machine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/checkboard/checkboard/config"
	"codeberg.org/checkboard/checkboard/core/requests"
)

// newFakeTMServer answers lookups with one exact and one fuzzy match and
// records the escaped path of every request.
func newFakeTMServer(t *testing.T, paths chan<- string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if paths != nil {
			paths <- r.URL.EscapedPath()
		}

		if r.URL.Path == "/tmserver/en/fail/unit/Hello" {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"source": "Hello", "target": "Ahoj", "quality": 100, "rank": 100},
			{"source": "Hello world", "target": "Ahoj světe", "quality": 76.5, "rank": 76},
		})
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestNewTMServer(t *testing.T) {
	t.Parallel()

	_, err := NewTMServer("")
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, "Not configured tmserver URL", err.Error())

	svc, err := NewTMServer("http://localhost:8888//")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8888", svc.URL())
	assert.Equal(t, "tmserver", svc.Name())

	amagama := NewAmagama()
	assert.Equal(t, "Amagama", amagama.Name())
	assert.Equal(t, "http://amagama.locamotion.org", amagama.URL())
}

func TestConvertLanguage(t *testing.T) {
	t.Parallel()

	svc := NewAmagama()

	tests := map[string]string{
		"cs":         "cs",
		"pt-BR":      "pt_br",
		"zh_Hant":    "zh_hant",
		"sr-Latn-RS": "sr_latn_rs",
	}

	for in, want := range tests {
		assert.Equal(t, want, svc.ConvertLanguage(in), in)
		assert.True(t, svc.IsSupported(svc.ConvertLanguage(in)))
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Hello", "Hello"},
		{"Hello world", "Hello%20world"},
		{"a/b", "a/b"},
		{"50% off?", "50%25%20off%3F"},
		{"a+b=c&d", "a%2Bb%3Dc%26d"},
		{"~user", "%7Euser"},
		{"Čau", "%C4%8Cau"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, quote(tt.in), tt.in)
	}
}

func TestDownloadTranslations(t *testing.T) {
	t.Parallel()

	paths := make(chan string, 1)
	srv := newFakeTMServer(t, paths)

	svc, err := NewTMServer(srv.URL + "/")
	require.NoError(t, err)

	got, err := svc.DownloadTranslations(context.Background(), "cs", "Hello/there world")
	require.NoError(t, err)

	assert.Equal(t, "/tmserver/en/cs/unit/Hello/there%20world", <-paths)
	assert.Equal(t, []Suggestion{
		{Text: "Ahoj", Quality: 100, Service: "tmserver", Source: "Hello"},
		{Text: "Ahoj světe", Quality: 76.5, Service: "tmserver", Source: "Hello world"},
	}, got)
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	srv := newFakeTMServer(t, nil)

	svc, err := NewTMServer(srv.URL)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("converts language", func(t *testing.T) {
		t.Parallel()

		got, err := Translate(ctx, svc, "pt-BR", "Hello")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()

		got, err := Translate(ctx, svc, "cs", "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("service failure", func(t *testing.T) {
		t.Parallel()

		before := testutil.ToFloat64(requestsTotal.WithLabelValues("tmserver", outcomeError))

		_, err := Translate(ctx, svc, "fail", "Hello")

		var mtErr *TranslationError
		require.ErrorAs(t, err, &mtErr)
		assert.Equal(t, "tmserver", mtErr.Service)
		assert.GreaterOrEqual(t, testutil.ToFloat64(requestsTotal.WithLabelValues("tmserver", outcomeError)), before+1)
	})
}

type unsupportedService struct{ called bool }

func (*unsupportedService) Name() string { return "none" }

func (*unsupportedService) ConvertLanguage(l string) string { return l }

func (*unsupportedService) IsSupported(string) bool { return false }

func (u *unsupportedService) DownloadTranslations(context.Context, string, string) ([]Suggestion, error) {
	u.called = true

	return nil, errors.New("must not be called")
}

func TestTranslateUnsupported(t *testing.T) {
	t.Parallel()

	svc := &unsupportedService{}

	got, err := Translate(context.Background(), svc, "xx", "Hello")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, svc.called)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	srv := newFakeTMServer(t, nil)

	svc, err := NewTMServer(srv.URL)
	require.NoError(t, err)

	// one token, refilled every hour
	svc.WithRateLimit(1.0/3600, 1)

	_, err = svc.DownloadTranslations(context.Background(), "cs", "Hello")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = svc.DownloadTranslations(ctx, "cs", "Hello")
	require.Error(t, err)
}

// Swaps the response cache globals, so not parallel.
func TestRateLimitSkipsCachedLookups(t *testing.T) {
	previous := config.Global
	t.Cleanup(func() {
		config.Global = previous
		_ = requests.Setup()
	})

	config.Global.Cache.Enabled = true
	config.Global.Cache.Size = 8
	config.Global.Cache.TTL = time.Minute
	require.NoError(t, requests.Setup())

	paths := make(chan string, 4)
	srv := newFakeTMServer(t, paths)

	svc, err := NewTMServer(srv.URL)
	require.NoError(t, err)

	svc.WithRateLimit(1.0/3600, 1)

	for range 3 {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		got, err := svc.DownloadTranslations(ctx, "cs", "Hello")
		cancel()
		require.NoError(t, err)
		assert.Len(t, got, 2)
	}

	assert.Len(t, paths, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = svc.DownloadTranslations(ctx, "de", "Hello")
	require.Error(t, err)
	assert.Len(t, paths, 1)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("Amagama", NewAmagama())

	svc, ok := r.Get("amagama")
	require.True(t, ok)
	assert.Equal(t, "Amagama", svc.Name())

	_, ok = r.Get("deepl")
	assert.False(t, ok)

	r.Register("amagama", NewAmagama())
	assert.Equal(t, []string{"amagama"}, r.Keys())
	assert.Equal(t, 1, r.Len())
}
