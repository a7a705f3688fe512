// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/checkboard/checkboard/config"
)

// These tests swap package globals and do not run in parallel.

func withCache(t *testing.T, enabled bool) {
	t.Helper()

	previous := config.Global
	t.Cleanup(func() {
		config.Global = previous
		cache = nil
	})

	config.Global.Cache.Enabled = enabled
	config.Global.Cache.Size = 8
	config.Global.Cache.TTL = time.Minute
	config.Global.Cache.Compress = true
	config.Global.MachineTranslation.UserAgent = "Checkboard/test"

	require.NoError(t, Setup())
}

func TestGetJSON(t *testing.T) {
	withCache(t, false)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Checkboard/test", r.Header.Get("User-Agent"))

		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`[{"target":"Ahoj"}]`))
		case "/invalid":
			_, _ = w.Write([]byte(`<html>`))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"no such language"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	body, err := GetJSON(ctx, RequestOptions{URL: srv.URL + "/ok"})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"target":"Ahoj"}]`, string(body))

	_, err = GetJSON(ctx, RequestOptions{URL: srv.URL + "/invalid"})
	require.ErrorIs(t, err, errInvalidJSON)

	_, err = GetJSON(ctx, RequestOptions{URL: srv.URL + "/missing"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "no such language", apiErr.Message)

	_, err = GetJSON(ctx, RequestOptions{URL: srv.URL + "/down"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.ErrorIs(t, err, errAPIResponseError)
}

func TestResponseCache(t *testing.T) {
	withCache(t, true)

	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx := context.Background()
	opts := RequestOptions{URL: srv.URL + "/tmserver/en/cs/unit/Hello"}

	for range 3 {
		_, err := GetJSON(ctx, opts)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), hits.Load())

	noCache := RequestOptions{URL: opts.URL, IncomingHeaders: http.Header{"Cache-Control": {"no-cache"}}}
	_, err := GetJSON(ctx, noCache)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())

	Purge()

	_, err = GetJSON(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestBeforeSendRunsOnCacheMiss(t *testing.T) {
	withCache(t, true)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	var calls atomic.Int32

	opts := RequestOptions{
		URL: srv.URL + "/tmserver/en/de/unit/Hello",
		BeforeSend: func(context.Context) error {
			calls.Add(1)

			return nil
		},
	}

	for range 3 {
		_, err := GetJSON(context.Background(), opts)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), calls.Load())

	errWait := errors.New("wait failed")
	refused := RequestOptions{
		URL:        srv.URL + "/tmserver/en/de/unit/World",
		BeforeSend: func(context.Context) error { return errWait },
	}

	_, err := GetJSON(context.Background(), refused)
	require.ErrorIs(t, err, errWait)
}

func TestErrorResponsesAreNotCached(t *testing.T) {
	withCache(t, true)

	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	for range 2 {
		_, err := GetJSON(context.Background(), RequestOptions{URL: srv.URL})
		require.Error(t, err)
	}

	assert.Equal(t, int32(2), hits.Load())
}

func TestContextCancellation(t *testing.T) {
	withCache(t, false)

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := GetJSON(ctx, RequestOptions{URL: srv.URL})
	require.Error(t, err)
	assert.True(t, IsContextCanceled(err))
}

func TestIncomingHeadersFromContext(t *testing.T) {
	withCache(t, true)

	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx := WithIncomingHeaders(context.Background(), http.Header{"Cache-Control": {"no-cache"}})

	for range 2 {
		_, err := GetJSON(ctx, RequestOptions{URL: srv.URL})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), hits.Load())
}
