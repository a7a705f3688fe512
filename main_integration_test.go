// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/checkboard/checkboard/core/store"
)

const (
	// Server configuration constants.
	host      = "127.0.0.1:8282"
	authority = "http://127.0.0.1:8282"

	// Polling constants.
	retryCount  = 10
	dialTimeout = 250 * time.Millisecond
)

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	ExpectedStatusCode int
}

// setDefault sets the default values for the test case.
func (c *httpTestCase) setDefault() {
	if c.ExpectedStatusCode == 0 {
		c.ExpectedStatusCode = http.StatusOK
	}
}

// TestMain seeds a SQLite database with the store fixtures, starts the
// server against it and waits for it to be available before running tests.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "checkboard-integration")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}

	dsn := filepath.Join(dir, "checkboard.db")

	if err := seed(dsn); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	hostname, port, _ := net.SplitHostPort(host)

	for key, value := range map[string]string{
		"CHECKBOARD_HOST":        hostname,
		"CHECKBOARD_PORT":        port,
		"CHECKBOARD_DB_DRIVER":   "sqlite",
		"CHECKBOARD_DB_DSN":      dsn,
		"CHECKBOARD_REPO_URL":    "https://codeberg.org/checkboard/checkboard",
		"CHECKBOARD_MT_SERVICES": "",
	} {
		_ = os.Setenv(key, value)
	}

	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	code := m.Run()

	_ = os.RemoveAll(dir)

	os.Exit(code)
}

func seed(dsn string) error {
	ctx := context.Background()

	st, err := store.Open(ctx, "sqlite", dsn)
	if err != nil {
		return err
	}

	defer st.Close()

	return st.LoadFixturesFile(ctx, "core/store/testdata/fixtures.yaml")
}

// waitForServerReady polls the server until it's available or the retries are exhausted.
func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true
		}

		time.Sleep(dialTimeout)
	}

	return false
}

// TestBasicAllRoutes tests all basic routes of the server.
func TestBasicAllRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		// Report routes
		{URL: "/checks"},
		{URL: "/checks?ignored"},
		{URL: "/checks?project=weblate"},
		{URL: "/checks/end_stop"},
		{URL: "/checks/end_stop?ignored=true&project=hello"},
		{URL: "/checks/end_stop/weblate"},
		{URL: "/checks/ellipsis/weblate"},
		{URL: "/checks/end_stop/weblate/main"},
		{URL: "/checks/ellipsis/weblate/empty"},
		{URL: "/checks/unknown", ExpectedStatusCode: http.StatusNotFound},
		{URL: "/checks/end_stop/unknown", ExpectedStatusCode: http.StatusNotFound},
		{URL: "/checks/end_stop/weblate/unknown", ExpectedStatusCode: http.StatusNotFound},

		// Machine translation without any enabled service
		{URL: "/js/mt/1", ExpectedStatusCode: http.StatusBadRequest},
		{URL: "/js/mt/424242", ExpectedStatusCode: http.StatusNotFound},

		// About and static routes
		{URL: "/about"},
		{URL: "/css/main.css"},
		{URL: "/robots.txt"},
		{URL: "/nowhere", ExpectedStatusCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("GET %s", tc.URL), func(t *testing.T) {
			t.Parallel()
			tc.setDefault()

			req, err := http.NewRequestWithContext(context.TODO(), http.MethodGet, authority+tc.URL, nil)
			if err != nil {
				t.Fatalf("Failed to create request: %v", err)
			}

			req.Header.Set("Accept-Language", "cs,en;q=0.5")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.ExpectedStatusCode {
				t.Errorf("expected status %d, got %d", tc.ExpectedStatusCode, resp.StatusCode)
			}
		})
	}
}
