// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLegacyRedirect(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /js/translate/{unit_id}", redirectWithPathVar("/js/mt/", "unit_id"))

	rr := httptest.NewRecorder()
	expectedStatusCode := http.StatusPermanentRedirect
	expectedLocation := "/js/mt/42?service=amagama"

	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/js/translate/42?service=amagama", nil))

	if rr.Code != expectedStatusCode {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, expectedStatusCode)
	}

	location := rr.Header().Get("Location")
	if location != expectedLocation {
		t.Errorf("handler returned wrong Location header: got %q want %q", location, expectedLocation)
	}
}

func TestRootRedirect(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()

	redirectPreservingQuery("/checks").ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?ignored", nil))

	if rr.Code != http.StatusFound {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusFound)
	}

	if location := rr.Header().Get("Location"); location != "/checks?ignored" {
		t.Errorf("handler returned wrong Location header: got %q want %q", location, "/checks?ignored")
	}
}
