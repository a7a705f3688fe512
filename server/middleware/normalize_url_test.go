// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		requestURL       string
		expectedStatus   int
		expectedLocation string
		shouldRedirect   bool
	}{
		{
			name:           "Root path should not redirect",
			requestURL:     "/",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Path without trailing slash should not redirect",
			requestURL:     "/checks/end_stop",
			expectedStatus: http.StatusOK,
		},
		{
			name:             "Path with trailing slash should redirect",
			requestURL:       "/checks/end_stop/",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/checks/end_stop",
			shouldRedirect:   true,
		},
		{
			name:             "Repeated trailing slashes are all removed",
			requestURL:       "/checks//",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/checks",
			shouldRedirect:   true,
		},
		{
			name:             "Leading double slash does not leave the host",
			requestURL:       "//example.com/",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/example.com",
			shouldRedirect:   true,
		},
		{
			name:             "Query parameters should be preserved in trailing slash redirect",
			requestURL:       "/checks/?ignored=true&project=weblate",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/checks?ignored=true&project=weblate",
			shouldRedirect:   true,
		},
		{
			name:             "Escaped segments stay escaped",
			requestURL:       "/checks/end_stop/a%20b/",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/checks/end_stop/a%20b",
			shouldRedirect:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			handler := Wrap(NormalizeURL, nextHandler)

			req := httptest.NewRequest(http.MethodGet, tt.requestURL, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			location := w.Header().Get("Location")
			if tt.shouldRedirect && location != tt.expectedLocation {
				t.Errorf("Expected location %q, got %q", tt.expectedLocation, location)
			}

			if !tt.shouldRedirect && location != "" {
				t.Errorf("Expected no Location header, got %q", location)
			}
		})
	}
}

func TestHasTrailingSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected bool
	}{
		{"/", false},
		{"/checks", false},
		{"/checks/", true},
		{"/checks/end_stop/weblate/", true},
		{"/checks/end_stop/weblate", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)

			result := hasTrailingSlash(req)
			if result != tt.expected {
				t.Errorf("hasTrailingSlash(%q) = %v, expected %v", tt.path, result, tt.expected)
			}
		})
	}
}
