// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

// The code in this file redirects legacy and convenience URLs to their
// canonical routes.
//
// Add more redirects in (*Router).DefineRoutes

package router

import (
	"net/http"
	"net/url"

	"codeberg.org/checkboard/checkboard/server/utils"
)

// redirectPreservingQuery redirects to targetPath, keeping the query string.
//
// Example:   /?ignored=true   ->   /checks?ignored=true
func redirectPreservingQuery(targetPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := targetPath
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		http.Redirect(w, r, target, http.StatusFound)
	}
}

// redirectWithPathVar redirects to targetPrefix followed by the named path
// wildcard, keeping the query string.
//
// Example:   /js/translate/42?service=amagama   ->   /js/mt/42?service=amagama
func redirectWithPathVar(targetPrefix, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := targetPrefix + url.PathEscape(utils.GetPathVar(r, name))
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	}
}
