// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"net/http"

	"codeberg.org/checkboard/checkboard/config"
	"codeberg.org/checkboard/checkboard/core/reports"
	"codeberg.org/checkboard/checkboard/core/store"
	"codeberg.org/checkboard/checkboard/server/utils"
)

// notFound writes a 404 status for lookups that matched nothing, so that
// middleware.CatchError renders the error page with that status.
// The error is returned unchanged.
func notFound(w http.ResponseWriter, err error) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, reports.ErrUnknownCheck) {
		w.WriteHeader(http.StatusNotFound)
	}

	return err
}

// filterFrom reads the report filter from the query string.
func filterFrom(r *http.Request) reports.Filter {
	return reports.Filter{
		Ignored: utils.HasQueryParam(r, "ignored"),
		Project: utils.GetQueryParam(r, "project"),
	}
}

// setPublicCache marks a page as cacheable by shared caches for the
// configured duration.
func setPublicCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d",
		int(config.Global.HTTPCache.MaxAge.Seconds()),
		int(config.Global.HTTPCache.StaleWhileRevalidate.Seconds())))
}
