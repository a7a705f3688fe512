// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/checkboard/checkboard/assets/views"
	"codeberg.org/checkboard/checkboard/i18n"
	"codeberg.org/checkboard/checkboard/server/request_context"
)

// ErrorPage renders an error page using the error and status code stored
// in the request context.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	rc := request_context.FromRequest(r)

	pageData := views.ErrorData{
		Title:      i18n.Tr(r.Context(), "Error"),
		Error:      rc.RequestError,
		StatusCode: rc.StatusCode,
	}

	if err := views.Error(pageData).Render(r.Context(), w); err != nil {
		log.Err(err).Msg("Failed to render error page")
	}
}

var errPageNotFound = errors.New("page not found")

// NotFoundPage answers requests that match no route.
func NotFoundPage(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusNotFound)

	return errPageNotFound
}
