// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/checkboard/checkboard/assets/views"
	"codeberg.org/checkboard/checkboard/core/reports"
	"codeberg.org/checkboard/checkboard/core/store"
	"codeberg.org/checkboard/checkboard/server/utils"
)

// ChecksPage lists failing checks.
func ChecksPage(w http.ResponseWriter, r *http.Request) error {
	data, err := reports.ListChecks(r.Context(), store.Default, filterFrom(r))
	if err != nil {
		return err
	}

	setPublicCache(w)

	return views.Checks(data).Render(r.Context(), w)
}

// CheckPage shows one check across projects.
func CheckPage(w http.ResponseWriter, r *http.Request) error {
	data, err := reports.CheckDetail(r.Context(), store.Default, utils.GetPathVar(r, "name"), filterFrom(r))
	if err != nil {
		return notFound(w, err)
	}

	setPublicCache(w)

	return views.Check(data).Render(r.Context(), w)
}

// CheckProjectPage shows one check within a project.
func CheckProjectPage(w http.ResponseWriter, r *http.Request) error {
	data, err := reports.CheckProject(r.Context(), store.Default,
		utils.GetPathVar(r, "name"),
		utils.GetPathVar(r, "project"),
		utils.HasQueryParam(r, "ignored"))
	if err != nil {
		return notFound(w, err)
	}

	setPublicCache(w)

	return views.CheckProject(data).Render(r.Context(), w)
}

// CheckSubprojectPage shows one check within a subproject.
func CheckSubprojectPage(w http.ResponseWriter, r *http.Request) error {
	data, err := reports.CheckSubproject(r.Context(), store.Default,
		utils.GetPathVar(r, "name"),
		utils.GetPathVar(r, "project"),
		utils.GetPathVar(r, "subproject"),
		utils.HasQueryParam(r, "ignored"))
	if err != nil {
		return notFound(w, err)
	}

	setPublicCache(w)

	return views.CheckSubproject(data).Render(r.Context(), w)
}
