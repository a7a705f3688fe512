// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/checkboard/checkboard/assets/views"
	"codeberg.org/checkboard/checkboard/config"
	"codeberg.org/checkboard/checkboard/core/machine"
	"codeberg.org/checkboard/checkboard/i18n"
)

// AboutPage is the handler for the /about page.
func AboutPage(w http.ResponseWriter, r *http.Request) error {
	setPublicCache(w)

	pageData := views.AboutData{
		Title:    i18n.Tr(r.Context(), "About"),
		Version:  config.BuildVersion,
		Revision: config.Global.Build.Revision(),
		Time:     config.Global.Instance.StartingTime,
		Services: machine.DefaultRegistry.Keys(),
		Database: config.Global.Database.Driver,
	}

	return views.About(pageData).Render(r.Context(), w)
}
