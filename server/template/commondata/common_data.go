// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package commondata holds per-request values shared by every page layout.
package commondata

import (
	"net/http"

	"codeberg.org/checkboard/checkboard/config"
	"codeberg.org/checkboard/checkboard/server/utils"
)

// PageCommonData holds values the layout needs on every page.
type PageCommonData struct {
	// BaseURL is the origin (scheme + host) of the current request.
	BaseURL string

	// CurrentPath is the URL path of the request, e.g. "/checks/end_stop".
	CurrentPath string

	// CurrentPathWithParams includes the query string.
	CurrentPathWithParams string

	// Queries holds the first value of every query parameter.
	Queries map[string]string

	// Ignored is true when the request asks for ignored checks.
	Ignored bool

	// CacheID busts browser caches of static assets across restarts.
	CacheID string

	RepoURL      string
	Version      string
	Revision     string
	StartingTime string
}

// Populate fills data from r and the global configuration.
func Populate(r *http.Request, data *PageCommonData) {
	data.BaseURL = utils.GetOriginFromRequest(r)
	data.CurrentPath = r.URL.Path
	data.CurrentPathWithParams = r.URL.RequestURI()

	query := r.URL.Query()

	data.Queries = make(map[string]string, len(query))

	for k, v := range query {
		if len(v) > 0 {
			data.Queries[k] = v[0]
		}
	}

	data.Ignored = query.Has("ignored")

	data.CacheID = config.Global.Instance.FileServerCacheID
	data.RepoURL = config.Global.Instance.RepoURL
	data.Version = config.BuildVersion
	data.Revision = config.Global.Build.Revision()
	data.StartingTime = config.Global.Instance.StartingTime
}
