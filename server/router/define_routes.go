// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"codeberg.org/checkboard/checkboard/config"
	"codeberg.org/checkboard/checkboard/server/assets"
	"codeberg.org/checkboard/checkboard/server/middleware"
	"codeberg.org/checkboard/checkboard/server/routes"
)

// DefineRoutes registers every route of the application.
//
// Middleware is added separately by RegisterMiddleware.
func (router *Router) DefineRoutes() {
	fileServerHandler := fileServer()

	router.Handle("GET /robots.txt", fileServerHandler)
	router.Handle("GET /css/", fileServerHandler)

	// Report routes
	router.HandleFunc("GET /{$}", redirectPreservingQuery("/checks"))
	router.HandleFunc("GET /checks", middleware.CatchError(routes.ChecksPage))
	router.HandleFunc("GET /checks/{name}", middleware.CatchError(routes.CheckPage))
	router.HandleFunc("GET /checks/{name}/{project}", middleware.CatchError(routes.CheckProjectPage))
	router.HandleFunc("GET /checks/{name}/{project}/{subproject}", middleware.CatchError(routes.CheckSubprojectPage))

	// Machine translation routes
	router.HandleFunc("GET /js/mt/{unit_id}", middleware.CatchError(routes.MachineTranslation))
	router.HandleFunc("GET /js/translate/{unit_id}", redirectWithPathVar("/js/mt/", "unit_id"))

	// About routes
	router.HandleFunc("GET /about", middleware.CatchError(routes.AboutPage))

	if config.Global.Metrics.Enabled {
		router.Handle("GET "+config.Global.Metrics.Path, promhttp.Handler())
	}

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}

	// Anything else gets the themed 404 page.
	router.HandleFunc("/", middleware.CatchError(routes.NotFoundPage))
}

// Serve static files from embedded assets.
func fileServer() http.HandlerFunc {
	staticContentFS, err := fs.Sub(assets.FS, "assets")
	if err != nil {
		panic(fmt.Errorf("failed to create sub-filesystem for embedded 'assets' directory: %w", err))
	}

	fileServer := http.FileServer(http.FS(staticContentFS))
	fileServerHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// go:embed files only change with a new build, so a per-instance
		// cache ID is a valid strong ETag.
		w.Header().Set("ETag", `"`+config.Global.Instance.FileServerCacheID+`"`)
		fileServer.ServeHTTP(w, r)
	})

	return fileServerHandler
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	if !flightRecorder.Enabled() {
		if err := flightRecorder.Start(); err != nil {
			panic(err)
		}
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, r *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
