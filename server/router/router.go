// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package router wires routes and middleware onto an http.ServeMux.
package router

import (
	"net/http"
	"slices"
	"sync"

	"codeberg.org/checkboard/checkboard/server/middleware"
)

// Router is an http.ServeMux wrapped by a middleware chain.
//
// The chain is assembled on the first request; middleware added with Use
// after that point is ignored.
type Router struct {
	*http.ServeMux

	middlewares []middleware.Middleware

	once    sync.Once
	handler http.Handler
}

func NewRouter() *Router {
	return &Router{ServeMux: http.NewServeMux()}
}

// Use appends m to the chain. The first middleware added runs outermost.
func (router *Router) Use(m middleware.Middleware) {
	router.middlewares = append(router.middlewares, m)
}

func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.once.Do(func() {
		var h http.Handler = router.ServeMux

		for _, m := range slices.Backward(router.middlewares) {
			h = middleware.Wrap(m, h)
		}

		router.handler = h
	})

	router.handler.ServeHTTP(w, r)
}
