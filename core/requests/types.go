// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"context"
	"net/http"
)

// RequestOptions describe an outbound GET request.
type RequestOptions struct {
	URL string

	// Headers are added to the defaults (User-Agent, Accept).
	Headers http.Header

	// IncomingHeaders are the headers of the user request that caused this
	// one. A "Cache-Control: no-cache" there bypasses the response cache.
	// When nil, headers stored with WithIncomingHeaders are used.
	IncomingHeaders http.Header

	// BeforeSend runs only when the request goes to the network, after the
	// response cache missed. An error aborts the request.
	BeforeSend func(ctx context.Context) error
}

type incomingHeadersKey struct{}

// WithIncomingHeaders stores the headers of a user request in ctx so that
// outbound requests made on its behalf can honour its cache directives.
func WithIncomingHeaders(ctx context.Context, h http.Header) context.Context {
	return context.WithValue(ctx, incomingHeadersKey{}, h)
}

func incomingHeaders(ctx context.Context, opts RequestOptions) http.Header {
	if opts.IncomingHeaders != nil {
		return opts.IncomingHeaders
	}

	h, _ := ctx.Value(incomingHeadersKey{}).(http.Header)

	return h
}
