// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"crypto/tls"
	"net/http"
	"time"
)

const (
	clientSessionCacheSize = 20
	maxIdleConnsPerHost    = 20
	bufferSize             = 32 * 1024

	// Request deadlines come from contexts; this only bounds a stalled upstream.
	responseHeaderTimeout = 30 * time.Second
)

// HTTPClient is the shared client for outbound requests.
var HTTPClient = &http.Client{
	Transport: &http.Transport{
		TLSClientConfig: &tls.Config{
			ClientSessionCache: tls.NewLRUClientSessionCache(clientSessionCacheSize),
			MinVersion:         tls.VersionTLS12,
		},
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConnsPerHost:   maxIdleConnsPerHost,
		ResponseHeaderTimeout: responseHeaderTimeout,
		WriteBufferSize:       bufferSize,
		ReadBufferSize:        bufferSize,
	},
}
