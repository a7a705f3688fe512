// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default cache TTL in minutes.
	defaultCacheTTLMinutes = 60
	// Default HTTP cache max age in seconds.
	defaultHTTPCacheMaxAgeSeconds = 30
	// Default HTTP cache stale while revalidate in seconds.
	defaultHTTPCacheStaleWhileRevalidateSeconds = 60

	// Default timeout for a single machine translation request in seconds.
	defaultMachineTimeoutSeconds = 10
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	// Host and Port are filled in during validation unless a unix socket is used.
	cfg.Basic.Host = ""
	cfg.Basic.Port = ""

	cfg.Database.Driver = DriverSQLite
	cfg.Database.DSN = "./data/checkboard.db"

	cfg.MachineTranslation.Services = []string{ServiceAmagama}
	cfg.MachineTranslation.TMServer = ""
	cfg.MachineTranslation.Timeout = defaultMachineTimeoutSeconds * time.Second
	cfg.MachineTranslation.RateLimit = 5
	cfg.MachineTranslation.Burst = 10
	cfg.MachineTranslation.UserAgent = "Checkboard/" + BuildVersion

	cfg.Cache.Enabled = false
	cfg.Cache.Size = 500
	cfg.Cache.TTL = defaultCacheTTLMinutes * time.Minute
	cfg.Cache.Compress = true

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAgeSeconds * time.Second
	cfg.HTTPCache.StaleWhileRevalidate = defaultHTTPCacheStaleWhileRevalidateSeconds * time.Second

	cfg.Instance.RepoURL = "https://codeberg.org/checkboard/checkboard"
	cfg.Instance.WeblateURL = ""

	cfg.Development.SaveResponses = false
	cfg.Development.ResponseSaveLocation = "/tmp/checkboard/responses"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Metrics.Enabled = false
	cfg.Metrics.Path = "/metrics"

	cfg.Internationalization.StrictMissingKeys = false
}
