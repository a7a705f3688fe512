// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/checkboard/checkboard/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnknownDatabaseDriver        = errors.New("invalid Database.Driver value")
	errEmptyDatabaseDSN             = errors.New("Database.DSN cannot be empty")
	errUnknownMachineService        = errors.New("unknown machine translation service")
	// ErrTMServerNotConfigured is returned when tmserver is enabled without a server URL.
	ErrTMServerNotConfigured = errors.New("Not configured tmserver URL")
	errInvalidRateLimit      = errors.New("MachineTranslation.RateLimit must not be negative")
	errInvalidBurst          = errors.New("MachineTranslation.Burst must be positive when rate limiting is enabled")
	errInvalidCacheSize      = errors.New("Cache.Size must be positive when the cache is enabled")
	errInvalidMetricsPath    = errors.New("Metrics.Path must start with /")
	errInvalidLogFormat      = errors.New(`Log.Format must be "console" or "json"`)
)

var fileModeOctalRegexp = regexp.MustCompile(`^0?[0-7]{3}$`)

// validateAndSet validates the server configuration and populates derived fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	switch cfg.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", errUnknownDatabaseDriver, cfg.Database.Driver)
	}

	if cfg.Database.DSN == "" {
		return errEmptyDatabaseDSN
	}

	if err := cfg.validateMachineTranslation(); err != nil {
		return err
	}

	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return errInvalidCacheSize
	}

	repoURL, err := utils.ParseURL(cfg.Instance.RepoURL, "Repo")
	if err != nil {
		return fmt.Errorf("invalid repo URL: %w", err)
	}

	cfg.Instance.RepoURL = repoURL.String()

	if cfg.Instance.WeblateURL != "" {
		weblateURL, err := utils.ParseURL(cfg.Instance.WeblateURL, "Weblate")
		if err != nil {
			return fmt.Errorf("invalid Weblate URL: %w", err)
		}

		cfg.Instance.WeblateURL = weblateURL.String()
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return errInvalidMetricsPath
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return errInvalidLogFormat
	}

	return nil
}

func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().Str("host", cfg.Basic.Host).Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8383"
			log.Info().Str("port", cfg.Basic.Port).Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	switch {
	case cfg.Basic.RawUnixSocketPermissions == "":
		cfg.Basic.UnixSocketPermissions = 0o666
	case fileModeOctalRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
		mode, _ := strconv.ParseUint(cfg.Basic.RawUnixSocketPermissions, 8, 32)

		cfg.Basic.UnixSocketPermissions = os.FileMode(mode)
	default:
		return errUnixSocketInvalidPermissions
	}

	return nil
}

func (cfg *ServerConfig) validateMachineTranslation() error {
	mt := &cfg.MachineTranslation

	for i, name := range mt.Services {
		name = strings.ToLower(strings.TrimSpace(name))
		mt.Services[i] = name

		switch name {
		case ServiceTMServer, ServiceAmagama:
		default:
			return fmt.Errorf("%w: %q", errUnknownMachineService, name)
		}
	}

	if cfg.ServiceEnabled(ServiceTMServer) {
		if mt.TMServer == "" {
			return ErrTMServerNotConfigured
		}

		if _, err := utils.ParseURL(mt.TMServer, "tmserver"); err != nil {
			return fmt.Errorf("invalid tmserver URL: %w", err)
		}
	}

	if mt.RateLimit < 0 {
		return errInvalidRateLimit
	}

	if mt.RateLimit > 0 && mt.Burst <= 0 {
		return errInvalidBurst
	}

	return nil
}
