// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"codeberg.org/checkboard/checkboard/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// Names of the machine translation services that can be enabled.
const (
	ServiceTMServer = "tmserver"
	ServiceAmagama  = "amagama"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"CHECKBOARD_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"CHECKBOARD_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"CHECKBOARD_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"CHECKBOARD_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
	} `yaml:"basic"`

	Database struct {
		Driver string `env:"CHECKBOARD_DB_DRIVER,overwrite" yaml:"driver"`
		// DSN is a file path for sqlite and a connection string for pgx.
		DSN string `env:"CHECKBOARD_DB_DSN,overwrite" yaml:"dsn"`
	} `yaml:"database"`

	MachineTranslation struct {
		Services []string      `env:"CHECKBOARD_MT_SERVICES,overwrite" yaml:"services"`
		TMServer string        `env:"CHECKBOARD_MT_TMSERVER,overwrite" yaml:"tmserver"`
		Timeout  time.Duration `env:"CHECKBOARD_MT_TIMEOUT,overwrite" yaml:"timeout"`
		// RateLimit is the number of requests per second allowed towards each service.
		// Zero disables limiting.
		RateLimit float64 `env:"CHECKBOARD_MT_RATE_LIMIT,overwrite" yaml:"rateLimit"`
		Burst     int     `env:"CHECKBOARD_MT_BURST,overwrite" yaml:"burst"`
		UserAgent string  `env:"CHECKBOARD_MT_USER_AGENT,overwrite" yaml:"userAgent"`
	} `yaml:"machineTranslation"`

	Cache struct {
		Enabled  bool          `env:"CHECKBOARD_CACHE,overwrite" yaml:"enabled"`
		Size     int           `env:"CHECKBOARD_CACHE_SIZE,overwrite" yaml:"cacheSize"`
		TTL      time.Duration `env:"CHECKBOARD_CACHE_TTL,overwrite" yaml:"cacheTTL"`
		Compress bool          `env:"CHECKBOARD_CACHE_COMPRESS,overwrite" yaml:"compress"`
	} `yaml:"cache"`

	HTTPCache struct {
		MaxAge               time.Duration `env:"CHECKBOARD_CACHE_CONTROL_MAX_AGE,overwrite" yaml:"cacheControlMaxAge"`
		StaleWhileRevalidate time.Duration `env:"CHECKBOARD_CACHE_CONTROL_STALE_WHILE_REVALIDATE,overwrite" yaml:"cacheControlStaleWhileRevalidate"`
	} `yaml:"httpCache"`

	Instance struct {
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
		RepoURL           string `env:"CHECKBOARD_REPO_URL,overwrite" yaml:"repoUrl"`
		// WeblateURL, when set, is used to link report rows to the translation editor.
		WeblateURL string `env:"CHECKBOARD_WEBLATE_URL,overwrite" yaml:"weblateUrl"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment        bool   `env:"CHECKBOARD_DEV" yaml:"inDevelopment"`
		SaveResponses        bool   `env:"CHECKBOARD_SAVE_RESPONSES,overwrite" yaml:"saveResponses"`
		ResponseSaveLocation string `env:"CHECKBOARD_RESPONSE_SAVE_LOCATION,overwrite" yaml:"responseSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"CHECKBOARD_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"CHECKBOARD_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"CHECKBOARD_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Metrics struct {
		Enabled bool   `env:"CHECKBOARD_METRICS,overwrite" yaml:"enabled"`
		Path    string `env:"CHECKBOARD_METRICS_PATH,overwrite" yaml:"path"`
	} `yaml:"metrics"`

	Internationalization struct {
		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged once per locale+key and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"CHECKBOARD_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig loads the configuration from defaults, the YAML file, a .env file
// and the environment, in that order, and validates the result.
func (cfg *ServerConfig) LoadConfig() error {
	flagValue := parseCommandLineArgs()

	flagSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			flagSet = true
		}
	})

	// Precedence: -config flag, CHECKBOARD_CONFIGFILE, then ./config.yaml with a ./config.yml fallback.
	configFilePath := flagValue

	if !flagSet {
		if envVar := os.Getenv("CHECKBOARD_CONFIGFILE"); envVar != "" {
			configFilePath = envVar
		} else if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			if _, statErr := os.Stat("./config.yml"); statErr == nil {
				configFilePath = "./config.yml"
			}
		}
	}

	return cfg.load(configFilePath)
}

// load runs every configuration stage against the given YAML path.
//
// It is split from LoadConfig so tests can skip flag handling.
func (cfg *ServerConfig) load(configFilePath string) error {
	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupLogging()

	cfg.print()

	return nil
}

// ServiceEnabled reports whether the named machine translation service is enabled.
func (cfg *ServerConfig) ServiceEnabled(name string) bool {
	return slices.Contains(cfg.MachineTranslation.Services, name)
}

var staticSkippedPathPrefixes = []string{"/css/", "/js/static/", "/favicon.ico"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return cfg.Metrics.Enabled && path == cfg.Metrics.Path
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}

