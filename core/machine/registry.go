// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package machine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"codeberg.org/checkboard/checkboard/config"
)

// DefaultRegistry holds the services enabled in the configuration.
// It is populated by Setup.
var DefaultRegistry = NewRegistry()

// Registry maps configuration keys ("tmserver", "amagama") to services.
type Registry struct {
	mu       sync.RWMutex
	services map[string]Service
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{services: make(map[string]Service)}
}

// Register adds svc under key, replacing any previous service with that key.
func (r *Registry) Register(key string, svc Service) {
	key = strings.ToLower(key)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[key]; !exists {
		r.order = append(r.order, key)
	}

	r.services[key] = svc
}

// Get returns the service registered under key, ignoring case.
func (r *Registry) Get(key string) (Service, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.services[strings.ToLower(key)]

	return svc, ok
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Len returns the number of registered services.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// NewServiceFromConfig builds the service named by a configuration key.
func NewServiceFromConfig(key string) (Service, error) {
	mt := config.Global.MachineTranslation

	switch key {
	case config.ServiceTMServer:
		svc, err := NewTMServer(mt.TMServer)
		if err != nil {
			return nil, err
		}

		return svc.WithRateLimit(mt.RateLimit, mt.Burst), nil
	case config.ServiceAmagama:
		return NewAmagama().WithRateLimit(mt.RateLimit, mt.Burst), nil
	default:
		return nil, fmt.Errorf("unknown machine translation service %q", key)
	}
}

// Setup fills DefaultRegistry with the services enabled in config.Global.
func Setup() error {
	registry := NewRegistry()

	for _, key := range config.Global.MachineTranslation.Services {
		svc, err := NewServiceFromConfig(key)
		if err != nil {
			return fmt.Errorf("failed to set up %s: %w", key, err)
		}

		registry.Register(key, svc)

		log.Info().
			Str("service", svc.Name()).
			Float64("rate", config.Global.MachineTranslation.RateLimit).
			Msg("Enabled machine translation service")
	}

	DefaultRegistry = registry

	return nil
}
