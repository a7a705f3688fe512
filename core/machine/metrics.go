// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package machine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK          = "ok"
	outcomeError       = "error"
	outcomeUnsupported = "unsupported"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkboard",
		Subsystem: "machine",
		Name:      "requests_total",
		Help:      "Number of machine translation lookups per service and outcome.",
	}, []string{"service", "outcome"})

	requestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "checkboard",
		Subsystem: "machine",
		Name:      "request_seconds",
		Help:      "Duration of machine translation lookups that reached the service.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"service"})

	suggestionsReturned = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkboard",
		Subsystem: "machine",
		Name:      "suggestions_total",
		Help:      "Number of suggestions returned per service.",
	}, []string{"service"})
)

func observe(service, outcome string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(service, outcome).Inc()

	if outcome != outcomeUnsupported {
		requestSeconds.WithLabelValues(service).Observe(elapsed.Seconds())
	}
}
