// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package audit records timing and outcome of work done for a request:
// the request itself, outbound machine translation calls and database
// queries. Spans show up in the log and in the Server-Timing header.
package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Span represents a unit of work in flight.
type Span struct {
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	Destination TrafficDestination
	RequestID   string
	Method      string
	// URL is the request URL, or the query name for database spans.
	URL        string
	StatusCode int
	Error      error
	// Body is only kept for response saving and its length.
	Body []byte

	responseFilename string
}

// TrafficDestination describes where the work of a span goes.
type TrafficDestination string

const (
	ToUser     TrafficDestination = "user"
	ToMachine  TrafficDestination = "machine"
	ToDatabase TrafficDestination = "db"

	responseFilePermissions = 0o600
)

var (
	// SaveResponses enables writing machine translation responses to disk.
	SaveResponses bool

	// ResponseDirectory is where saved responses go.
	ResponseDirectory string
)

// ServerTimingName is "<destination>$<method>$<base64url(URL)>".
func (span Span) ServerTimingName() string {
	return string(span.Destination) + "$" + span.Method + "$" + base64.RawURLEncoding.EncodeToString([]byte(span.URL))
}

// Duration is valid after End.
func (span Span) Duration() time.Duration {
	return span.duration
}

func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "span."+string(span.Destination))
	if timing := servertiming.FromContext(ctx); timing != nil {
		span.metric = timing.NewMetric(span.ServerTimingName())
		span.metric.Extra = map[string]string{
			"start": strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64),
		}
	}

	return ctx
}

// End stops the clock. Only the first call has an effect.
func (span *Span) End() {
	if span.task == nil {
		return
	}

	span.duration = time.Since(span.start)
	span.task.End()

	if span.metric != nil {
		span.metric.Duration = span.duration
	}

	span.task = nil
}

// Log writes the span at debug level, or at warn level when it failed,
// and saves machine translation responses if enabled.
func (span Span) Log() {
	if span.Destination == ToMachine && len(span.Body) > 0 && SaveResponses && span.RequestID != "" {
		filename := path.Join(ResponseDirectory, span.RequestID)

		if err := os.WriteFile(filename, span.Body, responseFilePermissions); err != nil {
			log.Err(err).
				Str("request_id", span.RequestID).
				Msg("Failed to save response")
		} else {
			span.responseFilename = filename
		}
	}

	var event *zerolog.Event
	if span.Error != nil && span.Destination != ToUser {
		event = log.Warn()
	} else {
		event = log.Debug()
	}

	event.Str("sys", "http")
	event.Str("method", span.Method)
	event.Str("url", span.URL)
	event.Int("status_code", span.StatusCode)
	event.Str("len", humanizeSize(len(span.Body)))
	event.Dur("dur", span.duration)
	event.Str("destination", string(span.Destination))
	event.Str("request_id", span.RequestID)

	if span.responseFilename != "" {
		event.Str("response_filename", span.responseFilename)
	}

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
)

func humanizeSize(x int) string {
	switch {
	case x < bytesInKB:
		return strconv.Itoa(x)
	case x < bytesInMB:
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	default:
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}
}
