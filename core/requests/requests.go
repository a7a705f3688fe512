// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package requests performs outbound HTTP requests to machine translation
// services, with auditing and an optional response cache.
package requests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"codeberg.org/checkboard/checkboard/config"
	"codeberg.org/checkboard/checkboard/core/audit"
	"codeberg.org/checkboard/checkboard/core/idgen"
	"codeberg.org/checkboard/checkboard/server/request_context"
	"codeberg.org/checkboard/checkboard/server/utils"
)

// maxResponseSize bounds how much of an upstream body is read.
const maxResponseSize = 4 << 20

var (
	errInvalidJSON      = errors.New("response contained invalid JSON")
	errAPIResponseError = errors.New("upstream responded with an error")
	errResponseTooLarge = errors.New("response body too large")
)

// APIError represents a non-2xx response from an upstream service.
type APIError struct {
	// StatusCode is the HTTP status code, always >= 400.
	StatusCode int

	// Message is the "message" or "error" field of a JSON body, or the
	// status text.
	Message string

	Err error
}

func (e *APIError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	fmt.Fprintf(&b, " (status code: %d)", e.StatusCode)

	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// GetJSON performs a GET request and returns the body after checking that it
// is valid JSON. Non-2xx responses yield an *APIError.
func GetJSON(ctx context.Context, opts RequestOptions) ([]byte, error) {
	resp, body, err := Do(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newAPIError(resp.StatusCode, body)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %.200s", errInvalidJSON, body)
	}

	return body, nil
}

func newAPIError(statusCode int, body []byte) *APIError {
	message := ""

	if gjson.ValidBytes(body) {
		result := gjson.ParseBytes(body)

		message = result.Get("message").String()
		if message == "" {
			message = result.Get("error").String()
		}
	}

	if message == "" {
		message = http.StatusText(statusCode)
	}

	if message == "" {
		message = "An unknown upstream error occurred"
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Err:        errAPIResponseError,
	}
}

// Do sends a GET request and returns the response together with its fully
// read body. The response body is a NopCloser over the same bytes.
//
// Successful responses are served from, and stored in, the response cache
// when it is enabled. Status codes are not checked.
func Do(ctx context.Context, opts RequestOptions) (*http.Response, []byte, error) {
	policy := determineCachePolicy(opts.URL, incomingHeaders(ctx, opts))
	if policy.cachedItem != nil {
		item := policy.cachedItem

		return &http.Response{
			StatusCode: item.StatusCode,
			Header:     item.Header.Clone(),
			Body:       io.NopCloser(bytes.NewReader(item.Body)),
		}, item.Body, nil
	}

	if opts.BeforeSend != nil {
		if err := opts.BeforeSend(ctx); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", config.Global.MachineTranslation.UserAgent)
	req.Header.Set("Accept", "application/json")

	for name, values := range opts.Headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	resp, body, err := sendRequest(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	if resp.StatusCode == http.StatusOK && policy.shouldStore {
		storeInCache(opts.URL, resp, body)
	}

	return resp, body, nil
}

// sendRequest executes req inside an audit span and returns the response
// with a re-readable body.
func sendRequest(ctx context.Context, req *http.Request) (_ *http.Response, _ []byte, err error) {
	span := audit.Span{
		Destination: audit.ToMachine,
		RequestID:   requestID(ctx),
		Method:      req.Method,
		URL:         req.URL.String(),
	}

	defer func() {
		span.Error = err
		span.End()
		span.Log()
	}()

	_ = span.Begin(ctx)

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(body) > maxResponseSize {
		return nil, nil, fmt.Errorf("%w: more than %d bytes from %s", errResponseTooLarge, maxResponseSize, req.URL.Host)
	}

	span.Body = body

	resp.Body = io.NopCloser(bytes.NewReader(body))

	return resp, body, nil
}

// requestID derives an outbound id from the user request id, if any.
func requestID(ctx context.Context) string {
	if parent := request_context.FromContext(ctx).RequestID; parent != "" {
		return parent + "-" + idgen.Make()
	}

	return idgen.Make()
}

// IsContextCanceled reports whether err comes from a canceled or expired
// context, in which case the client has usually gone away.
func IsContextCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
