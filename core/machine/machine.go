// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package machine fetches translation suggestions from machine translation
and translation memory services.

Services implement [Service]; callers go through [Translate], which handles
language conversion, support checks, metrics and error wrapping uniformly.
*/
package machine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNotConfigured is returned when a service lacks a required server URL.
	ErrNotConfigured = errors.New("Not configured tmserver URL")

	errUnexpectedResponse = errors.New("unexpected response")
)

// Suggestion is one translation proposed by a service.
type Suggestion struct {
	// Text is the proposed translation.
	Text string `json:"text"`

	// Quality is the service's score, 0 to 100 for translation memories.
	Quality float64 `json:"quality"`

	// Service is the display name of the service that produced it.
	Service string `json:"service"`

	// Source is the source string the suggestion was matched against,
	// which may differ from the requested text for fuzzy matches.
	Source string `json:"source"`
}

// Service is a machine translation backend.
type Service interface {
	// Name is the display name, also used in Suggestion.Service.
	Name() string

	// ConvertLanguage maps a language code to the service's own code.
	ConvertLanguage(lang string) string

	// IsSupported reports whether the (converted) language is supported.
	IsSupported(lang string) bool

	// DownloadTranslations fetches suggestions for text in the converted lang.
	DownloadTranslations(ctx context.Context, lang, text string) ([]Suggestion, error)
}

// TranslationError wraps a failure of a service.
type TranslationError struct {
	Service string
	Err     error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("machine translation with %s failed: %v", e.Service, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// Translate asks svc for suggestions translating text into lang.
//
// Empty text and unsupported languages yield no suggestions and no error.
// Failures are logged, counted and returned as *TranslationError.
func Translate(ctx context.Context, svc Service, lang, text string) ([]Suggestion, error) {
	if text == "" {
		return []Suggestion{}, nil
	}

	lang = svc.ConvertLanguage(lang)

	if !svc.IsSupported(lang) {
		observe(svc.Name(), outcomeUnsupported, 0)

		return []Suggestion{}, nil
	}

	start := time.Now()

	suggestions, err := svc.DownloadTranslations(ctx, lang, text)

	elapsed := time.Since(start)

	if err != nil {
		observe(svc.Name(), outcomeError, elapsed)

		log.Error().
			Err(err).
			Str("service", svc.Name()).
			Str("language", lang).
			Msg("Machine translation failed")

		return nil, &TranslationError{Service: svc.Name(), Err: err}
	}

	observe(svc.Name(), outcomeOK, elapsed)
	suggestionsReturned.WithLabelValues(svc.Name()).Add(float64(len(suggestions)))

	if suggestions == nil {
		suggestions = []Suggestion{}
	}

	return suggestions, nil
}
