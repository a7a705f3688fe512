// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package machine

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"codeberg.org/checkboard/checkboard/core/requests"
)

const (
	// AmagamaURL is the public tmserver instance run by the Virtaal authors.
	AmagamaURL = "http://amagama.locamotion.org"

	tmserverName = "tmserver"
	amagamaName  = "Amagama"

	// sourceLanguage is the language of the strings looked up.
	sourceLanguage = "en"
)

// TMServer talks to a translate-toolkit tmserver, such as Amagama.
type TMServer struct {
	name    string
	url     string
	limiter *rate.Limiter
}

// NewTMServer returns a client for the tmserver at serverURL.
// A trailing slash is stripped; an empty URL yields [ErrNotConfigured].
func NewTMServer(serverURL string) (*TMServer, error) {
	if serverURL == "" {
		return nil, ErrNotConfigured
	}

	return &TMServer{
		name: tmserverName,
		url:  strings.TrimRight(serverURL, "/"),
	}, nil
}

// NewAmagama returns a client for the public Amagama service.
func NewAmagama() *TMServer {
	return &TMServer{
		name: amagamaName,
		url:  AmagamaURL,
	}
}

// WithRateLimit returns s limited to r requests per second with the given
// burst. A zero rate leaves s unlimited.
func (s *TMServer) WithRateLimit(r float64, burst int) *TMServer {
	if r > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}

	return s
}

func (s *TMServer) Name() string {
	return s.name
}

// URL returns the server URL without a trailing slash.
func (s *TMServer) URL() string {
	return s.url
}

// ConvertLanguage turns "pt-BR" into "pt_br".
func (s *TMServer) ConvertLanguage(lang string) string {
	return strings.ToLower(strings.ReplaceAll(lang, "-", "_"))
}

// IsSupported always returns true; tmserver answers for any language.
func (s *TMServer) IsSupported(string) bool {
	return true
}

// LookupURL returns the URL queried for text in lang.
func (s *TMServer) LookupURL(lang, text string) string {
	return fmt.Sprintf("%s/tmserver/%s/%s/unit/%s", s.url, sourceLanguage, quote(lang), quote(text))
}

// wait blocks until the rate limiter allows one more upstream request.
func (s *TMServer) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", s.name, err)
	}

	return nil
}

func (s *TMServer) DownloadTranslations(ctx context.Context, lang, text string) ([]Suggestion, error) {
	body, err := requests.GetJSON(ctx, requests.RequestOptions{
		URL:        s.LookupURL(lang, text),
		BeforeSend: s.wait,
	})
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array from %s", errUnexpectedResponse, s.name)
	}

	suggestions := make([]Suggestion, 0, len(result.Array()))

	result.ForEach(func(_, line gjson.Result) bool {
		suggestions = append(suggestions, Suggestion{
			Text:    line.Get("target").String(),
			Quality: line.Get("quality").Float(),
			Service: s.name,
			Source:  line.Get("source").String(),
		})

		return true
	})

	return suggestions, nil
}

// quote percent-encodes s for a URL path, leaving letters, digits, "_.-"
// and "/" as they are. The tmserver route matches the rest of the path, so
// slashes in the text must reach it unescaped.
func quote(s string) string {
	const upperhex = "0123456789ABCDEF"

	var b strings.Builder

	b.Grow(len(s))

	for i := range len(s) {
		c := s[i]

		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '_', c == '.', c == '-', c == '/':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0x0f])
		}
	}

	return b.String()
}
