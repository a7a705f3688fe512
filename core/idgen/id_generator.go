// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short identifiers for requests, saved responses and
// cache busting.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// entropyBytes is chosen so the random part encodes without padding.
const entropyBytes = 3

// Make returns an ID made of the current wall-clock time (HHMMSS) followed
// by four URL-safe random characters.
func Make() string {
	return makeAt(time.Now())
}

func makeAt(t time.Time) string {
	var entropy [entropyBytes]byte

	_, _ = rand.Read(entropy[:])

	return t.Format("150405") + base64.RawURLEncoding.EncodeToString(entropy[:])
}
