// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"bytes"
	"encoding/gob"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/checkboard/checkboard/config"
	"codeberg.org/checkboard/checkboard/core/requests/lrucache"
)

var cache *lrucache.Cache

// cachedItem is the gob-encoded form of a cached response.
type cachedItem struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

type cachePolicy struct {
	// shouldStore is set when a fresh OK response may be cached.
	shouldStore bool

	// cachedItem is a valid cached response, if one was found.
	cachedItem *cachedItem
}

// Setup creates the response cache according to config.Global.Cache.
// It returns an error only for an unusable cache configuration.
func Setup() error {
	cache = nil

	if !config.Global.Cache.Enabled {
		log.Info().Msg("Cache is disabled, skipping cache initialization")

		return nil
	}

	c, err := lrucache.New(config.Global.Cache.Size, lrucache.Options{Compress: config.Global.Cache.Compress})
	if err != nil {
		return err
	}

	cache = c

	log.Info().
		Int("size", config.Global.Cache.Size).
		Dur("ttl", config.Global.Cache.TTL).
		Bool("compress", config.Global.Cache.Compress).
		Msg("Initialized response cache")

	return nil
}

func cacheKey(rawURL string) string {
	hasher := fnv.New64a()

	_, _ = hasher.Write([]byte(rawURL))

	return strconv.FormatUint(hasher.Sum64(), 16)
}

func determineCachePolicy(rawURL string, incoming http.Header) cachePolicy {
	if cache == nil {
		return cachePolicy{}
	}

	// Honor the downstream client's "no-cache": skip both read and write.
	cacheControl := strings.ToLower(incoming.Get("Cache-Control"))
	if strings.Contains(cacheControl, "no-cache") {
		return cachePolicy{}
	}

	key := cacheKey(rawURL)

	if raw, found := cache.Get(key); found {
		var item cachedItem

		switch err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&item); {
		case err != nil:
			log.Warn().Err(err).Str("key", key).Msg("Failed to decode cached item; removing")
			cache.Remove(key)
		case item.URL != rawURL:
			// hash collision
			cache.Remove(key)
		default:
			return cachePolicy{shouldStore: true, cachedItem: &item}
		}
	}

	return cachePolicy{shouldStore: !strings.Contains(cacheControl, "no-store")}
}

func storeInCache(rawURL string, resp *http.Response, body []byte) {
	if cache == nil {
		return
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cachedItem{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		URL:        rawURL,
	}); err != nil {
		log.Warn().Err(err).Msg("Failed to serialize item for cache")

		return
	}

	cache.Add(cacheKey(rawURL), buf.Bytes(), config.Global.Cache.TTL)
}

// Purge empties the response cache. It is safe to call when caching is disabled.
func Purge() {
	if cache != nil {
		cache.Purge()
	}
}
