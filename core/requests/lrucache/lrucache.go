// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used
cache of byte slices with a per-entry expiry.

When compression is enabled, values are stored zstd-compressed whenever that
makes them smaller and are decompressed transparently on read. Callers always
receive their own copy of a value.
*/
package lrucache

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// ErrInvalidSize is returned by [New] for a non-positive capacity.
var ErrInvalidSize = errors.New("must provide a positive size")

// Options configure a [Cache].
type Options struct {
	// Compress stores values zstd-compressed when that saves space.
	Compress bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Cache is a fixed-capacity LRU cache of byte slices keyed by string.
//
// The zero value is not ready for use; construct one with [New].
type Cache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	lock      sync.Mutex
	now       func() time.Time

	enc *zstd.Encoder
	dec *zstd.Decoder
}

type entry struct {
	key        string
	value      []byte
	compressed bool
	expiresAt  time.Time // zero means no expiry
}

// New creates a cache holding at most size entries.
func New(size int, opts Options) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
		now:       opts.Now,
	}

	if c.now == nil {
		c.now = time.Now
	}

	if opts.Compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}

		c.enc = enc
		c.dec = dec
	}

	return c, nil
}

// Add stores value under key for ttl (zero ttl never expires) and marks it
// most recently used. It reports whether an older entry was evicted.
func (c *Cache) Add(key string, value []byte, ttl time.Duration) bool {
	stored, compressed := c.encode(value)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)

		ent := el.Value.(*entry) //nolint:forcetypeassert // only *entry is stored
		ent.value = stored
		ent.compressed = compressed
		ent.expiresAt = expiresAt

		return false
	}

	c.items[key] = c.evictList.PushFront(&entry{
		key:        key,
		value:      stored,
		compressed: compressed,
		expiresAt:  expiresAt,
	})

	if c.evictList.Len() > c.size {
		c.removeElement(c.evictList.Back())

		return true
	}

	return false
}

// Get returns the value for key and marks it most recently used.
// Expired entries are removed and reported as missing.
func (c *Cache) Get(key string) ([]byte, bool) {
	return c.lookup(key, true)
}

// Peek is like [Cache.Get] but leaves the LRU order untouched.
func (c *Cache) Peek(key string) ([]byte, bool) {
	return c.lookup(key, false)
}

func (c *Cache) lookup(key string, touch bool) ([]byte, bool) {
	c.lock.Lock()

	el, ok := c.items[key]
	if !ok {
		c.lock.Unlock()

		return nil, false
	}

	ent := el.Value.(*entry) //nolint:forcetypeassert // only *entry is stored

	if !ent.expiresAt.IsZero() && !c.now().Before(ent.expiresAt) {
		c.removeElement(el)
		c.lock.Unlock()

		return nil, false
	}

	if touch {
		c.evictList.MoveToFront(el)
	}

	stored, compressed := ent.value, ent.compressed

	c.lock.Unlock()

	return c.decode(stored, compressed)
}

// Remove deletes key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	el, ok := c.items[key]
	if ok {
		c.removeElement(el)
	}

	return ok
}

// Keys returns all keys from the oldest to the newest, including expired
// entries that have not been evicted yet.
func (c *Cache) Keys() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]string, 0, len(c.items))

	for el := c.evictList.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(*entry).key) //nolint:forcetypeassert // only *entry is stored
	}

	return keys
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

// Purge removes every entry.
func (c *Cache) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.evictList.Init()
	clear(c.items)
}

func (c *Cache) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	delete(c.items, el.Value.(*entry).key) //nolint:forcetypeassert // only *entry is stored
}

// encode runs outside the lock; zstd.Encoder.EncodeAll is safe for concurrent use.
func (c *Cache) encode(value []byte) ([]byte, bool) {
	if c.enc != nil && len(value) > 0 {
		if packed := c.enc.EncodeAll(value, nil); len(packed) < len(value) {
			return packed, true
		}
	}

	return append([]byte(nil), value...), false
}

func (c *Cache) decode(stored []byte, compressed bool) ([]byte, bool) {
	if !compressed {
		return append([]byte(nil), stored...), true
	}

	decoded, err := c.dec.DecodeAll(stored, nil)
	if err != nil {
		return nil, false
	}

	return decoded, true
}
