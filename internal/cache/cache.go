// Package cache memoizes prover queries keyed by a structural digest of
// their inputs, using an LRU eviction policy — grounded on the
// hashicorp/nomad dependency surface retrieved alongside the teacher
// (golang-lru/v2 for the eviction policy, mitchellh/hashstructure for the
// structural digest), wired here as spec.md §6's telemetry-adjacent
// memoization layer for check_atom/check_implication.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mitchellh/hashstructure"
)

// Key is a structural digest of a query's inputs.
type Key uint64

// DigestOf hashes v (typically a small struct of the exact arguments a
// query varies over) into a Key. Query callers are responsible for
// excluding anything non-deterministic (fresh identifiers, pointers) from
// v — in practice this means hashing the String() forms of the terms
// involved, not the terms themselves.
func DigestOf(v any) (Key, error) {
	h, err := hashstructure.Hash(v, nil)
	if err != nil {
		return 0, err
	}
	return Key(h), nil
}

// Cache is a fixed-capacity LRU cache from Key to an arbitrary cached
// result (typically *prover.Result or *diag.Failure).
type Cache struct {
	lru *lru.Cache[Key, any]

	hits   int64
	misses int64
}

// New returns a Cache with room for capacity entries.
func New(capacity int) (*Cache, error) {
	l, err := lru.New[Key, any](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

// Get returns the cached value for key, if present.
func (c *Cache) Get(key Key) (any, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Put stores value under key, evicting the least-recently-used entry if
// the cache is at capacity.
func (c *Cache) Put(key Key, value any) {
	c.lru.Add(key, value)
}

// Stats reports cumulative hit/miss counts, exposed to spec.md §6's
// telemetry surface.
type Stats struct {
	Hits   int64
	Misses int64
	Len    int
}

func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Len: c.lru.Len()}
}

// Purge clears the cache entirely.
func (c *Cache) Purge() { c.lru.Purge() }
