// Package cache provides memoization of ranked results keyed by a hash of
// the scoring inputs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/priority-engine/internal/types"
)

// Key identifies one unique scoring input combination.
type Key string

// ComputeKey hashes the given input parts (weights, item data, context,
// configuration) into a cache key. Parts are JSON-encoded so that any
// change in input content changes the key.
func ComputeKey(parts ...any) (Key, error) {
	hasher := sha256.New()
	encoder := json.NewEncoder(hasher)
	for _, part := range parts {
		if err := encoder.Encode(part); err != nil {
			return "", fmt.Errorf("failed to encode cache key part: %w", err)
		}
	}
	return Key(hex.EncodeToString(hasher.Sum(nil))), nil
}

// ResultCache memoizes ranked results. Concurrent callers for the same key
// share a single in-flight computation.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[Key]*types.RankedResult
	group   singleflight.Group
}

// New creates an empty result cache.
func New() *ResultCache {
	return &ResultCache{entries: make(map[Key]*types.RankedResult)}
}

// GetOrCompute returns the cached result for key, computing and storing it
// on a miss. At most one computation runs per key at a time; concurrent
// callers for the same key await that single computation. The hit flag
// reports whether the result was served from the cache.
func (c *ResultCache) GetOrCompute(key Key, compute func() (*types.RankedResult, error)) (*types.RankedResult, bool, error) {
	c.mu.RLock()
	cached, found := c.entries[key]
	c.mu.RUnlock()
	if found {
		return cached, true, nil
	}

	// singleflight's shared flag marks every caller of a shared call,
	// including the one whose closure did the work. Track whether this
	// call's closure computed so a fresh computation is never reported
	// as a hit.
	computedHere := false
	result, err, _ := c.group.Do(string(key), func() (any, error) {
		// Re-check under the group: another caller may have stored the
		// entry between the read above and entering the group.
		c.mu.RLock()
		existing, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return existing, nil
		}

		computed, err := compute()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = computed
		c.mu.Unlock()
		computedHere = true
		return computed, nil
	})
	if err != nil {
		return nil, false, err
	}
	return result.(*types.RankedResult), !computedHere, nil
}

// Get returns the cached result for key, if present.
func (c *ResultCache) Get(key Key) (*types.RankedResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cached, found := c.entries[key]
	return cached, found
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate removes a cached entry.
func (c *ResultCache) Invalidate(key Key) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
