package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// CachedAggregate returns the aggregation of selected, served from the cache
// store when one is configured and the workbook has a digest.
func CachedAggregate(ds *Dataset, selected []string, ttl time.Duration, mgr contract.CacheManager) *schema.AggregationResult {
	if mgr == nil || ds.Digest() == "" {
		return ds.Aggregate(selected)
	}
	store := mgr.GetCacheStore()
	if store == nil {
		// Fallback to direct computation
		return ds.Aggregate(selected)
	}
	if ttl <= 0 {
		ttl = contract.DefaultCacheTTL
	}

	key := generateCacheKey(ds.Digest(), selected)

	// Check for cache hit
	if result := checkCacheHit(store, key, ttl); result != nil {
		return result
	}

	// Cache miss: compute and store
	return computeAndStore(ds, selected, store, key)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration) *schema.AggregationResult {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= ttl {
			var result schema.AggregationResult
			if err := json.Unmarshal(data, &result); err == nil {
				return &result // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// computeAndStore computes the result and stores it in cache
func computeAndStore(ds *Dataset, selected []string, store contract.CacheStore, key string) *schema.AggregationResult {
	result := ds.Aggregate(selected)

	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache aggregation", err)
		}
	}

	return result
}

// generateCacheKey creates a unique key from the workbook content and the selection
func generateCacheKey(digest string, selected []string) string {
	key := fmt.Sprintf("%d:%s:%s", currentCacheVersion, digest, strings.Join(selected, "|"))
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
