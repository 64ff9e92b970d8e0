// Package iocache is for caching aggregation results and recording ingestion runs.
package iocache

import (
	"sync"

	"github.com/huangsam/paysheet/internal/contract"
)

// CacheStoreManager manages the cache store and the run store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	cache        contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetCacheStore returns the aggregation CacheStore.
func (mgr *CacheStoreManager) GetCacheStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.cache
}

// GetRunStore returns the ingestion RunStore.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
