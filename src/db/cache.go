package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Derived aggregates (health metrics, debt analysis, deduped categories) are
// cached here and only here; storage rows stay the source of truth. Keys are
// tracked per group so a write can clear everything it invalidates.
var (
	Cache            *ristretto.Cache
	FinanceCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	CategoryCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	BankCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

// Finance Cache Functions
func SetFinanceCache(cacheKey string, value interface{}) {
	FinanceCacheKeys.Lock()
	FinanceCacheKeys.m[cacheKey] = struct{}{}
	FinanceCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func DelFinanceCache(cacheKey string) {
	FinanceCacheKeys.Lock()
	delete(FinanceCacheKeys.m, cacheKey)
	FinanceCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

func ClearAllFinanceCaches() {
	FinanceCacheKeys.Lock()
	for key := range FinanceCacheKeys.m {
		Cache.Del(key)
	}
	FinanceCacheKeys.m = make(map[string]struct{})
	FinanceCacheKeys.Unlock()
}

// Category Cache Functions
func SetCategoryCache(cacheKey string, value interface{}) {
	CategoryCacheKeys.Lock()
	CategoryCacheKeys.m[cacheKey] = struct{}{}
	CategoryCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func ClearAllCategoryCaches() {
	CategoryCacheKeys.Lock()
	for key := range CategoryCacheKeys.m {
		Cache.Del(key)
	}
	CategoryCacheKeys.m = make(map[string]struct{})
	CategoryCacheKeys.Unlock()
}

// Bank Cache Functions
func SetBankCache(cacheKey string, value interface{}) {
	BankCacheKeys.Lock()
	BankCacheKeys.m[cacheKey] = struct{}{}
	BankCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func ClearAllBankCaches() {
	BankCacheKeys.Lock()
	for key := range BankCacheKeys.m {
		Cache.Del(key)
	}
	BankCacheKeys.m = make(map[string]struct{})
	BankCacheKeys.Unlock()
}
