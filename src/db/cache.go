package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// The matcher reads the full keyword and merchant-pattern sets on every
// import review, so those reads are cached per household. Cache keys are
// tracked in concurrent sets so all entries of one type can be cleared
// when the underlying table changes.
var (
	Cache            *ristretto.Cache
	KeywordCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	PatternCacheKeys = struct {
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

// Keyword Cache Functions
func SetKeywordCache(cacheKey string, value interface{}) {
	KeywordCacheKeys.Lock()
	KeywordCacheKeys.m[cacheKey] = struct{}{}
	KeywordCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func ClearAllKeywordCaches() {
	KeywordCacheKeys.Lock()
	for key := range KeywordCacheKeys.m {
		Cache.Del(key)
	}
	KeywordCacheKeys.m = make(map[string]struct{})
	KeywordCacheKeys.Unlock()
}

// Merchant Pattern Cache Functions
func SetPatternCache(cacheKey string, value interface{}) {
	PatternCacheKeys.Lock()
	PatternCacheKeys.m[cacheKey] = struct{}{}
	PatternCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func ClearAllPatternCaches() {
	PatternCacheKeys.Lock()
	for key := range PatternCacheKeys.m {
		Cache.Del(key)
	}
	PatternCacheKeys.m = make(map[string]struct{})
	PatternCacheKeys.Unlock()
}
