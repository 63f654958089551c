package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bethropolis/modstudio/internal/logger"
)

const (
	DefaultCacheExpiration      = 10 * time.Minute
	DefaultCacheCleanupInterval = 30 * time.Minute
)

// Cache memoises projected snippets by language and text. Projected nodes are
// immutable, so a cached Result can be handed to several snapshots.
type Cache struct {
	cache *gocache.Cache
}

// NewCache creates a cache. Non-positive durations select the defaults.
func NewCache(expiration, cleanupInterval time.Duration) *Cache {
	if expiration <= 0 {
		expiration = DefaultCacheExpiration
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCacheCleanupInterval
	}
	return &Cache{cache: gocache.New(expiration, cleanupInterval)}
}

func cacheKey(language, text string) string {
	sum := sha256.Sum256([]byte(text))
	return language + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached result for text, if present.
func (c *Cache) Get(language, text string) (Result, bool) {
	value, found := c.cache.Get(cacheKey(language, text))
	if !found {
		return Result{}, false
	}
	res, ok := value.(Result)
	if !ok {
		logger.ErrorTagf("parser", "Cache: wrong type %T for %s snippet", value, language)
		return Result{}, false
	}
	logger.DebugTagf("parser", "Cache: hit for %s snippet (%d bytes)", language, len(text))
	return res, true
}

// Set stores a result with the default expiration.
func (c *Cache) Set(language, text string, res Result) {
	c.cache.SetDefault(cacheKey(language, text), res)
}

// Len returns the number of cached entries, expired ones included.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.cache.Flush()
}
