/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package cache provides a generic in-memory cache with TTL-based expiry.
package cache

import (
	"sync"
	"time"

	"github.com/asgardeo/gate/internal/system/config"
	"github.com/asgardeo/gate/internal/system/log"
)

const (
	defaultCacheSize = 1000
	defaultCacheTTL  = 300 * time.Second
)

// CacheKey represents a key for cache entries.
type CacheKey struct {
	Key string
}

// ToString returns the string representation of the cache key.
func (key CacheKey) ToString() string {
	return key.Key
}

// CacheInterface defines the common interface for cache operations.
type CacheInterface[T any] interface {
	GetName() string
	Set(key CacheKey, value T) error
	Get(key CacheKey) (T, bool)
	Delete(key CacheKey) error
	Clear() error
	IsEnabled() bool
	CleanupExpired()
}

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// Cache implements the CacheInterface backed by an in-memory map.
type Cache[T any] struct {
	enabled   bool
	cacheName string
	size      int
	ttl       time.Duration
	entries   map[string]cacheEntry[T]
	mu        sync.RWMutex
}

// NewCache creates a new cache instance for the given cache name using the
// cache configuration of the runtime. A disabled cache is returned as a no-op.
func NewCache[T any](cacheName string) CacheInterface[T] {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Cache"),
		log.String("cacheName", cacheName))

	cacheConfig := config.GetGateRuntime().Config.Cache
	if cacheConfig.Disabled {
		logger.Debug("Caching is disabled, returning no-op cache")
		return &Cache[T]{enabled: false, cacheName: cacheName}
	}

	property := getCacheProperty(cacheConfig, cacheName)
	if property.Disabled {
		logger.Debug("Individual cache is disabled, returning no-op cache")
		return &Cache[T]{enabled: false, cacheName: cacheName}
	}

	size := property.Size
	if size <= 0 {
		size = cacheConfig.Size
	}
	if size <= 0 {
		size = defaultCacheSize
	}

	ttl := time.Duration(property.TTL) * time.Second
	if ttl <= 0 {
		ttl = time.Duration(cacheConfig.TTL) * time.Second
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	instance := &Cache[T]{
		enabled:   true,
		cacheName: cacheName,
		size:      size,
		ttl:       ttl,
		entries:   make(map[string]cacheEntry[T]),
	}
	GetCacheManager().register(instance)

	return instance
}

// GetName returns the name of the cache.
func (c *Cache[T]) GetName() string {
	return c.cacheName
}

// Set adds or updates a cache entry.
func (c *Cache[T]) Set(key CacheKey, value T) error {
	if !c.enabled {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict an arbitrary entry when the cache is full.
	if len(c.entries) >= c.size {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}

	c.entries[key.ToString()] = cacheEntry[T]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Get retrieves a cache entry. The second return value reports whether a
// non-expired entry was found.
func (c *Cache[T]) Get(key CacheKey) (T, bool) {
	var zero T
	if !c.enabled {
		return zero, false
	}

	c.mu.RLock()
	entry, found := c.entries[key.ToString()]
	c.mu.RUnlock()

	if !found {
		return zero, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key.ToString())
		c.mu.Unlock()
		return zero, false
	}
	return entry.value, true
}

// Delete removes a cache entry.
func (c *Cache[T]) Delete(key CacheKey) error {
	if !c.enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key.ToString())
	return nil
}

// Clear removes all entries from the cache.
func (c *Cache[T]) Clear() error {
	if !c.enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[T])
	return nil
}

// IsEnabled reports whether the cache is enabled.
func (c *Cache[T]) IsEnabled() bool {
	return c.enabled
}

// CleanupExpired removes all expired entries from the cache.
func (c *Cache[T]) CleanupExpired() {
	if !c.enabled {
		return
	}
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// getCacheProperty retrieves the cache property for the specified cache name.
func getCacheProperty(cacheConfig config.CacheConfig, cacheName string) config.CacheProperty {
	for _, property := range cacheConfig.Properties {
		if property.Name == cacheName {
			return property
		}
	}
	return config.CacheProperty{}
}
