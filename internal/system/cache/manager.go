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

package cache

import (
	"sync"
	"time"

	"github.com/asgardeo/gate/internal/system/config"
	"github.com/asgardeo/gate/internal/system/log"
)

const defaultCleanupInterval = 300 * time.Second

// cleanable is the slice of a cache the manager needs for periodic cleanup.
type cleanable interface {
	GetName() string
	CleanupExpired()
}

// CacheManagerInterface defines the centralized cache cleanup manager.
type CacheManagerInterface interface {
	Init()
	register(cache cleanable)
}

// CacheManager runs periodic cleanup over every cache created in the process.
type CacheManager struct {
	caches   []cleanable
	mu       sync.Mutex
	initOnce sync.Once
}

var (
	managerInstance *CacheManager
	managerOnce     sync.Once
)

// GetCacheManager returns the singleton cache manager instance.
func GetCacheManager() CacheManagerInterface {
	managerOnce.Do(func() {
		managerInstance = &CacheManager{}
	})
	return managerInstance
}

// Init starts the background cleanup loop. Subsequent calls are no-ops.
func (cm *CacheManager) Init() {
	cm.initOnce.Do(func() {
		interval := defaultCleanupInterval
		cacheConfig := config.GetGateRuntime().Config.Cache
		if cacheConfig.CleanupInterval > 0 {
			interval = time.Duration(cacheConfig.CleanupInterval) * time.Second
		}

		go cm.cleanupLoop(interval)
	})
}

// register adds a cache to the cleanup cycle.
func (cm *CacheManager) register(cache cleanable) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.caches = append(cm.caches, cache)
}

func (cm *CacheManager) cleanupLoop(interval time.Duration) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "CacheManager"))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		cm.mu.Lock()
		caches := make([]cleanable, len(cm.caches))
		copy(caches, cm.caches)
		cm.mu.Unlock()

		for _, c := range caches {
			c.CleanupExpired()
		}
		logger.Debug("Completed cache cleanup cycle", log.Int("cacheCount", len(caches)))
	}
}
