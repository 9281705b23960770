// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

// LRU caches loaded values and collapses concurrent loads of the same key
// into one call.
type LRU struct {
	cache *lru.Cache
	group singleflight.Group
}

// NewLRU creates a cache holding up to maxSize values.
// maxSize should be > 0, or an error returned.
func NewLRU(maxSize int) (*LRU, error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{cache: cache}, nil
}

// Get returns the cached value of key.
func (l *LRU) Get(key string) (any, bool) {
	return l.cache.Get(key)
}

// GetOrLoad first tries to get from cache, and does load if missed. Failed
// loads are not cached, and concurrent callers of a missing key share one
// load and its error.
func (l *LRU) GetOrLoad(key string, load func() (any, error)) (any, error) {
	if v, ok := l.cache.Get(key); ok {
		return v, nil
	}
	v, err, _ := l.group.Do(key, func() (any, error) {
		if v, ok := l.cache.Get(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		l.cache.Add(key, v)
		return v, nil
	})
	return v, err
}

// Len returns the number of cached values.
func (l *LRU) Len() int {
	return l.cache.Len()
}
