package prover

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// cache is a bounded, mutex-guarded LRU of symbolic verdicts.
type cache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

func newCache(size int) *cache { return &cache{lru: lru.New(size)} }

func (c *cache) get(key string) (Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.lru.Get(key)
	if !ok {
		return Inconclusive, false
	}

	return v.(Verdict), true
}

func (c *cache) put(key string, v Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, v)
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}
