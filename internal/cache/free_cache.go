package cache

import (
	"errors"
	"fmt"

	"github.com/coocood/freecache"
)

const megabyte = 1024 * 1024

// MinSizeMB is the smallest cache freecache accepts without resizing.
const MinSizeMB = 1

var _ Cache = (*FreeCache)(nil)

type FreeCache struct {
	fc *freecache.Cache
}

func NewFreeCache(sizeMB int) *FreeCache {
	if sizeMB < MinSizeMB {
		sizeMB = MinSizeMB
	}
	return &FreeCache{
		fc: freecache.NewCache(sizeMB * megabyte),
	}
}

func (c *FreeCache) Get(key []byte) ([]byte, error) {
	v, err := c.fc.Get(key)
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("freecache get: %w", err)
	}
	return v, nil
}

func (c *FreeCache) Set(key, value []byte, expireSeconds int) error {
	return c.fc.Set(key, value, expireSeconds)
}

func (c *FreeCache) Del(key []byte) bool {
	return c.fc.Del(key)
}

func (c *FreeCache) Clear() {
	c.fc.Clear()
}

// HitRate is the share of lookups served from the cache.
func (c *FreeCache) HitRate() float64 {
	return c.fc.HitRate()
}

func (c *FreeCache) EntryCount() int64 {
	return c.fc.EntryCount()
}
