package cache

import (
	"sync"
)

var _ Cache = (*MapCache)(nil)

// MapCache is a map-backed Cache for tests. It ignores expiry.
type MapCache struct {
	cache map[string][]byte
	mutex sync.Mutex
}

func NewMapCache() *MapCache {
	return &MapCache{
		cache: make(map[string][]byte),
	}
}

func (mc *MapCache) Get(key []byte) ([]byte, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if val, ok := mc.cache[string(key)]; ok {
		return val, nil
	}
	return nil, ErrMiss
}

func (mc *MapCache) Set(key, value []byte, _ int) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	mc.cache[string(key)] = value
	return nil
}

func (mc *MapCache) Del(key []byte) bool {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	_, ok := mc.cache[string(key)]
	delete(mc.cache, string(key))
	return ok
}

func (mc *MapCache) Clear() {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	mc.cache = make(map[string][]byte)
}

func (mc *MapCache) Len() int {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	return len(mc.cache)
}
