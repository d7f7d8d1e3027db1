package cache

import (
	"errors"
)

var ErrMiss = errors.New("cache miss")

// Cache stores byte values with a per-entry expiry in seconds. Zero means the
// entry does not expire.
type Cache interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte, expireSeconds int) error
	Del(key []byte) bool
	Clear()
}
