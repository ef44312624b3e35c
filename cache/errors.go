package cache

import (
	"errors"
	"fmt"
)

var ErrNotInitialized = errors.New("cover cache not initialized")

// CacheError provides detailed error information for cache operations
type CacheError struct {
	Op  string // "init", "save", "delete", "validate"
	Key string
	Err error
}

func (e *CacheError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cache %s [%s]: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

func newCacheError(op, key string, err error) *CacheError {
	return &CacheError{Op: op, Key: key, Err: err}
}
