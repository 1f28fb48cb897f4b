// Package cache memoizes expensive results with a time-to-live, backed by a
// pluggable store.
package cache

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned by stores for absent keys.
	ErrNotFound = errors.New("cache entry not found")

	// ErrCacheIO is matched by every IOError.
	ErrCacheIO = errors.New("cache i/o failure")
)

// IOError wraps a storage failure. Callers treat it as a miss.
type IOError struct {
	Op  string // read, write, decode, clear
	Key string
	Err error
}

func (e *IOError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCacheIO) true.
func (e *IOError) Is(target error) bool {
	return target == ErrCacheIO
}

// Entry is one stored result.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Value     []byte    `json:"value"`
}

// Store persists entries grouped by namespace (the wrapped operation's name).
// Implementations must be safe for concurrent use; the last writer of a key
// wins.
type Store interface {
	Get(namespace, key string) (Entry, error)
	Put(namespace, key string, e Entry) error
	Clear() error
}
