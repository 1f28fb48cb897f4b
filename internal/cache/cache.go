package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-sky/internal/logging"
)

const (
	// PositionTTL applies to body position results.
	PositionTTL = 300 * time.Second

	// UtilityTTL applies to slower-changing results such as moon phase and
	// twilight times.
	UtilityTTL = 3600 * time.Second
)

// Result labels passed to a Recorder.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Recorder receives one call per cache lookup.
type Recorder interface {
	CacheResult(namespace, result string)
}

// Cache memoizes results in a Store. A nil *Cache disables caching.
type Cache struct {
	store    Store
	now      func() time.Time
	logger   *logging.Logger
	recorder Recorder
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source used for timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger for hit/miss and storage failures.
func WithLogger(l *logging.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Cache) { c.recorder = r }
}

// New creates a cache over store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clear drops every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	return c.store.Clear()
}

func (c *Cache) record(namespace, result string) {
	if c.recorder != nil {
		c.recorder.CacheResult(namespace, result)
	}
}

// lookup returns the stored payload when it is fresh.
func (c *Cache) lookup(namespace, key string, ttl time.Duration) ([]byte, bool) {
	e, err := c.store.Get(namespace, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, false
	case err != nil:
		c.logger.Warn("cache read failed for %s: %v", namespace, err)
		c.record(namespace, ResultError)
		return nil, false
	}
	if c.now().Sub(e.Timestamp) > ttl {
		return nil, false
	}
	return e.Value, true
}

func (c *Cache) save(namespace, key string, payload []byte) {
	err := c.store.Put(namespace, key, Entry{Timestamp: c.now(), Value: payload})
	if err != nil {
		c.logger.Warn("cache write failed for %s: %v", namespace, err)
		c.record(namespace, ResultError)
	}
}

// Wrap returns fn memoized under name. keyFn renders the argument in a
// stable form (see Canonical). A hit is an entry no older than ttl; a miss
// calls fn and overwrites the entry. Errors from fn are returned and not
// stored; storage failures are logged and fall back to calling fn.
func Wrap[A, R any](c *Cache, name string, ttl time.Duration, keyFn func(A) string, fn func(A) (R, error)) func(A) (R, error) {
	if c == nil {
		return fn
	}
	return func(arg A) (R, error) {
		key := Key(name, keyFn(arg))

		if payload, ok := c.lookup(name, key, ttl); ok {
			var r R
			err := json.Unmarshal(payload, &r)
			if err == nil {
				c.logger.Debug("cache hit %s", name)
				c.record(name, ResultHit)
				return r, nil
			}
			c.logger.Warn("cache entry for %s undecodable: %v", name, err)
		}

		c.logger.Debug("cache miss %s", name)
		c.record(name, ResultMiss)

		r, err := fn(arg)
		if err != nil {
			return r, err
		}
		payload, err := json.Marshal(r)
		if err != nil {
			c.logger.Warn("cache encode failed for %s: %v", name, err)
			return r, nil
		}
		c.save(name, key, payload)
		return r, nil
	}
}

// Key hashes a function name and its canonical arguments.
func Key(name, canonical string) string {
	sum := sha256.Sum256([]byte(name + canonical))
	return hex.EncodeToString(sum[:])
}

// Canonical renders arguments in a stable textual form. Times are
// normalised to UTC and floats use the shortest exact representation, so
// equal inputs always produce equal keys.
func Canonical(parts ...any) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('|')
		}
		switch v := p.(type) {
		case nil:
			b.WriteString("null")
		case string:
			b.WriteString(strconv.Quote(v))
		case bool:
			b.WriteString(strconv.FormatBool(v))
		case int:
			b.WriteString(strconv.Itoa(v))
		case int64:
			b.WriteString(strconv.FormatInt(v, 10))
		case float64:
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		case time.Time:
			b.WriteString(v.UTC().Format(time.RFC3339Nano))
		case time.Duration:
			b.WriteString(v.String())
		case fmt.Stringer:
			b.WriteString(strconv.Quote(v.String()))
		default:
			data, err := json.Marshal(v)
			if err != nil {
				fmt.Fprintf(&b, "%#v", v)
				continue
			}
			b.Write(data)
		}
	}
	return b.String()
}
