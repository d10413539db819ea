// Package cache memoizes check outcomes across runs so repeated invocations
// do not re-check the same package within its cooldown window.
//
// TTL semantics live in this package: the validity deadline is embedded in
// the stored value, and an expired entry is deleted the first time it is
// touched. The underlying key-value storage is pluggable via Store.
package cache

import (
	"encoding/json"
	"time"

	"github.com/pkgscout/pkgscout/internal/core"
)

// DefaultTTL is the validity window applied when Set is called with a zero
// TTL.
const DefaultTTL = 24 * time.Hour

// Store is the key-value capability the cache is layered on. Implementations
// must make Set atomic per key; cross-key transactions are not required.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Entry is the stored form of a cached outcome. Entries are replaced
// wholesale on write, never mutated in place.
type Entry struct {
	Outcome    core.Outcome `json:"outcome"`
	ValidUntil time.Time    `json:"valid_until"`
}

// Cache layers TTL semantics over a Store.
type Cache struct {
	store Store
	now   func() time.Time
}

// New creates a cache over store.
func New(store Store) *Cache {
	return &Cache{store: store, now: time.Now}
}

// Get returns the cached outcome for key. An entry past its validity
// deadline is deleted and reported as a miss, as is an entry that fails to
// decode.
func (c *Cache) Get(key string) (core.Outcome, bool) {
	raw, ok, err := c.store.Get(key)
	if err != nil || !ok {
		return core.Outcome{}, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = c.store.Delete(key)
		return core.Outcome{}, false
	}

	if !c.now().Before(entry.ValidUntil) {
		_ = c.store.Delete(key)
		return core.Outcome{}, false
	}
	return entry.Outcome, true
}

// Set stores outcome under key, overwriting any prior entry. A zero ttl uses
// DefaultTTL.
func (c *Cache) Set(key string, outcome core.Outcome, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	entry := Entry{Outcome: outcome, ValidUntil: c.now().Add(ttl)}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = c.store.Set(key, raw)
}

// Delete removes the entry for key, if any.
func (c *Cache) Delete(key string) {
	_ = c.store.Delete(key)
}
