// Package cache implements a read-through cache over a pluggable key-value
// store. On a miss the supplied query strategy is executed and its result
// stored under a deterministic key with a fixed TTL. Entries are never
// invalidated on writes; readers tolerate staleness up to one TTL window.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrCacheMiss is returned by a Store when the key is absent.
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrStoreUnavailable signals that the backing store could not be
	// reached. It is deliberately distinct from a miss so callers can fall
	// back to computing the result directly instead of failing the read.
	ErrStoreUnavailable = errors.New("cache: store unavailable")
)

// DefaultTTL is the entry lifetime used when none is configured.
const DefaultTTL = 30 * time.Second

// Store is the backing key-value port. Get returns ErrCacheMiss when the
// key is absent and any other error when the store is unreachable.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Param is one named filter value contributing to the cache key.
type Param struct {
	Name  string
	Value string
}

// Strategy encapsulates "what to fetch" on a cache miss. Implementations
// live in internal/query; each instance is constructed per request and
// executed at most once.
type Strategy[T any] interface {
	// Execute performs a single round trip to the persistence layer.
	Execute(ctx context.Context) ([]T, error)

	// KeyParams returns the ordered filter values identifying the query.
	KeyParams() []Param
}

// Key builds the deterministic cache key for a prefix and its ordered
// params. Values are escaped and delimited so that distinct queries cannot
// collide through crafted values.
func Key(prefix string, params []Param) string {
	var b strings.Builder
	b.WriteString(prefix)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Client is the read-through cache handle. It is constructed once at
// startup and shared by all requests; the store's own single-key atomicity
// is the only synchronization, so two concurrent misses on the same key may
// both execute the strategy and both write (last write wins).
type Client struct {
	store Store
	ttl   time.Duration
}

// New creates a Client. A non-positive ttl falls back to DefaultTTL.
func New(store Store, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{store: store, ttl: ttl}
}

// TTL returns the configured entry lifetime.
func (c *Client) TTL() time.Duration {
	return c.ttl
}

// GetOrCompute returns the cached result for the strategy's key, or executes
// the strategy, stores its result, and returns it. Per call there is at most
// one store lookup and at most one strategy execution. A store lookup
// failure is surfaced as ErrStoreUnavailable without executing the strategy;
// a store write failure after a successful computation is logged and the
// fresh result is still returned. Strategy errors propagate unchanged.
func GetOrCompute[T any](ctx context.Context, c *Client, prefix string, s Strategy[T]) ([]T, error) {
	key := Key(prefix, s.KeyParams())

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var out []T
		if uerr := json.Unmarshal(raw, &out); uerr == nil {
			return out, nil
		}
		// Undecodable entry: treat as a miss and recompute.
		log.Warn().Str("key", key).Msg("cache entry undecodable, recomputing")
	case errors.Is(err, ErrCacheMiss):
		// fall through to compute
	default:
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	out, err := s.Execute(ctx)
	if err != nil {
		return nil, err
	}

	if raw, merr := json.Marshal(out); merr == nil {
		if serr := c.store.Set(ctx, key, raw, c.ttl); serr != nil {
			log.Warn().Err(serr).Str("key", key).Msg("cache store write failed")
		}
	}
	return out, nil
}
