package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postline/postline/internal/cache"
)

// memStore is an in-memory Store with a controllable clock so TTL expiry
// can be tested without sleeping.
type memStore struct {
	now     time.Time
	entries map[string]memEntry
	getErr  error
	setErr  error
}

type memEntry struct {
	val       []byte
	expiresAt time.Time
}

func newMemStore() *memStore {
	return &memStore{now: time.Unix(0, 0), entries: make(map[string]memEntry)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	e, ok := s.entries[key]
	if !ok || s.now.After(e.expiresAt) {
		return nil, cache.ErrCacheMiss
	}
	return e.val, nil
}

func (s *memStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.entries[key] = memEntry{val: val, expiresAt: s.now.Add(ttl)}
	return nil
}

type fakeStrategy struct {
	calls  int
	result []string
	err    error
	params []cache.Param
}

func (s *fakeStrategy) Execute(_ context.Context) ([]string, error) {
	s.calls++
	return s.result, s.err
}

func (s *fakeStrategy) KeyParams() []cache.Param {
	return s.params
}

func TestKey_Deterministic(t *testing.T) {
	params := []cache.Param{{Name: "status", Value: "published"}}
	if cache.Key("posts", params) != cache.Key("posts", params) {
		t.Fatal("identical inputs must produce identical keys")
	}
}

func TestKey_DiscriminatesValues(t *testing.T) {
	published := cache.Key("posts", []cache.Param{{Name: "status", Value: "published"}})
	draft := cache.Key("posts", []cache.Param{{Name: "status", Value: "draft"}})
	if published == draft {
		t.Fatal("different filter values must produce different keys")
	}
}

func TestKey_NoCollisionThroughCraftedValues(t *testing.T) {
	// A value containing the delimiter characters must not produce the
	// same key as two genuinely separate params.
	crafted := cache.Key("comments", []cache.Param{{Name: "type", Value: "textual&author=1"}})
	honest := cache.Key("comments", []cache.Param{
		{Name: "type", Value: "textual"},
		{Name: "author", Value: "1"},
	})
	if crafted == honest {
		t.Fatal("crafted value collided with a distinct query")
	}

	// Prefix and first param name must not blur together either.
	a := cache.Key("posts", []cache.Param{{Name: "status", Value: "x"}})
	b := cache.Key("post", []cache.Param{{Name: "sstatus", Value: "x"}})
	if a == b {
		t.Fatal("prefix collided with param name")
	}
}

func TestGetOrCompute_MissThenHit(t *testing.T) {
	store := newMemStore()
	c := cache.New(store, 30*time.Second)
	strategy := &fakeStrategy{
		result: []string{"a", "b"},
		params: []cache.Param{{Name: "status", Value: "published"}},
	}

	first, err := cache.GetOrCompute(context.Background(), c, "posts", strategy)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := cache.GetOrCompute(context.Background(), c, "posts", strategy)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if strategy.calls != 1 {
		t.Fatalf("expected 1 strategy execution across two calls, got %d", strategy.calls)
	}
	if len(first) != 2 || len(second) != 2 || second[0] != "a" || second[1] != "b" {
		t.Fatalf("unexpected results: first=%v second=%v", first, second)
	}
}

func TestGetOrCompute_TTLExpiryRecomputes(t *testing.T) {
	store := newMemStore()
	c := cache.New(store, 30*time.Second)
	strategy := &fakeStrategy{result: []string{"a"}}

	if _, err := cache.GetOrCompute(context.Background(), c, "posts", strategy); err != nil {
		t.Fatalf("first call: %v", err)
	}

	store.now = store.now.Add(31 * time.Second)

	if _, err := cache.GetOrCompute(context.Background(), c, "posts", strategy); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if strategy.calls != 2 {
		t.Fatalf("expected recompute after TTL, got %d executions", strategy.calls)
	}
}

func TestGetOrCompute_StoreUnavailableIsDistinct(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("connection refused")
	c := cache.New(store, 30*time.Second)
	strategy := &fakeStrategy{result: []string{"a"}}

	_, err := cache.GetOrCompute(context.Background(), c, "posts", strategy)
	if !errors.Is(err, cache.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if strategy.calls != 0 {
		t.Fatal("strategy must not execute when the lookup fails")
	}
}

func TestGetOrCompute_StrategyErrorPropagates(t *testing.T) {
	store := newMemStore()
	c := cache.New(store, 30*time.Second)
	wantErr := errors.New("persistence down")
	strategy := &fakeStrategy{err: wantErr}

	_, err := cache.GetOrCompute(context.Background(), c, "posts", strategy)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected strategy error to propagate, got %v", err)
	}
}

func TestGetOrCompute_StoreWriteFailureStillReturnsResult(t *testing.T) {
	store := newMemStore()
	store.setErr = errors.New("connection refused")
	c := cache.New(store, 30*time.Second)
	strategy := &fakeStrategy{result: []string{"a"}}

	out, err := cache.GetOrCompute(context.Background(), c, "posts", strategy)
	if err != nil {
		t.Fatalf("expected fresh result despite write failure, got %v", err)
	}
	if len(out) != 1 || out[0] != "a" {
		t.Fatalf("unexpected result: %v", out)
	}
}
