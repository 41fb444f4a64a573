// Package identity is the client for the external identity service, which
// owns accounts, password hashing, and token issuance. This service only
// asks it one question: which user does this bearer token belong to.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/postline/postline/internal/domain"
)

// ErrUnauthorized signals an invalid, expired, or unknown bearer token.
var ErrUnauthorized = errors.New("identity: invalid or expired token")

// Resolver resolves bearer tokens against the identity service's userinfo
// endpoint, with a small in-memory cache to avoid a round trip per request.
type Resolver struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	cacheTTL  time.Duration
	cacheData map[string]cacheEntry // key: full bearer token
}

type cacheEntry struct {
	user      domain.User
	expiresAt time.Time
}

// New creates a Resolver with a 30-second cache TTL.
func New(baseURL string) *Resolver {
	return &Resolver{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cacheTTL:   30 * time.Second,
		cacheData:  make(map[string]cacheEntry),
	}
}

// Resolve maps a bearer token to the user it belongs to. Signature
// verification happens at the identity service; the local parse only
// rejects malformed or already-expired tokens before spending a round trip.
// The cache is keyed on the full token, never on claims: claims are
// untrusted until the identity service has accepted this exact token.
func (r *Resolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrUnauthorized
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		return nil, ErrUnauthorized
	}

	if u, ok := r.fromCache(token); ok {
		return &u, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/users/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity userinfo: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("identity userinfo: status %d", resp.StatusCode)
	}

	var u domain.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	r.toCache(token, u)
	return &u, nil
}

func (r *Resolver) fromCache(key string) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cacheData[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return domain.User{}, false
	}
	return entry.user, true
}

func (r *Resolver) toCache(key string, u domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cacheData[key] = cacheEntry{user: u, expiresAt: time.Now().Add(r.cacheTTL)}
}
