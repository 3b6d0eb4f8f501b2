package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// JWKSCache keeps the signing keys published by Supabase Auth. The whole set
// is refetched when it expires or when an unknown kid is requested.
type JWKSCache struct {
	mutex       sync.RWMutex
	refreshLock sync.Mutex
	keys        map[string]jwk.Key
	expiresAt   time.Time
	jwksURL     string
	anonKey     string
	ttl         time.Duration
	httpClient  *http.Client
}

func NewJWKSCache(jwksURL, anonKey string, ttl time.Duration) *JWKSCache {
	return &JWKSCache{
		keys:       make(map[string]jwk.Key),
		jwksURL:    jwksURL,
		anonKey:    anonKey,
		ttl:        ttl,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetKey returns the key for kid, refreshing the set at most once per call.
func (c *JWKSCache) GetKey(ctx context.Context, kid string) (jwk.Key, error) {
	if key, ok := c.lookup(kid); ok {
		return key, nil
	}

	if err := c.refresh(ctx, kid); err != nil {
		return nil, fmt.Errorf("failed to refresh JWKS: %w", err)
	}

	c.mutex.RLock()
	key, found := c.keys[kid]
	c.mutex.RUnlock()
	if !found {
		return nil, fmt.Errorf("%w: kid %q", ErrJWKSKeyNotFound, kid)
	}
	return key, nil
}

func (c *JWKSCache) lookup(kid string) (jwk.Key, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	key, found := c.keys[kid]
	if !found || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return key, true
}

func (c *JWKSCache) refresh(ctx context.Context, kid string) error {
	c.refreshLock.Lock()
	defer c.refreshLock.Unlock()

	// Another caller may have refreshed while we waited.
	if _, ok := c.lookup(kid); ok {
		return nil
	}

	log := logger.GetLogger()
	log.Infow("Refreshing JWKS cache", "url", c.jwksURL, "kid", kid)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jwksURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	set, err := jwk.Parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse JWKS: %w", err)
	}

	keys := make(map[string]jwk.Key, set.Len())
	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok || key.KeyID() == "" {
			continue
		}
		keys[key.KeyID()] = key
	}

	c.mutex.Lock()
	c.keys = keys
	c.expiresAt = time.Now().Add(c.ttl)
	c.mutex.Unlock()

	log.Infow("JWKS cache refreshed", "keys", len(keys))
	return nil
}
