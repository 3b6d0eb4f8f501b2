// Package handoff is a short-lived keyed cache used to pass trip and
// planning state between requests without a store round trip. Entries are
// not durable.
package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformed is returned by GetJSON when an entry exists but does not
// decode into the requested type.
var ErrMalformed = errors.New("handoff entry is malformed")

// Store is a get/set/delete cache keyed by string. Get reports found=false
// for absent or expired keys. SetIfAbsent stores value only when key is
// absent and reports whether it did; it is atomic across every process
// sharing the store.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// GetJSON loads key and decodes it into a new T.
func GetJSON[T any](ctx context.Context, s Store, key string) (*T, bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return &v, true, nil
}

// SetJSON encodes v and stores it under key, replacing any earlier entry.
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode handoff entry %s: %w", key, err)
	}
	return s.Set(ctx, key, raw, ttl)
}
