// Package store provides the opaque key-value persistence abstraction
// used by the analytics engines. Values are versionless JSON blobs under
// namespaced string keys.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("store: key not found")

// Store is a minimal key-value store. Implementations must be safe for
// concurrent readers; callers serialize writers per logical sync
// operation.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound when the
	// key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under a key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// GetJSON loads and unmarshals a stored JSON value into v. A missing key
// reports found=false. An unparseable value is treated the same as an
// absent one so a single corrupt entry never poisons a whole engine.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, data)
}
