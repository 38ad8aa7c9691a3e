// Package kv provides the small key-value abstraction the client cache
// persists through. A Store holds raw bytes; JSON wraps a Store with typed
// encode/decode. The file-backed store is the default so cached profiles
// survive between CLI invocations.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is a minimal byte-oriented key-value store. Get returns nil with a
// nil error when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// JSON wraps a Store and transparently JSON-encodes/decodes values of type T.
//
//	store := kv.NewMemory()
//	profiles := kv.NewJSON[[]api.Profile](store)
//	_ = profiles.Set(ctx, "profiles_cache", list)
//	curr, _ := profiles.Get(ctx, "profiles_cache")
type JSON[T any] struct {
	Store
}

// NewJSON constructs a JSON wrapper on top of an existing Store.
func NewJSON[T any](store Store) JSON[T] {
	return JSON[T]{Store: store}
}

// Get decodes the value under key into T. A missing key yields (nil, nil).
func (j JSON[T]) Get(ctx context.Context, key string) (*T, error) {
	raw, err := j.Store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("kv: decode %q: %w", key, err)
	}
	return &v, nil
}

// Set encodes value and stores it under key.
func (j JSON[T]) Set(ctx context.Context, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv: encode %q: %w", key, err)
	}
	return j.Store.Set(ctx, key, raw)
}
