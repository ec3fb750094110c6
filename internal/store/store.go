package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrVersionConflict is returned by Put when the key was modified
	// since the version the caller read.
	ErrVersionConflict = errors.New("store: version conflict")
)

// Store is the key-value persistence port. Values are opaque JSON blobs;
// every key carries a version counter used for compare-and-swap writes.
// A missing key reads as ok=false with version 0, and a Put with
// expectedVersion 0 creates the key.
type Store interface {
	Get(ctx context.Context, key string) (data []byte, version int64, ok bool, err error)
	Put(ctx context.Context, key string, data []byte, expectedVersion int64) error
	Ping(ctx context.Context) error
}

// GetJSON reads key and unmarshals it into T. The zero value of T is
// returned when the key does not exist.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, int64, bool, error) {
	var v T
	data, version, ok, err := s.Get(ctx, key)
	if err != nil {
		return v, 0, false, err
	}
	if !ok {
		return v, 0, false, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, 0, false, fmt.Errorf("store: decode %q: %w", key, err)
	}
	return v, version, true, nil
}

// PutJSON marshals v and writes it under key with a compare-and-swap on
// expectedVersion.
func PutJSON(ctx context.Context, s Store, key string, v any, expectedVersion int64) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", key, err)
	}
	return s.Put(ctx, key, data, expectedVersion)
}
