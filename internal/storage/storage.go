// Package storage defines the key-value contract the settings store persists
// through. Backends live in subpackages.
package storage

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("storage closed")

// KV stores opaque string values under string keys. Get reports a missing key
// with ok=false and a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
	Close() error
}
