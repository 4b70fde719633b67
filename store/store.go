// Package store provides durable key-value persistence for the asset and
// project collections, with an enforced storage quota so a full store fails
// with a distinguishable error rather than silently dropping data.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Fixed keys for the two persisted collections.
const (
	KeyAssets   = "spriteForgeUnifiedAssets"
	KeyProjects = "spriteForgeProjects"
)

var (
	// ErrCapacityExceeded reports a write rejected because it would take the
	// store over its quota. Callers distinguish it from ordinary write
	// failures to drive the storage-full flag.
	ErrCapacityExceeded = errors.New("storage capacity exceeded")

	// ErrNotFound reports a key that has never been written.
	ErrNotFound = errors.New("key not found")
)

// WriteError wraps any non-capacity write failure.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %q: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Store persists raw JSON payloads under fixed keys.
type Store interface {
	// Load returns the payload stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save replaces the payload under key. Returns ErrCapacityExceeded when
	// the write would exceed the quota, or a *WriteError otherwise.
	Save(ctx context.Context, key string, payload []byte) error
	Close() error
}
