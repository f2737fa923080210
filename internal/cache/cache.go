// Package cache stores normalized catalog snapshots. A snapshot is a
// whole JSON document replaced wholesale on every refresh; there is no
// incremental patching, so readers can never observe a half-updated
// record.
package cache

import (
	"context"
	"time"
)

// Keys for the two logical snapshot slots.
const (
	KeyProducts = "catalog:products"
	KeySettings = "catalog:settings"
)

// Store holds TTL-bound snapshot payloads. A miss and an expired entry
// are indistinguishable to callers.
type Store interface {
	// Get returns the payload for key and whether it was present and
	// still fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the payload for key, valid for ttl.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes the payload for key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
