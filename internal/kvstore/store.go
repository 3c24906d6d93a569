// Package kvstore is a byte-oriented key-value store for transient session state.
package kvstore

import (
	"context"
	"time"
)

// Store reads and writes opaque values by key. Get returns domain.ErrNotFound for missing
// or expired keys; Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	// KeyCart holds the cart lines of a session: cart:{session_id}
	KeyCart = "cart:%s"
	// KeyDiscount holds the discount context of a session: cart_discount:{session_id}
	KeyDiscount = "cart_discount:%s"
)

// DefaultTTL bounds how long an abandoned session keeps its cart.
var DefaultTTL = 72 * time.Hour
