// Package session manages short-lived authenticated sessions: opaque
// URL-safe tokens mapped to encrypted credential state behind a pluggable
// storage backend.
package session

import (
	"context"
	"time"
)

// Record is what a backend persists per session. Blob is AES-GCM
// ciphertext; plaintext credential state never reaches a backend.
type Record struct {
	UserID    string `json:"user_id"`
	CreatedAt int64  `json:"created_at"` // epoch seconds
	Blob      []byte `json:"blob"`
}

// Store is the backend contract. Both implementations honor per-entry
// TTL: after expiry Get and Exists report absent even if the record has
// not been physically purged. Delete is idempotent.
type Store interface {
	Set(ctx context.Context, id string, rec Record, ttl time.Duration) error
	Get(ctx context.Context, id string) (Record, bool, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
