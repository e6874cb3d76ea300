// Package feedcache stores parsed feed snapshots keyed by source URL with
// TTL-based freshness. The cache is advisory: writes are best effort and
// corrupt entries read as misses, so it can never fail a request.
package feedcache

import (
	"crypto/md5"
	"encoding/hex"

	"tidewatch/internal/domain"
)

// Store is the cache contract. Get reports a miss for absent, stale, or
// unreadable entries depending on the caller's use of IsFresh; Put
// replaces the snapshot wholesale.
type Store interface {
	Get(url string) (*domain.CachedFeed, bool)
	Put(url string, feed *domain.CachedFeed)
	IsFresh(url string) bool
}

// Key derives the cache key from a feed source URL. The URL is hashed
// as-is, without normalization: two URLs that differ only cosmetically
// (query order, case) produce separate entries. Documented behavior.
func Key(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
