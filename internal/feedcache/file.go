package feedcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"tidewatch/internal/domain"
	"tidewatch/internal/logger"
)

// FileStore persists one JSON snapshot per feed under dir, using the
// file's mtime as the freshness clock.
type FileStore struct {
	dir    string
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time
}

// NewFileStore creates the cache directory if needed. A directory that
// cannot be created is not fatal; subsequent writes will log and be
// dropped, reads will miss.
func NewFileStore(dir string, ttl time.Duration, log logger.Logger) *FileStore {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("failed to create feed cache dir, cache disabled",
			logger.String("dir", dir),
			logger.Error(err))
	}
	return &FileStore{
		dir:    dir,
		ttl:    ttl,
		logger: log,
		now:    time.Now,
	}
}

func (s *FileStore) path(url string) string {
	return filepath.Join(s.dir, "feed_"+Key(url)+".json")
}

// Get loads the cached snapshot for url. Any read or decode failure is a
// miss, never an error.
func (s *FileStore) Get(url string) (*domain.CachedFeed, bool) {
	data, err := os.ReadFile(s.path(url))
	if err != nil {
		return nil, false
	}

	var feed domain.CachedFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		s.logger.Warn("corrupt feed cache entry, treating as miss",
			logger.String("url", url),
			logger.Error(err))
		return nil, false
	}
	return &feed, true
}

// Put writes the snapshot. Failures are logged and swallowed: the cache
// is not an authority and must never fail a fetch.
func (s *FileStore) Put(url string, feed *domain.CachedFeed) {
	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		s.logger.Warn("failed to encode feed for cache",
			logger.String("url", url),
			logger.Error(err))
		return
	}
	if err := os.WriteFile(s.path(url), data, 0o644); err != nil {
		s.logger.Warn("feed cache write failed",
			logger.String("url", url),
			logger.Error(err))
	}
}

// IsFresh reports whether a cached snapshot exists and its mtime is
// within the TTL window.
func (s *FileStore) IsFresh(url string) bool {
	info, err := os.Stat(s.path(url))
	if err != nil {
		return false
	}
	return s.now().Sub(info.ModTime()) < s.ttl
}
