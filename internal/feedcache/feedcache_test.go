package feedcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tidewatch/internal/domain"
	"tidewatch/internal/logger"
)

func sampleFeed(url string) *domain.CachedFeed {
	return &domain.CachedFeed{
		SourceURL: url,
		Feed:      domain.FeedInfo{Title: "Containers", Link: url},
		Entries: []domain.FeedEntry{
			{Title: "Box rates climb", URL: "https://example.com/a", Summary: "Rates up."},
		},
		FetchedAt: time.Now().Unix(),
	}
}

func TestKeyIsStableAndUnnormalized(t *testing.T) {
	a := Key("https://example.com/rss?a=1&b=2")
	b := Key("https://example.com/rss?a=1&b=2")
	c := Key("https://example.com/rss?b=2&a=1")

	if a != b {
		t.Error("same URL must hash to the same key")
	}
	// Query order is deliberately significant.
	if a == c {
		t.Error("reordered query string should produce a different key")
	}
	if len(a) != 32 {
		t.Errorf("key length = %d, want 32 hex chars", len(a))
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, 5*time.Minute, logger.Nop())
	url := "https://example.com/rss/containers"

	if _, ok := store.Get(url); ok {
		t.Fatal("Get on empty store should miss")
	}
	if store.IsFresh(url) {
		t.Fatal("IsFresh on empty store should be false")
	}

	store.Put(url, sampleFeed(url))

	if !store.IsFresh(url) {
		t.Error("IsFresh must be true immediately after Put")
	}
	got, ok := store.Get(url)
	if !ok {
		t.Fatal("Get after Put should hit")
	}
	if got.Feed.Title != "Containers" || len(got.Entries) != 1 {
		t.Errorf("round-tripped feed mismatch: %+v", got)
	}
}

func TestFileStoreStaleAfterTTL(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, 300*time.Second, logger.Nop())
	url := "https://example.com/rss/containers"

	store.Put(url, sampleFeed(url))

	// Advance the store's clock past the TTL instead of sleeping.
	store.now = func() time.Time { return time.Now().Add(301 * time.Second) }

	if store.IsFresh(url) {
		t.Error("IsFresh must be false once the clock passes the TTL")
	}
	// A stale entry is still readable; staleness only affects IsFresh.
	if _, ok := store.Get(url); !ok {
		t.Error("stale entries must still be returned by Get")
	}
}

func TestFileStoreCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, 5*time.Minute, logger.Nop())
	url := "https://example.com/rss/containers"

	path := filepath.Join(dir, "feed_"+Key(url)+".json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Get(url); ok {
		t.Error("corrupt cache entry must read as a miss")
	}
}

func TestFileStoreWriteFailureSwallowed(t *testing.T) {
	// Point the store at a path that cannot be a directory.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(filepath.Join(blocker, "cache"), 5*time.Minute, logger.Nop())
	url := "https://example.com/rss/containers"

	// Must not panic or error; the failed write is logged and dropped.
	store.Put(url, sampleFeed(url))

	if _, ok := store.Get(url); ok {
		t.Error("Get should miss after a dropped write")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(300 * time.Second)
	url := "https://example.com/rss/tankers"

	store.Put(url, sampleFeed(url))

	if !store.IsFresh(url) {
		t.Error("IsFresh must be true immediately after Put")
	}
	if _, ok := store.Get(url); !ok {
		t.Error("Get after Put should hit")
	}

	store.now = func() time.Time { return time.Now().Add(301 * time.Second) }
	if store.IsFresh(url) {
		t.Error("IsFresh must be false past the TTL")
	}
}
