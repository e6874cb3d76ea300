// Package feed resolves catalog entries to source feeds, fetches them
// cache-or-network, and serves search and latest-article queries over the
// normalized results.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"tidewatch/internal/catalog"
	"tidewatch/internal/domain"
	"tidewatch/internal/feedcache"
	"tidewatch/internal/logger"
	"tidewatch/internal/utils"
)

// Fetcher coordinates the catalog, the cache store, and the upstream
// feed sources. One instance is shared per process.
type Fetcher struct {
	catalog *catalog.Catalog
	cache   feedcache.Store
	client  *http.Client
	parser  *gofeed.Parser
	logger  logger.Logger
}

func NewFetcher(cat *catalog.Catalog, cache feedcache.Store, client *http.Client, log logger.Logger) *Fetcher {
	return &Fetcher{
		catalog: cat,
		cache:   cache,
		client:  client,
		parser:  gofeed.NewParser(),
		logger:  log,
	}
}

// Fetch resolves (category, name) through the catalog and returns the
// feed snapshot, from cache when fresh and useCache is set, otherwise
// from the network with a write-through to the cache.
func (f *Fetcher) Fetch(ctx context.Context, category, name string, useCache bool) (*domain.CachedFeed, error) {
	url, err := f.catalog.Lookup(category, name)
	if err != nil {
		return nil, err
	}
	return f.fetchURL(ctx, url, useCache)
}

func (f *Fetcher) fetchURL(ctx context.Context, url string, useCache bool) (*domain.CachedFeed, error) {
	if useCache && f.cache.IsFresh(url) {
		if cached, ok := f.cache.Get(url); ok {
			f.logger.Debug("using cached feed", logger.String("url", url))
			return cached, nil
		}
	}

	feed, err := f.fetchUpstream(ctx, url)
	if err != nil {
		// A stale snapshot beats a hard failure.
		if cached, ok := f.cache.Get(url); ok {
			f.logger.Warn("upstream fetch failed, serving stale cache",
				logger.String("url", url),
				logger.Error(err))
			return cached, nil
		}
		return nil, err
	}

	f.cache.Put(url, feed)
	f.logger.Info("fetched feed",
		logger.String("url", url),
		logger.Int("entries", len(feed.Entries)))
	return feed, nil
}

func (f *Fetcher) fetchUpstream(ctx context.Context, url string) (*domain.CachedFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", domain.ErrUpstream, url, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrUpstream, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrUpstream, url, err)
	}

	parsed, err := f.parser.ParseString(string(body))
	if err != nil {
		// Partial malformation is tolerated; only a totally unusable
		// document fails the fetch.
		if parsed == nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrUpstream, url, err)
		}
		f.logger.Warn("malformed feed, keeping recovered entries",
			logger.String("url", url),
			logger.Error(err))
	}

	entries := make([]domain.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, normalizeEntry(item, parsed.Link))
	}

	return &domain.CachedFeed{
		SourceURL: url,
		Feed: domain.FeedInfo{
			Title:       parsed.Title,
			Link:        parsed.Link,
			Description: parsed.Description,
			Updated:     parsed.Updated,
		},
		Entries:   entries,
		FetchedAt: time.Now().Unix(),
	}, nil
}

// FetchAll fans out one fetch per catalog entry concurrently and joins
// on all of them. A failed feed is logged and omitted from the result;
// it never aborts the batch. Keys are "category/name".
func (f *Fetcher) FetchAll(ctx context.Context, useCache bool) map[string]*domain.CachedFeed {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]*domain.CachedFeed)
	)

	for _, entry := range f.catalog.Walk() {
		wg.Add(1)
		go func(e catalog.Entry) {
			defer wg.Done()
			feed, err := f.fetchURL(ctx, e.URL, useCache)
			if err != nil {
				f.logger.Error("feed fetch failed in batch",
					logger.String("category", e.Category),
					logger.String("name", e.Name),
					logger.Error(err))
				return
			}
			mu.Lock()
			results[e.Category+"/"+e.Name] = feed
			mu.Unlock()
		}(entry)
	}

	wg.Wait()
	return results
}

// Search returns entries whose title or summary contains query
// case-insensitively, in feed-then-entry iteration order, truncated to
// limit. sector narrows to one sector feed, category to one topic feed;
// with neither, all feeds are searched. The scan short-circuits once
// limit matches are found.
func (f *Fetcher) Search(ctx context.Context, query, sector, category string, limit int) []domain.FeedEntry {
	needle := strings.ToLower(query)
	results := []domain.FeedEntry{}

	var scope []catalog.Entry
	switch {
	case sector != "":
		if url, err := f.catalog.Lookup(catalog.CategorySectors, sector); err == nil {
			scope = append(scope, catalog.Entry{Category: catalog.CategorySectors, Name: sector, URL: url})
		}
	case category != "":
		if url, err := f.catalog.Lookup(catalog.CategoryTopics, category); err == nil {
			scope = append(scope, catalog.Entry{Category: catalog.CategoryTopics, Name: category, URL: url})
		}
	default:
		scope = f.catalog.Walk()
	}

	for _, e := range scope {
		feed, err := f.fetchURL(ctx, e.URL, true)
		if err != nil {
			f.logger.Error("search skipping feed",
				logger.String("category", e.Category),
				logger.String("name", e.Name),
				logger.Error(err))
			continue
		}

		for _, entry := range feed.Entries {
			if strings.Contains(strings.ToLower(entry.Title), needle) ||
				strings.Contains(strings.ToLower(entry.Summary), needle) {
				results = append(results, entry)
				if len(results) >= limit {
					return results
				}
			}
		}
	}

	return results
}

// Latest returns the first limit entries of the named feed in the order
// the source presents them; entries are not re-sorted by date.
func (f *Fetcher) Latest(ctx context.Context, category, name string, limit int) ([]domain.FeedEntry, error) {
	feed, err := f.Fetch(ctx, category, name, true)
	if err != nil {
		return nil, err
	}
	if limit > len(feed.Entries) {
		limit = len(feed.Entries)
	}
	return feed.Entries[:limit], nil
}
