package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tidewatch/internal/catalog"
	"tidewatch/internal/domain"
	"tidewatch/internal/feedcache"
	"tidewatch/internal/logger"
)

const containersRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
	<title>Containers</title>
	<link>https://news.example.com/sectors/containers</link>
	<description>Container shipping news</description>
	<item>
		<title>Box rates climb for a fourth week</title>
		<link>https://news.example.com/articles/box-rates</link>
		<pubDate>Mon, 24 Aug 2026 09:00:00 GMT</pubDate>
		<author>jane@example.com (Jane Mariner)</author>
		<category>Containers</category>
		<category>Freight</category>
		<description><![CDATA[<p>Spot rates <b>rose</b> again this week.</p><img src="/img/chart.png">]]></description>
		<media:content url="https://cdn.example.com/box.jpg" medium="image"/>
	</item>
	<item>
		<title>Port congestion eases</title>
		<link>https://news.example.com/articles/congestion</link>
		<pubDate>Sun, 23 Aug 2026 10:00:00 GMT</pubDate>
		<description>Queues at anchor shrank to a six-month low.</description>
	</item>
</channel>
</rss>`

const tankersRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Tankers</title>
	<link>https://news.example.com/sectors/tankers</link>
	<description>Tanker news</description>
	<item>
		<title>VLCC earnings slide</title>
		<link>https://news.example.com/articles/vlcc</link>
		<description>Crude carrier earnings slid on soft cargo volumes.</description>
	</item>
</channel>
</rss>`

// testFetcher wires a fetcher against an httptest upstream and a
// two-feed catalog.
func testFetcher(t *testing.T, handler http.Handler) (*Fetcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cat := catalog.New(map[string]map[string]string{
		"sectors": {
			"Containers": srv.URL + "/containers",
			"Tankers":    srv.URL + "/tankers",
		},
	})
	cache := feedcache.NewMemoryStore(5 * time.Minute)
	f := NewFetcher(cat, cache, srv.Client(), logger.Nop())
	return f, srv
}

func feedMux(t *testing.T, hits *atomic.Int64) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/containers", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		_, _ = w.Write([]byte(containersRSS))
	})
	mux.HandleFunc("/tankers", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tankersRSS))
	})
	return mux
}

func TestFetchNormalizesEntries(t *testing.T) {
	f, _ := testFetcher(t, feedMux(t, nil))

	feed, err := f.Fetch(context.Background(), "sectors", "Containers", true)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if feed.Feed.Title != "Containers" {
		t.Errorf("feed title = %q", feed.Feed.Title)
	}
	if len(feed.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(feed.Entries))
	}
	if feed.FetchedAt == 0 {
		t.Error("FetchedAt not set")
	}

	e := feed.Entries[0]
	if e.Title != "Box rates climb for a fourth week" {
		t.Errorf("entry title = %q", e.Title)
	}
	if e.Date != "Mon, 24 Aug 2026 09:00:00 GMT" {
		t.Errorf("entry date = %q, want raw source string", e.Date)
	}
	if strings.Contains(e.Summary, "<") {
		t.Errorf("summary not HTML-stripped: %q", e.Summary)
	}
	if !strings.Contains(e.Summary, "Spot rates rose again") {
		t.Errorf("summary = %q", e.Summary)
	}
	if len(e.Tags) != 2 || e.Tags[0] != "Containers" || e.Tags[1] != "Freight" {
		t.Errorf("tags = %v", e.Tags)
	}
	if e.ImageURL != "https://cdn.example.com/box.jpg" {
		t.Errorf("media:content image not picked: %q", e.ImageURL)
	}
}

func TestFetchUsesCache(t *testing.T) {
	var hits atomic.Int64
	f, _ := testFetcher(t, feedMux(t, &hits))
	ctx := context.Background()

	if _, err := f.Fetch(ctx, "sectors", "Containers", true); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Fetch(ctx, "sectors", "Containers", true); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("upstream hit %d times, want 1 (second fetch should be cached)", hits.Load())
	}

	// useCache=false forces a refetch.
	if _, err := f.Fetch(ctx, "sectors", "Containers", false); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("upstream hit %d times after bypass, want 2", hits.Load())
	}
}

func TestFetchUnknownFeed(t *testing.T) {
	f, _ := testFetcher(t, feedMux(t, nil))

	_, err := f.Fetch(context.Background(), "bogus", "nonexistent", true)
	if !errors.Is(err, domain.ErrUnknownFeed) {
		t.Fatalf("error = %v, want ErrUnknownFeed", err)
	}
	if !strings.Contains(err.Error(), "sectors") {
		t.Errorf("error %q should enumerate valid categories", err.Error())
	}
}

func TestFetchUpstreamFailure(t *testing.T) {
	f, _ := testFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := f.Fetch(context.Background(), "sectors", "Containers", true)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("error = %v, want ErrUpstream", err)
	}
}

func TestFetchServesStaleCacheOnUpstreamFailure(t *testing.T) {
	var fail atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/containers", func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(containersRSS))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cat := catalog.New(map[string]map[string]string{
		"sectors": {"Containers": srv.URL + "/containers"},
	})
	// Zero TTL: every entry is immediately stale.
	cache := feedcache.NewMemoryStore(0)
	f := NewFetcher(cat, cache, srv.Client(), logger.Nop())
	ctx := context.Background()

	if _, err := f.Fetch(ctx, "sectors", "Containers", true); err != nil {
		t.Fatal(err)
	}

	fail.Store(true)
	feed, err := f.Fetch(ctx, "sectors", "Containers", true)
	if err != nil {
		t.Fatalf("expected stale cache fallback, got error: %v", err)
	}
	if len(feed.Entries) != 2 {
		t.Errorf("stale snapshot has %d entries, want 2", len(feed.Entries))
	}
}

func TestFetchAllIsolatesFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/containers", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(containersRSS))
	})
	mux.HandleFunc("/tankers", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})
	f, _ := testFetcher(t, mux)

	results := f.FetchAll(context.Background(), true)

	if len(results) != 1 {
		t.Fatalf("got %d feeds, want 1 (failed feed omitted)", len(results))
	}
	if _, ok := results["sectors/Containers"]; !ok {
		t.Errorf("missing sectors/Containers key, got %v", results)
	}
}

func TestSearch(t *testing.T) {
	f, _ := testFetcher(t, feedMux(t, nil))
	ctx := context.Background()

	tests := []struct {
		name    string
		query   string
		sector  string
		limit   int
		wantLen int
		wantURL string
	}{
		{
			name:    "case-insensitive title match",
			query:   "BOX RATES",
			limit:   10,
			wantLen: 1,
			wantURL: "https://news.example.com/articles/box-rates",
		},
		{
			name:    "summary match",
			query:   "six-month low",
			limit:   10,
			wantLen: 1,
			wantURL: "https://news.example.com/articles/congestion",
		},
		{
			name:    "scoped to one sector",
			query:   "earnings",
			sector:  "Tankers",
			limit:   10,
			wantLen: 1,
			wantURL: "https://news.example.com/articles/vlcc",
		},
		{
			name:    "limit short-circuits",
			query:   "e", // matches everything
			limit:   2,
			wantLen: 2,
		},
		{
			name:    "no matches is empty not error",
			query:   "nonexistent-term-xyz",
			limit:   10,
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := f.Search(ctx, tt.query, tt.sector, "", tt.limit)
			if len(results) != tt.wantLen {
				t.Fatalf("got %d results, want %d: %+v", len(results), tt.wantLen, results)
			}
			if tt.wantURL != "" && results[0].URL != tt.wantURL {
				t.Errorf("top result = %q, want %q", results[0].URL, tt.wantURL)
			}
		})
	}
}

func TestLatest(t *testing.T) {
	f, _ := testFetcher(t, feedMux(t, nil))
	ctx := context.Background()

	all, err := f.Latest(ctx, "sectors", "Containers", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("limit=10 returned %d entries, want all 2", len(all))
	}
	if all[0].Title != "Box rates climb for a fourth week" {
		t.Error("entries must keep source order")
	}

	one, err := f.Latest(ctx, "sectors", "Containers", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0].URL != all[0].URL {
		t.Errorf("limit=1 should return exactly the first entry, got %+v", one)
	}
}

func TestCleanSummaryTruncation(t *testing.T) {
	long := strings.Repeat("x", 250)
	got := cleanSummary("<p>" + long + "</p>")
	if len([]rune(got)) != 200 {
		t.Errorf("truncated summary length = %d, want 200", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated summary must end with ellipsis marker: %q", got)
	}

	if got := cleanSummary("short"); got != "short" {
		t.Errorf("short summary altered: %q", got)
	}
	if got := cleanSummary(""); got != "" {
		t.Errorf("empty summary = %q", got)
	}
}
