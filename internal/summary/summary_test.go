package summary

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tidewatch/internal/article"
	"tidewatch/internal/catalog"
	"tidewatch/internal/domain"
	"tidewatch/internal/feed"
	"tidewatch/internal/feedcache"
	"tidewatch/internal/logger"
	"tidewatch/internal/session"
)

func testSummarizer(t *testing.T) (*Summarizer, *httptest.Server) {
	t.Helper()

	longBody := strings.Repeat("The dry bulk market kept firming through the week. ", 20)

	mux := http.NewServeMux()
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		base := "http://" + r.Host
		fmt.Fprintf(w, `<?xml version="1.0"?>
<rss version="2.0"><channel>
	<title>Dry Bulk</title>
	<item>
		<title>Capesize rally continues</title>
		<link>%s/articles/capesize</link>
		<author>sam@example.com (Sam Bosun)</author>
		<description>Capesize rates firmed again on iron ore demand.</description>
	</item>
</channel></rss>`, base)
	})
	mux.HandleFunc("/articles/capesize", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><article>
<h1 class="article-title">Capesize rally continues</h1>
<div class="article-body"><p>%s</p></div>
</article></body></html>`, longBody)
	})
	mux.HandleFunc("/articles/locked", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><article>
<h1>Members only</h1>
<div class="paywall-banner">Subscription required</div>
</article></body></html>`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cat := catalog.New(map[string]map[string]string{
		"sectors": {"Dry Bulk": srv.URL + "/rss"},
	})
	feeds := feed.NewFetcher(cat, feedcache.NewMemoryStore(5*time.Minute), srv.Client(), logger.Nop())

	mgr, err := session.NewManager("test-secret-0123456789", session.NewMemoryStore(), 24*time.Hour, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	articles := article.NewService(srv.Client(), mgr, logger.Nop())

	return NewSummarizer(feeds, articles, logger.Nop()), srv
}

func TestSummarizeBrief(t *testing.T) {
	s, srv := testSummarizer(t)

	got := s.Summarize(context.Background(),
		[]string{srv.URL + "/articles/capesize", "https://elsewhere.example.com/unknown"},
		domain.SummaryBrief, "")

	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}

	if got[0].Status != domain.StatusSuccess {
		t.Fatalf("first status = %q (%s)", got[0].Status, got[0].Message)
	}
	if got[0].Title != "Capesize rally continues" {
		t.Errorf("title = %q", got[0].Title)
	}
	if !strings.Contains(got[0].Summary, "iron ore demand") {
		t.Errorf("brief summary should come from the feed entry: %q", got[0].Summary)
	}
	if got[0].Length != domain.SummaryBrief {
		t.Errorf("length = %q", got[0].Length)
	}

	if got[1].Status != domain.StatusNotFound {
		t.Errorf("unknown URL status = %q, want not_found", got[1].Status)
	}
	if got[1].Message == "" {
		t.Error("not_found item must carry a message")
	}
}

func TestSummarizeDetailedTruncates(t *testing.T) {
	s, srv := testSummarizer(t)

	got := s.Summarize(context.Background(),
		[]string{srv.URL + "/articles/capesize"}, domain.SummaryDetailed, "")
	if len(got) != 1 || got[0].Status != domain.StatusSuccess {
		t.Fatalf("got %+v", got)
	}
	if n := len([]rune(got[0].Summary)); n != detailedMax+3 {
		t.Errorf("detailed summary length = %d, want %d plus ellipsis", n, detailedMax)
	}
	if !strings.HasSuffix(got[0].Summary, "...") {
		t.Errorf("detailed summary must end with ellipsis: %q", got[0].Summary[len(got[0].Summary)-10:])
	}
}

func TestSummarizeFull(t *testing.T) {
	s, srv := testSummarizer(t)

	got := s.Summarize(context.Background(),
		[]string{srv.URL + "/articles/capesize"}, domain.SummaryFull, "")
	if len(got) != 1 || got[0].Status != domain.StatusSuccess {
		t.Fatalf("got %+v", got)
	}
	if n := len([]rune(got[0].Summary)); n <= detailedMax {
		t.Errorf("full summary length = %d, want the whole text", n)
	}
	if strings.HasSuffix(got[0].Summary, "...") {
		t.Error("full summary must not be truncated")
	}
}

func TestSummarizeIsolatesFailures(t *testing.T) {
	s, srv := testSummarizer(t)

	got := s.Summarize(context.Background(), []string{
		srv.URL + "/articles/locked",
		srv.URL + "/articles/capesize",
	}, domain.SummaryFull, "")

	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}
	if got[0].Status != domain.StatusAuthRequired {
		t.Errorf("locked item status = %q, want authentication_required", got[0].Status)
	}
	if got[1].Status != domain.StatusSuccess {
		t.Errorf("open item status = %q, failures must not leak across items", got[1].Status)
	}
}
