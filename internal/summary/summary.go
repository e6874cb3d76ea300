package summary

import (
	"context"

	"tidewatch/internal/article"
	"tidewatch/internal/domain"
	"tidewatch/internal/feed"
	"tidewatch/internal/logger"
)

// detailedMax caps a detailed summary before the ellipsis marker.
const detailedMax = 500

// Summarizer produces per-URL article summaries at three depths. Brief
// summaries come straight from the cached feed entries; detailed and
// full go through the article service and inherit its paywall gating.
type Summarizer struct {
	feeds    *feed.Fetcher
	articles *article.Service
	logger   logger.Logger
}

func NewSummarizer(feeds *feed.Fetcher, articles *article.Service, log logger.Logger) *Summarizer {
	return &Summarizer{
		feeds:    feeds,
		articles: articles,
		logger:   log,
	}
}

// Summarize returns one tagged summary per requested URL, in request
// order. Failures never abort the batch; each item carries its own
// status.
func (s *Summarizer) Summarize(ctx context.Context, urls []string, length domain.SummaryLength, sessionToken string) []domain.ArticleSummary {
	if length == domain.SummaryBrief {
		return s.brief(ctx, urls)
	}
	return s.extracted(ctx, urls, length, sessionToken)
}

// brief looks each URL up in the cached feeds; no article pages are
// fetched.
func (s *Summarizer) brief(ctx context.Context, urls []string) []domain.ArticleSummary {
	byURL := make(map[string]domain.FeedEntry)
	for _, cached := range s.feeds.FetchAll(ctx, true) {
		for _, entry := range cached.Entries {
			if _, seen := byURL[entry.URL]; !seen {
				byURL[entry.URL] = entry
			}
		}
	}

	out := make([]domain.ArticleSummary, 0, len(urls))
	for _, u := range urls {
		entry, ok := byURL[u]
		if !ok {
			out = append(out, domain.ArticleSummary{
				URL:     u,
				Status:  domain.StatusNotFound,
				Message: "article not found in any cached feed",
			})
			continue
		}
		out = append(out, domain.ArticleSummary{
			URL:     u,
			Status:  domain.StatusSuccess,
			Title:   entry.Title,
			Summary: entry.Summary,
			Length:  domain.SummaryBrief,
			Author:  entry.Author,
			Date:    entry.Date,
		})
	}
	return out
}

func (s *Summarizer) extracted(ctx context.Context, urls []string, length domain.SummaryLength, sessionToken string) []domain.ArticleSummary {
	out := make([]domain.ArticleSummary, 0, len(urls))
	for _, u := range urls {
		res := s.articles.Fetch(ctx, u, sessionToken)
		if res.Status != domain.StatusSuccess {
			out = append(out, domain.ArticleSummary{
				URL:     u,
				Status:  res.Status,
				Message: res.Message,
			})
			continue
		}

		text := res.Article.FullText
		if length == domain.SummaryDetailed {
			text = truncate(text, detailedMax)
		}
		out = append(out, domain.ArticleSummary{
			URL:     u,
			Status:  domain.StatusSuccess,
			Title:   res.Article.Title,
			Summary: text,
			Length:  length,
			Author:  res.Article.Author,
			Date:    res.Article.Date,
		})
	}
	return out
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
