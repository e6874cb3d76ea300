package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"tidewatch/internal/domain"
	"tidewatch/internal/extract"
)

// summaryMax caps normalized summaries at roughly two sentences.
const summaryMax = 200

// normalizeEntry flattens a parsed feed item into an explicit FeedEntry
// once, so downstream code never probes raw parser output again.
func normalizeEntry(item *gofeed.Item, feedLink string) domain.FeedEntry {
	date := item.Published
	if date == "" {
		date = item.Updated
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	return domain.FeedEntry{
		Title:    item.Title,
		URL:      item.Link,
		Date:     date,
		Summary:  cleanSummary(summary),
		Author:   entryAuthor(item),
		Tags:     entryTags(item),
		ImageURL: entryImage(item, feedLink),
	}
}

// cleanSummary strips markup down to plain text and hard-truncates to
// summaryMax characters with an ellipsis marker.
func cleanSummary(summary string) string {
	if summary == "" {
		return ""
	}

	text := summary
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(summary)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > summaryMax {
		return string(runes[:summaryMax-3]) + "..."
	}
	return text
}

func entryAuthor(item *gofeed.Item) string {
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}

func entryTags(item *gofeed.Item) []string {
	tags := []string{}
	seen := make(map[string]bool)
	for _, c := range item.Categories {
		c = strings.TrimSpace(c)
		if c != "" && !seen[c] {
			tags = append(tags, c)
			seen[c] = true
		}
	}
	return tags
}

// entryImage resolves the entry's featured image, checking in order:
// media:content, enclosures, media:thumbnail, then the first <img>
// embedded in the summary HTML.
func entryImage(item *gofeed.Item, feedLink string) string {
	if ext, ok := item.Extensions["media"]; ok {
		for _, content := range ext["content"] {
			medium := content.Attrs["medium"]
			ctype := content.Attrs["type"]
			if medium == "image" || strings.Contains(ctype, "image") {
				if url := content.Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}

	for _, enc := range item.Enclosures {
		if enc != nil && strings.Contains(enc.Type, "image") && enc.URL != "" {
			return enc.URL
		}
	}

	if ext, ok := item.Extensions["media"]; ok {
		for _, thumb := range ext["thumbnail"] {
			if url := thumb.Attrs["url"]; url != "" {
				return url
			}
		}
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	if summary == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(summary))
	if err != nil {
		return ""
	}
	src, ok := doc.Find("img").First().Attr("src")
	if !ok || src == "" {
		return ""
	}

	base := item.Link
	if base == "" {
		base = feedLink
	}
	return extract.ResolveURL(src, base)
}
