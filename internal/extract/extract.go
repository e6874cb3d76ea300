// Package extract pulls a normalized article record out of raw HTML via
// selector fallback chains. Extraction is total: malformed input yields
// defaults, never an error.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tidewatch/internal/domain"
)

const (
	// DefaultTitle is used when no title-bearing element exists.
	DefaultTitle = "Untitled Article"
	// DefaultBody is the sentinel when no selector yields enough text.
	DefaultBody = "Article content could not be extracted"

	// minBodyLength is the threshold below which a candidate body is
	// considered noise and the next selector is tried.
	minBodyLength = 100
)

var titleSelectors = []string{
	"h1.article-title",
	"h1[class*='title']",
	"article h1",
	".article-header h1",
	"h1",
}

var bodySelectors = []string{
	"article .article-body",
	".article-content",
	"[class*='article-text']",
	"article",
	"main",
}

var authorSelectors = []string{
	".article-author",
	"[class*='author']",
	"[rel='author']",
}

// Extract builds an ArticleRecord from rawHTML. pageURL anchors relative
// image URLs. The Paywalled flag is left false; the caller sets it.
func Extract(rawHTML, pageURL string) domain.ArticleRecord {
	rec := domain.ArticleRecord{
		URL:      pageURL,
		Title:    DefaultTitle,
		FullText: DefaultBody,
		Tags:     []string{},
		Images:   []domain.ArticleImage{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rec
	}

	rec.Title = extractTitle(doc)
	rec.FullText = extractBody(doc)
	rec.Author = extractAuthor(doc)
	rec.Date = extractDate(doc)
	rec.Tags = extractTags(doc)
	rec.Images = extractImages(doc, pageURL)
	return rec
}

func extractTitle(doc *goquery.Document) string {
	for _, sel := range titleSelectors {
		if el := doc.Find(sel).First(); el.Length() > 0 {
			if text := strings.TrimSpace(el.Text()); text != "" {
				return text
			}
		}
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return DefaultTitle
}

func extractBody(doc *goquery.Document) string {
	for _, sel := range bodySelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}

		el.Find("script, style").Remove()

		// Prefer paragraph-joined text over the container's raw text.
		var paragraphs []string
		el.Find("p").Each(func(_ int, p *goquery.Selection) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			text := strings.Join(paragraphs, "\n\n")
			if len(text) > minBodyLength {
				return text
			}
		}

		if text := strings.TrimSpace(el.Text()); len(text) > minBodyLength {
			return text
		}
	}
	return DefaultBody
}

func extractAuthor(doc *goquery.Document) string {
	if content := metaContent(doc, `meta[name='author']`, `meta[property='article:author']`); content != "" {
		return content
	}
	for _, sel := range authorSelectors {
		if el := doc.Find(sel).First(); el.Length() > 0 {
			author := strings.TrimSpace(el.Text())
			author = strings.ReplaceAll(author, "By ", "")
			author = strings.ReplaceAll(author, "by ", "")
			if author != "" {
				return author
			}
		}
	}
	return ""
}

func extractDate(doc *goquery.Document) string {
	if content := metaContent(doc,
		`meta[property='article:published_time']`,
		`meta[name='publish-date']`,
		`meta[name='date']`,
	); content != "" {
		return content
	}
	if dt, ok := doc.Find("time").First().Attr("datetime"); ok {
		return dt
	}
	return ""
}

func extractTags(doc *goquery.Document) []string {
	tags := []string{}
	seen := make(map[string]bool)

	if keywords := metaContent(doc, `meta[name='keywords']`); keywords != "" {
		for _, t := range strings.Split(keywords, ",") {
			t = strings.TrimSpace(t)
			if t != "" && !seen[t] {
				tags = append(tags, t)
				seen[t] = true
			}
		}
	}

	doc.Find(".article-tags a, .tags a, [class*='category'] a").Each(func(_ int, el *goquery.Selection) {
		t := strings.TrimSpace(el.Text())
		if t != "" && !seen[t] {
			tags = append(tags, t)
			seen[t] = true
		}
	})

	return tags
}

func extractImages(doc *goquery.Document, pageURL string) []domain.ArticleImage {
	images := []domain.ArticleImage{}

	if og := metaContent(doc, `meta[property='og:image']`); og != "" {
		images = append(images, domain.ArticleImage{URL: og, Caption: "Featured image"})
	}

	container := doc.Find("article").First()
	if container.Length() == 0 {
		container = doc.Find("main").First()
	}
	if container.Length() == 0 {
		return images
	}

	container.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			src, _ = img.Attr("data-src")
		}
		if src == "" {
			return
		}

		caption, _ := img.Attr("alt")
		if caption == "" {
			caption, _ = img.Attr("title")
		}
		images = append(images, domain.ArticleImage{
			URL:     ResolveURL(src, pageURL),
			Caption: caption,
		})
	})

	return images
}

// metaContent returns the first non-empty content attribute among the
// given meta selectors.
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if content = strings.TrimSpace(content); content != "" {
				return content
			}
		}
	}
	return ""
}

// ResolveURL turns protocol-relative and root-relative references into
// absolute URLs against base. Anything else passes through unchanged.
func ResolveURL(ref, base string) string {
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	if strings.HasPrefix(ref, "/") {
		b, err := url.Parse(base)
		if err != nil || b.Host == "" {
			return ref
		}
		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return b.ResolveReference(r).String()
	}
	return ref
}
