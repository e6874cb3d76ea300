package catalog

import (
	"fmt"
	"sort"
	"strings"

	"tidewatch/internal/domain"
)

// Category names, in presentation order.
const (
	CategorySectors  = "sectors"
	CategoryTopics   = "topics"
	CategoryRegulars = "regulars"
)

var categoryOrder = []string{CategorySectors, CategoryTopics, CategoryRegulars}

const feedBase = "https://lloydslist.maritimeintelligence.informa.com/rss"

// defaultFeeds is the built-in maritime feed table. The catalog is loaded
// once at startup and immutable afterwards.
var defaultFeeds = map[string]map[string]string{
	CategorySectors: {
		"Containers":              feedBase + "/sectors/containers",
		"Dry Bulk":                feedBase + "/sectors/dry-bulk",
		"Tankers & Gas":           feedBase + "/sectors/tankers-gas",
		"Ports & Logistics":       feedBase + "/sectors/ports-logistics",
		"Technology & Innovation": feedBase + "/sectors/technology-innovation",
		"Finance":                 feedBase + "/sectors/finance",
		"Insurance":               feedBase + "/sectors/insurance",
		"Law & Regulation":        feedBase + "/sectors/law-regulation",
		"Safety":                  feedBase + "/sectors/safety",
		"Crew Welfare":            feedBase + "/sectors/crew-welfare",
	},
	CategoryTopics: {
		"Red Sea Risk":      feedBase + "/topics/red-sea-risk",
		"Ukraine Crisis":    feedBase + "/topics/ukraine-crisis",
		"Decarbonisation":   feedBase + "/topics/decarbonisation",
		"Sanctions":         feedBase + "/topics/sanctions",
		"Digitalisation":    feedBase + "/topics/digitalisation",
		"Piracy & Security": feedBase + "/topics/piracy-security",
	},
	CategoryRegulars: {
		"Daily Briefing":   feedBase + "/daily-briefing",
		"The View":         feedBase + "/the-view",
		"Special Reports":  feedBase + "/special-reports",
		"Podcasts & Video": feedBase + "/podcasts-video",
	},
}

// Catalog is the static category -> name -> URL table of known feeds.
type Catalog struct {
	feeds map[string]map[string]string
}

// NewDefault returns the built-in catalog.
func NewDefault() *Catalog {
	return &Catalog{feeds: copyFeeds(defaultFeeds)}
}

// New builds a catalog from an explicit table. Unknown categories are
// allowed here; presentation order still follows the standard category
// order, with any extra categories appended alphabetically.
func New(feeds map[string]map[string]string) *Catalog {
	return &Catalog{feeds: copyFeeds(feeds)}
}

// Lookup resolves a (category, name) pair to its source URL. Unknown
// categories and names fail with domain.ErrUnknownFeed; the message
// enumerates the valid choices so callers can self-correct.
func (c *Catalog) Lookup(category, name string) (string, error) {
	feeds, ok := c.feeds[category]
	if !ok {
		return "", fmt.Errorf("%w: invalid category %q, must be one of [%s]",
			domain.ErrUnknownFeed, category, strings.Join(c.Categories(), " "))
	}
	url, ok := feeds[name]
	if !ok {
		return "", fmt.Errorf("%w: invalid feed name %q for category %q, available: [%s]",
			domain.ErrUnknownFeed, name, category, strings.Join(c.Names(category), " "))
	}
	return url, nil
}

// Categories returns the known categories in presentation order.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.feeds))
	for _, cat := range categoryOrder {
		if _, ok := c.feeds[cat]; ok {
			out = append(out, cat)
		}
	}
	var extra []string
	for cat := range c.feeds {
		if cat != CategorySectors && cat != CategoryTopics && cat != CategoryRegulars {
			extra = append(extra, cat)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Names returns the feed names of one category, sorted for deterministic
// iteration.
func (c *Catalog) Names(category string) []string {
	feeds := c.feeds[category]
	names := make([]string, 0, len(feeds))
	for name := range feeds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the full catalog as category -> feed names.
func (c *Catalog) List() map[string][]string {
	out := make(map[string][]string, len(c.feeds))
	for _, cat := range c.Categories() {
		out[cat] = c.Names(cat)
	}
	return out
}

// Entry is one (category, name, url) triple produced by Walk.
type Entry struct {
	Category string
	Name     string
	URL      string
}

// Walk returns every catalog entry, categories in presentation order and
// names sorted within each. Used by batch fetches so result keys iterate
// deterministically.
func (c *Catalog) Walk() []Entry {
	var entries []Entry
	for _, cat := range c.Categories() {
		for _, name := range c.Names(cat) {
			entries = append(entries, Entry{Category: cat, Name: name, URL: c.feeds[cat][name]})
		}
	}
	return entries
}

// Size returns the total number of feeds.
func (c *Catalog) Size() int {
	n := 0
	for _, feeds := range c.feeds {
		n += len(feeds)
	}
	return n
}

func copyFeeds(src map[string]map[string]string) map[string]map[string]string {
	dst := make(map[string]map[string]string, len(src))
	for cat, feeds := range src {
		m := make(map[string]string, len(feeds))
		for name, url := range feeds {
			m[name] = url
		}
		dst[cat] = m
	}
	return dst
}
