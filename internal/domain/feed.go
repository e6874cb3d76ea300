package domain

// FeedEntry is a single normalized article reference from an RSS feed.
// Entries are built once at parse time and never mutated afterwards.
type FeedEntry struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Date     string   `json:"date"` // published or updated, source format, not reparsed
	Summary  string   `json:"summary"`
	Author   string   `json:"author,omitempty"`
	Tags     []string `json:"tags"`
	ImageURL string   `json:"image_url,omitempty"`
}

// FeedInfo holds the channel-level metadata of a feed.
type FeedInfo struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Updated     string `json:"updated,omitempty"`
}

// CachedFeed is a wholesale snapshot of one fetched feed. The cache store
// owns these; a refresh replaces the whole value, never patches it.
type CachedFeed struct {
	SourceURL string      `json:"source_url"`
	Feed      FeedInfo    `json:"feed"`
	Entries   []FeedEntry `json:"entries"`
	FetchedAt int64       `json:"fetched_at"` // epoch seconds
}
