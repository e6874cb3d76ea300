package domain

// ArticleImage is an image found in an article body or its metadata.
type ArticleImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// ArticleRecord is the extracted content of a single article page.
// Records are built fresh on every fetch and never cached.
type ArticleRecord struct {
	URL       string         `json:"url"`
	Title     string         `json:"title"`
	FullText  string         `json:"full_text"`
	Author    string         `json:"author,omitempty"`
	Date      string         `json:"date,omitempty"`
	Tags      []string       `json:"tags"`
	Images    []ArticleImage `json:"images"`
	Paywalled bool           `json:"paywall"`
}

// PaywallVerdict is the outcome of classifying raw article markup.
type PaywallVerdict struct {
	Paywalled bool   `json:"paywalled"`
	Reason    string `json:"reason,omitempty"` // which heuristic and indicator fired
}

// ResultStatus tags every outward-facing operation result. Callers branch
// on the tag, not on transport status codes.
type ResultStatus string

const (
	StatusSuccess      ResultStatus = "success"
	StatusError        ResultStatus = "error"
	StatusAuthRequired ResultStatus = "authentication_required"
	StatusNotFound     ResultStatus = "not_found"
)

// ArticleResult is the tagged outcome of an article-content fetch.
type ArticleResult struct {
	Status  ResultStatus   `json:"status"`
	Article *ArticleRecord `json:"article,omitempty"`
	Message string         `json:"message,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	URL     string         `json:"url"`
}

// SummaryLength selects how much of an article a summary covers.
type SummaryLength string

const (
	SummaryBrief    SummaryLength = "brief"    // cached RSS summary only
	SummaryDetailed SummaryLength = "detailed" // first 500 chars of full text
	SummaryFull     SummaryLength = "full"     // whole full text
)

// ArticleSummary is the per-URL outcome of a summarize request. Failures
// are isolated per item, so each carries its own status tag.
type ArticleSummary struct {
	URL     string        `json:"url"`
	Status  ResultStatus  `json:"status"`
	Title   string        `json:"title,omitempty"`
	Summary string        `json:"summary,omitempty"`
	Length  SummaryLength `json:"length,omitempty"`
	Author  string        `json:"author,omitempty"`
	Date    string        `json:"date,omitempty"`
	Message string        `json:"message,omitempty"`
}

// CredentialState is the opaque authentication material produced by the
// credential exchange. Only Cookies is interpreted (attached to upstream
// requests); Extra is carried through encryption untouched.
type CredentialState struct {
	Cookies []Cookie          `json:"cookies,omitempty"`
	Extra   map[string]string `json:"extra,omitempty"`
}

// Cookie is a single credential cookie, the minimal shape needed to
// replay it on an authenticated article fetch.
type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain,omitempty"`
	Path   string `json:"path,omitempty"`
}
