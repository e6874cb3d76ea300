package deps

import (
	"time"

	"tidewatch/internal/article"
	"tidewatch/internal/auth"
	"tidewatch/internal/catalog"
	"tidewatch/internal/feed"
	"tidewatch/internal/logger"
	"tidewatch/internal/session"
	"tidewatch/internal/summary"
)

// Deps carries everything the handlers need. Built once in app.New and
// passed by value to every registrar.
type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Catalog   *catalog.Catalog
	Feeds     *feed.Fetcher
	Articles  *article.Service
	Sessions  *session.Manager
	Summaries *summary.Summarizer
	Exchanger auth.Exchanger // nil when no login endpoint is configured
}
