package handlers

import (
	"net/http"
	"strings"

	"tidewatch/internal/domain"
	"tidewatch/internal/httpserver/deps"
	"tidewatch/internal/logger"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

type searchRequest struct {
	Query    string `json:"query"`
	Sector   string `json:"sector,omitempty"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type searchResponse struct {
	Status  domain.ResultStatus `json:"status"`
	Query   string              `json:"query"`
	Results []domain.FeedEntry  `json:"results"`
	Count   int                 `json:"count"`
}

// Search scans cached feed entries for a query string. A query with no
// matches is a success with an empty result set.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		req.Query = strings.TrimSpace(req.Query)
		if req.Query == "" {
			writeError(w, http.StatusBadRequest, "query is required")
			return
		}
		limit := clampLimit(req.Limit, defaultSearchLimit, maxSearchLimit)

		d.Logger.Info("search request",
			logger.String("query", req.Query),
			logger.String("sector", req.Sector),
			logger.String("category", req.Category),
			logger.Int("limit", limit))

		results := d.Feeds.Search(r.Context(), req.Query, req.Sector, req.Category, limit)
		writeJSON(w, http.StatusOK, searchResponse{
			Status:  domain.StatusSuccess,
			Query:   req.Query,
			Results: results,
			Count:   len(results),
		})
	}
}
