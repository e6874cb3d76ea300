package handlers

import (
	"net/http"

	"tidewatch/internal/domain"
	"tidewatch/internal/httpserver/deps"
)

type feedsResponse struct {
	Status domain.ResultStatus `json:"status"`
	Feeds  map[string][]string `json:"feeds"`
	Total  int                 `json:"total"`
}

// Feeds lists every configured feed name grouped by category.
func Feeds(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, feedsResponse{
			Status: domain.StatusSuccess,
			Feeds:  d.Catalog.List(),
			Total:  d.Catalog.Size(),
		})
	}
}
