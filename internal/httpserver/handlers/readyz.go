package handlers

import (
	"net/http"

	"tidewatch/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
	Feeds int  `json:"feeds"`
}

func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, readyzResponse{
			Ready: true,
			Feeds: d.Catalog.Size(),
		})
	}
}
