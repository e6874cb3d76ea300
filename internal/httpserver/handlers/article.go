package handlers

import (
	"net/http"

	"tidewatch/internal/domain"
	"tidewatch/internal/httpserver/deps"
)

type articleRequest struct {
	URL          string `json:"url"`
	SessionToken string `json:"session_token,omitempty"`
}

// Article fetches and extracts one article page. The HTTP status
// mirrors the result tag so plain clients can branch without parsing.
func Article(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req articleRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.URL == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}

		res := d.Articles.Fetch(r.Context(), req.URL, sessionToken(r, req.SessionToken))
		writeJSON(w, httpStatusFor(res.Status), res)
	}
}

func httpStatusFor(s domain.ResultStatus) int {
	switch s {
	case domain.StatusSuccess:
		return http.StatusOK
	case domain.StatusAuthRequired:
		return http.StatusUnauthorized
	case domain.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
