package handlers

import (
	"fmt"
	"net/http"

	"tidewatch/internal/domain"
	"tidewatch/internal/httpserver/deps"
)

const maxSummarizeURLs = 20

type summarizeRequest struct {
	URLs         []string             `json:"urls"`
	Length       domain.SummaryLength `json:"length,omitempty"`
	SessionToken string               `json:"session_token,omitempty"`
}

type summarizeResponse struct {
	Status    domain.ResultStatus     `json:"status"`
	Length    domain.SummaryLength    `json:"length"`
	Summaries []domain.ArticleSummary `json:"summaries"`
}

// Summarize builds per-URL summaries at the requested depth. Individual
// failures stay per-item; the batch itself always succeeds.
func Summarize(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req summarizeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.URLs) == 0 {
			writeError(w, http.StatusBadRequest, "urls is required")
			return
		}
		if len(req.URLs) > maxSummarizeURLs {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("too many urls: %d (max %d)", len(req.URLs), maxSummarizeURLs))
			return
		}

		switch req.Length {
		case "":
			req.Length = domain.SummaryBrief
		case domain.SummaryBrief, domain.SummaryDetailed, domain.SummaryFull:
		default:
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("invalid length %q: want brief, detailed or full", req.Length))
			return
		}

		summaries := d.Summaries.Summarize(r.Context(), req.URLs, req.Length, sessionToken(r, req.SessionToken))
		writeJSON(w, http.StatusOK, summarizeResponse{
			Status:    domain.StatusSuccess,
			Length:    req.Length,
			Summaries: summaries,
		})
	}
}
