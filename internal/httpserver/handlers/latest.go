package handlers

import (
	"errors"
	"net/http"

	"tidewatch/internal/domain"
	"tidewatch/internal/httpserver/deps"
	"tidewatch/internal/logger"
)

const (
	defaultLatestLimit = 10
	maxLatestLimit     = 100
)

type latestRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Limit    int    `json:"limit,omitempty"`
}

type latestResponse struct {
	Status   domain.ResultStatus `json:"status"`
	Category string              `json:"category"`
	Name     string              `json:"name"`
	Entries  []domain.FeedEntry  `json:"entries"`
	Count    int                 `json:"count"`
}

// Latest returns the newest entries of one feed in source order.
func Latest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req latestRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Category == "" || req.Name == "" {
			writeError(w, http.StatusBadRequest, "category and name are required")
			return
		}
		limit := clampLimit(req.Limit, defaultLatestLimit, maxLatestLimit)

		entries, err := d.Feeds.Latest(r.Context(), req.Category, req.Name, limit)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnknownFeed):
				writeError(w, http.StatusNotFound, err.Error())
			case errors.Is(err, domain.ErrUpstream):
				writeError(w, http.StatusBadGateway, err.Error())
			default:
				d.Logger.Error("latest failed",
					logger.String("category", req.Category),
					logger.String("name", req.Name),
					logger.Error(err))
				writeError(w, http.StatusInternalServerError, "failed to fetch feed")
			}
			return
		}

		writeJSON(w, http.StatusOK, latestResponse{
			Status:   domain.StatusSuccess,
			Category: req.Category,
			Name:     req.Name,
			Entries:  entries,
			Count:    len(entries),
		})
	}
}
