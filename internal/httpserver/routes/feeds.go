package routes

import (
	"github.com/go-chi/chi/v5"

	"tidewatch/internal/httpserver/deps"
	"tidewatch/internal/httpserver/handlers"
)

func init() { Register(registerFeeds) }

func registerFeeds(r chi.Router, d deps.Deps) {
	r.Get("/api/feeds", handlers.Feeds(d))
}
