package routes

import (
	"github.com/go-chi/chi/v5"

	"tidewatch/internal/httpserver/deps"
	"tidewatch/internal/httpserver/handlers"
)

func init() { Register(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	r.Post("/api/search", handlers.Search(d))
	r.Post("/api/latest", handlers.Latest(d))
}
