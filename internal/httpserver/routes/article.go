package routes

import (
	"github.com/go-chi/chi/v5"

	"tidewatch/internal/httpserver/deps"
	"tidewatch/internal/httpserver/handlers"
)

func init() { Register(registerArticle) }

func registerArticle(r chi.Router, d deps.Deps) {
	r.Post("/api/article", handlers.Article(d))
	r.Post("/api/summarize", handlers.Summarize(d))
}
