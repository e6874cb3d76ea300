package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"tidewatch/internal/httpserver/deps"
	"tidewatch/internal/httpserver/handlers"
	"tidewatch/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	// Login is the only credential-bearing endpoint; throttle it per IP.
	limited := mw.RateLimit(mw.RateLimitConfig{
		Burst:             5,
		RefillPerIPPerMin: 5,
		MaxEntries:        10_000,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
	})
	r.With(limited).Post("/api/auth/login", handlers.Login(d))
	r.Delete("/api/auth/session", handlers.Logout(d))
}
