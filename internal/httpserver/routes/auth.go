package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sniplink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	loginLimit := mw.RateLimit(mw.LimitConfig{
		Attempts:   d.LoginAttempts,
		Window:     d.LoginWindow,
		MaxClients: 10000,
		TrustProxy: d.TrustProxy,
		Message:    "Too many login attempts",
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", handlers.Login(d))
		r.Post("/logout", handlers.Logout(d))
		r.Get("/me", handlers.Me(d))
	})
}
