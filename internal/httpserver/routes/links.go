package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sniplink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver/mw"
)

func init() { Register(registerLinks) }

func registerLinks(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth(d.Auth))

		r.Post("/api/shorten", handlers.Shorten(d))
		r.Get("/api/links", handlers.ListLinks(d))
		r.Route("/api/links/{code}", func(r chi.Router) {
			r.Get("/", handlers.GetLink(d))
			r.Patch("/", handlers.UpdateLink(d))
			r.Delete("/", handlers.DeleteLink(d))
			r.Get("/analytics", handlers.Analytics(d))
		})
		r.Get("/api/tags", handlers.Tags(d))
		r.Get("/api/stats", handlers.Stats(d))
	})
}
