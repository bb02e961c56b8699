package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sniplink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver/handlers"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	r.With(ops(d)...).Get("/infra", handlers.Infra(d))
	r.With(ops(d)...).Get("/metrics", d.Metrics.Handler().ServeHTTP)
}
