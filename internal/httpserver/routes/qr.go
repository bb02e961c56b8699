package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sniplink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver/handlers"
)

func init() { Register(registerQR) }

func registerQR(r chi.Router, d deps.Deps) {
	r.Get("/api/qr/custom", handlers.QRCustom(d))
	r.Get("/api/qr/{code}", handlers.QR(d))
}
