package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sniplink/internal/domain"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sniplink/internal/logger"
	"github.com/MrSnakeDoc/sniplink/internal/metrics"
)

// path segments that are never short codes
var reservedCodes = map[string]bool{
	"static":      true,
	"api":         true,
	"favicon.ico": true,
}

// Redirect resolves a short code, records the click and sends the client on.
func Redirect(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if reservedCodes[code] {
			http.NotFound(w, r)
			return
		}

		res, err := d.Resolver.Resolve(r.Context(), code, r.Referer(), r.UserAgent())
		switch {
		case err == nil:
			d.Metrics.Redirect(metrics.OutcomeOK)
			status := http.StatusFound
			if res.Permanent {
				status = http.StatusMovedPermanently
			}
			http.Redirect(w, r, res.LongURL, status)

		case errors.Is(err, domain.ErrNotFound):
			d.Metrics.Redirect(metrics.OutcomeNotFound)
			http.Redirect(w, r, "/?error=not_found", http.StatusFound)

		case errors.Is(err, domain.ErrExpired):
			d.Metrics.Redirect(metrics.OutcomeExpired)
			http.Redirect(w, r, "/?error=expired", http.StatusFound)

		default:
			d.Metrics.Redirect(metrics.OutcomeError)
			d.Logger.Error("redirect failed",
				logger.String("code", code),
				logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
