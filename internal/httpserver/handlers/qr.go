package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sniplink/internal/domain"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sniplink/internal/logger"
	"github.com/MrSnakeDoc/sniplink/internal/qr"
)

type qrOptions struct {
	fg, bg qr.RGB
	size   int
}

// parseQROptions reads ?fg=&bg=&size= and writes a 400 on bad input.
func parseQROptions(w http.ResponseWriter, r *http.Request) (qrOptions, bool) {
	q := r.URL.Query()
	opts := qrOptions{fg: qr.Black, bg: qr.White, size: qr.DefaultSize}

	var err error
	if raw := q.Get("fg"); raw != "" {
		if opts.fg, err = qr.ParseHex(raw); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid fg colour")
			return opts, false
		}
	}
	if raw := q.Get("bg"); raw != "" {
		if opts.bg, err = qr.ParseHex(raw); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid bg colour")
			return opts, false
		}
	}
	if raw := q.Get("size"); raw != "" {
		opts.size, err = strconv.Atoi(raw)
		if err != nil || opts.size < 1 {
			writeMessage(w, http.StatusBadRequest, "size must be a positive integer")
			return opts, false
		}
	}
	return opts, true
}

func writePNG(w http.ResponseWriter, r *http.Request, d deps.Deps, opts qrOptions, cacheable bool) {
	png, err := qr.Render(opts.size, opts.fg, opts.bg)
	if err != nil {
		writeError(w, r, d, err)
		return
	}
	d.Metrics.QRRendered()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	if cacheable {
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		d.Logger.Debug("failed to write png", logger.Error(err))
	}
}

// QR renders the image for an active link's short URL.
func QR(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, ok := parseQROptions(w, r)
		if !ok {
			return
		}

		link, err := d.Repo.FindLinkByCode(r.Context(), chi.URLParam(r, "code"))
		if err == nil && !link.IsActive() {
			err = domain.ErrNotFound
		}
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		writePNG(w, r, d, opts, true)
	}
}

// QRCustom renders the image for any http(s) URL.
func QRCustom(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := strings.TrimSpace(r.URL.Query().Get("url"))
		if domain.ValidateURL(target) != nil {
			writeMessage(w, http.StatusBadRequest, "Valid URL required")
			return
		}
		opts, ok := parseQROptions(w, r)
		if !ok {
			return
		}
		writePNG(w, r, d, opts, false)
	}
}
