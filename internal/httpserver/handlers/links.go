package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sniplink/internal/domain"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sniplink/internal/logger"
)

type tagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type linkResponse struct {
	ID        int64         `json:"id"`
	Code      string        `json:"code"`
	LongURL   string        `json:"long_url"`
	Title     *string       `json:"title"`
	CreatedAt string        `json:"created_at"`
	ExpiresAt *string       `json:"expires_at"`
	Clicks    int64         `json:"clicks"`
	IsActive  bool          `json:"is_active"`
	ShortURL  string        `json:"short_url"`
	QRURL     string        `json:"qr_url"`
	Tags      []tagResponse `json:"tags"`
}

type shortenRequest struct {
	URL        string   `json:"url"`
	CustomCode string   `json:"custom_code"`
	Title      string   `json:"title"`
	ExpiresAt  string   `json:"expires_at"`
	Tags       []string `json:"tags"`
}

type shortenResponse struct {
	Code     string   `json:"code"`
	ShortURL string   `json:"short_url"`
	LongURL  string   `json:"long_url"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`
	QRURL    string   `json:"qr_url"`
}

type patchRequest struct {
	URL       *string   `json:"url"`
	Title     *string   `json:"title"`
	ExpiresAt *string   `json:"expires_at"`
	Tags      *[]string `json:"tags"`
}

type listResponse struct {
	Links   []linkResponse `json:"links"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

func shortURL(d deps.Deps, code string) string { return d.BaseURL + "/" + code }
func qrURL(d deps.Deps, code string) string    { return d.BaseURL + "/api/qr/" + code }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatLink(d deps.Deps, l *domain.Link) linkResponse {
	tags := make([]tagResponse, 0, len(l.Tags))
	for _, t := range l.Tags {
		tags = append(tags, tagResponse{ID: t.ID, Name: t.Name})
	}
	return linkResponse{
		ID:        l.ID,
		Code:      l.Code,
		LongURL:   l.LongURL,
		Title:     optional(l.Title),
		CreatedAt: l.CreatedAt,
		ExpiresAt: optional(l.ExpiresAt),
		Clicks:    l.Clicks,
		IsActive:  l.IsActive(),
		ShortURL:  shortURL(d, l.Code),
		QRURL:     qrURL(d, l.Code),
		Tags:      tags,
	}
}

// Shorten creates a link from a long URL, with an optional custom code.
func Shorten(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shortenRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		link, err := d.Shortener.Shorten(r.Context(), domain.ShortenRequest{
			URL:        req.URL,
			CustomCode: req.CustomCode,
			Title:      req.Title,
			ExpiresAt:  req.ExpiresAt,
			Tags:       req.Tags,
		})
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		custom := strings.TrimSpace(req.CustomCode) != ""
		d.Metrics.LinkCreated(custom)
		d.Logger.Info("link created",
			logger.String("code", link.Code),
			logger.Bool("custom", custom))

		tags := make([]string, 0, len(link.Tags))
		for _, t := range link.Tags {
			tags = append(tags, t.Name)
		}
		writeJSON(w, http.StatusCreated, shortenResponse{
			Code:     link.Code,
			ShortURL: shortURL(d, link.Code),
			LongURL:  link.LongURL,
			Title:    link.Title,
			Tags:     tags,
			QRURL:    qrURL(d, link.Code),
		})
	}
}

// ListLinks pages through active links, newest first.
func ListLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		perPage, _ := strconv.Atoi(q.Get("per_page"))
		filter := domain.ListFilter{
			Page:    page,
			PerPage: perPage,
			Query:   q.Get("q"),
			Tag:     q.Get("tag"),
		}.Normalize()

		links, total, err := d.Repo.ListLinks(r.Context(), filter)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		resp := listResponse{
			Links:   make([]linkResponse, 0, len(links)),
			Total:   total,
			Page:    filter.Page,
			PerPage: filter.PerPage,
		}
		for _, l := range links {
			resp.Links = append(resp.Links, formatLink(d, l))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GetLink returns one link whatever its status.
func GetLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link, err := d.Repo.FindLinkByCode(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, formatLink(d, link))
	}
}

// UpdateLink applies a partial update to an active link.
func UpdateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		var req patchRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		patch, err := domain.LinkPatch{
			URL:       req.URL,
			Title:     req.Title,
			ExpiresAt: req.ExpiresAt,
			Tags:      req.Tags,
		}.Normalize()
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		link, err := d.Repo.UpdateLink(r.Context(), code, patch)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Cache.Invalidate(r.Context(), code)

		writeJSON(w, http.StatusOK, formatLink(d, link))
	}
}

// DeleteLink soft-deletes a link; its code stays reserved.
func DeleteLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if err := d.Repo.DeactivateLink(r.Context(), code); err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Cache.Invalidate(r.Context(), code)

		d.Logger.Info("link deleted", logger.String("code", code))
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}
