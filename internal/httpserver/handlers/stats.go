package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/sniplink/internal/domain"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver/deps"
)

type tagCountResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	LinkCount int64  `json:"link_count"`
}

type tagsResponse struct {
	Tags []tagCountResponse `json:"tags"`
}

type topLink struct {
	Code    string  `json:"code"`
	LongURL string  `json:"long_url"`
	Title   *string `json:"title"`
	Clicks  int64   `json:"clicks"`
}

type statsResponse struct {
	TotalLinks  int64     `json:"total_links"`
	TotalClicks int64     `json:"total_clicks"`
	Clicks7d    int64     `json:"clicks_7d"`
	TopLinks    []topLink `json:"top_links"`
}

// Tags lists every tag with the number of links carrying it.
func Tags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := d.Repo.ListTags(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		resp := tagsResponse{Tags: make([]tagCountResponse, 0, len(tags))}
		for _, t := range tags {
			resp.Tags = append(resp.Tags, tagCountResponse{ID: t.ID, Name: t.Name, LinkCount: t.LinkCount})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// Stats summarizes active links and clicks over the last 7 days.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		since := domain.FormatTimestamp(d.Now().AddDate(0, 0, -7))
		stats, err := d.Repo.Stats(r.Context(), since)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		resp := statsResponse{
			TotalLinks:  stats.TotalLinks,
			TotalClicks: stats.TotalClicks,
			Clicks7d:    stats.Clicks7d,
			TopLinks:    make([]topLink, 0, len(stats.TopLinks)),
		}
		for _, l := range stats.TopLinks {
			resp.TopLinks = append(resp.TopLinks, topLink{
				Code:    l.Code,
				LongURL: l.LongURL,
				Title:   optional(l.Title),
				Clicks:  l.Clicks,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
