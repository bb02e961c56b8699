package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sniplink/internal/domain"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver/deps"
)

type sourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

type deviceCount struct {
	Device string `json:"device"`
	Count  int64  `json:"count"`
}

type browserCount struct {
	Browser string `json:"browser"`
	Count   int64  `json:"count"`
}

type analyticsResponse struct {
	Code         string               `json:"code"`
	Days         int                  `json:"days"`
	TotalClicks  int64                `json:"total_clicks"`
	PeriodClicks int64                `json:"period_clicks"`
	Daily        []domain.DailyClicks `json:"daily"`
	Referrers    []sourceCount        `json:"referrers"`
	Devices      []deviceCount        `json:"devices"`
	Browsers     []browserCount       `json:"browsers"`
}

// Analytics returns the click breakdown of one link over ?days= (default 30).
func Analytics(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		days := domain.DefaultAnalyticsDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeMessage(w, http.StatusBadRequest, "days must be an integer")
				return
			}
			days = n
		}
		days = domain.ClampDays(days)

		link, err := d.Repo.FindLinkByCode(ctx, chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		now := d.Now()
		breakdown, err := d.Repo.ClickBreakdown(ctx, link.ID, domain.AnalyticsSince(now, days))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		rep := domain.BuildReport(link, breakdown, days, now)

		resp := analyticsResponse{
			Code:         rep.Code,
			Days:         rep.Days,
			TotalClicks:  rep.TotalClicks,
			PeriodClicks: rep.PeriodClicks,
			Daily:        rep.Daily,
			Referrers:    make([]sourceCount, 0, len(rep.Referrers)),
			Devices:      make([]deviceCount, 0, len(rep.Devices)),
			Browsers:     make([]browserCount, 0, len(rep.Browsers)),
		}
		for _, b := range rep.Referrers {
			resp.Referrers = append(resp.Referrers, sourceCount{Source: b.Label, Count: b.Count})
		}
		for _, b := range rep.Devices {
			resp.Devices = append(resp.Devices, deviceCount{Device: b.Label, Count: b.Count})
		}
		for _, b := range rep.Browsers {
			resp.Browsers = append(resp.Browsers, browserCount{Browser: b.Label, Count: b.Count})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
