package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/sniplink/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Mode       string `json:"mode,omitempty"`
	Path       string `json:"path,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Declared   *int   `json:"declared,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the database, the cache and the links file.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]componentStatus{
			"database":   checkDatabase(ctx, d),
			"cache":      checkCache(ctx, d),
			"links_file": linksFileStatus(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	// No database = nothing works
	if db, ok := components["database"]; ok && !db.OK {
		return "critical"
	}
	for _, c := range components {
		if !c.OK {
			return "degraded"
		}
	}
	return "ok"
}

func checkDatabase(ctx context.Context, d deps.Deps) componentStatus {
	if err := d.Repo.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.DBDriver, Impact: "service-down", Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: d.DBDriver}
}

func checkCache(ctx context.Context, d deps.Deps) componentStatus {
	if d.CacheMode != deps.CacheModeRedis {
		return componentStatus{OK: true, Mode: deps.CacheModeMemory}
	}
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   deps.CacheModeRedis,
			Impact: "redirects-uncached",
			Error:  "client not initialized",
		}
	}
	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   deps.CacheModeRedis,
			Impact: "redirects-uncached",
			Error:  "timeout",
		}
	}
	return componentStatus{OK: true, Mode: deps.CacheModeRedis}
}

func linksFileStatus(d deps.Deps) componentStatus {
	if d.LinksReloader == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	status := componentStatus{OK: true, Mode: "enabled", Path: d.LinksFile, LastReload: "never"}
	if last := d.LinksReloader.LastResult(); last != nil {
		status.LastReload = last.At.UTC().Format("2006-01-02 15:04:05")
		status.Declared = &last.Declared
		if last.Error != "" {
			status.OK = false
			status.Error = last.Error
		}
	}
	return status
}
