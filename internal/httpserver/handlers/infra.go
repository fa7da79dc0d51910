package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
)

type componentStatus struct {
	OK              bool   `json:"ok"`
	FavoritesLoaded *int   `json:"favorites_loaded,omitempty"`
	RecordsStored   *int   `json:"records_stored,omitempty"`
	LastReload      string `json:"last_reload,omitempty"`
	Mode            string `json:"mode,omitempty"`
	Impact          string `json:"impact,omitempty"`
	Error           string `json:"error,omitempty"`
}

type infraResponse struct {
	ServingMode string                     `json:"serving_mode"`
	Components  map[string]componentStatus `json:"components"`
}

// Infra reports the state of every component the pages depend on.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"archive":   checkArchive(r.Context(), d),
			"dashboard": checkDashboard(d),
			"state":     checkState(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			ServingMode: determineServingMode(components),
			Components:  components,
		})
	}
}

// determineServingMode: without the archive nothing renders; without the
// dashboard or a writable state the gallery still works.
func determineServingMode(components map[string]componentStatus) string {
	if archive, ok := components["archive"]; ok && !archive.OK {
		return "critical"
	}
	for _, name := range []string{"dashboard", "state"} {
		if c, ok := components[name]; ok && !c.OK {
			return "degraded"
		}
	}
	return "optimal"
}

func checkArchive(ctx context.Context, d deps.Deps) componentStatus {
	if err := d.Archive.Probe(ctx, 2*time.Second); err != nil {
		return componentStatus{OK: false, Impact: "pages-unavailable", Error: "unreachable"}
	}
	return componentStatus{OK: true, Mode: d.Archive.Source()}
}

func checkDashboard(d deps.Deps) componentStatus {
	loaded := d.Dashboard.Count()
	lastReload := "never"
	if t := d.Dashboard.LastReload(); !t.IsZero() {
		lastReload = t.Format("2006-01-02 15:04:05")
	}
	status := componentStatus{
		OK:              d.Dashboard.LastError() == nil,
		FavoritesLoaded: &loaded,
		LastReload:      lastReload,
	}
	if err := d.Dashboard.LastError(); err != nil {
		status.Impact = "stale-favorites"
		status.Error = err.Error()
	}
	return status
}

func checkState(ctx context.Context, d deps.Deps) componentStatus {
	if d.StatePinger == nil {
		return componentStatus{OK: true, Mode: d.StateBackend}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.StatePinger.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.StateBackend,
			Impact: "state-changes-fail",
			Error:  "timeout",
		}
	}
	status := componentStatus{OK: true, Mode: d.StateBackend}
	if lister, ok := d.StatePinger.(deps.KeyLister); ok {
		if keys, err := lister.Keys(ctx); err == nil {
			n := len(keys)
			status.RecordsStored = &n
		}
	}
	return status
}
