package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/logger"
)

const defaultProbeTimeout = 2 * time.Second

type readyzResponse struct {
	Ready  bool              `json:"ready"`
	Checks map[string]string `json:"checks"`
}

// Readyz answers 200 when the archive backend and the state backend
// respond, 503 otherwise.
func Readyz(d deps.Deps) http.HandlerFunc {
	timeout := d.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := readyzResponse{Ready: true, Checks: map[string]string{}}

		check := func(name string, fn func(ctx context.Context) error) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			if err := fn(ctx); err != nil {
				resp.Ready = false
				resp.Checks[name] = "unavailable"
				d.Logger.Warn("readiness check failed", logger.String("check", name), logger.Error(err))
				return
			}
			resp.Checks[name] = "ok"
		}

		check("archive", func(ctx context.Context) error { return d.Archive.Probe(ctx, timeout) })
		if d.StatePinger != nil {
			check("state", d.StatePinger.Ping)
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
