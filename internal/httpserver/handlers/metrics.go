package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/metrics"
)

func Metrics(d deps.Deps) http.Handler {
	return metrics.Handler(d.Gatherer)
}
