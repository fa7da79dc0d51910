package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/curator/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	guard := mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
	r.With(guard).Get("/infra", handlers.Infra(d))
	if d.Gatherer != nil {
		r.With(guard).Method("GET", "/metrics", handlers.Metrics(d))
	}
}
