package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/curator/internal/httpserver/mw"
)

func init() { Register(registerState) }

func registerState(r chi.Router, d deps.Deps) {
	r.Route("/state", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/", handlers.State(d))

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(mw.RateLimitConfig{
				Burst:             d.RateLimitBurst,
				RefillPerIPPerMin: d.RateLimitPerMin,
				MaxEntries:        10_000,
				SweepInterval:     time.Minute,
				IdleTTL:           15 * time.Minute,
				TrustProxy:        d.TrustProxy,
				Now:               d.TimeNow,
			}))
			r.Use(mw.SameOrigin(d.Logger))

			r.Post("/zoom/in", handlers.ZoomIn(d))
			r.Post("/zoom/out", handlers.ZoomOut(d))
			r.Post("/collections", handlers.CreateCollection(d))
			r.Post("/collections/items", handlers.AddToCollection(d))
			r.Post("/collections/items/remove", handlers.RemoveFromCollection(d))
			r.Post("/collections/delete", handlers.DeleteCollection(d))
			r.Post("/collections/current", handlers.SelectCollection(d))
			r.Post("/ratings/{id}", handlers.SetRating(d))
		})
	})
}
