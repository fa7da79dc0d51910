package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/curator/internal/httpserver/mw"
)

func init() { Register(registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.CORS(d.CORSOrigins))
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/suggest/tags", handlers.SuggestTags(d))
		r.Get("/suggest/users", handlers.SuggestUsers(d))
	})
}
