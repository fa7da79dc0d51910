package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/curator/internal/httpserver/mw"
)

func init() { Register(registerPages) }

func registerPages(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/", handlers.Dashboard(d))
		r.Get("/gallery", handlers.Gallery(d))
		// /user and /user/ render the missing id message
		r.Get("/user", handlers.User(d))
		r.Get("/user/", handlers.User(d))
		r.Get("/user/{id}", handlers.User(d))

		r.Get("/fragments/uploader/{id}", handlers.UploaderFragment(d))
		r.Get("/fragments/tags", handlers.TagsFragment(d))
	})

	r.Handle("/static/*", http.StripPrefix("/static/", d.Renderer.Static()))
}
