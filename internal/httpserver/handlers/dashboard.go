package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/MrSnakeDoc/curator/internal/web"
)

// Dashboard renders the index page from the dashboard index and the local
// curation state. It never calls the backend. GET /
func Dashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs := d.Collections.State()
		rs := d.Ratings.State()

		page := web.DashboardPage{
			Layout:      web.Layout{Title: "Dashboard", Active: "dashboard"},
			Favorites:   d.Dashboard.Favorites(),
			Collections: collectionSummaries(cs),
			RatedItems:  len(rs.RatingByID),
		}
		if t := d.Dashboard.LastReload(); !t.IsZero() {
			page.LastReload = t.Format("2006-01-02 15:04")
		}
		if err := d.Dashboard.LastError(); err != nil {
			page.ReloadError = "Favorites could not be refreshed; showing the last known list."
		}

		var collected []int64
		for _, ids := range cs.Collections {
			collected = store.Union(collected, ids...)
		}
		page.Collected = len(collected)

		counts := make([]int, store.MaxRating+1)
		for _, v := range rs.RatingByID {
			if v >= store.MinRating && v <= store.MaxRating {
				counts[v]++
			}
		}
		for stars := store.MinRating; stars <= store.MaxRating; stars++ {
			page.RatingCounts = append(page.RatingCounts, web.RatingCount{Stars: stars, Count: counts[stars]})
		}

		render(d, w, http.StatusOK, web.PageDashboard, page)
	}
}

// NotFound is the catch-all page.
func NotFound(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderError(d, w, http.StatusNotFound, "Page not found")
	}
}
