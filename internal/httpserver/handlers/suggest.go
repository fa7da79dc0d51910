package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/view"
)

// SuggestTags answers the tag typing search. An empty search returns an
// empty list without calling the backend. GET /api/suggest/tags?search=
func SuggestTags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := strings.TrimSpace(r.URL.Query().Get("search"))
		if search == "" {
			writeJSON(w, http.StatusOK, []view.TagChip{})
			return
		}

		tags, err := d.Archive.SearchTags(r.Context(), search)
		if err != nil {
			d.Logger.Warn("tag suggestion failed", logger.String("search", search), logger.Error(err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: backendMessage(err)})
			return
		}
		writeJSON(w, http.StatusOK, view.TagChips(tags))
	}
}

// SuggestUsers answers the uploader typing search. GET /api/suggest/users?search=
func SuggestUsers(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := strings.TrimSpace(r.URL.Query().Get("search"))
		if search == "" {
			writeJSON(w, http.StatusOK, []view.UserOption{})
			return
		}

		users, err := d.Archive.SearchUsers(r.Context(), search)
		if err != nil {
			d.Logger.Warn("user suggestion failed", logger.String("search", search), logger.Error(err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: backendMessage(err)})
			return
		}
		writeJSON(w, http.StatusOK, view.UserOptions(users))
	}
}
