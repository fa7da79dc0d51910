package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/view"
	"github.com/MrSnakeDoc/curator/internal/web"
)

// UploaderFragment fills the viewer's uploader placeholder.
// GET /fragments/uploader/{id}
func UploaderFragment(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			renderFragment(d, w, http.StatusBadRequest, web.FragmentUploader, web.UploaderFragment{Error: "Invalid user id"})
			return
		}

		u, err := d.Archive.GeneralUser(r.Context(), id)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			renderFragment(d, w, http.StatusNotFound, web.FragmentUploader, web.UploaderFragment{NotFound: true})
		case err != nil:
			d.Logger.Error("failed to fetch uploader", logger.Int64("user_id", id), logger.Error(err))
			renderFragment(d, w, http.StatusBadGateway, web.FragmentUploader, web.UploaderFragment{Error: backendMessage(err)})
		default:
			renderFragment(d, w, http.StatusOK, web.FragmentUploader, web.UploaderFragment{User: &u})
		}
	}
}

// TagsFragment fills the viewer's tag placeholder. GET /fragments/tags?ids=1,2
func TagsFragment(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ids []int64
		for part := range strings.SplitSeq(r.URL.Query().Get("ids"), ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, ok := parseID(part)
			if !ok {
				renderFragment(d, w, http.StatusBadRequest, web.FragmentTags, web.TagsFragment{Error: "Invalid tag id"})
				return
			}
			ids = append(ids, id)
		}

		tags, err := d.Archive.TagsByIDs(r.Context(), ids)
		if err != nil {
			d.Logger.Error("failed to fetch tags", logger.Int64s("tag_ids", ids), logger.Error(err))
			renderFragment(d, w, http.StatusBadGateway, web.FragmentTags, web.TagsFragment{Error: backendMessage(err)})
			return
		}
		renderFragment(d, w, http.StatusOK, web.FragmentTags, web.TagsFragment{Tags: view.TagChips(tags)})
	}
}
