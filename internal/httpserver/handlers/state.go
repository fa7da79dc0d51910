package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/store"
)

// stateSnapshot is the JSON view of the three stores.
type stateSnapshot struct {
	Zoom       store.ZoomState       `json:"zoom"`
	Collection store.CollectionState `json:"collection"`
	Rating     store.RatingState     `json:"rating"`
}

// State returns the current curation state. GET /state
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, snapshot(d))
	}
}

func snapshot(d deps.Deps) stateSnapshot {
	return stateSnapshot{
		Zoom:       d.Zoom.State(),
		Collection: d.Collections.State(),
		Rating:     d.Ratings.State(),
	}
}

// mutation runs fn and answers with the resulting state, as JSON when the
// client asks for it and as a redirect back to the submitting page
// otherwise. Validation failures travel back as collection_error.
func mutation(d deps.Deps, storeName string, fn func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			respondMutation(d, w, r, &store.ValidationError{Message: "Malformed form"})
			return
		}

		err := fn(r)
		if d.Metrics != nil {
			d.Metrics.StateMutation(storeName, err)
		}
		if err != nil && !isClientError(err) {
			d.Logger.Error("state mutation failed", logger.String("store", storeName), logger.Error(err))
		}
		respondMutation(d, w, r, err)
	}
}

func isClientError(err error) bool {
	var verr *store.ValidationError
	return errors.As(err, &verr) || errors.Is(err, store.ErrUnknownCollection)
}

func respondMutation(d deps.Deps, w http.ResponseWriter, r *http.Request, err error) {
	var verr *store.ValidationError
	status, msg, field := http.StatusOK, "", ""
	switch {
	case err == nil:
	case errors.As(err, &verr):
		status, msg, field = http.StatusBadRequest, verr.Message, verr.Field
	case errors.Is(err, store.ErrUnknownCollection):
		status, msg, field = http.StatusNotFound, "Collection does not exist", "name"
	default:
		status, msg = http.StatusInternalServerError, "Failed to save your change"
	}

	if wantsJSON(r) {
		if err != nil {
			writeJSON(w, status, errorResponse{Error: msg, Field: field})
			return
		}
		writeJSON(w, status, snapshot(d))
		return
	}

	if status == http.StatusInternalServerError {
		renderError(d, w, status, msg)
		return
	}
	http.Redirect(w, r, withCollectionError(returnTarget(r), msg), http.StatusSeeOther)
}

// formItems reads every "item" value; each may hold comma-separated ids.
func formItems(r *http.Request) ([]int64, error) {
	var ids []int64
	for _, raw := range r.PostForm["item"] {
		for part := range strings.SplitSeq(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, ok := parseID(part)
			if !ok {
				return nil, &store.ValidationError{Field: "item", Message: "Invalid item id"}
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ZoomIn shows larger thumbnails. POST /state/zoom/in
func ZoomIn(d deps.Deps) http.HandlerFunc {
	return mutation(d, store.KeyZoom, func(r *http.Request) error {
		_, err := d.Zoom.ZoomIn(r.Context())
		return err
	})
}

// ZoomOut shows more, smaller thumbnails. POST /state/zoom/out
func ZoomOut(d deps.Deps) http.HandlerFunc {
	return mutation(d, store.KeyZoom, func(r *http.Request) error {
		_, err := d.Zoom.ZoomOut(r.Context())
		return err
	})
}

// CreateCollection creates a collection, optionally seeded with items.
// POST /state/collections
func CreateCollection(d deps.Deps) http.HandlerFunc {
	return mutation(d, store.KeyCollection, func(r *http.Request) error {
		ids, err := formItems(r)
		if err != nil {
			return err
		}
		return d.Collections.CreateCollection(r.Context(), strings.TrimSpace(r.PostFormValue("name")), ids)
	})
}

// AddToCollection adds items to an existing collection.
// POST /state/collections/items
func AddToCollection(d deps.Deps) http.HandlerFunc {
	return mutation(d, store.KeyCollection, func(r *http.Request) error {
		ids, err := formItems(r)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return &store.ValidationError{Field: "item", Message: "Item id is required"}
		}
		return d.Collections.AddItems(r.Context(), r.PostFormValue("name"), ids...)
	})
}

// RemoveFromCollection drops items from a collection.
// POST /state/collections/items/remove
func RemoveFromCollection(d deps.Deps) http.HandlerFunc {
	return mutation(d, store.KeyCollection, func(r *http.Request) error {
		ids, err := formItems(r)
		if err != nil {
			return err
		}
		return d.Collections.RemoveItems(r.Context(), r.PostFormValue("name"), ids...)
	})
}

// DeleteCollection removes a collection. POST /state/collections/delete
func DeleteCollection(d deps.Deps) http.HandlerFunc {
	return mutation(d, store.KeyCollection, func(r *http.Request) error {
		return d.Collections.RemoveCollection(r.Context(), r.PostFormValue("name"))
	})
}

// SelectCollection filters the gallery by a collection; an empty name shows
// all items. POST /state/collections/current
func SelectCollection(d deps.Deps) http.HandlerFunc {
	return mutation(d, store.KeyCollection, func(r *http.Request) error {
		name := r.PostFormValue("name")
		if name == "" {
			return d.Collections.SetCurrent(r.Context(), nil)
		}
		return d.Collections.SetCurrent(r.Context(), &name)
	})
}

// SetRating rates an item; an empty rating removes it.
// POST /state/ratings/{id}
func SetRating(d deps.Deps) http.HandlerFunc {
	return mutation(d, store.KeyRating, func(r *http.Request) error {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			return &store.ValidationError{Field: "id", Message: "Invalid item id"}
		}

		raw := strings.TrimSpace(r.PostFormValue("rating"))
		if raw == "" {
			return d.Ratings.SetRating(r.Context(), id, nil)
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return &store.ValidationError{Field: "rating", Message: "Rating must be between 1 and 5"}
		}
		return d.Ratings.SetRating(r.Context(), id, &v)
	})
}
