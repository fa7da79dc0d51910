package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/query"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/MrSnakeDoc/curator/internal/view"
	"github.com/MrSnakeDoc/curator/internal/web"
)

// galleryScope is what differs between the plain gallery and an uploader's.
type galleryScope struct {
	title    string
	active   string
	path     string
	parentID *int64 // restricts the listing to one uploader
}

// buildGallery fetches one page of the listing and assembles the grid,
// paginator and overlay. The returned status reflects a filter or backend
// failure; the page is still renderable in that case.
func buildGallery(ctx context.Context, d deps.Deps, r *http.Request, scope galleryScope) (web.GalleryPage, int) {
	cs := d.Collections.State()
	page := web.GalleryPage{
		Layout:          web.Layout{Title: scope.title, Active: scope.active},
		Path:            scope.path,
		ReturnURL:       r.URL.RequestURI(),
		Zoom:            d.Zoom.State(),
		Collections:     collectionSummaries(cs),
		CollectionError: r.URL.Query().Get(ParamCollectionError),
	}
	if cs.Current != nil {
		page.CurrentCollection = *cs.Current
	}

	filter, err := view.ParseFilter(r.URL.Query())
	if err != nil {
		var ferr *view.FilterError
		if errors.As(err, &ferr) {
			page.FilterError = ferr.Error()
		} else {
			page.FilterError = err.Error()
		}
		return page, http.StatusBadRequest
	}
	page.Filter = filter
	page.SelectedTags = selectedTags(ctx, d, filter.TagIDs)

	grid := d.Dashboard.Grid()
	perPage := grid.PerPage
	if perPage <= 0 {
		perPage = query.IllustsPerPage
	}

	opts := filter.Options(cs.IDs(), grid)
	if scope.parentID != nil {
		opts.ParentIDs = []int64{*scope.parentID}
	}

	listing, err := d.Archive.FindIllusts(ctx, &opts, filter.Page, perPage)
	if err != nil {
		d.Logger.Error("failed to fetch gallery page",
			logger.String("path", scope.path),
			logger.Int("page", filter.Page),
			logger.Error(err))
		page.GridError = backendMessage(err)
		return page, http.StatusBadGateway
	}

	ratings := d.Ratings.State().RatingByID
	for _, item := range view.GridItems(listing, filter.Rating, ratings, d.Archive) {
		id := item.ID
		page.Cells = append(page.Cells, web.GridCell{
			GridItem: item,
			Href:     filter.WithItem(&id).URL(scope.path),
			Rating:   ratings[id],
		})
	}

	page.Paginator = view.NewPaginator(listing.Total, filter.Page)
	if p := page.Paginator.Prev; p > 0 {
		page.PrevHref = filter.WithPage(p).URL(scope.path)
	}
	if p := page.Paginator.Next; p > 0 {
		page.NextHref = filter.WithPage(p).URL(scope.path)
	}
	for _, link := range page.Paginator.Links {
		lv := web.PageLinkView{PageLink: link}
		if !link.Gap {
			lv.Href = filter.WithPage(link.Number).URL(scope.path)
		}
		page.Links = append(page.Links, lv)
	}

	if overlay := view.OpenOverlay(listing, filter.Item); overlay.IsOpen() {
		il := *overlay.Illust
		viewer := view.NewViewer(il, d.Archive, ratings[il.ID], cs.Names(), cs.Contains)
		page.Viewer = &viewer
		page.CloseHref = filter.WithItem(nil).URL(scope.path)
		if il.ParentID != nil {
			page.UploaderFragment = "/fragments/uploader/" + strconv.FormatInt(*il.ParentID, 10)
		}
		if len(il.TagIDs) > 0 {
			page.TagsFragment = "/fragments/tags?ids=" + joinIDs(il.TagIDs)
		}
	}

	return page, http.StatusOK
}

// selectedTags labels the tags of the active filter. A failed lookup falls
// back to bare ids so the filter stays visible.
func selectedTags(ctx context.Context, d deps.Deps, ids []int64) []view.TagChip {
	if len(ids) == 0 {
		return nil
	}
	tags, err := d.Archive.TagsByIDs(ctx, ids)
	if err == nil {
		return view.TagChips(tags)
	}

	d.Logger.Warn("failed to resolve filter tags", logger.Int64s("tag_ids", ids), logger.Error(err))
	chips := make([]view.TagChip, 0, len(ids))
	for _, id := range ids {
		label := strconv.FormatInt(id, 10)
		chips = append(chips, view.TagChip{ID: id, Label: label, Tooltip: label})
	}
	return chips
}

func collectionSummaries(cs store.CollectionState) []web.CollectionSummary {
	names := cs.Names()
	out := make([]web.CollectionSummary, 0, len(names))
	for _, name := range names {
		out = append(out, web.CollectionSummary{
			Name:    name,
			Count:   len(cs.Collections[name]),
			Current: cs.Current != nil && *cs.Current == name,
		})
	}
	return out
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// Gallery renders the filtered grid. GET /gallery
func Gallery(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, status := buildGallery(r.Context(), d, r, galleryScope{
			title:  "Gallery",
			active: "gallery",
			path:   "/gallery",
		})
		render(d, w, status, web.PageGallery, page)
	}
}

// User renders an uploader profile above their works. GET /user/{id}
func User(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(chi.URLParam(r, "id"))
		if raw == "" {
			renderError(d, w, http.StatusBadRequest, "User id should be given")
			return
		}
		id, ok := parseID(raw)
		if !ok {
			renderError(d, w, http.StatusBadRequest, "Invalid user id")
			return
		}

		ctx := r.Context()
		u, err := d.Archive.User(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			renderError(d, w, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			d.Logger.Error("failed to fetch user", logger.Int64("user_id", id), logger.Error(err))
			renderError(d, w, http.StatusBadGateway, backendMessage(err))
			return
		}

		profile := view.NewProfile(u, d.Archive)
		gallery, status := buildGallery(ctx, d, r, galleryScope{
			title:    profile.Name,
			active:   "user",
			path:     "/user/" + strconv.FormatInt(id, 10),
			parentID: &id,
		})
		render(d, w, status, web.PageUser, web.UserPage{GalleryPage: gallery, Profile: &profile})
	}
}
