package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/network"
	"github.com/MrSnakeDoc/curator/internal/web"
)

// ParamCollectionError carries a rejected collection name back to the page
// that submitted it.
const ParamCollectionError = "collection_error"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func render(d deps.Deps, w http.ResponseWriter, status int, page string, data any) {
	if err := d.Renderer.Render(w, status, page, data); err != nil {
		d.Logger.Error("failed to render page", logger.String("page", page), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func renderFragment(d deps.Deps, w http.ResponseWriter, status int, name string, data any) {
	if err := d.Renderer.RenderFragment(w, status, name, data); err != nil {
		d.Logger.Error("failed to render fragment", logger.String("fragment", name), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func renderError(d deps.Deps, w http.ResponseWriter, status int, message string) {
	render(d, w, status, web.PageError, web.ErrorPage{
		Layout:  web.Layout{Title: http.StatusText(status)},
		Status:  status,
		Message: message,
	})
}

// backendMessage is the user-facing text for a failed archive call.
func backendMessage(err error) string {
	var httpErr *network.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("The archive backend answered %d %s", httpErr.StatusCode, http.StatusText(httpErr.StatusCode))
	}
	return "The archive backend is unreachable"
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// parseID reads a positive int64.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// returnTarget picks where a state form redirects to: the "return" field
// when it is a local path, else a same-host Referer, else the gallery.
func returnTarget(r *http.Request) string {
	if ret := r.PostFormValue("return"); isLocalPath(ret) {
		return ret
	}
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Host == r.Host && isLocalPath(ref.RequestURI()) {
		return ref.RequestURI()
	}
	return "/gallery"
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

// withCollectionError sets or clears the collection error on target.
func withCollectionError(target, msg string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Del(ParamCollectionError)
	if msg != "" {
		q.Set(ParamCollectionError, msg)
	}
	u.RawQuery = q.Encode()
	return u.RequestURI()
}
