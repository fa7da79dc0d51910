// Package web holds the embedded HTML templates and static assets and
// renders them for the HTTP handlers.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Page templates. Each one is executed through the shared layout.
const (
	PageDashboard = "dashboard"
	PageGallery   = "gallery"
	PageUser      = "user"
	PageError     = "error"
)

// Fragment templates rendered without the layout.
const (
	FragmentUploader = "uploader"
	FragmentTags     = "tags"
)

var pages = []string{PageDashboard, PageGallery, PageUser, PageError}

var fragments = []string{FragmentUploader, FragmentTags}

// Renderer executes pre-parsed templates. It is safe for concurrent use.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
	static    http.Handler
}

// New parses every embedded template once. A parse error is a build defect
// and fails startup.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}

	for _, name := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(assets,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}

	frags, err := template.New("fragments.html").Funcs(funcs).ParseFS(assets,
		"templates/partials.html",
		"templates/fragments.html",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment templates: %w", err)
	}
	r.fragments = frags

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}
	r.static = http.FileServerFS(static)

	return r, nil
}

// Render writes page name with status. The template is executed into a
// buffer first so a failing template never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return write(w, status, t, "layout", data)
}

// RenderFragment writes a layout-less HTML snippet.
func (r *Renderer) RenderFragment(w http.ResponseWriter, status int, name string, data any) error {
	if r.fragments.Lookup(name) == nil {
		return fmt.Errorf("unknown fragment %q", name)
	}
	return write(w, status, r.fragments, name, data)
}

// Static serves the embedded CSS and JS. Mount it with the prefix stripped.
func (r *Renderer) Static() http.Handler { return r.static }

func write(w http.ResponseWriter, status int, t *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to execute %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"joinIDs": func(ids []int64) string {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.FormatInt(id, 10)
		}
		return strings.Join(parts, ",")
	},
	"stars": func() []int { return []int{1, 2, 3, 4, 5} },
	"deref": func(p *int64) int64 {
		if p == nil {
			return 0
		}
		return *p
	},
	"isRating": func(p *int, n int) bool { return p != nil && *p == n },
}
