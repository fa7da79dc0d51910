package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/curator/internal/archive"
	"github.com/MrSnakeDoc/curator/internal/config"
	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/index"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/metrics"
	"github.com/MrSnakeDoc/curator/internal/network"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/MrSnakeDoc/curator/internal/web"
)

// archiveStub answers every illust listing with the same page and keeps
// the last request body.
type archiveStub struct {
	mu   sync.Mutex
	last string
	page domain.Page[domain.Illust]
}

func (a *archiveStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	switch r.URL.Path {
	case "/api/pixiv/illust/find":
		a.mu.Lock()
		a.last = strings.TrimSpace(string(raw))
		a.mu.Unlock()
		_ = json.NewEncoder(w).Encode(a.page)
	case "/api/pixiv/find/tag":
		_ = json.NewEncoder(w).Encode([]domain.Tag{{ID: 5, Alias: []string{"夕焼け", "sunset"}}})
	default:
		_ = json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "total": 0})
	}
}

func (a *archiveStub) lastBody() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

func newTestRouter(t *testing.T, stub *archiveStub, mutate func(*deps.Deps)) http.Handler {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	reg := prometheus.NewRegistry()
	net, err := network.New(network.Options{Timeout: 5 * time.Second, CacheTTL: time.Minute, CacheSize: 64}, logger.Nop())
	if err != nil {
		t.Fatalf("network.New: %v", err)
	}
	t.Cleanup(net.Close)

	renderer, err := web.New()
	if err != nil {
		t.Fatalf("web.New: %v", err)
	}

	p := store.NewMemoryPersister()
	d := deps.Deps{
		Logger:          logger.Nop(),
		StartTime:       time.Now(),
		RateLimitBurst:  100,
		RateLimitPerMin: 600,
		Archive:         archive.New(net, srv.URL+"/api", "pixiv", "https://media.example"),
		Network:         net,
		Dashboard:       index.NewDashboardIndex(),
		Renderer:        renderer,
		Metrics:         metrics.NewCollector(reg),
		Gatherer:        reg,
		Zoom:            store.NewZoom(p),
		Collections:     store.NewCollections(p),
		Ratings:         store.NewRatings(p),
		StateBackend:    "memory",
		ReloadTrigger:   make(chan struct{}, 1),
	}
	if mutate != nil {
		mutate(&d)
	}

	return NewRouter(&config.Config{RequestTimeout: 5 * time.Second}, logger.Nop(), d)
}

func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGalleryEndToEnd(t *testing.T) {
	items := make([]domain.Illust, 12)
	for i := range items {
		items[i].ID = int64(i + 1)
		items[i].History.Extension.Title = "sunset"
		items[i].History.Extension.ImagePaths = []string{"p0.png"}
	}
	stub := &archiveStub{page: domain.Page[domain.Illust]{Items: items, Total: 2}}

	h := newTestRouter(t, stub, func(d *deps.Deps) {
		d.Dashboard.UpdateSettings(domain.Dashboard{Grid: domain.GridSettings{PerPage: 30}})
	})

	rec := do(h, http.MethodGet, "/gallery?tags=5&search=sunset&page=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	want := `{"tag_ids":[5],"search":"sunset","limit":30,"offset":30}`
	if got := stub.lastBody(); got != want {
		t.Errorf("backend body = %s, want %s", got, want)
	}

	body := rec.Body.String()
	if n := strings.Count(body, `class="cell"`); n != 12 {
		t.Errorf("cells = %d, want 12", n)
	}
	if !strings.Contains(body, `data-pages="2"`) {
		t.Error("paginator should report 2 pages")
	}
	if !strings.Contains(body, "夕焼け / sunset") {
		t.Error("selected tag chip missing")
	}
}

func TestStateRoundTripThroughRouter(t *testing.T) {
	stub := &archiveStub{page: domain.Page[domain.Illust]{
		Items: []domain.Illust{{ID: 9, History: domain.History[domain.IllustHistory]{
			Extension: domain.IllustHistory{Title: "w", ImagePaths: []string{"p0.png"}},
		}}},
		Total: 1,
	}}
	h := newTestRouter(t, stub, nil)

	form := url.Values{"name": {"Keep"}, "item": {"9"}, "return": {"/gallery?item=9"}}
	rec := do(h, http.MethodPost, "/state/collections", strings.NewReader(form.Encode()))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create: status %d", rec.Code)
	}

	page := do(h, http.MethodGet, rec.Header().Get("Location"), nil).Body.String()
	if !strings.Contains(page, "✓ Keep") {
		t.Error("viewer should mark the item as part of Keep")
	}
	if !strings.Contains(page, `action="/state/collections/items/remove"`) {
		t.Error("a collected item should offer removal")
	}

	rec = do(h, http.MethodGet, "/state", nil)
	if !strings.Contains(rec.Body.String(), `"Keep":[9]`) {
		t.Errorf("state = %s", rec.Body.String())
	}

	form = url.Values{"name": {"Keep"}, "item": {"9"}, "return": {"/gallery?item=9"}}
	rec = do(h, http.MethodPost, "/state/collections/items/remove", strings.NewReader(form.Encode()))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("remove: status %d", rec.Code)
	}
	page = do(h, http.MethodGet, rec.Header().Get("Location"), nil).Body.String()
	if strings.Contains(page, "✓ Keep") {
		t.Error("viewer should offer Keep again after removal")
	}
}

func TestStateRejectsCrossSitePosts(t *testing.T) {
	h := newTestRouter(t, &archiveStub{}, nil)

	form := url.Values{"name": {"Stolen"}}
	req := httptest.NewRequest(http.MethodPost, "/state/collections", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-site post: status %d, want 403", rec.Code)
	}

	rec = do(h, http.MethodGet, "/state", nil)
	if strings.Contains(rec.Body.String(), "Stolen") {
		t.Errorf("cross-site post mutated state: %s", rec.Body.String())
	}
}

func TestRouterFallbacks(t *testing.T) {
	h := newTestRouter(t, &archiveStub{}, nil)

	tests := []struct {
		name   string
		method string
		target string
		status int
		want   string
	}{
		{"unknown page", http.MethodGet, "/nope", http.StatusNotFound, "Page not found"},
		{"wrong method", http.MethodDelete, "/gallery", http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"static asset", http.MethodGet, "/static/app.css", http.StatusOK, ".grid"},
		{"head on page", http.MethodHead, "/", http.StatusOK, ""},
		{"missing user id", http.MethodGet, "/user/", http.StatusBadRequest, "User id should be given"},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.method, tt.target, nil)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
		})
	}
}
