package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/network"
	"github.com/MrSnakeDoc/curator/internal/query"
)

// fakeBackend records every body posted per path and answers with canned pages.
type fakeBackend struct {
	mu     sync.Mutex
	bodies map[string][]string

	users   []domain.User
	illusts []domain.Illust
	tags    []domain.Tag
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.bodies[r.URL.Path] = append(f.bodies[r.URL.Path], string(raw))
	f.mu.Unlock()

	var out any
	switch r.URL.Path {
	case "/api/pixiv/user/find":
		out = domain.Page[domain.User]{Items: f.users, Total: len(f.users)}
	case "/api/pixiv/illust/find":
		out = domain.Page[domain.Illust]{Items: f.illusts, Total: 1}
	case "/api/pixiv/find/tag":
		out = f.tags
	default:
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (f *fakeBackend) calls(path string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[path]
}

func newTestArchive(t *testing.T, f *fakeBackend) (*Client, *httptest.Server) {
	t.Helper()
	f.bodies = map[string][]string{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	net, err := network.New(network.Options{Timeout: 5 * time.Second}, logger.Nop())
	if err != nil {
		t.Fatalf("network.New() error = %v", err)
	}
	t.Cleanup(net.Close)

	return New(net, srv.URL+"/api", "pixiv", "https://media.domain.ext"), srv
}

func illustWithImages(id int64, paths ...string) domain.Illust {
	var il domain.Illust
	il.ID = id
	il.History.Extension.ImagePaths = paths
	return il
}

func TestFindIllustsNilOptions(t *testing.T) {
	f := &fakeBackend{}
	c, _ := newTestArchive(t, f)

	_, err := c.FindIllusts(context.Background(), nil, 1, 50)
	if !errors.Is(err, network.ErrNoKey) {
		t.Fatalf("FindIllusts(nil) error = %v, want ErrNoKey", err)
	}
	if n := len(f.calls("/api/pixiv/illust/find")); n != 0 {
		t.Errorf("backend called %d times, want 0", n)
	}
}

func TestFindIllustsBody(t *testing.T) {
	f := &fakeBackend{illusts: []domain.Illust{illustWithImages(1, "a.png")}}
	c, _ := newTestArchive(t, f)

	opts := &query.IllustFindOptions{TagIDs: []int64{5}, Search: "sunset"}
	page, err := c.FindIllusts(context.Background(), opts, 2, 30)
	if err != nil {
		t.Fatalf("FindIllusts() error = %v", err)
	}
	if len(page.Items) != 1 {
		t.Errorf("items = %d, want 1", len(page.Items))
	}

	bodies := f.calls("/api/pixiv/illust/find")
	if len(bodies) != 1 {
		t.Fatalf("backend calls = %d, want 1", len(bodies))
	}
	if want := `{"tag_ids":[5],"search":"sunset","limit":30,"offset":30}`; bodies[0] != want {
		t.Errorf("body = %s, want %s", bodies[0], want)
	}
}

func TestSearchTagsEmpty(t *testing.T) {
	f := &fakeBackend{}
	c, _ := newTestArchive(t, f)

	tags, err := c.SearchTags(context.Background(), "")
	if err != nil || tags != nil {
		t.Errorf("SearchTags(\"\") = %v, %v, want nil, nil", tags, err)
	}
	if n := len(f.calls("/api/pixiv/find/tag")); n != 0 {
		t.Errorf("backend called %d times, want 0", n)
	}
}

func TestTagsByIDs(t *testing.T) {
	f := &fakeBackend{tags: []domain.Tag{{ID: 5, Alias: []string{"sunset"}}}}
	c, _ := newTestArchive(t, f)

	tags, err := c.TagsByIDs(context.Background(), []int64{5, 9})
	if err != nil {
		t.Fatalf("TagsByIDs() error = %v", err)
	}
	if len(tags) != 1 || tags[0].ID != 5 {
		t.Errorf("TagsByIDs() = %+v", tags)
	}
	if got, want := f.calls("/api/pixiv/find/tag")[0], `{"ids":[5,9],"limit":2,"offset":0}`; got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestTagEndpointAnswersBareList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":5,"alias":["sunset","夕焼け"]}]`)
	}))
	t.Cleanup(srv.Close)

	net, err := network.New(network.Options{Timeout: 5 * time.Second}, logger.Nop())
	if err != nil {
		t.Fatalf("network.New() error = %v", err)
	}
	t.Cleanup(net.Close)
	c := New(net, srv.URL+"/api", "pixiv", "")

	ctx := context.Background()
	for name, fetch := range map[string]func() ([]domain.Tag, error){
		"SearchTags": func() ([]domain.Tag, error) { return c.SearchTags(ctx, "sun") },
		"TagsByIDs":  func() ([]domain.Tag, error) { return c.TagsByIDs(ctx, []int64{5}) },
	} {
		t.Run(name, func(t *testing.T) {
			tags, err := fetch()
			if err != nil {
				t.Fatalf("%s() error = %v", name, err)
			}
			if len(tags) != 1 || tags[0].ID != 5 || tags[0].Label() != "sunset / 夕焼け" {
				t.Errorf("%s() = %+v", name, tags)
			}
		})
	}
}

func TestGeneralUser(t *testing.T) {
	var u domain.User
	u.ID = 90
	u.History.Extension.Name = "mika"
	u.History.Extension.AvatarPath = "avatars/90.png"

	f := &fakeBackend{
		users: []domain.User{u},
		illusts: []domain.Illust{
			illustWithImages(1, "works/1_p0.png", "works/1_p1.png"),
			illustWithImages(2),
			illustWithImages(3, "works/3_p0.png"),
		},
	}
	c, _ := newTestArchive(t, f)

	got, err := c.GeneralUser(context.Background(), 90)
	if err != nil {
		t.Fatalf("GeneralUser() error = %v", err)
	}

	want := domain.GeneralUser{
		Source:    "pixiv",
		ID:        90,
		Name:      "mika",
		AvatarURL: "https://media.domain.ext/pixiv/storage/avatars/90.png",
		PreviewURLs: []string{
			"https://media.domain.ext/pixiv/thumbnail/works/1_p0.png?crop_to_center=true&size=256",
			"https://media.domain.ext/pixiv/thumbnail/works/3_p0.png?crop_to_center=true&size=256",
		},
	}
	if got.Name != want.Name || got.AvatarURL != want.AvatarURL || got.Source != want.Source {
		t.Errorf("GeneralUser() = %+v, want %+v", got, want)
	}
	if len(got.PreviewURLs) != len(want.PreviewURLs) {
		t.Fatalf("PreviewURLs = %v, want %v", got.PreviewURLs, want.PreviewURLs)
	}
	for i := range want.PreviewURLs {
		if got.PreviewURLs[i] != want.PreviewURLs[i] {
			t.Errorf("PreviewURLs[%d] = %s, want %s", i, got.PreviewURLs[i], want.PreviewURLs[i])
		}
	}

	if body := f.calls("/api/pixiv/illust/find")[0]; body != `{"parent_ids":[90],"limit":3,"offset":0}` {
		t.Errorf("preview body = %s", body)
	}
}

func TestGeneralUserNotFound(t *testing.T) {
	f := &fakeBackend{}
	c, _ := newTestArchive(t, f)

	_, err := c.GeneralUser(context.Background(), 404)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GeneralUser() error = %v, want ErrNotFound", err)
	}
	if n := len(f.calls("/api/pixiv/illust/find")); n != 0 {
		t.Errorf("previews fetched %d times for a missing user", n)
	}
}

func TestProbe(t *testing.T) {
	f := &fakeBackend{}
	c, _ := newTestArchive(t, f)

	if err := c.Probe(context.Background(), time.Second); err != nil {
		t.Errorf("Probe() error = %v, want nil (a 404 still means reachable)", err)
	}

	dead := New(nil, "http://127.0.0.1:1", "pixiv", "")
	if err := dead.Probe(context.Background(), 200*time.Millisecond); err == nil {
		t.Error("Probe() on a closed port should fail")
	}
}
