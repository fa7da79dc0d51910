package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/curator/internal/logger"
)

type echo struct {
	Search string `json:"search"`
	Calls  int64  `json:"calls"`
}

func newTestClient(t *testing.T, ttl time.Duration) *Client {
	t.Helper()
	c, err := New(Options{
		Timeout:   5 * time.Second,
		CacheTTL:  ttl,
		CacheSize: 64,
	}, logger.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

// countingBackend echoes the posted search field and counts requests.
func countingBackend(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var in echo
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(echo{Search: in.Search, Calls: n})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRequest(t *testing.T) {
	var hits atomic.Int64
	srv := countingBackend(t, &hits)
	c := newTestClient(t, 0)

	var out echo
	if err := c.Request(context.Background(), srv.URL+"/pixiv/illust/find", echo{Search: "cat"}, &out); err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if out.Search != "cat" {
		t.Errorf("Search = %q, want cat", out.Search)
	}
}

func TestRequestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, 0)
	url := srv.URL + "/pixiv/illust/find"

	err := c.Request(context.Background(), url, struct{}{}, nil)

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("error = %v, want *HTTPError", err)
	}
	if he.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", he.StatusCode)
	}
	if want := url + ": 500: boom"; he.Error() != want {
		t.Errorf("Error() = %q, want %q", he.Error(), want)
	}
	if StatusOf(err) != http.StatusInternalServerError {
		t.Errorf("StatusOf() = %d", StatusOf(err))
	}
}

func TestQueryEmptyKey(t *testing.T) {
	c := newTestClient(t, time.Minute)

	_, err := Query[echo](context.Background(), c, "", echo{Search: "cat"})
	if !errors.Is(err, ErrNoKey) {
		t.Errorf("Query() error = %v, want ErrNoKey", err)
	}
}

func TestQueryKeySensitivity(t *testing.T) {
	var hits atomic.Int64
	srv := countingBackend(t, &hits)
	c := newTestClient(t, time.Minute)
	url := srv.URL + "/pixiv/illust/find"
	ctx := context.Background()

	for _, search := range []string{"cat", "cats", "cat"} {
		got, err := Query[echo](ctx, c, url, echo{Search: search})
		if err != nil {
			t.Fatalf("Query(%q) error = %v", search, err)
		}
		if got.Search != search {
			t.Errorf("Query(%q) returned %q", search, got.Search)
		}
	}

	if n := hits.Load(); n != 2 {
		t.Errorf("backend hits = %d, want 2 (one per distinct body)", n)
	}
}

func TestQueryDeduplicatesConcurrentCalls(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		<-release
		_ = json.NewEncoder(w).Encode(echo{Search: "cat"})
	}))
	defer srv.Close()

	c := newTestClient(t, time.Minute)
	url := srv.URL + "/pixiv/illust/find"

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Query[echo](context.Background(), c, url, echo{Search: "cat"})
			errs <- err
		}()
	}

	deadline := time.Now().Add(2 * time.Second)
	for hits.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Query() error = %v", err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("backend hits = %d, want 1", n)
	}
}

func TestQueryDoesNotCacheErrors(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(echo{Search: "ok"})
	}))
	defer srv.Close()

	c := newTestClient(t, time.Minute)
	url := srv.URL + "/pixiv/illust/find"
	ctx := context.Background()

	if _, err := Query[echo](ctx, c, url, echo{}); StatusOf(err) != http.StatusServiceUnavailable {
		t.Fatalf("first Query() error = %v, want 503", err)
	}
	got, err := Query[echo](ctx, c, url, echo{})
	if err != nil {
		t.Fatalf("second Query() error = %v", err)
	}
	if got.Search != "ok" {
		t.Errorf("second Query() = %+v", got)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("backend hits = %d, want 2", n)
	}
}

func TestQueryWithoutCacheRefetches(t *testing.T) {
	var hits atomic.Int64
	srv := countingBackend(t, &hits)
	c := newTestClient(t, 0)
	url := srv.URL + "/pixiv/illust/find"

	for range 2 {
		if _, err := Query[echo](context.Background(), c, url, echo{Search: "cat"}); err != nil {
			t.Fatalf("Query() error = %v", err)
		}
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("backend hits = %d, want 2", n)
	}
}

func TestQueryRevisitsManyDistinctKeys(t *testing.T) {
	var hits atomic.Int64
	srv := countingBackend(t, &hits)
	c := newTestClient(t, time.Minute)
	url := srv.URL + "/pixiv/illust/find"
	ctx := context.Background()

	const distinct = 40
	for round := range 2 {
		for i := range distinct {
			search := fmt.Sprintf("tag-%d", i)
			got, err := Query[echo](ctx, c, url, echo{Search: search})
			if err != nil {
				t.Fatalf("round %d: Query(%q) error = %v", round, search, err)
			}
			if got.Search != search {
				t.Errorf("round %d: Query(%q) returned %q", round, search, got.Search)
			}
		}
	}

	if n := hits.Load(); n != distinct {
		t.Errorf("backend hits = %d, want %d (second round served from cache)", n, distinct)
	}
}

func TestQueryRefetchesAfterTTL(t *testing.T) {
	var hits atomic.Int64
	srv := countingBackend(t, &hits)
	c := newTestClient(t, 50*time.Millisecond)
	url := srv.URL + "/pixiv/illust/find"
	ctx := context.Background()

	first, err := Query[echo](ctx, c, url, echo{Search: "cat"})
	if err != nil {
		t.Fatalf("first Query() error = %v", err)
	}
	again, err := Query[echo](ctx, c, url, echo{Search: "cat"})
	if err != nil {
		t.Fatalf("cached Query() error = %v", err)
	}
	if again.Calls != first.Calls {
		t.Errorf("cached Query() Calls = %d, want %d", again.Calls, first.Calls)
	}

	time.Sleep(150 * time.Millisecond)

	fresh, err := Query[echo](ctx, c, url, echo{Search: "cat"})
	if err != nil {
		t.Fatalf("expired Query() error = %v", err)
	}
	if fresh.Calls == first.Calls {
		t.Error("expired entry served from cache")
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("backend hits = %d, want 2", n)
	}
}

func TestFillUsesEntryStoredByEarlierFlight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call to %s", r.URL.Path)
		http.Error(w, "unexpected", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, time.Minute)
	url := srv.URL + "/pixiv/illust/find"
	key, payload, err := Key(url, echo{Search: "cat"})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	stored := []byte(`{"search":"cat","calls":7}`)
	c.cache.SetWithTTL(key, stored, 1, time.Minute)
	c.cache.Wait()

	raw, err := c.fill(context.Background(), key, url, payload)
	if err != nil {
		t.Fatalf("fill() error = %v", err)
	}
	if string(raw) != string(stored) {
		t.Errorf("fill() = %s, want %s", raw, stored)
	}
}

func TestEndpointOf(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "http://archive:8000/api/v2/pixiv/illust/find", want: "illust/find"},
		{url: "http://archive:8000/pixiv/find/tag", want: "find/tag"},
		{url: "http://archive/find", want: "find"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := endpointOf(tt.url); got != tt.want {
				t.Errorf("endpointOf(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
