package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/utils"
)

// maxErrorBody caps how much of a failed response ends up in HTTPError.
const maxErrorBody = 4 << 10

type Options struct {
	Timeout   time.Duration // http.Client timeout
	RPS       float64       // outbound requests per second, 0 = unlimited
	Burst     int
	CacheTTL  time.Duration // 0 disables response caching
	CacheSize int64         // max cached responses
	Recorder  Recorder
}

// Client posts JSON to the archive backend. Reads go through Query,
// which adds keyed caching and in-flight deduplication.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	log     logger.Logger
	rec     Recorder

	group singleflight.Group
	cache *ristretto.Cache[string, []byte]
	ttl   time.Duration
}

func New(opts Options, log logger.Logger) (*Client, error) {
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
		rec:     opts.Recorder,
		ttl:     opts.CacheTTL,
	}
	if c.rec == nil {
		c.rec = nopRecorder{}
	}

	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size < 1 {
			size = 1
		}
		cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
			NumCounters: size * 10,
			MaxCost:     size,
			BufferItems: 64,
			// Each entry costs 1, so MaxCost is an entry count.
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create query cache: %w", err)
		}
		c.cache = cache
	}

	return c, nil
}

// Close releases the response cache.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Request POSTs body as JSON to url and decodes a 2xx response into out.
// out may be nil when the caller does not need the response.
func (c *Client) Request(ctx context.Context, url string, body, out any) error {
	raw, err := c.do(ctx, url, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, target string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return c.post(ctx, target, payload)
}

func (c *Client) post(ctx context.Context, target string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire backend slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	endpoint := endpointOf(target)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.rec.ObserveRequest(endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("failed to reach %s: %w", target, err)
	}
	defer utils.Close(resp.Body)

	c.rec.ObserveRequest(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn("Backend request failed",
			logger.String("url", target),
			logger.Int("status", resp.StatusCode),
		)
		return nil, &HTTPError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(text)),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", target, err)
	}
	return raw, nil
}

// endpointOf keeps only the last two path segments (ex: "illust/find")
// so metric labels stay bounded.
func endpointOf(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "unknown"
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	return strings.Join(parts, "/")
}
