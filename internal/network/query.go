package network

import (
	"context"
	"encoding/json"
	"fmt"
)

// Key is the cache fingerprint of a request: the url plus its canonical body.
func Key(url string, body any) (string, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return url + "\n" + string(payload), payload, nil
}

// Query fetches url with body through the keyed cache.
//
// Concurrent calls with the same key share one backend request. Successful
// responses are kept until the cache TTL expires; failures are never cached.
// An empty url disables the query and returns ErrNoKey without I/O.
func Query[T any](ctx context.Context, c *Client, url string, body any) (T, error) {
	var zero T
	if url == "" {
		return zero, ErrNoKey
	}

	key, payload, err := Key(url, body)
	if err != nil {
		return zero, err
	}

	raw, err := c.cached(ctx, key, url, payload)
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return out, nil
}

func (c *Client) cached(ctx context.Context, key, url string, payload []byte) ([]byte, error) {
	endpoint := endpointOf(url)

	if c.cache != nil {
		if raw, ok := c.cache.Get(key); ok {
			c.rec.CacheHit(endpoint)
			return raw, nil
		}
		c.rec.CacheMiss(endpoint)
	}

	// The shared call must not die with the first caller's request.
	fetchCtx := context.WithoutCancel(ctx)

	v, err, shared := c.group.Do(key, func() (any, error) {
		return c.fill(fetchCtx, key, url, payload)
	})
	if shared {
		c.rec.Deduplicated(endpoint)
	}
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// fill runs inside the flight. A flight that finished between the first
// lookup and Do has already stored the response.
func (c *Client) fill(ctx context.Context, key, url string, payload []byte) ([]byte, error) {
	if c.cache != nil {
		if raw, ok := c.cache.Get(key); ok {
			return raw, nil
		}
	}
	raw, err := c.post(ctx, url, payload)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.SetWithTTL(key, raw, 1, c.ttl)
		c.cache.Wait()
	}
	return raw, nil
}

// Invalidate drops every cached response.
func (c *Client) Invalidate() {
	if c.cache != nil {
		c.cache.Clear()
	}
}
