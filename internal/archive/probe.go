package archive

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/curator/internal/utils"
)

// Probe checks that the backend answers at all. Any HTTP response counts as
// reachable; only transport failures (DNS, TLS, timeout) are reported.
func (c *Client) Probe(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 0,
			}).DialContext,
			TLSHandshakeTimeout: timeout,
			DisableKeepAlives:   true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.apiBase, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach archive backend: %w", err)
	}
	utils.Close(resp.Body)

	return nil
}
