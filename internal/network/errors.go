package network

import (
	"errors"
	"fmt"
)

// ErrNoKey is returned by Query when the caller passes an empty url,
// meaning the query is disabled and no request should be made.
var ErrNoKey = errors.New("query disabled: empty key")

// HTTPError is returned for any non-2xx backend response.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: %d: %s", e.URL, e.StatusCode, e.Body)
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}
