package mw

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/curator/internal/logger"
)

// SameOrigin rejects state-changing requests sent from another site.
// The Origin header is checked first, then Referer. Requests carrying
// neither (curl, scripts) pass.
func SameOrigin(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			source := r.Header.Get("Origin")
			if source == "" {
				source = r.Header.Get("Referer")
			}
			if source == "" || sameHost(source, r.Host) {
				next.ServeHTTP(w, r)
				return
			}

			log.Debug("SameOrigin: rejected",
				logger.String("source", source),
				logger.String("host", r.Host))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// sameHost compares the host:port of a url with the request Host.
// An opaque origin such as "null" never matches.
func sameHost(raw, host string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, host)
}
