package deps

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/curator/internal/archive"
	"github.com/MrSnakeDoc/curator/internal/index"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/metrics"
	"github.com/MrSnakeDoc/curator/internal/network"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/MrSnakeDoc/curator/internal/web"
)

// Pinger reports whether a remote dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KeyLister is implemented by state backends that index their records.
type KeyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the pages
	AllowedCIDRS []string         // IPs allowed to access ops endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy
	CORSOrigins  []string         // origins allowed on /api

	RateLimitBurst  int // state mutations per client, burst
	RateLimitPerMin int // state mutations per client, refill per minute

	Archive       *archive.Client       // typed backend calls
	Network       *network.Client       // shared transport, owner of the query cache
	ProbeTimeout  time.Duration         // deadline of the readiness probe
	Dashboard     *index.DashboardIndex // dashboard settings and resolved favorites
	Renderer      *web.Renderer         // HTML templates and static assets
	Metrics       *metrics.Collector    // nil disables metric recording
	Gatherer      prometheus.Gatherer   // scraped by /metrics
	Zoom          *store.Zoom
	Collections   *store.Collections
	Ratings       *store.Ratings
	StateBackend  string                // "local" | "redis" | "memory"
	StatePinger   Pinger                // set when the state backend is remote
	ReloadTrigger chan struct{}         // Channel to trigger a manual dashboard reload
}

// Now returns TimeNow() or time.Now when unset.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
