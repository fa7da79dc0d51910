package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/index"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/sources/dashboard"
)

// resolveConcurrency bounds parallel favorite lookups against the backend.
const resolveConcurrency = 4

// UserResolver turns an uploader id into its dashboard card.
type UserResolver interface {
	GeneralUser(ctx context.Context, id int64) (domain.GeneralUser, error)
}

// ReloadRecorder counts reload outcomes. Optional.
type ReloadRecorder interface {
	Reload(err error)
}

// DashboardReloader keeps the dashboard index fresh: it rereads the
// dashboard file and resolves favorite users on start, on a ticker and
// on manual trigger.
type DashboardReloader struct {
	loader   *dashboard.Loader // nil when no file is configured
	mapper   *dashboard.Mapper
	users    UserResolver
	index    *index.DashboardIndex
	logger   logger.Logger
	recorder ReloadRecorder
	interval time.Duration

	stopCh        chan struct{}
	manualTrigger chan struct{}
}

func NewDashboardReloader(
	dashboardFile string,
	users UserResolver,
	idx *index.DashboardIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *DashboardReloader {
	var loader *dashboard.Loader
	if dashboardFile != "" {
		loader = dashboard.NewLoader(dashboardFile)
	}
	return &DashboardReloader{
		loader:        loader,
		mapper:        dashboard.NewMapper(),
		users:         users,
		index:         idx,
		logger:        log.Named("dashboard"),
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// WithRecorder attaches reload metrics.
func (dr *DashboardReloader) WithRecorder(r ReloadRecorder) *DashboardReloader {
	dr.recorder = r
	return dr
}

// Start loads the dashboard once and then reloads it in the background.
// Only an invalid dashboard file fails the start; an unreachable backend
// leaves the favorites empty until the next reload.
func (dr *DashboardReloader) Start(ctx context.Context) error {
	if err := dr.Reload(ctx); err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("initial dashboard reload failed: %w", err)
		}
		dr.logger.Warn("Initial favorites resolution failed", logger.Error(err))
	}

	interval := dr.interval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				dr.reloadAndLog(ctx)
			case <-dr.manualTrigger:
				dr.logger.Info("Manual reload triggered")
				dr.reloadAndLog(ctx)
			case <-dr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (dr *DashboardReloader) Stop() {
	close(dr.stopCh)
}

func (dr *DashboardReloader) reloadAndLog(ctx context.Context) {
	if err := dr.Reload(ctx); err != nil {
		dr.logger.Error("Failed to reload dashboard", logger.Error(err))
	}
}

// ConfigError wraps a dashboard file that could not be loaded or mapped.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("dashboard file %s: %v", e.Path, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// Reload rereads the file and resolves favorites. On failure the previous
// index snapshot stays in place.
func (dr *DashboardReloader) Reload(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			dr.index.RecordFailure(err)
		}
		if dr.recorder != nil {
			dr.recorder.Reload(err)
		}
	}()

	settings := domain.DefaultDashboard()
	if dr.loader != nil {
		file, err := dr.loader.Load()
		if err != nil {
			return &ConfigError{Path: dr.loader.Path(), Err: err}
		}
		settings, err = dr.mapper.Map(file)
		if err != nil {
			return &ConfigError{Path: dr.loader.Path(), Err: err}
		}
	}
	dr.index.UpdateSettings(settings)

	favorites, err := dr.resolveFavorites(ctx, settings.FavoriteUsers)
	if err != nil {
		return fmt.Errorf("failed to resolve favorite users: %w", err)
	}
	dr.index.UpdateFavorites(favorites)

	dr.logger.Info("Dashboard reloaded",
		logger.Int("favorites", len(favorites)),
		logger.Int("per_page", settings.Grid.PerPage))

	return nil
}

// resolveFavorites looks users up concurrently and keeps the configured order.
// Users missing from the archive are skipped; any other failure aborts.
func (dr *DashboardReloader) resolveFavorites(ctx context.Context, ids []int64) ([]domain.GeneralUser, error) {
	resolved := make([]*domain.GeneralUser, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			u, err := dr.users.GeneralUser(gctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				dr.logger.Warn("Favorite user not found in archive", logger.Int64("id", id))
				return nil
			}
			if err != nil {
				return err
			}
			resolved[i] = &u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.GeneralUser, 0, len(ids))
	for _, u := range resolved {
		if u != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}
