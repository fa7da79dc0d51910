package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/curator/internal/archive"
	"github.com/MrSnakeDoc/curator/internal/config"
	"github.com/MrSnakeDoc/curator/internal/httpserver"
	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/index"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/metrics"
	"github.com/MrSnakeDoc/curator/internal/network"
	"github.com/MrSnakeDoc/curator/internal/redis"
	"github.com/MrSnakeDoc/curator/internal/scheduler"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/MrSnakeDoc/curator/internal/store/local"
	redisstore "github.com/MrSnakeDoc/curator/internal/store/redis"
	"github.com/MrSnakeDoc/curator/internal/utils"
	"github.com/MrSnakeDoc/curator/internal/version"
	"github.com/MrSnakeDoc/curator/internal/web"
)

// The redis persister feeds the record count shown on /infra.
var _ deps.KeyLister = (*redisstore.Persister)(nil)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	network     *network.Client
	redisClient *goredis.Client
	reloader    *scheduler.DashboardReloader
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	netClient, err := network.New(network.Options{
		Timeout:   cfg.BackendTimeout,
		RPS:       cfg.BackendRPS,
		Burst:     cfg.BackendBurst,
		CacheTTL:  cfg.QueryCacheTTL,
		CacheSize: cfg.QueryCacheSize,
		Recorder:  collector,
	}, loggerClient.Named("network"))
	if err != nil {
		loggerClient.Errorf("Failed to create backend client: %v", err)
		os.Exit(1)
	}

	archiveClient := archive.New(netClient, cfg.APIBase, cfg.Source, cfg.MediaBase)
	loggerClient.Info("archive backend configured",
		logger.String("api_base", cfg.APIBase),
		logger.String("source", cfg.Source))

	persister, redisClient, pinger := openPersister(cfg, loggerClient)

	zoom := store.NewZoom(persister)
	collections := store.NewCollections(persister)
	ratings := store.NewRatings(persister)

	// Restore curation state; a failure keeps defaults and the next
	// successful mutation overwrites the broken record.
	syncer := scheduler.NewStateSyncer(map[string]scheduler.Hydrator{
		store.KeyZoom:       zoom,
		store.KeyCollection: collections,
		store.KeyRating:     ratings,
	}, loggerClient.Named("state"))
	if err := syncer.Sync(context.Background()); err != nil {
		loggerClient.Warn("failed to restore curation state, starting from defaults",
			logger.Error(err))
	}

	dashboardIndex := index.NewDashboardIndex()

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewDashboardReloader(
		cfg.DashboardFile,
		archiveClient,
		dashboardIndex,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	).WithRecorder(collector)

	renderer, err := web.New()
	if err != nil {
		loggerClient.Errorf("Failed to parse templates: %v", err)
		os.Exit(1)
	}

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Archive:         archiveClient,
		Network:         netClient,
		Dashboard:       dashboardIndex,
		Renderer:        renderer,
		Metrics:         collector,
		Gatherer:        reg,
		Zoom:            zoom,
		Collections:     collections,
		Ratings:         ratings,
		StateBackend:    cfg.StateBackend,
		StatePinger:     pinger,
		ReloadTrigger:   reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		network:     netClient,
		redisClient: redisClient,
		reloader:    reloader,
	}
}

// openPersister builds the configured state backend. The redis backend
// fails fast when Redis never answers.
func openPersister(cfg *config.Config, log logger.Logger) (store.Persister, *goredis.Client, deps.Pinger) {
	switch cfg.StateBackend {
	case config.StateBackendRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			log.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		log.Info("Redis initialized successfully")
		p := redisstore.NewPersister(client)
		return p, client, p

	case config.StateBackendMemory:
		log.Warn("state backend is memory, curation state is lost on restart")
		return store.NewMemoryPersister(), nil, nil

	default:
		p, err := local.New(cfg.StateDir)
		if err != nil {
			log.Errorf("Failed to open state directory: %v", err)
			os.Exit(1)
		}
		log.Info("state stored on disk", logger.String("dir", p.Dir()))
		return p, nil, nil
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting curator v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("curator %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Loads the dashboard file and starts the periodic refresh
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start dashboard reloader: %w", err)
	}
	a.logger.Info("dashboard reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.network.Close()
	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, a.logger, "redis")
	}

	a.logger.Info("✅ curator stopped cleanly")
	return nil
}
