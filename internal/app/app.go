package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"tidewatch/internal/article"
	"tidewatch/internal/auth"
	"tidewatch/internal/catalog"
	"tidewatch/internal/config"
	"tidewatch/internal/feed"
	"tidewatch/internal/feedcache"
	"tidewatch/internal/httpserver"
	"tidewatch/internal/httpserver/deps"
	"tidewatch/internal/logger"
	"tidewatch/internal/redis"
	"tidewatch/internal/scheduler"
	"tidewatch/internal/session"
	"tidewatch/internal/summary"
	"tidewatch/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	sweeper     *scheduler.SessionSweeper
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Feed catalog: built-in defaults, optionally overlaid from YAML.
	var cat *catalog.Catalog
	if cfg.CatalogFile != "" {
		var err error
		cat, err = catalog.NewFromFile(cfg.CatalogFile)
		if err != nil {
			loggerClient.Errorf("Failed to load catalog file %s: %v", cfg.CatalogFile, err)
			os.Exit(1)
		}
		loggerClient.Info("feed catalog loaded from file",
			logger.String("file", cfg.CatalogFile),
			logger.Int("feeds", cat.Size()))
	} else {
		cat = catalog.NewDefault()
		loggerClient.Info("using built-in feed catalog",
			logger.Int("feeds", cat.Size()))
	}

	// Feed cache: on-disk survives restarts, memory when no dir is set.
	var cache feedcache.Store
	if cfg.CacheDir != "" {
		cache = feedcache.NewFileStore(cfg.CacheDir, cfg.FeedCacheTTL, loggerClient)
		loggerClient.Info("feed cache on disk",
			logger.String("dir", cfg.CacheDir),
			logger.Duration("ttl", cfg.FeedCacheTTL))
	} else {
		cache = feedcache.NewMemoryStore(cfg.FeedCacheTTL)
		loggerClient.Info("feed cache in memory",
			logger.Duration("ttl", cfg.FeedCacheTTL))
	}

	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	fetcher := feed.NewFetcher(cat, cache, httpClient, loggerClient)

	// Session backend.
	var (
		store       session.Store
		redisClient *goredis.Client
		sweeper     *scheduler.SessionSweeper
	)
	if cfg.SessionStore == "redis" {
		var err error
		redisClient, err = redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		store = session.NewRedisStore(redisClient)
		loggerClient.Info("session store on redis",
			logger.String("addr", cfg.RedisAddr))
	} else {
		memStore := session.NewMemoryStore()
		store = memStore
		sweeper = scheduler.NewSessionSweeper(memStore, loggerClient, cfg.SessionSweepInterval)
		loggerClient.Info("session store in memory",
			logger.Duration("sweep_interval", cfg.SessionSweepInterval))
	}

	sessions, err := session.NewManager(cfg.SessionSecret, store, cfg.SessionTTL, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to init session manager: %v", err)
		os.Exit(1)
	}

	var exchanger auth.Exchanger
	if cfg.LoginURL != "" {
		exchanger = auth.NewHTTPExchanger(httpClient, cfg.LoginURL, loggerClient)
		loggerClient.Info("credential exchange enabled",
			logger.String("login_url", cfg.LoginURL))
	} else {
		loggerClient.Info("no login URL configured, authentication disabled")
	}

	articles := article.NewService(httpClient, sessions, loggerClient)
	summaries := summary.NewSummarizer(fetcher, articles, loggerClient)

	d := deps.Deps{
		Logger:    loggerClient,
		StartTime: time.Now(),
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: version.GoVersion,
		Catalog:   cat,
		Feeds:     fetcher,
		Articles:  articles,
		Sessions:  sessions,
		Summaries: summaries,
		Exchanger: exchanger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		sweeper:     sweeper,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Tidewatch v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Tidewatch %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.sweeper != nil {
		a.sweeper.Start(ctx)
		a.logger.Info("session sweeper started")
	}

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

	if a.sweeper != nil {
		a.sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Tidewatch stopped cleanly")
	return nil
}
