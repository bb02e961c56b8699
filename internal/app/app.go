package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/sniplink/internal/auth"
	"github.com/MrSnakeDoc/sniplink/internal/config"
	"github.com/MrSnakeDoc/sniplink/internal/domain"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver"
	"github.com/MrSnakeDoc/sniplink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sniplink/internal/index"
	"github.com/MrSnakeDoc/sniplink/internal/logger"
	"github.com/MrSnakeDoc/sniplink/internal/metrics"
	"github.com/MrSnakeDoc/sniplink/internal/redis"
	"github.com/MrSnakeDoc/sniplink/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/sniplink/internal/store/redis"
	"github.com/MrSnakeDoc/sniplink/internal/store/sqlite"
	"github.com/MrSnakeDoc/sniplink/internal/utils"
	"github.com/MrSnakeDoc/sniplink/internal/version"
)

type App struct {
	cfg           *config.Config
	logger        logger.Logger
	server        *httpserver.Server
	store         *sqlite.Store
	redisClient   *goredis.Client
	linksReloader *scheduler.LinksReloader
	statsRefresh  *scheduler.StatsRefresher
	cacheSweeper  *scheduler.CacheSweeper
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(logger.Options{
		Level:      cfg.LogLevel,
		Pretty:     cfg.PrettyLog,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})

	// The database is required - fail fast if unavailable
	openCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := sqlite.Open(openCtx, cfg.DBURL)
	if err != nil {
		loggerClient.Errorf("Failed to open database: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("database initialized", logger.String("driver", store.Driver()))

	// Redirect cache: Redis when configured, in-memory otherwise
	var (
		cache        domain.LinkCache
		cacheMode    = deps.CacheModeMemory
		redisClient  *goredis.Client
		cacheSweeper *scheduler.CacheSweeper
	)
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		redisClient, err = redis.New(openCtx, redis.ConnectOptions{
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
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			utils.CloseLogged(store, "database", loggerClient)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		redisCache := redisstore.NewStore(redisClient, cfg.CacheTTL, loggerClient)
		// entries from a previous run may predate edits made while we were down
		if n, err := redisCache.FlushCache(openCtx); err != nil {
			loggerClient.Warn("failed to flush link cache", logger.Error(err))
		} else {
			loggerClient.Info("link cache flushed", logger.Int("keys", n))
		}
		cache = redisCache
		cacheMode = deps.CacheModeRedis
	} else {
		memIndex := index.NewMemoryIndex(cfg.CacheTTL, cfg.CacheMaxEntries)
		cache = memIndex
		cacheSweeper = scheduler.NewCacheSweeper(memIndex, loggerClient, cfg.CacheSweepInterval)
		loggerClient.Info("Redis not configured, using in-memory cache")
	}

	m := metrics.New()

	authManager := auth.NewManager(auth.Options{
		Secret:       cfg.SecretKey,
		Password:     cfg.AdminPassword,
		TTL:          cfg.SessionTTL,
		SecureCookie: cfg.CookieSecure,
	})

	shortener := domain.NewShortener(store, time.Now)
	resolver := domain.NewResolver(store, cache, time.Now)

	// Links file reloader (optional)
	var (
		linksReloader *scheduler.LinksReloader
		reloadTrigger chan struct{}
	)
	if cfg.LinksFile != "" {
		loggerClient.Info("links file configured, initializing links reloader",
			logger.String("file", cfg.LinksFile))
		reloadTrigger = make(chan struct{}, 1)
		linksReloader = scheduler.NewLinksReloader(
			cfg.LinksFile,
			store,
			shortener,
			cache,
			m,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("links file not configured, declared links disabled")
	}

	statsRefresh := scheduler.NewStatsRefresher(store, m, loggerClient, cfg.StatsSchedule)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		BaseURL:        cfg.BaseURL,
		Repo:           store,
		DBDriver:       store.Driver(),
		Cache:          cache,
		CacheMode:      cacheMode,
		Shortener:      shortener,
		Resolver:       resolver,
		Auth:           authManager,
		LoginAttempts:  cfg.LoginRateLimit,
		LoginWindow:    cfg.LoginRateWindow,
		Metrics:        m,
		RedisClient:    redisClient,
		LinksFile:      cfg.LinksFile,
		LinksReloader:  linksReloader,
		ReloadTrigger:  reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:           cfg,
		logger:        loggerClient,
		server:        server,
		store:         store,
		redisClient:   redisClient,
		linksReloader: linksReloader,
		statsRefresh:  statsRefresh,
		cacheSweeper:  cacheSweeper,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Sniplink %s on %s", version.String(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start links reloader (loads the file and starts periodic refresh)
	if a.linksReloader != nil {
		if err := a.linksReloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start links reloader: %w", err)
		}
		a.logger.Info("links reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	if err := a.statsRefresh.Start(ctx); err != nil {
		return fmt.Errorf("failed to start stats refresher: %w", err)
	}
	a.logger.Info("stats refresher started", logger.String("schedule", a.cfg.StatsSchedule))

	if a.cacheSweeper != nil {
		a.cacheSweeper.Start(ctx)
		a.logger.Info("cache sweeper started",
			logger.Duration("interval", a.cfg.CacheSweepInterval))
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

	if a.linksReloader != nil {
		a.linksReloader.Stop()
	}
	a.statsRefresh.Stop()
	if a.cacheSweeper != nil {
		a.cacheSweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, "redis", a.logger)
	}
	utils.CloseLogged(a.store, "database", a.logger)

	a.logger.Info("✅ Sniplink stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
