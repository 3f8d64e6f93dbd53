package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pwarnimont/filmdb2/internal/backup"
	"github.com/pwarnimont/filmdb2/internal/config"
	"github.com/pwarnimont/filmdb2/internal/database"
	"github.com/pwarnimont/filmdb2/internal/handler"
	"github.com/pwarnimont/filmdb2/internal/logging"
	"github.com/pwarnimont/filmdb2/internal/metrics"
	"github.com/pwarnimont/filmdb2/internal/middleware"
	"github.com/pwarnimont/filmdb2/internal/queue"
	"github.com/pwarnimont/filmdb2/internal/repository"
	"github.com/pwarnimont/filmdb2/internal/router"
	"github.com/pwarnimont/filmdb2/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config

	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server stopped", "error", err)
		stop()
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *logging.ZapLogger) error {
	db, dialect, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, dialect, log); err != nil {
		return err
	}
	repos := repository.NewManager(dialect)

	recorder, err := metrics.NewRecorder(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	svc := backup.NewService(db, repos,
		backup.WithLogger(log.With("component", "backup")),
		backup.WithObserver(recorder),
	)

	// Redis is optional: without it the export cache and import limiter are no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn(ctx, "redis unavailable, export cache and import rate limit disabled")
	} else {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()
	purge := func(ctx context.Context) (int, error) { return middleware.PurgeCache(ctx, cacheCfg, rdb) }

	pub := service.NewEventPublisher(cfg.AMQPURL, log.With("component", "publisher"))
	if pub.Enabled() {
		go func() {
			err := queue.StartAuditConsumer(ctx, cfg.AMQPURL, cfg.AuditLogDir, log.With("component", "audit"))
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error(ctx, "audit consumer stopped", "error", err)
			}
		}()
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log.With("component", "http")))

	auth := handler.NewAuthHandler(cfg, repos.Users(db), repos.Tokens(db), log.With("component", "auth"))
	backups := handler.NewBackupHandler(svc, pub, purge, cfg.ImportTimeout, log.With("component", "backup_http"))

	router.RegisterRoutes(e, db, prometheus.DefaultGatherer)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterBackup(e, backups, router.BackupOptions{
		JWTSecret:   cfg.JWTSecret,
		BodyLimit:   cfg.ImportBodyLimit,
		ImportLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log.With("component", "ratelimit")),
		ExportCache: middleware.NewRedisCache(cacheCfg, rdb, log.With("component", "cache")),
	})

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", addr, "env", cfg.Env, "db", dialect)
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(sctx)
}
