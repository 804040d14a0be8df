package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cbonilla3189/happyfans/config"
	"github.com/cbonilla3189/happyfans/internal/api"
	"github.com/cbonilla3189/happyfans/internal/api/handler"
	"github.com/cbonilla3189/happyfans/internal/cache"
	"github.com/cbonilla3189/happyfans/internal/model"
	"github.com/cbonilla3189/happyfans/internal/repository"
	"github.com/cbonilla3189/happyfans/internal/service"
	"github.com/cbonilla3189/happyfans/internal/session"
	"github.com/cbonilla3189/happyfans/internal/storage"
	"github.com/cbonilla3189/happyfans/internal/view"
	"github.com/cbonilla3189/happyfans/pkg/database"
	"github.com/cbonilla3189/happyfans/pkg/logger"
	"github.com/cbonilla3189/happyfans/pkg/tracing"
)

// @title HappyFans API
// @version 1.0
// @description Fan wall: messages, photos and accounts.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("server exited", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.Server.Mode)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	if cfg.Database.URL == "" {
		logger.Warn("DATABASE_URL not set, using local sqlite file", zap.String("path", cfg.Database.SQLitePath))
	}
	store := database.NewStore(cfg, &model.User{}, &model.Fan{})
	store.Init(ctx)
	defer store.Close()

	views, err := view.New(cfg.Server.TemplateDir)
	if err != nil {
		return err
	}
	uploads := storage.NewUploads(cfg.Upload.Dir)

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		if rdb, err = database.NewRedis(ctx, cfg.Redis); err != nil {
			logger.Warn("redis unavailable, continuing without it", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	auth, err := buildAuth(cfg, store, rdb)
	if err != nil {
		return err
	}

	var fanRepo repository.FanRepository = repository.NewFanRepository(store)
	if rdb != nil && cfg.Redis.ListCacheTTL > 0 {
		fanRepo = cache.NewFanRepository(fanRepo, rdb, cfg.Redis.ListCacheTTL)
	}
	fans := service.NewFanService(fanRepo, uploads)
	h := handler.NewHandler(fans, auth, uploads, views, handler.Options{
		CookieName:   cfg.Auth.CookieName,
		CookieSecure: cfg.Auth.CookieSecure,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(cfg, h, auth),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.Bool("auth", auth != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// buildAuth auth.enabled 为 false 时返回 nil，所有请求按匿名处理
func buildAuth(cfg *config.Config, store *database.Store, rdb *redis.Client) (service.AuthService, error) {
	if !cfg.Auth.Enabled {
		logger.Info("accounts disabled")
		return nil, nil
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		var err error
		if secret, err = session.RandomSecret(); err != nil {
			return nil, err
		}
		logger.Warn("SECRET_KEY not set, sessions will not survive a restart")
	}

	var revoker session.Revoker
	if rdb != nil {
		revoker = session.NewRedisRevoker(rdb)
	}
	sessions := session.NewManager(secret, cfg.Auth.SessionTTL, revoker)
	return service.NewAuthService(repository.NewUserRepository(store), sessions)
}
