package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/kamrulislam2/rhythmverse-dance-school-server/api/swagger"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/handler"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/jobs"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/repository"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/router"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/service"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/cache"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/config"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/database"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/logger"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/observability"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/payment"
)

// @title RhythmVerse API
// @version 1.0.0
// @description Dance class marketplace: catalogue, enrollment, moderation and payments
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	flush, err := observability.InitSentry(cfg.Sentry.DSN, cfg.Env, cfg.Sentry.Release)
	if err != nil {
		logr.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db.DB); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	store := repository.NewStore(db)
	metrics := service.NewMetricsService()
	validate := validator.New()

	cacheSvc, redisClient := newCache(ctx, cfg, metrics, logr)
	if redisClient != nil {
		defer redisClient.Close()
	}

	if cfg.Payment.SecretKey == "" {
		logr.Warn("STRIPE_SECRET_KEY not set; payment intents will fail")
	}
	gateway := payment.NewStripeGateway(cfg.Payment.SecretKey, nil)

	tokens := service.NewTokenService(cfg.Token.Secret, validate, logr)
	users := service.NewUserService(store.Users, validate, logr).PreserveRoles(cfg.Users.PreserveRole)
	classes := service.NewClassService(store.Classes, store.ClassUpdates, cacheSvc, metrics, validate, logr)
	selections := service.NewSelectionService(store.Selected, metrics, validate, logr)
	payments := service.NewPaymentService(store.Payments, gateway, cfg.Payment.Currency, metrics, validate, logr)

	if cfg.Selection.CleanupEnabled {
		cleanup := jobs.NewSelectionCleanup(selections, cfg.Selection.TTL, logr)
		scheduler, err := jobs.Schedule(ctx, cleanup, cfg.Selection.CleanupSchedule, logr)
		if err != nil {
			logr.Fatal("failed to schedule selection cleanup", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	engine := router.New(router.Handlers{
		Token:     handler.NewTokenHandler(tokens),
		Class:     handler.NewClassHandler(classes),
		User:      handler.NewUserHandler(users),
		Selection: handler.NewSelectionHandler(selections),
		Payment:   handler.NewPaymentHandler(payments),
		System:    handler.NewSystemHandler(store, metrics),
	}, router.Options{
		Logger:         logr,
		Metrics:        metrics,
		Tokens:         tokens,
		Users:          users,
		Report:         observability.CaptureErr,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newCache connects Redis when caching is enabled. An unreachable Redis disables the cache
// instead of failing startup.
func newCache(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) (*service.CacheService, *redis.Client) {
	if !cfg.Cache.Enabled {
		return service.NewCacheService(nil, metrics, cfg.Cache.TTL, logr, false), nil
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, listing cache disabled", zap.Error(err))
		return service.NewCacheService(nil, metrics, cfg.Cache.TTL, logr, false), nil
	}
	repo := repository.NewCacheRepository(client, cfg.Cache.Namespace, logr)
	return service.NewCacheService(repo, metrics, cfg.Cache.TTL, logr, true), client
}
