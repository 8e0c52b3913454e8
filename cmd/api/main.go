// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/multierr"

	"github.com/carterperez-dev/templates/catalog-admin/internal/admin"
	"github.com/carterperez-dev/templates/catalog-admin/internal/audit"
	"github.com/carterperez-dev/templates/catalog-admin/internal/auth"
	"github.com/carterperez-dev/templates/catalog-admin/internal/config"
	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
	"github.com/carterperez-dev/templates/catalog-admin/internal/health"
	"github.com/carterperez-dev/templates/catalog-admin/internal/metrics"
	"github.com/carterperez-dev/templates/catalog-admin/internal/middleware"
	"github.com/carterperez-dev/templates/catalog-admin/internal/migrate"
	"github.com/carterperez-dev/templates/catalog-admin/internal/product"
	"github.com/carterperez-dev/templates/catalog-admin/internal/server"
	"github.com/carterperez-dev/templates/catalog-admin/internal/storage"
	"github.com/carterperez-dev/templates/catalog-admin/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)
	core.SetExposeErrors(!cfg.IsProduction())

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := migrate.Up(ctx, db.DB.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	var blobs *storage.S3Store
	if cfg.Storage.Enabled() {
		blobs, err = storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		logger.Info("blob storage configured",
			"bucket", cfg.Storage.Bucket,
			"region", cfg.Storage.Region,
		)
	}

	auditSvc := audit.NewService(
		audit.NewRepository(db.DB),
		logger,
		cfg.Audit.RetentionDays,
	)

	userSvc := user.NewService(user.NewRepository(db.DB), logger)

	authSvc := auth.NewService(auth.ServiceConfig{
		JWT:             jwtManager,
		Users:           userSvc,
		Blacklist:       auth.NewRedisBlacklist(redis.Client),
		Audit:           auditSvc,
		Logger:          logger,
		AllowRoleSignup: cfg.Auth.AllowRoleSignup,
	})

	productCfg := product.ServiceConfig{
		Repo:           product.NewRepository(db.DB),
		Audit:          auditSvc,
		Logger:         logger,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	}
	if blobs != nil {
		productCfg.Blobs = blobs
	}
	if cfg.Audit.Transactional {
		productCfg.UnitOfWork = product.NewTxUnitOfWork(db, auditSvc)
		logger.Info("transactional audit enabled")
	}
	productSvc := product.NewService(productCfg)

	if cfg.Bootstrap.AdminEmail != "" {
		created, err := userSvc.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			logger.Info("default admin created", "email", cfg.Bootstrap.AdminEmail)
		}
	}

	deps := []health.Dependency{
		{Name: "database", Checker: db},
		{Name: "redis", Checker: redis},
	}
	if blobs != nil {
		deps = append(deps, health.Dependency{Name: "storage", Checker: blobs, Optional: true})
	}
	healthHandler := health.NewHandler(deps...)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Audit:      auditSvc,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Prometheus)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Scope: middleware.ScopeBrowse,
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			Subject: middleware.ClientAddr,
			Skip:    middleware.SkipOperational,
		}).Handler,
	)

	healthHandler.RegisterRoutes(router)

	router.Handle("/metrics", metrics.Handler())
	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	optionalAuth := middleware.OptionalAuth(authSvc)
	adminLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Scope: middleware.ScopeAdmin,
		Limit: middleware.PerWindow(
			cfg.RateLimit.AdminRequests,
			cfg.RateLimit.AdminBurst,
			cfg.RateLimit.Window,
		),
		Subject: middleware.Account,
	})
	adminOnly := func(next http.Handler) http.Handler {
		return middleware.RequireAdmin(adminLimiter.Handler(next))
	}

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Scope: middleware.ScopeLogin,
		Limit: middleware.PerWindow(
			cfg.RateLimit.AuthRequests,
			cfg.RateLimit.AuthBurst,
			cfg.RateLimit.Window,
		),
		Subject: middleware.ClientAddr,
	}).Handler

	router.Route("/api", func(r chi.Router) {
		auth.NewHandler(authSvc).RegisterRoutes(r, authenticator, authLimiter)
		product.NewHandler(productSvc).RegisterRoutes(r, optionalAuth, authenticator, adminOnly)
		if blobs != nil {
			product.NewUploadHandler(productSvc, cfg.Storage.MaxUploadBytes).
				RegisterRoutes(r, authenticator, adminOnly)
		}
		audit.NewHandler(auditSvc).RegisterRoutes(r, authenticator, adminOnly)
		user.NewHandler(userSvc).RegisterRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	var shutdownErr error
	shutdownErr = multierr.Append(shutdownErr, srv.Shutdown(shutdownCtx, drainDelay))
	if telemetry != nil {
		shutdownErr = multierr.Append(shutdownErr, telemetry.Shutdown(shutdownCtx))
	}
	shutdownErr = multierr.Append(shutdownErr, redis.Close())
	shutdownErr = multierr.Append(shutdownErr, db.Close())

	for _, err := range multierr.Errors(shutdownErr) {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
