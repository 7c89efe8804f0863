package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideahub/api/internal/config"
	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/handler"
	"github.com/ideahub/api/internal/jobs"
	"github.com/ideahub/api/internal/middleware"
	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/internal/search"
	"github.com/ideahub/api/internal/service"
	"github.com/ideahub/api/internal/session"
	"github.com/ideahub/api/migrations"
	"github.com/ideahub/api/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Scheme:    cfg.Database.Scheme,
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("namespace", cfg.Database.Namespace),
		slog.String("database", cfg.Database.Database),
	)

	if cfg.Database.AutoMigrate {
		applied, err := database.ApplyMigrations(ctx, db, migrations.FS)
		if err != nil {
			slog.Error("failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if len(applied) > 0 {
			slog.Info("applied migrations", slog.Any("migrations", applied))
		}
	}

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Refresh tokens and rate limit counters live in Redis when configured
	var (
		tokenStore  service.TokenStore
		redisStore  *session.RedisStore
		authLimiter middleware.Limiter
	)
	if cfg.Session.RedisURL != "" {
		redisStore, err = session.NewRedisStore(ctx, cfg.Session.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = redisStore.Close() }()
		tokenStore = redisStore
		slog.Info("refresh tokens stored in redis")
	}

	if cfg.Limits.AuthRequests > 0 {
		if redisStore != nil {
			authLimiter = middleware.NewRedisLimiter(redisStore.Client(), cfg.Limits.AuthRequests, cfg.Limits.AuthWindow)
		} else {
			memLimiter := middleware.NewMemoryLimiter(cfg.Limits.AuthRequests, cfg.Limits.AuthWindow)
			defer memLimiter.Stop()
			authLimiter = memLimiter
		}
	}

	// Search index is optional; without it search scans the store
	var (
		index search.Index
		meili *search.Meili
	)
	if cfg.Search.MeiliURL != "" {
		meili = search.NewMeili(cfg.Search.MeiliURL, cfg.Search.MeiliAPIKey)
		defer meili.Close()
		index = meili
		slog.Info("search index enabled", slog.String("url", cfg.Search.MeiliURL))
	}

	// Initialize repositories and services
	hub := service.NewEventHub(cfg.Notifications.HeartbeatInterval)
	svc := newServices(servicesConfig{
		DB:         db,
		JWT:        jwtService,
		TokenStore: tokenStore,
		Index:      index,
		Hub:        hub,
		RefreshTTL: cfg.Session.RefreshTokenTTL,
	})

	// Background jobs
	tokenCleanup := jobs.NewTokenCleanup(svc.tokens, cfg.Session.CleanupInterval)
	tokenCleanup.Start()

	var heartbeat *jobs.RegistryHeartbeat
	if cfg.Registry.ServiceName != "" {
		heartbeat = jobs.NewRegistryHeartbeat(svc.registry, selfDefinition(cfg), cfg.Registry.HeartbeatInterval)
		if err := heartbeat.Start(ctx); err != nil {
			slog.Warn("service registration failed", slog.String("error", err.Error()))
			heartbeat = nil
		}
	}

	healthHandler := handler.NewHealthHandler().Register("database", db.Ping)
	if redisStore != nil {
		healthHandler.Register("redis", redisStore.Ping)
	}
	if meili != nil {
		healthHandler.Register("search", func(context.Context) error {
			if !meili.Healthy() {
				return errors.New("search index unreachable")
			}
			return nil
		})
	}

	h := newRouter(svc, routerConfig{
		Health:         healthHandler,
		Streams:        hub,
		AuthLimiter:    authLimiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Open notification streams would otherwise hold Shutdown until its deadline
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	// Jobs stop before the deferred store and client closes run
	tokenCleanup.Stop()
	if heartbeat != nil {
		heartbeat.Stop(shutdownCtx)
	}

	slog.Info("server stopped")
}

// selfDefinition describes this process for the service registry, starting
// from the catalogue entry of the same name when there is one
func selfDefinition(cfg *config.Config) model.ServiceDefinition {
	for _, def := range service.DefaultCatalogue() {
		if def.Name == cfg.Registry.ServiceName {
			return def
		}
	}
	return model.ServiceDefinition{
		Name:       cfg.Registry.ServiceName,
		HealthPath: "/health",
	}
}
