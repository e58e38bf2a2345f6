// Package main is the entrypoint for the Rolodex API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/rolodex/rolodex/internal/auth"
	"github.com/rolodex/rolodex/internal/config"
	"github.com/rolodex/rolodex/internal/handler"
	"github.com/rolodex/rolodex/internal/metrics"
	"github.com/rolodex/rolodex/internal/middleware"
	"github.com/rolodex/rolodex/internal/repository"
	"github.com/rolodex/rolodex/internal/repository/memory"
	"github.com/rolodex/rolodex/internal/repository/redisstore"
	"github.com/rolodex/rolodex/internal/server"
	"github.com/rolodex/rolodex/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store",
			slog.String("backend", cfg.StoreBackend),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL, cfg.RedisURL)),
		)
		os.Exit(1)
	}

	hasher, err := auth.NewPasswordHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		logger.Error("failed to configure password hasher", "error", err)
		os.Exit(1)
	}
	tokens, err := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		logger.Error("failed to configure tokens", "error", err)
		os.Exit(1)
	}

	// Initialize services
	recorder := metrics.NewInMemory()
	authService := service.NewAuthService(store, hasher, tokens, recorder)
	contactService := service.NewContactService(store, recorder)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := handler.NewRouter(handler.RouterConfig{
		Logger:               logger,
		APIPrefix:            cfg.APIPrefix,
		AuthService:          authService,
		ContactService:       contactService,
		Tokens:               tokens,
		HealthChecks:         map[string]handler.HealthChecker{cfg.StoreBackend: store},
		Metrics:              recorder,
		CORS:                 corsCfg,
		IsDevelopment:        cfg.IsDevelopment(),
		MaxRequestBodySize:   cfg.MaxRequestBodySize,
		ExposeInternalErrors: cfg.ExposeInternalErrors,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})
	srv.OnShutdown("store", func(context.Context) error {
		return store.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"api_prefix", cfg.APIPrefix,
		"store", cfg.StoreBackend,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore connects the configured persistence backend, applying schema
// migrations first when it is Postgres.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if cfg.RunMigrations {
			if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return nil, err
			}
			logger.Info("database migrations applied")
		}
		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to database", slog.String("database_url", redactURL(cfg.DatabaseURL)))
		return repo, nil

	case config.BackendRedis:
		store, err := redisstore.New(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to Redis",
			slog.String("redis_url", redactURL(cfg.RedisURL)),
			slog.String("key_prefix", cfg.RedisKeyPrefix),
		)
		return store, nil

	case config.BackendMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL drops the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError removes connection secrets from an error message.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, secret, redactURL(secret))
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
