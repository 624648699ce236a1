package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/askohn/plugweb/internal/auth"
	"github.com/askohn/plugweb/internal/blog"
	"github.com/askohn/plugweb/internal/config"
	"github.com/askohn/plugweb/internal/core/domain"
	"github.com/askohn/plugweb/internal/core/ports"
	"github.com/askohn/plugweb/internal/render"
	"github.com/askohn/plugweb/internal/server"
	"github.com/askohn/plugweb/internal/storage/memory"
	"github.com/askohn/plugweb/internal/storage/sqlite"
	"github.com/askohn/plugweb/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdownTracer, err := telemetry.Init("plugweb-blog", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	configPath := os.Getenv("BLOG_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hot-reload is observational for now: config changes are logged but a
	// restart applies them.
	if _, statErr := os.Stat(configPath); statErr == nil {
		provider, err := config.NewProvider(configPath)
		if err == nil {
			_ = provider.Watch(ctx, func(fresh *config.Config) {
				logger.Info("config file changed, restart to apply",
					slog.Int("server.port", fresh.Server.Port))
			})
		}
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open post store: %v", err)
	}
	defer store.Close()

	table, dispatcher, err := blog.NewRouter(blog.Deps{
		Store:          store,
		Auth:           auth.NewAuthenticator(authKeys(cfg)),
		Authz:          auth.NewRoleAuthorizer(),
		DefaultLocale:  cfg.Locale.Default,
		AllowedLocales: cfg.Locale.Allowed,
		AuthRedirectTo: cfg.Auth.RedirectTo,
	})
	if err != nil {
		log.Fatalf("Failed to build routes: %v", err)
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("Failed to build renderer: %v", err)
	}

	kernel := server.NewKernel(table, dispatcher, renderer, logger)
	srv := server.New(cfg.Server.Port, cfg.Server.Timeout(), logger, kernel)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	logger.Info("blog server started",
		slog.Int("port", cfg.Server.Port),
		slog.String("storage", cfg.Storage.Type),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case sig := <-sigCh:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("blog server shutdown complete")
}

// newStore picks the post store from configuration.
func newStore(cfg *config.Config) (ports.PostStore, error) {
	switch cfg.Storage.Type {
	case "sqlite":
		return sqlite.New(cfg.Storage.SQLite.Path)
	default:
		return memory.New(), nil
	}
}

// authKeys converts configured key entries into authenticator keys.
func authKeys(cfg *config.Config) []auth.Key {
	keys := make([]auth.Key, 0, len(cfg.Auth.Keys))
	for _, k := range cfg.Auth.Keys {
		keys = append(keys, auth.Key{
			KeyHash: k.KeyHash,
			User: domain.User{
				ID:   k.UserID,
				Name: k.Name,
				Role: domain.Role(k.Role),
			},
		})
	}
	return keys
}
