package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pencil/internal/config"
	"pencil/internal/crypto"
	"pencil/internal/game"
	"pencil/internal/logger"
	"pencil/internal/migrations"
	"pencil/internal/moderation"
	"pencil/internal/storage"
	"pencil/internal/transport"
	"pencil/internal/words"

	"github.com/gin-gonic/gin"
)

var devOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		logger.Warningf("ALLOWED_ORIGINS not set, allowing %v", devOrigins)
		allowedOrigins = devOrigins
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Dependencies
	wordSupply := words.NewSupply(nil, words.Embedded())
	if cfg.PostgresURL != "" {
		if err := migrations.Migrate(cfg.PostgresURL); err != nil {
			logger.Fatalf("Migrating database failed: %v", err)
		}
		pgRepo, err := storage.NewPostgresRepo(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Fatalf("Connecting to postgres failed: %v", err)
		}
		defer pgRepo.Close()
		if _, err := words.Seed(ctx, pgRepo, words.Embedded()); err != nil {
			logger.Warningf("Seeding word list failed: %v", err)
		}
		wordSupply = words.NewSupply(pgRepo, words.Embedded())
	}

	passwordHasher := crypto.NewArgon2idHasher(3, 1024*64, 32, 16, 1)
	tokenManager := crypto.NewJWTManager(cfg.SessionKey, cfg.SessionMaxAge)

	hub := transport.NewHub()
	registry := game.NewRegistry(game.NewCodeGen())
	scheduler := game.NewRoundScheduler(game.NewTimerGen())
	service := game.NewService(registry, scheduler, wordSupply, moderation.DefaultFilter(), passwordHasher, hub)

	r := transport.CreateServer(allowedOrigins, func() transport.Stats {
		return transport.Stats{Rooms: service.RoomCount(), Connections: hub.ConnectionCount()}
	})
	transport.RegisterRoutes(r, transport.NewSessionHandler(tokenManager), transport.NewGameHandler(hub, service))

	go hub.Run(ctx, transport.PingInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Couldn't start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warningf("Server shutdown: %v", err)
	}
	hub.CloseAll()
	service.Close()
}
