package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cepsu/cFork-OPR/internal/config"
	"github.com/cepsu/cFork-OPR/internal/handler"
	"github.com/cepsu/cFork-OPR/internal/logger"
	"github.com/cepsu/cFork-OPR/internal/middleware"
	"github.com/cepsu/cFork-OPR/internal/repository"
	"github.com/cepsu/cFork-OPR/internal/repository/postgres"
	redisrepo "github.com/cepsu/cFork-OPR/internal/repository/redis"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("databaseURL", cfg.DatabaseURL).Msg("Config loaded")

	// Database. The server can run without it: battles still play out and
	// stream, they just vanish instead of landing in the archive.
	var battles repository.BattleRepository
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("Database unavailable, running without battle archive")
	} else {
		defer db.Close()
		battles = postgres.NewBattleRepo(db)
	}

	// Redis, same deal: without it snapshots only live in process memory.
	var cache repository.SnapshotCache
	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without snapshot cache")
	} else {
		defer redisClient.Close()
		cache = redisClient
	}

	// Default pacing for hosted battles, overridable per battle via tick_ms.
	tick := 250 * time.Millisecond
	if v := os.Getenv("TICK_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			tick = time.Duration(ms) * time.Millisecond
		}
	}

	// WebSocket hub
	wsHub := handler.NewHub()

	// Battle host
	host := handler.NewBattleHost(wsHub, battles, cache, tick)

	// Handlers
	battleHandler := handler.NewBattleHandler(host, battles, cache)
	wsHandler := handler.NewWSHandler(wsHub, host)

	// Router
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	api := http.NewServeMux()
	api.HandleFunc("POST /battles", battleHandler.CreateBattle)
	api.HandleFunc("GET /battles", battleHandler.ListBattles)
	api.HandleFunc("GET /battles/{id}", battleHandler.GetBattle)
	api.HandleFunc("GET /battles/{id}/snapshot", battleHandler.GetSnapshot)
	api.HandleFunc("DELETE /battles/{id}", battleHandler.DeleteBattle)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", api))

	// WebSocket (spectator feed)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
