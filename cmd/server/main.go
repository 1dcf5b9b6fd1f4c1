package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/screenx/screenx/internal/adapters/http"
	signalws "github.com/screenx/screenx/internal/adapters/signal"
	"github.com/screenx/screenx/internal/app"
	"github.com/screenx/screenx/internal/cache"
	"github.com/screenx/screenx/internal/config"
	"github.com/screenx/screenx/internal/repo"
	"github.com/screenx/screenx/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	mongoCtx, mongoCancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := storage.NewMongo(mongoCtx, cfg.MongoURI, cfg.MongoDB)
	mongoCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	var tier cache.Store
	if cfg.RedisAddr != "" {
		rds := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, "screenx")
		if err := rds.Ping(ctx); err != nil {
			// Repository treats cache errors as misses, so a dead
			// redis only costs extra store reads.
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable at startup")
		}
		tier = rds
	} else {
		tier = cache.NewMemory(cfg.CacheSweepInterval)
	}
	defer tier.Close()

	ttls := repo.DefaultTTLs()
	if cfg.RoomTTL > 0 {
		ttls.Room = cfg.RoomTTL
	}
	if cfg.ChatTTL > 0 {
		ttls.Chat = cfg.ChatTTL
	}
	if cfg.UserTTL > 0 {
		ttls.User = cfg.UserTTL
	}
	if cfg.ParticipantsTTL > 0 {
		ttls.Participants = cfg.ParticipantsTTL
	}
	repository := repo.New(store, tier, ttls)

	coord := app.NewCoordinator(repository)
	ws := signalws.NewController(coord, cfg)

	r := router.SetupRouter(ctx, cfg, repository, ws)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("ScreenX server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
