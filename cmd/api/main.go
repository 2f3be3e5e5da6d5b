package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/miniapp-backend/internal/common/logger"
	"github.com/your-org/miniapp-backend/internal/config"
	apphttp "github.com/your-org/miniapp-backend/internal/http"
	"github.com/your-org/miniapp-backend/internal/platform/db"
	redisplatform "github.com/your-org/miniapp-backend/internal/platform/redis"
)

// @title Mini App Backend API
// @version 1.0
// @description HTTP API for the Telegram Mini App companion of the bot template.
// @BasePath /api/v1
// @securityDefinitions.apikey TelegramInitData
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger.Init("miniapp-api", cfg.Debug)

	// Refuse to start without a bot token: init-data validation would
	// otherwise silently accept nothing (or worse, a guessable secret).
	if cfg.Telegram.BotToken == "" {
		logger.Fatal().Msg("BOT_TOKEN is not set")
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(cfg.Database.URL, "migrations"); err != nil {
			logger.Fatal().Err(err).Msg("migrations failed")
		}
		logger.Info().Msg("migrations applied")
	}

	pg, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres open failed")
	}
	defer pg.Close()

	rdb, err := redisplatform.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis open failed")
	}
	defer rdb.Close()

	router := apphttp.NewRouter(pg, rdb, cfg)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
	logger.Info().Msg("server stopped")
}
