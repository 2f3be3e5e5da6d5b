package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/your-org/miniapp-backend/internal/bot"
	"github.com/your-org/miniapp-backend/internal/common/cache"
	"github.com/your-org/miniapp-backend/internal/common/logger"
	"github.com/your-org/miniapp-backend/internal/config"
	redisrepo "github.com/your-org/miniapp-backend/internal/features/user/repository/redis"
	usersvc "github.com/your-org/miniapp-backend/internal/features/user/service"
	"github.com/your-org/miniapp-backend/internal/platform/db"
	redisplatform "github.com/your-org/miniapp-backend/internal/platform/redis"
	"github.com/your-org/miniapp-backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger.Init("miniapp-bot", cfg.Debug)

	if cfg.Telegram.BotToken == "" {
		logger.Fatal().Msg("BOT_TOKEN is not set")
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

	repo := redisrepo.NewCachedRepository(
		storage.New(pg).Users,
		cache.NewService(rdb),
		redisrepo.DefaultTTL,
	)
	users := usersvc.NewUserService(repo)

	b, err := bot.New(cfg.Telegram.BotToken, users)
	if err != nil {
		logger.Fatal().Err(err).Msg("bot init failed")
	}

	go func() {
		logger.Info().Msg("bot polling started")
		b.Start()
	}()

	<-ctx.Done()
	stop()
	b.Stop()
	logger.Info().Msg("bot stopped")
}
