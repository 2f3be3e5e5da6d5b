package main

import (
	"flag"

	"github.com/your-org/miniapp-backend/internal/common/logger"
	"github.com/your-org/miniapp-backend/internal/config"
	"github.com/your-org/miniapp-backend/internal/platform/db"
)

func main() {
	var (
		path = flag.String("path", "migrations", "directory with migration files")
		down = flag.Bool("down", false, "roll back one migration step instead of migrating up")
	)
	flag.Parse()

	cfg := config.MustLoad()
	logger.Init("miniapp-migrate", cfg.Debug)

	var err error
	if *down {
		err = db.MigrateDown(cfg.Database.URL, *path)
	} else {
		err = db.Migrate(cfg.Database.URL, *path)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	logger.Info().Bool("down", *down).Msg("migration complete")
}
