package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/your-org/miniapp-backend/docs"
	"github.com/your-org/miniapp-backend/internal/auth"
	"github.com/your-org/miniapp-backend/internal/common/cache"
	"github.com/your-org/miniapp-backend/internal/config"
	userhttp "github.com/your-org/miniapp-backend/internal/features/user/delivery/http"
	redisrepo "github.com/your-org/miniapp-backend/internal/features/user/repository/redis"
	usersvc "github.com/your-org/miniapp-backend/internal/features/user/service"
	"github.com/your-org/miniapp-backend/internal/http/middleware"
	redisplatform "github.com/your-org/miniapp-backend/internal/platform/redis"
	"github.com/your-org/miniapp-backend/internal/storage"
)

// NewRouter builds the gin engine with middlewares and routes wired.
func NewRouter(pg *sql.DB, rdb *redisplatform.Client, cfg *config.Config) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		middleware.DrainErrors(),
	)

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Telegram-Init-Data", "X-Request-ID"},
		MaxAge:       12 * time.Hour,
	}
	if cfg.Server.Origin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.Server.Origin}
		corsCfg.AllowCredentials = true
	}
	router.Use(cors.New(corsCfg))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().Format(time.RFC3339)})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// User domain deps: postgres repository behind the redis cache decorator.
	store := storage.New(pg)
	repo := redisrepo.NewCachedRepository(
		store.Users,
		cache.NewService(rdb),
		redisrepo.DefaultTTL,
	)
	userService := usersvc.NewUserService(repo)

	verifier := auth.NewVerifier(cfg.Telegram.BotToken,
		auth.WithMaxAge(time.Duration(cfg.Telegram.InitDataTTL)*time.Second),
		auth.WithDebugSecret(cfg.Telegram.DebugAuthSecret),
	)

	v1 := router.Group("/api/v1", middleware.InitDataAuth(verifier))
	userhttp.NewUserHandler(userService).RegisterRoutes(v1)

	return router
}
