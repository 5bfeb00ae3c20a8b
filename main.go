package main

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/foodcourt-app/config"
	"github.com/yeremiapane/foodcourt-app/database"
	"github.com/yeremiapane/foodcourt-app/kds"
	"github.com/yeremiapane/foodcourt-app/middlewares"
	"github.com/yeremiapane/foodcourt-app/router"
	"github.com/yeremiapane/foodcourt-app/utils"
)

func main() {
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	if err := utils.SetLogLevel(cfg.LogLevel); err != nil {
		utils.ErrorLogger.Fatalf("Invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}

	r := router.SetupRouter(router.Options{
		DB:                db,
		Tokens:            utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
		Hub:               kds.NewHub(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       middlewares.NewRateLimiter(cfg.RateLimit, 1),
	})

	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Fatalf("Failed to set trusted proxies: %v", err)
	}

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
