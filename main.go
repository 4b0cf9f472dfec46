package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos-api/config"
	"pos-api/logger"
	"pos-api/metrics"
	"pos-api/routes"
	"pos-api/sale"
	"pos-api/seeders"
	"pos-api/store"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel, cfg.Env); err != nil {
		log.Fatalf("logger init: %v", err)
	}

	// in-memory store by default; MySQL when DB_DSN is set
	var repo store.Repository
	if cfg.DBDSN != "" {
		db, err := store.Open(cfg.DBDSN)
		if err != nil {
			logger.Get().Fatal("database connect", zap.Error(err))
		}
		repo = db
		logger.Get().Info("using mysql store")
	} else {
		repo = store.NewMemory()
		logger.Get().Info("using in-memory store")
	}

	if err := seeders.Seed(context.Background(), repo); err != nil {
		logger.Get().Fatal("seeding", zap.Error(err))
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(), metrics.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	sales := sale.NewManager(repo)
	routes.RegisterRoutes(r, repo, sales, cfg.JWTSecret)

	logger.Get().Info("listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Get().Fatal("server", zap.Error(err))
	}
}
