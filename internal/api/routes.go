package api

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/api/handlers"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/middleware"
	rstore "github.com/playmatatu/billiards/internal/redis"
	"github.com/playmatatu/billiards/internal/service"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	cache := rstore.NewResultCache(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	sim := service.NewSimulator(cfg.MaxReflections, cache)
	auth := middleware.AuthMiddleware(cfg)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(db, rdb))
		v1.POST("/auth/token", handlers.IssueToken(db, cfg))

		// Stateless simulation
		v1.POST("/simulate", handlers.Simulate(sim))
		v1.GET("/simulate/ws", handlers.HandleSimulateWebSocket(sim))

		// Persisted runs
		runs := v1.Group("/runs")
		{
			runs.POST("", auth, handlers.CreateRun(db, sim))
			runs.GET("", handlers.ListRuns(db))
			runs.GET("/:id", handlers.GetRun(db))
		}

		// Key distribution sweeps
		sweeps := v1.Group("/sweeps")
		{
			sweeps.POST("", auth, handlers.StartSweep(db, rdb, cfg))
			sweeps.GET("/:id", handlers.GetSweep(db))
			sweeps.GET("/:id/ws", handlers.HandleSweepWebSocket(db))
		}
	}
}
