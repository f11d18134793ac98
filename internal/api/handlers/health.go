package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

const (
	version       = "1.0.0"
	healthTimeout = 2 * time.Second
)

// HealthCheck reports the service and the state of its backing stores. A nil
// store is reported as disabled; a store that fails its ping degrades the
// service to 503.
func HealthCheck(db *sqlx.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		components := gin.H{
			"postgres": "disabled",
			"redis":    "disabled",
		}
		healthy := true
		if db != nil {
			components["postgres"] = "ok"
			if err := db.PingContext(ctx); err != nil {
				components["postgres"] = err.Error()
				healthy = false
			}
		}
		if rdb != nil {
			components["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				components["redis"] = err.Error()
				healthy = false
			}
		}

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":     status,
			"service":    "billiards-api",
			"version":    version,
			"uptime":     time.Since(startTime).String(),
			"components": components,
		})
	}
}
