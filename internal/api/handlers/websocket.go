package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/service"
	"github.com/playmatatu/billiards/internal/store"
	"github.com/playmatatu/billiards/internal/ws"
)

// HandleSimulateWebSocket streams one simulation step by step
func HandleSimulateWebSocket(sim *service.Simulator) gin.HandlerFunc {
	return ws.HandleSimulateStream(sim)
}

// HandleSweepWebSocket streams progress of an existing sweep
func HandleSweepWebSocket(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if db != nil {
			if _, err := store.GetSweep(db, id); err != nil {
				c.JSON(statusFor(err), gin.H{"error": "sweep not found"})
				return
			}
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sweeps unavailable"})
			return
		}
		ws.HandleSweepWebSocket(c)
	}
}
