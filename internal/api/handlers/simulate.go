package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/service"
)

// Simulate runs a simulation synchronously. A run that stops before the
// requested number of reflections answers 422 with the partial result.
func Simulate(sim *service.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		resp, err := sim.Simulate(c.Request.Context(), req)
		if resp != nil && resp.Cached {
			c.Header("X-Cache", "HIT")
		} else {
			c.Header("X-Cache", "MISS")
		}
		if err != nil {
			if resp != nil {
				c.JSON(statusFor(err), resp)
				return
			}
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
